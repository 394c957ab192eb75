package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/service"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/response"
)

// BookingHandler 教室预订 HTTP 处理器
type BookingHandler struct {
	bookingSvc service.BookingService
}

// NewBookingHandler 创建 BookingHandler
func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

// List GET /api/bookings?room_id=&date=&status=&mine=true
func (h *BookingHandler) List(c *gin.Context) {
	var req dto.BookingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	list, err := h.bookingSvc.List(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Get GET /api/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.bookingSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleBookingError(c, err)
		return
	}
	response.OK(c, b)
}

// Create 预订教室（与已有预订或课表重叠时 409）
// POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	b, err := h.bookingSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}
	response.Created(c, b)
}

// Cancel 取消预订（预订人或管理员）
// POST /api/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	b, err := h.bookingSvc.Cancel(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}
	response.OK(c, b)
}

func (h *BookingHandler) handleBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookingNotFound):
		response.NotFound(c, 22101, "Booking not found")
	case errors.Is(err, service.ErrBookingRoomUnavailable):
		response.BadRequest(c, 22102, "Room is not available for booking")
	case errors.Is(err, service.ErrBookingCancelled):
		response.BadRequest(c, 22103, "Booking is already cancelled")
	case errors.Is(err, service.ErrBookingForbidden):
		response.Forbidden(c, 22104, "Only the booker or an admin can cancel this booking")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 21101, "Room not found")
	default:
		if handleTypedError(c, err) {
			return
		}
		response.InternalError(c, err)
	}
}
