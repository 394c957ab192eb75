package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/service"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/response"
)

// RoomHandler 教室模块 HTTP 处理器
type RoomHandler struct {
	roomSvc    service.RoomService
	bookingSvc service.BookingService
}

// NewRoomHandler 创建 RoomHandler
func NewRoomHandler(roomSvc service.RoomService, bookingSvc service.BookingService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc, bookingSvc: bookingSvc}
}

// List 教室列表
// GET /api/rooms
func (h *RoomHandler) List(c *gin.Context) {
	var req dto.RoomListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	rooms, err := h.roomSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleRoomError(c, err)
		return
	}

	response.OK(c, gin.H{"list": rooms})
}

// Get 教室详情
// GET /api/rooms/:id
func (h *RoomHandler) Get(c *gin.Context) {
	room, err := h.roomSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleRoomError(c, err)
		return
	}

	response.OK(c, room)
}

// Availability 教室在日期区间内的有效预订
// GET /api/rooms/:id/availability?from=&to=
func (h *RoomHandler) Availability(c *gin.Context) {
	var req dto.RoomAvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	bookings, err := h.bookingSvc.Availability(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleRoomError(c, err)
		return
	}

	response.OK(c, gin.H{"list": bookings})
}

// Create 新建教室
// POST /api/rooms
func (h *RoomHandler) Create(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	room, err := h.roomSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleRoomError(c, err)
		return
	}

	response.Created(c, room)
}

// Update 更新教室
// PUT /api/rooms/:id
func (h *RoomHandler) Update(c *gin.Context) {
	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	room, err := h.roomSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleRoomError(c, err)
		return
	}

	response.OK(c, room)
}

// Delete 删除教室
// DELETE /api/rooms/:id
func (h *RoomHandler) Delete(c *gin.Context) {
	if err := h.roomSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleRoomError(c, err)
		return
	}

	response.OK(c, nil)
}

func handleRoomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 21101, "Room not found")
	case errors.Is(err, service.ErrRoomNumberTaken):
		response.Error(c, http.StatusConflict, 21102, "Room number already exists")
	case errors.Is(err, service.ErrRoomInUse):
		response.Error(c, http.StatusConflict, 21103, "Room has upcoming bookings")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 12102, "from must not be after to")
	default:
		if handleTypedError(c, err) {
			return
		}
		response.InternalError(c, err)
	}
}
