package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/service"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/response"
)

// VisitorHandler 访客登记 HTTP 处理器
type VisitorHandler struct {
	visitorSvc service.VisitorService
}

// NewVisitorHandler 创建 VisitorHandler
func NewVisitorHandler(visitorSvc service.VisitorService) *VisitorHandler {
	return &VisitorHandler{visitorSvc: visitorSvc}
}

// List GET /api/visitors
func (h *VisitorHandler) List(c *gin.Context) {
	var req dto.VisitorListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, total, err := h.visitorSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleVisitorError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get GET /api/visitors/:id
func (h *VisitorHandler) Get(c *gin.Context) {
	v, err := h.visitorSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleVisitorError(c, err)
		return
	}
	response.OK(c, v)
}

// Register 访客预登记
// POST /api/visitors
func (h *VisitorHandler) Register(c *gin.Context) {
	var req dto.RegisterVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	v, err := h.visitorSvc.Register(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleVisitorError(c, err)
		return
	}
	response.Created(c, v)
}

// CheckIn POST /api/visitors/:id/check-in
func (h *VisitorHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInVisitorRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindFailed(c, err)
			return
		}
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	v, err := h.visitorSvc.CheckIn(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleVisitorError(c, err)
		return
	}
	response.OK(c, v)
}

// CheckOut POST /api/visitors/:id/check-out
func (h *VisitorHandler) CheckOut(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	v, err := h.visitorSvc.CheckOut(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleVisitorError(c, err)
		return
	}
	response.OK(c, v)
}

// Cancel POST /api/visitors/:id/cancel
func (h *VisitorHandler) Cancel(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	v, err := h.visitorSvc.Cancel(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleVisitorError(c, err)
		return
	}
	response.OK(c, v)
}

func (h *VisitorHandler) handleVisitorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVisitorNotFound):
		response.NotFound(c, 23101, "Visitor not found")
	case errors.Is(err, service.ErrVisitorStateInvalid):
		response.BadRequest(c, 23102, "Visitor status does not allow this action")
	default:
		handleEmployeeError(c, err)
	}
}
