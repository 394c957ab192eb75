package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/service"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/response"
)

// AnnouncementHandler 公告模块 HTTP 处理器
type AnnouncementHandler struct {
	svc service.AnnouncementService
}

// NewAnnouncementHandler 创建 AnnouncementHandler
func NewAnnouncementHandler(svc service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc}
}

// List GET /api/announcements?active=true
func (h *AnnouncementHandler) List(c *gin.Context) {
	var req dto.AnnouncementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.svc.List(c.Request.Context(), req.Active)
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}
	response.OK(c, list)
}

// Get GET /api/announcements/:id
func (h *AnnouncementHandler) Get(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}
	response.OK(c, a)
}

// Create POST /api/announcements
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	a, err := h.svc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}
	response.Created(c, a)
}

// Update PUT /api/announcements/:id
func (h *AnnouncementHandler) Update(c *gin.Context) {
	var req dto.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	a, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}
	response.OK(c, a)
}

// Delete DELETE /api/announcements/:id
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleAnnouncementError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *AnnouncementHandler) handleAnnouncementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAnnouncementNotFound):
		response.NotFound(c, 13101, "Announcement not found")
	default:
		if handleTypedError(c, err) {
			return
		}
		response.InternalError(c, err)
	}
}
