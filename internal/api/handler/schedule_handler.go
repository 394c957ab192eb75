package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/service"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/response"
)

// ScheduleHandler 课表模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// List 查询课表
// GET /api/schedule?date=&from=&to=&room_number=
func (h *ScheduleHandler) List(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	entries, err := h.scheduleSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, entries)
}

// Get 单条课表
// GET /api/schedule/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	entry, err := h.scheduleSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, entry)
}

// Create 新建课表条目（冲突返回 409）
// POST /api/schedule
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.ScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.scheduleSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.Created(c, entry)
}

// Update 部分更新课表条目
// PUT /api/schedule/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req dto.UpdateScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.scheduleSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, entry)
}

// Delete 删除课表条目
// DELETE /api/schedule/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.scheduleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleScheduleError 统一处理课表模块业务错误（导入接口共用）
func handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleEntryNotFound):
		response.NotFound(c, 12101, "Schedule entry not found")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 12102, "from must not be after to")
	default:
		if handleTypedError(c, err) {
			return
		}
		response.InternalError(c, err)
	}
}
