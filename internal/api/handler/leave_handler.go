package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/service"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/response"
)

// LeaveHandler 请假模块 HTTP 处理器
type LeaveHandler struct {
	leaveSvc service.LeaveService
}

// NewLeaveHandler 创建 LeaveHandler
func NewLeaveHandler(leaveSvc service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc}
}

// List GET /api/leave?employee_id=&status=
func (h *LeaveHandler) List(c *gin.Context) {
	var req dto.LeaveListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.leaveSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Get GET /api/leave/:id
func (h *LeaveHandler) Get(c *gin.Context) {
	l, err := h.leaveSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}
	response.OK(c, l)
}

// Create 提交请假申请
// POST /api/leave
func (h *LeaveHandler) Create(c *gin.Context) {
	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	l, err := h.leaveSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}
	response.Created(c, l)
}

// Review 审批（通过 / 驳回），仅待审批状态可处理
// POST /api/leave/:id/review
func (h *LeaveHandler) Review(c *gin.Context) {
	var req dto.ReviewLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	l, err := h.leaveSvc.Review(c.Request.Context(), c.Param("id"), &req, reviewerID)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}
	response.OK(c, l)
}

// Cancel 撤回待审批申请
// POST /api/leave/:id/cancel
func (h *LeaveHandler) Cancel(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	l, err := h.leaveSvc.Cancel(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}
	response.OK(c, l)
}

func (h *LeaveHandler) handleLeaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLeaveNotFound):
		response.NotFound(c, 26101, "Leave request not found")
	case errors.Is(err, service.ErrLeaveNotPending):
		response.BadRequest(c, 26102, "Only pending leave requests can be changed")
	default:
		handleEmployeeError(c, err)
	}
}
