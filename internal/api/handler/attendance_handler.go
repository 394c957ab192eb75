package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/service"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/response"
)

// AttendanceHandler 考勤 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// List GET /api/attendance?employee_id=&from=&to=
func (h *AttendanceHandler) List(c *gin.Context) {
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	list, err := h.attendanceSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CheckIn POST /api/attendance/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	h.punch(c, h.attendanceSvc.CheckIn)
}

// CheckOut POST /api/attendance/check-out
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	h.punch(c, h.attendanceSvc.CheckOut)
}

type punchFunc func(ctx context.Context, req *dto.AttendanceRequest, callerID string) (*model.Attendance, error)

func (h *AttendanceHandler) punch(c *gin.Context, fn punchFunc) {
	var req dto.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rec, err := fn(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}
	response.OK(c, rec)
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		response.BadRequest(c, 25101, "Already checked in today, check out first")
	case errors.Is(err, service.ErrNotCheckedIn):
		response.BadRequest(c, 25102, "Not checked in today")
	default:
		handleEmployeeError(c, err)
	}
}
