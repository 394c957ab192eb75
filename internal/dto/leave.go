package dto

// ── 请假模块 DTO ──

// CreateLeaveRequest 请假申请
type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Type       string `json:"type"        binding:"required,oneof=annual sick personal unpaid"`
	StartDate  string `json:"start_date"  binding:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date"    binding:"required,datetime=2006-01-02"`
	Reason     string `json:"reason"      binding:"omitempty,max=1000"`
}

// ReviewLeaveRequest 审批请求
type ReviewLeaveRequest struct {
	Approve bool    `json:"approve"`
	Note    *string `json:"note" binding:"omitempty,max=500"`
}

// LeaveListRequest 请假查询参数
type LeaveListRequest struct {
	EmployeeID string `form:"employee_id"`
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected cancelled"`
}
