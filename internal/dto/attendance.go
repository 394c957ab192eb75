package dto

// ── 考勤模块 DTO ──

// AttendanceRequest 签到 / 签退请求
type AttendanceRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required"`
	Notes      *string `json:"notes"       binding:"omitempty,max=500"`
}

// AttendanceListRequest 考勤查询参数
type AttendanceListRequest struct {
	EmployeeID string `form:"employee_id"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to"   binding:"omitempty,datetime=2006-01-02"`
}
