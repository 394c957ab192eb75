package dto

import "time"

// ── 访客模块 DTO ──

// RegisterVisitorRequest 访客预登记
type RegisterVisitorRequest struct {
	Name           string     `json:"name"             binding:"required,max=100"`
	Company        *string    `json:"company"          binding:"omitempty,max=100"`
	Email          *string    `json:"email"            binding:"omitempty,email"`
	Phone          *string    `json:"phone"            binding:"omitempty,max=30"`
	Purpose        string     `json:"purpose"          binding:"required,max=200"`
	HostEmployeeID *string    `json:"host_employee_id" binding:"omitempty"`
	ExpectedAt     *time.Time `json:"expected_at"`
}

// CheckInVisitorRequest 访客签到
type CheckInVisitorRequest struct {
	BadgeNumber *string `json:"badge_number" binding:"omitempty,max=30"`
}

// VisitorListRequest 访客查询参数
type VisitorListRequest struct {
	PaginationRequest
	Status         string `form:"status" binding:"omitempty,oneof=expected checked_in checked_out cancelled"`
	HostEmployeeID string `form:"host_employee_id"`
}
