package model

import "time"

// 请假类型与状态
const (
	LeaveTypeAnnual   = "annual"
	LeaveTypeSick     = "sick"
	LeaveTypePersonal = "personal"
	LeaveTypeUnpaid   = "unpaid"

	LeaveStatusPending   = "pending"
	LeaveStatusApproved  = "approved"
	LeaveStatusRejected  = "rejected"
	LeaveStatusCancelled = "cancelled"
)

// LeaveRequest 请假申请 — 对应 leave_requests
type LeaveRequest struct {
	ID         string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID string     `gorm:"type:uuid;not null;index"                       json:"employee_id"`
	Type       string     `gorm:"type:varchar(20);not null"                      json:"type"`
	StartDate  string     `gorm:"type:varchar(10);not null"                             json:"start_date"`
	EndDate    string     `gorm:"type:varchar(10);not null"                             json:"end_date"`
	Reason     string     `gorm:"type:text"                                      json:"reason"`
	Status     string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	ReviewedBy *string    `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `                                                      json:"reviewed_at,omitempty"`
	ReviewNote *string    `gorm:"type:text"                                      json:"review_note,omitempty"`
	BaseModel
}

// TableName 指定表名
func (LeaveRequest) TableName() string { return "leave_requests" }
