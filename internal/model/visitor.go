package model

import "time"

// 访客状态
const (
	VisitorStatusExpected   = "expected"
	VisitorStatusCheckedIn  = "checked_in"
	VisitorStatusCheckedOut = "checked_out"
	VisitorStatusCancelled  = "cancelled"
)

// Visitor 访客登记 — 对应 visitors
type Visitor struct {
	ID             string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string     `gorm:"type:varchar(100);not null"                     json:"name"`
	Company        *string    `gorm:"type:varchar(100)"                              json:"company,omitempty"`
	Email          *string    `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Phone          *string    `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	Purpose        string     `gorm:"type:varchar(200);not null"                     json:"purpose"`
	HostEmployeeID *string    `gorm:"type:uuid"                                      json:"host_employee_id,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'expected'"   json:"status"`
	ExpectedAt     *time.Time `                                                      json:"expected_at,omitempty"`
	CheckInAt      *time.Time `                                                      json:"check_in_at,omitempty"`
	CheckOutAt     *time.Time `                                                      json:"check_out_at,omitempty"`
	BadgeNumber    *string    `gorm:"type:varchar(30)"                               json:"badge_number,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Visitor) TableName() string { return "visitors" }
