package model

import "time"

// Attendance 考勤记录 — 对应 attendance
// 每名员工同一天最多一条未签退记录
type Attendance struct {
	ID         string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID string     `gorm:"type:uuid;not null;index:idx_attendance_emp_date" json:"employee_id"`
	Date       string     `gorm:"type:varchar(10);not null;index:idx_attendance_emp_date"  json:"date"`
	CheckIn    time.Time  `gorm:"not null"                                          json:"check_in"`
	CheckOut   *time.Time `                                                         json:"check_out,omitempty"`
	Notes      *string    `gorm:"type:text"                                         json:"notes,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Attendance) TableName() string { return "attendance" }

// Open 是否尚未签退
func (a *Attendance) Open() bool { return a.CheckOut == nil }
