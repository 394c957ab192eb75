package model

import "time"

// 任务状态
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// Task 任务 — 对应 tasks
type Task struct {
	ID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Description *string    `gorm:"type:text"                                      json:"description,omitempty"`
	AssignedTo  *string    `gorm:"type:varchar(100);index"                        json:"assignedTo,omitempty"` // 用户名
	Room        *string    `gorm:"type:varchar(20)"                               json:"room,omitempty"`
	DueTime     *time.Time `                                                      json:"dueTime,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	CreatedByID string     `gorm:"type:uuid;not null"                             json:"createdById"`
	CreatedAt   time.Time  `gorm:"not null"                                       json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null"                                       json:"updatedAt"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }
