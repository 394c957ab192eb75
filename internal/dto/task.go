package dto

import "time"

// ── 任务模块 DTO ──

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Title       string     `json:"title"       binding:"required,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	AssignedTo  *string    `json:"assignedTo"  binding:"omitempty,max=100"`
	Room        *string    `json:"room"        binding:"omitempty,max=20"`
	DueTime     *time.Time `json:"dueTime"`
}

// UpdateTaskRequest 更新任务请求
type UpdateTaskRequest struct {
	Title       *string    `json:"title"       binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	AssignedTo  *string    `json:"assignedTo"  binding:"omitempty,max=100"`
	Room        *string    `json:"room"        binding:"omitempty,max=20"`
	DueTime     *time.Time `json:"dueTime"`
	Status      *string    `json:"status"      binding:"omitempty,oneof=pending in_progress completed cancelled"`
}

// TaskListRequest 任务查询参数
type TaskListRequest struct {
	Status           string `form:"status"      binding:"omitempty,oneof=pending in_progress completed cancelled"`
	AssignedTo       string `form:"assignedTo"  binding:"omitempty,max=100"`
	AssignedToLegacy string `form:"assigned_to" binding:"omitempty,max=100"` // 兼容旧版查询键
}

// Assignee 优先使用 assignedTo
func (r *TaskListRequest) Assignee() string {
	if r.AssignedTo != "" {
		return r.AssignedTo
	}
	return r.AssignedToLegacy
}

// TaskEvent task:update 广播负载
type TaskEvent struct {
	Action string      `json:"action"` // created | updated | completed | deleted
	Task   interface{} `json:"task,omitempty"`
	TaskID string      `json:"taskId,omitempty"`
}
