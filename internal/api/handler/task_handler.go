package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/service"
	"github.com/Afnanpathan2004/livedisplay-sub001/pkg/response"
)

// TaskHandler 任务模块 HTTP 处理器
type TaskHandler struct {
	svc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(svc service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// List GET /api/tasks?status=&assignedTo=
func (h *TaskHandler) List(c *gin.Context) {
	var req dto.TaskListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	tasks, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, tasks)
}

// Get GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, task)
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	task, err := h.svc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.Created(c, task)
}

// Update PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	task, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, task)
}

// Delete DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, nil)
}

// Complete 标记完成（负责人或 task:write）
// PATCH /api/tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	task, err := h.svc.Complete(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, task)
}

func (h *TaskHandler) handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 14101, "Task not found")
	case errors.Is(err, service.ErrTaskForbidden):
		response.Forbidden(c, 14102, "Only the assignee or a task editor can complete this task")
	default:
		if handleTypedError(c, err) {
			return
		}
		response.InternalError(c, err)
	}
}
