package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/rbac"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/realtime"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
	apperrors "github.com/Afnanpathan2004/livedisplay-sub001/pkg/errors"
)

// ── 任务模块业务错误 ──

var (
	ErrTaskNotFound  = errors.New("任务不存在")
	ErrTaskForbidden = errors.New("只有任务负责人或具备 task:write 权限的用户可以完成任务")
)

// 任务广播动作
const (
	TaskActionCreated   = "created"
	TaskActionUpdated   = "updated"
	TaskActionCompleted = "completed"
	TaskActionDeleted   = "deleted"
)

// Caller 当前请求者身份（由 JWT 中间件解析）
type Caller struct {
	ID       string
	Username string
	Role     string
}

// TaskService 任务业务接口
type TaskService interface {
	Create(ctx context.Context, req *dto.CreateTaskRequest, callerID string) (*model.Task, error)
	Get(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context, req *dto.TaskListRequest) ([]model.Task, error)
	Update(ctx context.Context, id string, req *dto.UpdateTaskRequest) (*model.Task, error)
	Delete(ctx context.Context, id string) error
	// Complete 持有 task:write 权限或用户名与 assignedTo 一致时允许
	Complete(ctx context.Context, id string, caller Caller) (*model.Task, error)
}

type taskService struct {
	repo    *repository.Repository
	emitter realtime.Emitter
	logger  *zap.Logger
	now     func() time.Time
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, emitter realtime.Emitter, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, emitter: emitter, logger: logger, now: time.Now}
}

// trimOptional 空白字符串视为未设置
func trimOptional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// ────────────────────── Create ──────────────────────

func (s *taskService) Create(ctx context.Context, req *dto.CreateTaskRequest, callerID string) (*model.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "title", Message: "is required"})
	}

	now := s.now()
	task := &model.Task{
		Title:       title,
		Description: trimOptional(req.Description),
		AssignedTo:  trimOptional(req.AssignedTo),
		Room:        trimOptional(req.Room),
		DueTime:     req.DueTime,
		Status:      model.TaskStatusPending,
		CreatedByID: callerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Task.Create(ctx, task); err != nil {
		s.logger.Error("创建任务失败", zap.Error(err))
		return nil, err
	}

	s.emitter.Emit(realtime.EventTaskUpdate, dto.TaskEvent{Action: TaskActionCreated, Task: task})
	return task, nil
}

// ────────────────────── Get ──────────────────────

func (s *taskService) Get(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return task, nil
}

// ────────────────────── List ──────────────────────

func (s *taskService) List(ctx context.Context, req *dto.TaskListRequest) ([]model.Task, error) {
	tasks, err := s.repo.Task.List(ctx, repository.TaskFilter{
		Status:     req.Status,
		AssignedTo: req.Assignee(),
	})
	if err != nil {
		s.logger.Error("列出任务失败", zap.Error(err))
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// ────────────────────── Update ──────────────────────

func (s *taskService) Update(ctx context.Context, id string, req *dto.UpdateTaskRequest) (*model.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "title", Message: "is required"})
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = trimOptional(req.Description)
	}
	if req.AssignedTo != nil {
		task.AssignedTo = trimOptional(req.AssignedTo)
	}
	if req.Room != nil {
		task.Room = trimOptional(req.Room)
	}
	if req.DueTime != nil {
		task.DueTime = req.DueTime
	}
	action := TaskActionUpdated
	if req.Status != nil {
		if *req.Status == model.TaskStatusCompleted && task.Status != model.TaskStatusCompleted {
			action = TaskActionCompleted
		}
		task.Status = *req.Status
	}

	return s.save(ctx, task, action)
}

// ────────────────────── Complete ──────────────────────

func (s *taskService) Complete(ctx context.Context, id string, caller Caller) (*model.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	assignee := task.AssignedTo != nil && caller.Username != "" && *task.AssignedTo == caller.Username
	if !assignee && !rbac.Has(caller.Role, rbac.TaskWrite) {
		return nil, ErrTaskForbidden
	}

	task.Status = model.TaskStatusCompleted
	return s.save(ctx, task, TaskActionCompleted)
}

func (s *taskService) save(ctx context.Context, task *model.Task, action string) (*model.Task, error) {
	task.UpdatedAt = s.now()
	if err := s.repo.Task.Update(ctx, task); err != nil {
		if isNotFound(err) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("更新任务失败", zap.String("id", task.ID), zap.Error(err))
		return nil, err
	}

	s.emitter.Emit(realtime.EventTaskUpdate, dto.TaskEvent{Action: action, Task: task})
	return task, nil
}

// ────────────────────── Delete ──────────────────────

func (s *taskService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Task.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrTaskNotFound
		}
		s.logger.Error("删除任务失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.emitter.Emit(realtime.EventTaskUpdate, dto.TaskEvent{Action: TaskActionDeleted, TaskID: id})
	return nil
}
