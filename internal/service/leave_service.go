package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
	apperrors "github.com/Afnanpathan2004/livedisplay-sub001/pkg/errors"
)

// ── 请假模块业务错误 ──

var (
	ErrLeaveNotFound   = errors.New("请假申请不存在")
	ErrLeaveNotPending = errors.New("只有待审批的申请可以处理")
)

// LeaveService 请假业务接口
//
// 设计说明：
//   - 同一员工 pending / approved 的请假区间不得重叠（按自然日闭区间）
//   - 审批结果会给员工关联的登录账号发送站内通知
type LeaveService interface {
	Create(ctx context.Context, req *dto.CreateLeaveRequest, callerID string) (*model.LeaveRequest, error)
	Get(ctx context.Context, id string) (*model.LeaveRequest, error)
	List(ctx context.Context, req *dto.LeaveListRequest) ([]model.LeaveRequest, error)
	Review(ctx context.Context, id string, req *dto.ReviewLeaveRequest, reviewerID string) (*model.LeaveRequest, error)
	Cancel(ctx context.Context, id string, callerID string) (*model.LeaveRequest, error)
}

type leaveService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewLeaveService 创建 LeaveService 实例
func NewLeaveService(repo *repository.Repository, logger *zap.Logger) LeaveService {
	return &leaveService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *leaveService) Create(ctx context.Context, req *dto.CreateLeaveRequest, callerID string) (*model.LeaveRequest, error) {
	ve := apperrors.NewValidationError()
	if !validDate(req.StartDate) {
		ve.Add("start_date", "must be a valid date in YYYY-MM-DD format")
	}
	if !validDate(req.EndDate) {
		ve.Add("end_date", "must be a valid date in YYYY-MM-DD format")
	}
	if !ve.HasErrors() && req.EndDate < req.StartDate {
		ve.Add("end_date", "must not be before start_date")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	emp, err := activeEmployee(ctx, s.repo, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.LeaveRequest.List(ctx, repository.LeaveFilter{EmployeeID: emp.ID})
	if err != nil {
		s.logger.Error("查询请假记录失败", zap.String("employee_id", emp.ID), zap.Error(err))
		return nil, err
	}
	for i := range existing {
		l := &existing[i]
		if l.Status != model.LeaveStatusPending && l.Status != model.LeaveStatusApproved {
			continue
		}
		// 日期为定长 YYYY-MM-DD，字符串比较即日期比较
		if req.StartDate <= l.EndDate && req.EndDate >= l.StartDate {
			return nil, &apperrors.ConflictError{
				Message:     fmt.Sprintf("Leave overlaps with an existing %s request from %s to %s", l.Status, l.StartDate, l.EndDate),
				Conflicting: l,
			}
		}
	}

	now := s.now()
	leave := &model.LeaveRequest{
		EmployeeID: emp.ID,
		Type:       req.Type,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     model.LeaveStatusPending,
	}
	leave.CreatedAt = now
	leave.CreatedBy = &callerID
	leave.Touch(callerID, now)

	if err := s.repo.LeaveRequest.Create(ctx, leave); err != nil {
		s.logger.Error("创建请假申请失败", zap.Error(err))
		return nil, err
	}
	return leave, nil
}

// ────────────────────── Get / List ──────────────────────

func (s *leaveService) Get(ctx context.Context, id string) (*model.LeaveRequest, error) {
	l, err := s.repo.LeaveRequest.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrLeaveNotFound
		}
		s.logger.Error("查询请假申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return l, nil
}

func (s *leaveService) List(ctx context.Context, req *dto.LeaveListRequest) ([]model.LeaveRequest, error) {
	list, err := s.repo.LeaveRequest.List(ctx, repository.LeaveFilter{
		EmployeeID: req.EmployeeID,
		Status:     req.Status,
	})
	if err != nil {
		s.logger.Error("列出请假申请失败", zap.Error(err))
		return nil, err
	}
	if list == nil {
		list = []model.LeaveRequest{}
	}
	return list, nil
}

// ────────────────────── Review / Cancel ──────────────────────

func (s *leaveService) Review(ctx context.Context, id string, req *dto.ReviewLeaveRequest, reviewerID string) (*model.LeaveRequest, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != model.LeaveStatusPending {
		return nil, ErrLeaveNotPending
	}

	now := s.now()
	l.Status = model.LeaveStatusRejected
	if req.Approve {
		l.Status = model.LeaveStatusApproved
	}
	l.ReviewedBy = &reviewerID
	l.ReviewedAt = &now
	l.ReviewNote = trimOptional(req.Note)
	l.Touch(reviewerID, now)

	if err := s.repo.LeaveRequest.Update(ctx, l); err != nil {
		if isNotFound(err) {
			return nil, ErrLeaveNotFound
		}
		s.logger.Error("审批请假申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.notifyEmployee(ctx, l, reviewerID)
	return l, nil
}

func (s *leaveService) Cancel(ctx context.Context, id string, callerID string) (*model.LeaveRequest, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != model.LeaveStatusPending {
		return nil, ErrLeaveNotPending
	}

	l.Status = model.LeaveStatusCancelled
	l.Touch(callerID, s.now())
	if err := s.repo.LeaveRequest.Update(ctx, l); err != nil {
		if isNotFound(err) {
			return nil, ErrLeaveNotFound
		}
		s.logger.Error("取消请假申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return l, nil
}

// notifyEmployee 审批结果站内通知，失败只记录日志
func (s *leaveService) notifyEmployee(ctx context.Context, l *model.LeaveRequest, reviewerID string) {
	emp, err := s.repo.Employee.GetByID(ctx, l.EmployeeID)
	if err != nil || emp.UserID == nil {
		return
	}

	now := s.now()
	n := &model.Notification{
		UserID:      *emp.UserID,
		Type:        "leave_" + l.Status,
		Title:       "Leave request " + l.Status,
		Content:     fmt.Sprintf("Your %s leave from %s to %s was %s.", l.Type, l.StartDate, l.EndDate, l.Status),
		RelatedType: strPtr("leave"),
		RelatedID:   &l.ID,
	}
	n.CreatedAt = now
	n.CreatedBy = &reviewerID
	n.Touch(reviewerID, now)

	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.logger.Warn("发送请假审批通知失败", zap.String("leave_id", l.ID), zap.Error(err))
	}
}
