package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/realtime"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
)

// ── 访客模块业务错误 ──

var (
	ErrVisitorNotFound     = errors.New("访客记录不存在")
	ErrVisitorStateInvalid = errors.New("访客当前状态不允许该操作")
)

// VisitorService 访客登记业务接口
//
// 状态流转：expected → checked_in → checked_out；expected 可取消
type VisitorService interface {
	Register(ctx context.Context, req *dto.RegisterVisitorRequest, callerID string) (*model.Visitor, error)
	Get(ctx context.Context, id string) (*model.Visitor, error)
	List(ctx context.Context, req *dto.VisitorListRequest) ([]model.Visitor, int64, error)
	CheckIn(ctx context.Context, id string, req *dto.CheckInVisitorRequest, callerID string) (*model.Visitor, error)
	CheckOut(ctx context.Context, id string, callerID string) (*model.Visitor, error)
	Cancel(ctx context.Context, id string, callerID string) (*model.Visitor, error)
}

type visitorService struct {
	repo    *repository.Repository
	emitter realtime.Emitter
	logger  *zap.Logger
	now     func() time.Time
}

// NewVisitorService 创建 VisitorService 实例
func NewVisitorService(repo *repository.Repository, emitter realtime.Emitter, logger *zap.Logger) VisitorService {
	return &visitorService{repo: repo, emitter: emitter, logger: logger, now: time.Now}
}

func (s *visitorService) Register(ctx context.Context, req *dto.RegisterVisitorRequest, callerID string) (*model.Visitor, error) {
	host := trimOptional(req.HostEmployeeID)
	if host != nil {
		if _, err := s.repo.Employee.GetByID(ctx, *host); err != nil {
			if isNotFound(err) {
				return nil, ErrEmployeeNotFound
			}
			return nil, err
		}
	}

	now := s.now()
	v := &model.Visitor{
		Name:           strings.TrimSpace(req.Name),
		Company:        trimOptional(req.Company),
		Email:          trimOptional(req.Email),
		Phone:          trimOptional(req.Phone),
		Purpose:        strings.TrimSpace(req.Purpose),
		HostEmployeeID: host,
		Status:         model.VisitorStatusExpected,
		ExpectedAt:     req.ExpectedAt,
	}
	v.CreatedAt = now
	v.CreatedBy = &callerID
	v.Touch(callerID, now)

	if err := s.repo.Visitor.Create(ctx, v); err != nil {
		s.logger.Error("登记访客失败", zap.Error(err))
		return nil, err
	}

	s.emitter.Emit(realtime.EventVisitorUpdate, v)
	return v, nil
}

func (s *visitorService) Get(ctx context.Context, id string) (*model.Visitor, error) {
	v, err := s.repo.Visitor.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrVisitorNotFound
		}
		s.logger.Error("查询访客失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return v, nil
}

func (s *visitorService) List(ctx context.Context, req *dto.VisitorListRequest) ([]model.Visitor, int64, error) {
	list, total, err := s.repo.Visitor.List(ctx, repository.VisitorFilter{
		Status:         req.Status,
		HostEmployeeID: req.HostEmployeeID,
		Offset:         req.GetOffset(),
		Limit:          req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("列出访客失败", zap.Error(err))
		return nil, 0, err
	}
	if list == nil {
		list = []model.Visitor{}
	}
	return list, total, nil
}

func (s *visitorService) CheckIn(ctx context.Context, id string, req *dto.CheckInVisitorRequest, callerID string) (*model.Visitor, error) {
	return s.transition(ctx, id, callerID, model.VisitorStatusExpected, func(v *model.Visitor, now time.Time) {
		v.Status = model.VisitorStatusCheckedIn
		v.CheckInAt = &now
		if req != nil {
			v.BadgeNumber = trimOptional(req.BadgeNumber)
		}
	})
}

func (s *visitorService) CheckOut(ctx context.Context, id string, callerID string) (*model.Visitor, error) {
	return s.transition(ctx, id, callerID, model.VisitorStatusCheckedIn, func(v *model.Visitor, now time.Time) {
		v.Status = model.VisitorStatusCheckedOut
		v.CheckOutAt = &now
	})
}

func (s *visitorService) Cancel(ctx context.Context, id string, callerID string) (*model.Visitor, error) {
	return s.transition(ctx, id, callerID, model.VisitorStatusExpected, func(v *model.Visitor, _ time.Time) {
		v.Status = model.VisitorStatusCancelled
	})
}

// transition 校验前置状态后执行状态变更并广播
func (s *visitorService) transition(ctx context.Context, id, callerID, from string, apply func(*model.Visitor, time.Time)) (*model.Visitor, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Status != from {
		return nil, ErrVisitorStateInvalid
	}

	now := s.now()
	apply(v, now)
	v.Touch(callerID, now)

	if err := s.repo.Visitor.Update(ctx, v); err != nil {
		if isNotFound(err) {
			return nil, ErrVisitorNotFound
		}
		s.logger.Error("更新访客状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.emitter.Emit(realtime.EventVisitorUpdate, v)
	return v, nil
}
