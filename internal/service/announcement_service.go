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
	apperrors "github.com/Afnanpathan2004/livedisplay-sub001/pkg/errors"
)

// ── 公告模块业务错误 ──

var (
	ErrAnnouncementNotFound = errors.New("公告不存在")
)

// AnnouncementService 公告业务接口
type AnnouncementService interface {
	Create(ctx context.Context, req *dto.CreateAnnouncementRequest, callerID string) (*model.Announcement, error)
	Get(ctx context.Context, id string) (*model.Announcement, error)
	List(ctx context.Context, active *bool) ([]model.Announcement, error)
	Update(ctx context.Context, id string, req *dto.UpdateAnnouncementRequest, callerID string) (*model.Announcement, error)
	Delete(ctx context.Context, id string) error
}

type announcementService struct {
	repo    *repository.Repository
	emitter realtime.Emitter
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnnouncementService 创建 AnnouncementService 实例
func NewAnnouncementService(repo *repository.Repository, emitter realtime.Emitter, logger *zap.Logger) AnnouncementService {
	return &announcementService{repo: repo, emitter: emitter, logger: logger, now: time.Now}
}

func blankMessage() error {
	return apperrors.NewValidationError(apperrors.FieldError{Field: "message", Message: "is required"})
}

// ────────────────────── Create ──────────────────────

func (s *announcementService) Create(ctx context.Context, req *dto.CreateAnnouncementRequest, callerID string) (*model.Announcement, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, blankMessage()
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	a := &model.Announcement{
		Message:   msg,
		Active:    active,
		Timestamp: s.now(),
	}
	if callerID != "" {
		a.CreatedBy = &callerID
		a.UpdatedBy = &callerID
	}

	if err := s.repo.Announcement.Create(ctx, a); err != nil {
		s.logger.Error("创建公告失败", zap.Error(err))
		return nil, err
	}

	s.emitter.Emit(realtime.EventAnnouncementUpdate, a)
	return a, nil
}

// ────────────────────── Get ──────────────────────

func (s *announcementService) Get(ctx context.Context, id string) (*model.Announcement, error) {
	a, err := s.repo.Announcement.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAnnouncementNotFound
		}
		s.logger.Error("查询公告失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return a, nil
}

// ────────────────────── List ──────────────────────

func (s *announcementService) List(ctx context.Context, active *bool) ([]model.Announcement, error) {
	list, err := s.repo.Announcement.List(ctx, active)
	if err != nil {
		s.logger.Error("列出公告失败", zap.Error(err))
		return nil, err
	}
	if list == nil {
		list = []model.Announcement{}
	}
	return list, nil
}

// ────────────────────── Update ──────────────────────

func (s *announcementService) Update(ctx context.Context, id string, req *dto.UpdateAnnouncementRequest, callerID string) (*model.Announcement, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Message != nil {
		msg := strings.TrimSpace(*req.Message)
		if msg == "" {
			return nil, blankMessage()
		}
		a.Message = msg
	}
	if req.Active != nil {
		a.Active = *req.Active
	}
	a.Timestamp = s.now()
	if callerID != "" {
		a.UpdatedBy = &callerID
	}

	if err := s.repo.Announcement.Update(ctx, a); err != nil {
		if isNotFound(err) {
			return nil, ErrAnnouncementNotFound
		}
		s.logger.Error("更新公告失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.emitter.Emit(realtime.EventAnnouncementUpdate, a)
	return a, nil
}

// ────────────────────── Delete ──────────────────────

func (s *announcementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Announcement.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrAnnouncementNotFound
		}
		s.logger.Error("删除公告失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.emitter.Emit(realtime.EventAnnouncementUpdate, dto.AnnouncementDeleted{ID: id, Deleted: true})
	return nil
}
