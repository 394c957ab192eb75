package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
	apperrors "github.com/Afnanpathan2004/livedisplay-sub001/pkg/errors"
)

// ── 教室模块业务错误 ──

var (
	ErrRoomNotFound    = errors.New("教室不存在")
	ErrRoomNumberTaken = errors.New("教室编号已存在")
	ErrRoomInUse       = errors.New("教室仍有有效预订，无法删除")
)

// RoomService 教室业务接口
type RoomService interface {
	Create(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*model.Room, error)
	Get(ctx context.Context, id string) (*model.Room, error)
	List(ctx context.Context, req *dto.RoomListRequest) ([]model.Room, error)
	Update(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*model.Room, error)
	Delete(ctx context.Context, id string) error
}

type roomService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewRoomService 创建 RoomService 实例
func NewRoomService(repo *repository.Repository, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *roomService) Create(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*model.Room, error) {
	number := strings.TrimSpace(req.RoomNumber)
	if number == "" {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "room_number", Message: "is required"})
	}

	roomType := req.Type
	if roomType == "" {
		roomType = "classroom"
	}
	now := s.now()
	room := &model.Room{
		RoomNumber: number,
		Name:       strings.TrimSpace(req.Name),
		Building:   strings.TrimSpace(req.Building),
		Floor:      req.Floor,
		Capacity:   req.Capacity,
		Type:       roomType,
		Status:     model.RoomStatusAvailable,
		Amenities:  append(model.StringArray{}, req.Amenities...),
	}
	room.CreatedAt = now
	room.CreatedBy = &callerID
	room.Touch(callerID, now)

	if err := s.repo.Room.Create(ctx, room); err != nil {
		if isDuplicate(err) {
			return nil, ErrRoomNumberTaken
		}
		s.logger.Error("创建教室失败", zap.Error(err))
		return nil, err
	}
	return room, nil
}

// ────────────────────── Get / List ──────────────────────

func (s *roomService) Get(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return room, nil
}

func (s *roomService) List(ctx context.Context, req *dto.RoomListRequest) ([]model.Room, error) {
	rooms, err := s.repo.Room.List(ctx, repository.RoomFilter{
		Building:    req.Building,
		Status:      req.Status,
		MinCapacity: req.MinCapacity,
	})
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, err
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	return rooms, nil
}

// ────────────────────── Update ──────────────────────

func (s *roomService) Update(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*model.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		room.Name = strings.TrimSpace(*req.Name)
	}
	if req.Building != nil {
		room.Building = strings.TrimSpace(*req.Building)
	}
	if req.Floor != nil {
		room.Floor = *req.Floor
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Type != nil {
		room.Type = *req.Type
	}
	if req.Status != nil {
		room.Status = *req.Status
	}
	if req.Amenities != nil {
		room.Amenities = append(model.StringArray{}, (*req.Amenities)...)
	}
	room.Touch(callerID, s.now())

	if err := s.repo.Room.Update(ctx, room); err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("更新教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return room, nil
}

// ────────────────────── Delete ──────────────────────

func (s *roomService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	active, err := s.repo.Booking.List(ctx, repository.BookingFilter{RoomID: id, Status: model.BookingStatusConfirmed})
	if err != nil {
		s.logger.Error("查询教室预订失败", zap.String("id", id), zap.Error(err))
		return err
	}
	today := s.now().Format(dateLayout)
	for _, b := range active {
		if b.Date >= today {
			return ErrRoomInUse
		}
	}

	if err := s.repo.Room.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrRoomNotFound
		}
		s.logger.Error("删除教室失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
