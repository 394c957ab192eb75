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
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/realtime"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
	apperrors "github.com/Afnanpathan2004/livedisplay-sub001/pkg/errors"
)

// ── 预订模块业务错误 ──

var (
	ErrBookingNotFound        = errors.New("预订不存在")
	ErrBookingRoomUnavailable = errors.New("教室当前不可预订")
	ErrBookingCancelled       = errors.New("预订已取消")
	ErrBookingForbidden       = errors.New("只能取消自己的预订")
)

// BookingService 教室预订业务接口
//
// 设计说明：
//   - 与课表使用同一半开区间重叠规则；已取消的预订不参与冲突判断
//   - 预订还需避开同一教室编号当天的课表条目
//   - 冲突检查在 WithRoomLock 内执行
type BookingService interface {
	Create(ctx context.Context, req *dto.CreateBookingRequest, caller Caller) (*model.Booking, error)
	Get(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, req *dto.BookingListRequest, caller Caller) ([]model.Booking, error)
	// Availability 返回教室在 [from, to] 内的有效预订
	Availability(ctx context.Context, roomID string, req *dto.RoomAvailabilityRequest) ([]model.Booking, error)
	Cancel(ctx context.Context, id string, caller Caller) (*model.Booking, error)
}

type bookingService struct {
	repo    *repository.Repository
	emitter realtime.Emitter
	logger  *zap.Logger
	now     func() time.Time
}

// NewBookingService 创建 BookingService 实例
func NewBookingService(repo *repository.Repository, emitter realtime.Emitter, logger *zap.Logger) BookingService {
	return &bookingService{repo: repo, emitter: emitter, logger: logger, now: time.Now}
}

// bookingEvent booking:update 广播负载
type bookingEvent struct {
	Action  string         `json:"action"` // created | cancelled
	Booking *model.Booking `json:"booking"`
}

// ═══════════════════════════════════════════════════════════
// Create — 创建预订
// ═══════════════════════════════════════════════════════════

func (s *bookingService) Create(ctx context.Context, req *dto.CreateBookingRequest, caller Caller) (*model.Booking, error) {
	// 1. 字段校验
	ve := apperrors.NewValidationError()
	if !validDate(req.Date) {
		ve.Add("date", "must be a valid date in YYYY-MM-DD format")
	}
	start, startErr := ParseClock(req.StartTime)
	if startErr != nil {
		ve.Add("start_time", "must be in HH:mm format")
	}
	end, endErr := ParseClock(req.EndTime)
	if endErr != nil {
		ve.Add("end_time", "must be in HH:mm format")
	}
	if startErr == nil && endErr == nil && start >= end {
		ve.Add("end_time", "must be after start_time")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		ve.Add("title", "is required")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	// 2. 教室校验
	room, err := s.repo.Room.GetByID(ctx, req.RoomID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("room_id", req.RoomID), zap.Error(err))
		return nil, err
	}
	if room.Status != model.RoomStatusAvailable {
		return nil, ErrBookingRoomUnavailable
	}
	if room.Capacity > 0 && req.Attendees > room.Capacity {
		return nil, apperrors.NewValidationError(apperrors.FieldError{
			Field:   "attendees",
			Message: fmt.Sprintf("exceeds room capacity of %d", room.Capacity),
		})
	}

	now := s.now()
	booking := &model.Booking{
		RoomID:    room.ID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Title:     title,
		BookedBy:  caller.ID,
		Attendees: req.Attendees,
		Status:    model.BookingStatusConfirmed,
		Notes:     trimOptional(req.Notes),
	}
	booking.CreatedAt = now
	booking.CreatedBy = &caller.ID
	booking.Touch(caller.ID, now)

	// 3. 加锁检查冲突并写入
	err = s.repo.Booking.WithRoomLock(ctx, room.ID, req.Date,
		func(ctx context.Context, repo repository.BookingRepository) error {
			existing, err := repo.ListByRoomAndRange(ctx, room.ID, req.Date, req.Date)
			if err != nil {
				return err
			}
			for i := range existing {
				b := &existing[i]
				if b.Status != model.BookingStatusConfirmed {
					continue
				}
				bs, err1 := ParseClock(b.StartTime)
				be, err2 := ParseClock(b.EndTime)
				if err1 == nil && err2 == nil && Overlaps(start, end, bs, be) {
					return &apperrors.ConflictError{
						Message: fmt.Sprintf("Room %s is already booked for %s from %s to %s",
							room.RoomNumber, b.Title, b.StartTime, b.EndTime),
						Conflicting: b,
					}
				}
			}

			classes, err := s.repo.ScheduleEntry.List(ctx, repository.ScheduleFilter{Date: req.Date, RoomNumber: room.RoomNumber})
			if err != nil {
				return err
			}
			probe := &model.ScheduleEntry{Date: req.Date, RoomNumber: room.RoomNumber, StartTime: req.StartTime, EndTime: req.EndTime}
			if blocking := findConflict(probe, classes); blocking != nil {
				return newScheduleConflict(blocking)
			}

			return repo.Create(ctx, booking)
		})
	if err != nil {
		if _, ok := apperrors.AsConflict(err); !ok {
			s.logger.Error("创建预订失败", zap.String("room_id", room.ID), zap.Error(err))
		}
		return nil, err
	}

	booking.Room = room
	s.emitter.Emit(realtime.EventBookingUpdate, bookingEvent{Action: "created", Booking: booking})
	return booking, nil
}

// ────────────────────── Get / List ──────────────────────

func (s *bookingService) Get(ctx context.Context, id string) (*model.Booking, error) {
	b, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("查询预订失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return b, nil
}

func (s *bookingService) List(ctx context.Context, req *dto.BookingListRequest, caller Caller) ([]model.Booking, error) {
	filter := repository.BookingFilter{RoomID: req.RoomID, Date: req.Date, Status: req.Status}
	if req.Mine {
		filter.BookedBy = caller.ID
	}
	list, err := s.repo.Booking.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出预订失败", zap.Error(err))
		return nil, err
	}
	if list == nil {
		list = []model.Booking{}
	}
	return list, nil
}

func (s *bookingService) Availability(ctx context.Context, roomID string, req *dto.RoomAvailabilityRequest) ([]model.Booking, error) {
	if req.From > req.To {
		return nil, ErrInvalidDateRange
	}
	if _, err := s.repo.Room.GetByID(ctx, roomID); err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	all, err := s.repo.Booking.ListByRoomAndRange(ctx, roomID, req.From, req.To)
	if err != nil {
		s.logger.Error("查询教室占用失败", zap.String("room_id", roomID), zap.Error(err))
		return nil, err
	}
	out := make([]model.Booking, 0, len(all))
	for _, b := range all {
		if b.Status == model.BookingStatusConfirmed {
			out = append(out, b)
		}
	}
	return out, nil
}

// ────────────────────── Cancel ──────────────────────

func (s *bookingService) Cancel(ctx context.Context, id string, caller Caller) (*model.Booking, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.BookedBy != caller.ID && caller.Role != model.RoleAdmin {
		return nil, ErrBookingForbidden
	}
	if b.Status == model.BookingStatusCancelled {
		return nil, ErrBookingCancelled
	}

	b.Status = model.BookingStatusCancelled
	b.Touch(caller.ID, s.now())
	if err := s.repo.Booking.Update(ctx, b); err != nil {
		if isNotFound(err) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("取消预订失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.emitter.Emit(realtime.EventBookingUpdate, bookingEvent{Action: "cancelled", Booking: b})
	return b, nil
}
