package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
)

// BookingFilter 预订查询条件
type BookingFilter struct {
	RoomID   string
	Date     string
	BookedBy string
	Status   string
}

// BookingRepository 教室预订数据访问接口
type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]model.Booking, error)
	// ListByRoomAndRange 返回 [from, to] 日期范围内该教室的全部预订（含已取消）
	ListByRoomAndRange(ctx context.Context, roomID, from, to string) ([]model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	Delete(ctx context.Context, id string) error

	// WithRoomLock 串行化同一 (room, date) 上的冲突检查与写入
	WithRoomLock(ctx context.Context, roomID, date string, fn func(ctx context.Context, repo BookingRepository) error) error
}

type bookingRepo struct {
	db *gorm.DB
}

func NewBookingRepo(db *gorm.DB) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) Create(ctx context.Context, b *model.Booking) error {
	return r.db.WithContext(ctx).Omit("Room").Create(b).Error
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepo) List(ctx context.Context, filter BookingFilter) ([]model.Booking, error) {
	db := r.db.WithContext(ctx).Model(&model.Booking{}).Preload("Room")
	if filter.RoomID != "" {
		db = db.Where("room_id = ?", filter.RoomID)
	}
	if filter.Date != "" {
		db = db.Where("date = ?", filter.Date)
	}
	if filter.BookedBy != "" {
		db = db.Where("booked_by = ?", filter.BookedBy)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	var list []model.Booking
	err := db.Order("date ASC, start_time ASC").Find(&list).Error
	return list, err
}

func (r *bookingRepo) ListByRoomAndRange(ctx context.Context, roomID, from, to string) ([]model.Booking, error) {
	var list []model.Booking
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND date >= ? AND date <= ?", roomID, from, to).
		Order("date ASC, start_time ASC").
		Find(&list).Error
	return list, err
}

func (r *bookingRepo) Update(ctx context.Context, b *model.Booking) error {
	room := b.Room
	b.Room = nil
	defer func() { b.Room = room }()
	return updateExisting(ctx, r.db, b, b.ID)
}

func (r *bookingRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.Booking{}, id)
}

func (r *bookingRepo) WithRoomLock(ctx context.Context, roomID, date string, fn func(ctx context.Context, repo BookingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := advisoryLock(tx, "booking:"+roomID+":"+date); err != nil {
			return err
		}
		return fn(ctx, &bookingRepo{db: tx})
	})
}
