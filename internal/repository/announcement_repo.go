package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
)

// AnnouncementRepository 公告数据访问接口
type AnnouncementRepository interface {
	Create(ctx context.Context, a *model.Announcement) error
	GetByID(ctx context.Context, id string) (*model.Announcement, error)
	// List 按 timestamp 倒序；active 为 nil 时返回全部
	List(ctx context.Context, active *bool) ([]model.Announcement, error)
	Update(ctx context.Context, a *model.Announcement) error
	Delete(ctx context.Context, id string) error
}

type announcementRepo struct {
	db *gorm.DB
}

func NewAnnouncementRepo(db *gorm.DB) AnnouncementRepository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) Create(ctx context.Context, a *model.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *announcementRepo) GetByID(ctx context.Context, id string) (*model.Announcement, error) {
	var a model.Announcement
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepo) List(ctx context.Context, active *bool) ([]model.Announcement, error) {
	db := r.db.WithContext(ctx).Model(&model.Announcement{})
	if active != nil {
		db = db.Where("active = ?", *active)
	}
	var list []model.Announcement
	err := db.Order("timestamp DESC").Find(&list).Error
	return list, err
}

func (r *announcementRepo) Update(ctx context.Context, a *model.Announcement) error {
	return updateExisting(ctx, r.db, a, a.ID)
}

func (r *announcementRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.Announcement{}, id)
}
