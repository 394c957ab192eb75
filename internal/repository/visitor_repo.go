package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
)

// VisitorFilter 访客查询条件
type VisitorFilter struct {
	Status         string
	HostEmployeeID string
	Offset         int
	Limit          int
}

// VisitorRepository 访客数据访问接口
type VisitorRepository interface {
	Create(ctx context.Context, v *model.Visitor) error
	GetByID(ctx context.Context, id string) (*model.Visitor, error)
	List(ctx context.Context, filter VisitorFilter) ([]model.Visitor, int64, error)
	Update(ctx context.Context, v *model.Visitor) error
	Delete(ctx context.Context, id string) error
}

type visitorRepo struct {
	db *gorm.DB
}

func NewVisitorRepo(db *gorm.DB) VisitorRepository {
	return &visitorRepo{db: db}
}

func (r *visitorRepo) Create(ctx context.Context, v *model.Visitor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *visitorRepo) GetByID(ctx context.Context, id string) (*model.Visitor, error) {
	var v model.Visitor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *visitorRepo) List(ctx context.Context, filter VisitorFilter) ([]model.Visitor, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Visitor{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.HostEmployeeID != "" {
		db = db.Where("host_employee_id = ?", filter.HostEmployeeID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Visitor
	if err := db.Offset(filter.Offset).Limit(filter.Limit).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *visitorRepo) Update(ctx context.Context, v *model.Visitor) error {
	return updateExisting(ctx, r.db, v, v.ID)
}

func (r *visitorRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.Visitor{}, id)
}
