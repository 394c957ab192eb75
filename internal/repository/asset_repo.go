package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
)

// AssetFilter 资产查询条件
type AssetFilter struct {
	Status     string
	Category   string
	AssignedTo string
	Offset     int
	Limit      int
}

// AssetRepository 资产数据访问接口
type AssetRepository interface {
	Create(ctx context.Context, a *model.Asset) error
	GetByID(ctx context.Context, id string) (*model.Asset, error)
	GetByTag(ctx context.Context, tag string) (*model.Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]model.Asset, int64, error)
	Update(ctx context.Context, a *model.Asset) error
	Delete(ctx context.Context, id string) error
}

type assetRepo struct {
	db *gorm.DB
}

func NewAssetRepo(db *gorm.DB) AssetRepository {
	return &assetRepo{db: db}
}

func (r *assetRepo) Create(ctx context.Context, a *model.Asset) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *assetRepo) GetByID(ctx context.Context, id string) (*model.Asset, error) {
	var a model.Asset
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assetRepo) GetByTag(ctx context.Context, tag string) (*model.Asset, error) {
	var a model.Asset
	if err := r.db.WithContext(ctx).Where("asset_tag = ?", tag).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assetRepo) List(ctx context.Context, filter AssetFilter) ([]model.Asset, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Asset{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.AssignedTo != "" {
		db = db.Where("assigned_to = ?", filter.AssignedTo)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Asset
	if err := db.Offset(filter.Offset).Limit(filter.Limit).
		Order("asset_tag ASC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *assetRepo) Update(ctx context.Context, a *model.Asset) error {
	return updateExisting(ctx, r.db, a, a.ID)
}

func (r *assetRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.Asset{}, id)
}
