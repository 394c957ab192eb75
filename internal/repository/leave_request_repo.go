package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
)

// LeaveFilter 请假查询条件
type LeaveFilter struct {
	EmployeeID string
	Status     string
}

// LeaveRequestRepository 请假申请数据访问接口
type LeaveRequestRepository interface {
	Create(ctx context.Context, l *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	List(ctx context.Context, filter LeaveFilter) ([]model.LeaveRequest, error)
	Update(ctx context.Context, l *model.LeaveRequest) error
	Delete(ctx context.Context, id string) error
}

type leaveRequestRepo struct {
	db *gorm.DB
}

func NewLeaveRequestRepo(db *gorm.DB) LeaveRequestRepository {
	return &leaveRequestRepo{db: db}
}

func (r *leaveRequestRepo) Create(ctx context.Context, l *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *leaveRequestRepo) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var l model.LeaveRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *leaveRequestRepo) List(ctx context.Context, filter LeaveFilter) ([]model.LeaveRequest, error) {
	db := r.db.WithContext(ctx).Model(&model.LeaveRequest{})
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	var list []model.LeaveRequest
	err := db.Order("start_date DESC").Find(&list).Error
	return list, err
}

func (r *leaveRequestRepo) Update(ctx context.Context, l *model.LeaveRequest) error {
	return updateExisting(ctx, r.db, l, l.ID)
}

func (r *leaveRequestRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.LeaveRequest{}, id)
}
