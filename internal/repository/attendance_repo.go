package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
)

// AttendanceFilter 考勤查询条件（日期闭区间）
type AttendanceFilter struct {
	EmployeeID string
	From       string
	To         string
}

// AttendanceRepository 考勤数据访问接口
type AttendanceRepository interface {
	Create(ctx context.Context, a *model.Attendance) error
	GetByID(ctx context.Context, id string) (*model.Attendance, error)
	// GetOpen 返回员工当天未签退的记录，没有时返回 gorm.ErrRecordNotFound
	GetOpen(ctx context.Context, employeeID, date string) (*model.Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, error)
	Update(ctx context.Context, a *model.Attendance) error
}

type attendanceRepo struct {
	db *gorm.DB
}

func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (*model.Attendance, error) {
	var a model.Attendance
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) GetOpen(ctx context.Context, employeeID, date string) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date = ? AND check_out IS NULL", employeeID, date).
		Order("check_in DESC").
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) List(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, error) {
	db := r.db.WithContext(ctx).Model(&model.Attendance{})
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.From != "" {
		db = db.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		db = db.Where("date <= ?", filter.To)
	}
	var list []model.Attendance
	err := db.Order("date DESC, check_in DESC").Find(&list).Error
	return list, err
}

func (r *attendanceRepo) Update(ctx context.Context, a *model.Attendance) error {
	return updateExisting(ctx, r.db, a, a.ID)
}
