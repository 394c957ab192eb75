package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
)

// EmployeeFilter 员工查询条件
type EmployeeFilter struct {
	Department string
	Status     string
	Keyword    string // 匹配姓名、工号、邮箱
	Offset     int
	Limit      int
}

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, e *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetByCode(ctx context.Context, code string) (*model.Employee, error)
	GetByEmail(ctx context.Context, email string) (*model.Employee, error)
	GetByUserID(ctx context.Context, userID string) (*model.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]model.Employee, int64, error)
	Update(ctx context.Context, e *model.Employee) error
	Delete(ctx context.Context, id string) error
}

type employeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, e *model.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *employeeRepo) getBy(ctx context.Context, query string, arg interface{}) (*model.Employee, error) {
	var e model.Employee
	if err := r.db.WithContext(ctx).Where(query, arg).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *employeeRepo) GetByCode(ctx context.Context, code string) (*model.Employee, error) {
	return r.getBy(ctx, "employee_code = ?", code)
}

func (r *employeeRepo) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	return r.getBy(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *employeeRepo) GetByUserID(ctx context.Context, userID string) (*model.Employee, error) {
	return r.getBy(ctx, "user_id = ?", userID)
}

func (r *employeeRepo) List(ctx context.Context, filter EmployeeFilter) ([]model.Employee, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Employee{})
	if filter.Department != "" {
		db = db.Where("department = ?", filter.Department)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		db = db.Where("first_name ILIKE ? OR last_name ILIKE ? OR employee_code ILIKE ? OR email ILIKE ?", like, like, like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Employee
	if err := db.Offset(filter.Offset).Limit(filter.Limit).
		Order("last_name ASC, first_name ASC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *employeeRepo) Update(ctx context.Context, e *model.Employee) error {
	return updateExisting(ctx, r.db, e, e.ID)
}

func (r *employeeRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.Employee{}, id)
}
