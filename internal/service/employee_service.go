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
)

// ── 员工模块业务错误 ──

var (
	ErrEmployeeNotFound   = errors.New("员工不存在")
	ErrEmployeeCodeTaken  = errors.New("员工编号已存在")
	ErrEmployeeEmailTaken = errors.New("员工邮箱已存在")
	ErrEmployeeInactive   = errors.New("员工不在职")
)

// EmployeeService 员工档案业务接口
type EmployeeService interface {
	Create(ctx context.Context, req *dto.CreateEmployeeRequest, callerID string) (*model.Employee, error)
	Get(ctx context.Context, id string) (*model.Employee, error)
	List(ctx context.Context, req *dto.EmployeeListRequest) ([]model.Employee, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest, callerID string) (*model.Employee, error)
	Delete(ctx context.Context, id string) error
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *employeeService) Create(ctx context.Context, req *dto.CreateEmployeeRequest, callerID string) (*model.Employee, error) {
	code := strings.TrimSpace(req.EmployeeCode)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.Employee.GetByCode(ctx, code); err == nil {
		return nil, ErrEmployeeCodeTaken
	} else if !isNotFound(err) {
		s.logger.Error("查询员工编号失败", zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Employee.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmployeeEmailTaken
	} else if !isNotFound(err) {
		s.logger.Error("查询员工邮箱失败", zap.Error(err))
		return nil, err
	}
	if err := s.checkUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	now := s.now()
	emp := &model.Employee{
		EmployeeCode: code,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		Phone:        trimOptional(req.Phone),
		Department:   strings.TrimSpace(req.Department),
		Position:     strings.TrimSpace(req.Position),
		Status:       model.EmployeeStatusActive,
		UserID:       req.UserID,
		HireDate:     req.HireDate,
	}
	emp.CreatedAt = now
	emp.CreatedBy = &callerID
	emp.Touch(callerID, now)

	if err := s.repo.Employee.Create(ctx, emp); err != nil {
		if isDuplicate(err) {
			return nil, ErrEmployeeCodeTaken
		}
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}
	return emp, nil
}

// checkUser 关联的登录账号必须存在
func (s *employeeService) checkUser(ctx context.Context, userID *string) error {
	if userID == nil || *userID == "" {
		return nil
	}
	if _, err := s.repo.User.GetByID(ctx, *userID); err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// ────────────────────── Get / List ──────────────────────

func (s *employeeService) Get(ctx context.Context, id string) (*model.Employee, error) {
	emp, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return emp, nil
}

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest) ([]model.Employee, int64, error) {
	list, total, err := s.repo.Employee.List(ctx, repository.EmployeeFilter{
		Department: req.Department,
		Status:     req.Status,
		Keyword:    strings.TrimSpace(req.Keyword),
		Offset:     req.GetOffset(),
		Limit:      req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("列出员工失败", zap.Error(err))
		return nil, 0, err
	}
	if list == nil {
		list = []model.Employee{}
	}
	return list, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *employeeService) Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest, callerID string) (*model.Employee, error) {
	emp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != emp.Email {
			if other, err := s.repo.Employee.GetByEmail(ctx, email); err == nil && other.ID != emp.ID {
				return nil, ErrEmployeeEmailTaken
			} else if err != nil && !isNotFound(err) {
				return nil, err
			}
		}
		emp.Email = email
	}
	if req.UserID != nil {
		if err := s.checkUser(ctx, req.UserID); err != nil {
			return nil, err
		}
		emp.UserID = req.UserID
	}
	if req.FirstName != nil {
		emp.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		emp.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		emp.Phone = trimOptional(req.Phone)
	}
	if req.Department != nil {
		emp.Department = strings.TrimSpace(*req.Department)
	}
	if req.Position != nil {
		emp.Position = strings.TrimSpace(*req.Position)
	}
	if req.Status != nil {
		emp.Status = *req.Status
	}
	if req.HireDate != nil {
		emp.HireDate = req.HireDate
	}
	emp.Touch(callerID, s.now())

	if err := s.repo.Employee.Update(ctx, emp); err != nil {
		switch {
		case isNotFound(err):
			return nil, ErrEmployeeNotFound
		case isDuplicate(err):
			return nil, ErrEmployeeEmailTaken
		}
		s.logger.Error("更新员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return emp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *employeeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Employee.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrEmployeeNotFound
		}
		s.logger.Error("删除员工失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// activeEmployee 查询员工并要求在职，供考勤、请假、资产领用复用
func activeEmployee(ctx context.Context, repo *repository.Repository, id string) (*model.Employee, error) {
	emp, err := repo.Employee.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	if emp.Status != model.EmployeeStatusActive {
		return nil, ErrEmployeeInactive
	}
	return emp, nil
}
