package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
)

// ── 考勤模块业务错误 ──

var (
	ErrAlreadyCheckedIn = errors.New("今日已签到，请先签退")
	ErrNotCheckedIn     = errors.New("今日尚未签到")
)

// AttendanceService 考勤业务接口
// 每名员工每天同一时刻最多一条未签退记录；签退后可再次签到
type AttendanceService interface {
	CheckIn(ctx context.Context, req *dto.AttendanceRequest, callerID string) (*model.Attendance, error)
	CheckOut(ctx context.Context, req *dto.AttendanceRequest, callerID string) (*model.Attendance, error)
	List(ctx context.Context, req *dto.AttendanceListRequest) ([]model.Attendance, error)
}

type attendanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, logger: logger, now: time.Now}
}

func (s *attendanceService) CheckIn(ctx context.Context, req *dto.AttendanceRequest, callerID string) (*model.Attendance, error) {
	emp, err := activeEmployee(ctx, s.repo, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := now.Format(dateLayout)
	if _, err := s.repo.Attendance.GetOpen(ctx, emp.ID, today); err == nil {
		return nil, ErrAlreadyCheckedIn
	} else if !isNotFound(err) {
		s.logger.Error("查询考勤记录失败", zap.String("employee_id", emp.ID), zap.Error(err))
		return nil, err
	}

	rec := &model.Attendance{
		EmployeeID: emp.ID,
		Date:       today,
		CheckIn:    now,
		Notes:      trimOptional(req.Notes),
	}
	rec.CreatedAt = now
	rec.CreatedBy = &callerID
	rec.Touch(callerID, now)

	if err := s.repo.Attendance.Create(ctx, rec); err != nil {
		s.logger.Error("签到失败", zap.String("employee_id", emp.ID), zap.Error(err))
		return nil, err
	}
	return rec, nil
}

func (s *attendanceService) CheckOut(ctx context.Context, req *dto.AttendanceRequest, callerID string) (*model.Attendance, error) {
	now := s.now()
	rec, err := s.repo.Attendance.GetOpen(ctx, req.EmployeeID, now.Format(dateLayout))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotCheckedIn
		}
		s.logger.Error("查询考勤记录失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}

	rec.CheckOut = &now
	if notes := trimOptional(req.Notes); notes != nil {
		rec.Notes = notes
	}
	rec.Touch(callerID, now)

	if err := s.repo.Attendance.Update(ctx, rec); err != nil {
		s.logger.Error("签退失败", zap.String("id", rec.ID), zap.Error(err))
		return nil, err
	}
	return rec, nil
}

func (s *attendanceService) List(ctx context.Context, req *dto.AttendanceListRequest) ([]model.Attendance, error) {
	if req.From != "" && req.To != "" && req.From > req.To {
		return nil, ErrInvalidDateRange
	}
	list, err := s.repo.Attendance.List(ctx, repository.AttendanceFilter{
		EmployeeID: req.EmployeeID,
		From:       req.From,
		To:         req.To,
	})
	if err != nil {
		s.logger.Error("列出考勤记录失败", zap.Error(err))
		return nil, err
	}
	if list == nil {
		list = []model.Attendance{}
	}
	return list, nil
}
