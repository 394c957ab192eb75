package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/realtime"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
	apperrors "github.com/Afnanpathan2004/livedisplay-sub001/pkg/errors"
)

// ── 测试辅助 ──

func setupTestScheduleService() (ScheduleService, *repository.Repository, *recordingEmitter) {
	repo := newTestRepo()
	em := &recordingEmitter{}
	svc := NewScheduleService(repo, em, zap.NewNop())
	svc.(*scheduleService).now = fixedClock(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	return svc, repo, em
}

func entryReq(date, start, end, room string) *dto.ScheduleEntryRequest {
	return &dto.ScheduleEntryRequest{
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		RoomNumber:  room,
		Subject:     "Calculus",
		FacultyName: "Dr. Rao",
		Tags:        []string{"math"},
	}
}

func scheduleDates(em *recordingEmitter) []string {
	var out []string
	for _, p := range em.byEvent(realtime.EventScheduleUpdate) {
		out = append(out, p.(scheduleEvent).Date)
	}
	return out
}

// ── Create 测试 ──

func TestScheduleService_Create_Success(t *testing.T) {
	svc, _, em := setupTestScheduleService()

	entry, err := svc.Create(context.Background(), entryReq("2026-03-02", "09:00", "10:00", "A101"), "user-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if entry.ID == "" {
		t.Error("期望分配 ID")
	}
	if entry.CreatedBy != "user-1" {
		t.Errorf("期望 CreatedBy=user-1，实际=%s", entry.CreatedBy)
	}
	if !entry.CreatedAt.Equal(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt 不符: %v", entry.CreatedAt)
	}
	if dates := scheduleDates(em); len(dates) != 1 || dates[0] != "2026-03-02" {
		t.Errorf("期望广播一次 2026-03-02，实际 %v", dates)
	}
}

func TestScheduleService_Create_Conflict(t *testing.T) {
	svc, _, em := setupTestScheduleService()
	ctx := context.Background()

	first, err := svc.Create(ctx, entryReq("2026-03-02", "09:00", "10:00", "A101"), "user-1")
	if err != nil {
		t.Fatalf("首条创建失败: %v", err)
	}
	em.reset()

	_, err = svc.Create(ctx, entryReq("2026-03-02", "09:30", "10:30", "A101"), "user-1")
	ce, ok := apperrors.AsConflict(err)
	if !ok {
		t.Fatalf("期望 ConflictError，实际: %v", err)
	}
	detail, ok := ce.Conflicting.(dto.ConflictDetail)
	if !ok || detail.ID != first.ID {
		t.Errorf("冲突对象应为首条条目，实际 %#v", ce.Conflicting)
	}
	if len(scheduleDates(em)) != 0 {
		t.Error("冲突时不应广播")
	}
}

func TestScheduleService_Create_AdjacentAllowed(t *testing.T) {
	svc, _, _ := setupTestScheduleService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, entryReq("2026-03-02", "09:00", "10:00", "A101"), "u"); err != nil {
		t.Fatalf("首条创建失败: %v", err)
	}
	if _, err := svc.Create(ctx, entryReq("2026-03-02", "10:00", "11:00", "A101"), "u"); err != nil {
		t.Errorf("首尾相接应允许: %v", err)
	}
	if _, err := svc.Create(ctx, entryReq("2026-03-02", "09:00", "10:00", "B202"), "u"); err != nil {
		t.Errorf("不同教室同时段应允许: %v", err)
	}
}

func TestScheduleService_Create_ValidationError(t *testing.T) {
	svc, _, em := setupTestScheduleService()

	_, err := svc.Create(context.Background(), entryReq("2026-03-02", "11:00", "10:00", "A101"), "u")
	if _, ok := apperrors.AsValidation(err); !ok {
		t.Fatalf("期望 ValidationError，实际: %v", err)
	}
	if len(em.byEvent(realtime.EventScheduleUpdate)) != 0 {
		t.Error("校验失败不应广播")
	}
}

// ── List 测试 ──

func TestScheduleService_List(t *testing.T) {
	svc, _, _ := setupTestScheduleService()
	ctx := context.Background()

	list, err := svc.List(ctx, &dto.ScheduleListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("空库应返回空切片，实际 %#v", list)
	}

	_, _ = svc.Create(ctx, entryReq("2026-03-02", "11:00", "12:00", "A101"), "u")
	_, _ = svc.Create(ctx, entryReq("2026-03-02", "09:00", "10:00", "A101"), "u")
	_, _ = svc.Create(ctx, entryReq("2026-03-03", "09:00", "10:00", "A101"), "u")

	list, err = svc.List(ctx, &dto.ScheduleListRequest{Date: "2026-03-02"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("期望 2 条，实际 %d", len(list))
	}
	if list[0].StartTime != "09:00" {
		t.Errorf("期望按开始时间升序，首条为 %s", list[0].StartTime)
	}

	if _, err := svc.List(ctx, &dto.ScheduleListRequest{From: "2026-03-05", To: "2026-03-01"}); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("期望 ErrInvalidDateRange，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestScheduleService_Update_MoveDateEmitsBoth(t *testing.T) {
	svc, _, em := setupTestScheduleService()
	ctx := context.Background()

	entry, _ := svc.Create(ctx, entryReq("2026-03-02", "09:00", "10:00", "A101"), "u")
	em.reset()

	newDate := "2026-03-04"
	updated, err := svc.Update(ctx, entry.ID, &dto.UpdateScheduleEntryRequest{Date: &newDate}, "editor-1")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Date != newDate {
		t.Errorf("期望日期 %s，实际 %s", newDate, updated.Date)
	}
	if updated.UpdatedBy == nil || *updated.UpdatedBy != "editor-1" {
		t.Error("期望记录 UpdatedBy")
	}
	dates := scheduleDates(em)
	if len(dates) != 2 || dates[0] != "2026-03-02" || dates[1] != "2026-03-04" {
		t.Errorf("期望新旧日期各广播一次，实际 %v", dates)
	}
}

func TestScheduleService_Update_SelfNotConflict(t *testing.T) {
	svc, _, _ := setupTestScheduleService()
	ctx := context.Background()

	entry, _ := svc.Create(ctx, entryReq("2026-03-02", "09:00", "10:00", "A101"), "u")

	end := "10:30"
	if _, err := svc.Update(ctx, entry.ID, &dto.UpdateScheduleEntryRequest{EndTime: &end}, "u"); err != nil {
		t.Errorf("延长自身时段不应与自身冲突: %v", err)
	}
}

func TestScheduleService_Update_Conflict(t *testing.T) {
	svc, _, _ := setupTestScheduleService()
	ctx := context.Background()

	_, _ = svc.Create(ctx, entryReq("2026-03-02", "09:00", "10:00", "A101"), "u")
	second, _ := svc.Create(ctx, entryReq("2026-03-02", "10:00", "11:00", "A101"), "u")

	start := "09:45"
	_, err := svc.Update(ctx, second.ID, &dto.UpdateScheduleEntryRequest{StartTime: &start}, "u")
	if _, ok := apperrors.AsConflict(err); !ok {
		t.Errorf("期望 ConflictError，实际: %v", err)
	}
}

func TestScheduleService_Update_NotFound(t *testing.T) {
	svc, _, _ := setupTestScheduleService()
	subject := "x"
	_, err := svc.Update(context.Background(), "missing", &dto.UpdateScheduleEntryRequest{Subject: &subject}, "u")
	if !errors.Is(err, ErrScheduleEntryNotFound) {
		t.Errorf("期望 ErrScheduleEntryNotFound，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestScheduleService_Delete_Twice(t *testing.T) {
	svc, _, em := setupTestScheduleService()
	ctx := context.Background()

	entry, _ := svc.Create(ctx, entryReq("2026-03-02", "09:00", "10:00", "A101"), "u")
	em.reset()

	if err := svc.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("首次删除应成功: %v", err)
	}
	if dates := scheduleDates(em); len(dates) != 1 || dates[0] != "2026-03-02" {
		t.Errorf("删除后应广播所在日期，实际 %v", dates)
	}
	if err := svc.Delete(ctx, entry.ID); !errors.Is(err, ErrScheduleEntryNotFound) {
		t.Errorf("再次删除期望 ErrScheduleEntryNotFound，实际: %v", err)
	}
	if _, err := svc.Get(ctx, entry.ID); !errors.Is(err, ErrScheduleEntryNotFound) {
		t.Errorf("删除后 Get 期望 ErrScheduleEntryNotFound，实际: %v", err)
	}
}

// ── Import 测试 ──

func TestScheduleService_Import_PerRow(t *testing.T) {
	svc, _, em := setupTestScheduleService()
	ctx := context.Background()

	rows := []dto.ScheduleEntryRequest{
		*entryReq("2026-03-03", "09:00", "10:00", "A101"),
		*entryReq("2026-03-03", "09:30", "10:30", "A101"), // 与第 1 行冲突
		*entryReq("2026-03-02", "25:00", "10:00", "A101"), // 时间格式错误
		*entryReq("2026-03-02", "13:00", "14:00", "B202"),
	}

	result, err := svc.Import(ctx, rows, "u")
	if err != nil {
		t.Fatalf("Import 不应整体失败: %v", err)
	}
	if result.Total != 4 || result.Created != 2 || result.Failed != 2 {
		t.Fatalf("期望 total=4 created=2 failed=2，实际 %+v", result)
	}
	if len(result.IDs) != 2 {
		t.Errorf("期望返回 2 个 ID，实际 %d", len(result.IDs))
	}
	if result.Errors[0].Row != 2 || result.Errors[0].Message != "Room A101 is already booked for Calculus from 09:00 to 10:00" {
		t.Errorf("第 2 行冲突信息不符: %+v", result.Errors[0])
	}
	if result.Errors[1].Row != 3 || result.Errors[1].Message != "Validation failed" {
		t.Errorf("第 3 行校验信息不符: %+v", result.Errors[1])
	}

	dates := scheduleDates(em)
	if len(dates) != 2 || dates[0] != "2026-03-02" || dates[1] != "2026-03-03" {
		t.Errorf("期望每个受影响日期广播一次且有序，实际 %v", dates)
	}
}

func TestScheduleService_Import_CancelledContext(t *testing.T) {
	svc, _, _ := setupTestScheduleService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Import(ctx, []dto.ScheduleEntryRequest{*entryReq("2026-03-03", "09:00", "10:00", "A101")}, "u")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("期望 context.Canceled，实际: %v", err)
	}
}
