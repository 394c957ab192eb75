package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/realtime"
	apperrors "github.com/Afnanpathan2004/livedisplay-sub001/pkg/errors"
)

func setupTestAnnouncementService() (AnnouncementService, *recordingEmitter) {
	em := &recordingEmitter{}
	return NewAnnouncementService(newTestRepo(), em, zap.NewNop()), em
}

func TestAnnouncementService_Create_DefaultActive(t *testing.T) {
	svc, em := setupTestAnnouncementService()

	a, err := svc.Create(context.Background(), &dto.CreateAnnouncementRequest{Message: "  Exam week  "}, "admin-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if !a.Active {
		t.Error("期望默认 active=true")
	}
	if a.Message != "Exam week" {
		t.Errorf("期望去除首尾空白，实际 %q", a.Message)
	}
	if a.Timestamp.IsZero() {
		t.Error("期望设置 Timestamp")
	}
	if got := em.byEvent(realtime.EventAnnouncementUpdate); len(got) != 1 {
		t.Errorf("期望广播 1 次，实际 %d", len(got))
	}
}

func TestAnnouncementService_Create_BlankMessage(t *testing.T) {
	svc, _ := setupTestAnnouncementService()

	_, err := svc.Create(context.Background(), &dto.CreateAnnouncementRequest{Message: "   "}, "admin-1")
	if _, ok := apperrors.AsValidation(err); !ok {
		t.Errorf("期望 ValidationError，实际: %v", err)
	}
}

func TestAnnouncementService_ListActive(t *testing.T) {
	svc, _ := setupTestAnnouncementService()
	ctx := context.Background()
	inactive := false

	_, _ = svc.Create(ctx, &dto.CreateAnnouncementRequest{Message: "shown"}, "a")
	_, _ = svc.Create(ctx, &dto.CreateAnnouncementRequest{Message: "hidden", Active: &inactive}, "a")

	active := true
	list, err := svc.List(ctx, &active)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(list) != 1 || list[0].Message != "shown" {
		t.Errorf("期望仅返回激活公告，实际 %+v", list)
	}

	all, _ := svc.List(ctx, nil)
	if len(all) != 2 {
		t.Errorf("期望返回全部 2 条，实际 %d", len(all))
	}
}

func TestAnnouncementService_UpdateAndDelete(t *testing.T) {
	svc, em := setupTestAnnouncementService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, &dto.CreateAnnouncementRequest{Message: "old"}, "a")
	em.reset()

	msg := "new"
	off := false
	updated, err := svc.Update(ctx, a.ID, &dto.UpdateAnnouncementRequest{Message: &msg, Active: &off}, "b")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Message != "new" || updated.Active {
		t.Errorf("更新结果不符: %+v", updated)
	}

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	events := em.byEvent(realtime.EventAnnouncementUpdate)
	if len(events) != 2 {
		t.Fatalf("期望更新与删除各广播一次，实际 %d", len(events))
	}
	if _, ok := events[0].(*model.Announcement); !ok {
		t.Errorf("更新广播负载应为公告，实际 %T", events[0])
	}
	del, ok := events[1].(dto.AnnouncementDeleted)
	if !ok || del.ID != a.ID || !del.Deleted {
		t.Errorf("删除广播负载不符: %#v", events[1])
	}

	if err := svc.Delete(ctx, a.ID); !errors.Is(err, ErrAnnouncementNotFound) {
		t.Errorf("再次删除期望 ErrAnnouncementNotFound，实际: %v", err)
	}
}
