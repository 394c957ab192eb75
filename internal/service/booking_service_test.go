package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/realtime"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
	apperrors "github.com/Afnanpathan2004/livedisplay-sub001/pkg/errors"
)

type bookingFixture struct {
	repo     *repository.Repository
	em       *recordingEmitter
	rooms    RoomService
	bookings BookingService
	schedule ScheduleService
	room     *model.Room
}

var (
	alice = Caller{ID: "u-alice", Username: "alice", Role: model.RoleEditor}
	bob   = Caller{ID: "u-bob", Username: "bob", Role: model.RoleEditor}
	root  = Caller{ID: "u-root", Username: "root", Role: model.RoleAdmin}
)

func setupBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	repo := newTestRepo()
	em := &recordingEmitter{}
	f := &bookingFixture{
		repo:     repo,
		em:       em,
		rooms:    NewRoomService(repo, zap.NewNop()),
		bookings: NewBookingService(repo, em, zap.NewNop()),
		schedule: NewScheduleService(repo, realtime.Nop{}, zap.NewNop()),
	}
	f.rooms.(*roomService).now = fixedClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	room, err := f.rooms.Create(context.Background(), &dto.CreateRoomRequest{RoomNumber: "A101", Capacity: 30}, root.ID)
	if err != nil {
		t.Fatalf("创建教室失败: %v", err)
	}
	f.room = room
	return f
}

func (f *bookingFixture) book(start, end string, caller Caller) (*model.Booking, error) {
	return f.bookings.Create(context.Background(), &dto.CreateBookingRequest{
		RoomID:    f.room.ID,
		Date:      "2026-03-02",
		StartTime: start,
		EndTime:   end,
		Title:     "Team sync",
		Attendees: 10,
	}, caller)
}

// ── 教室测试 ──

func TestRoomService_CreateDefaults(t *testing.T) {
	f := setupBookingFixture(t)
	if f.room.Type != "classroom" || f.room.Status != model.RoomStatusAvailable {
		t.Errorf("默认值不符: type=%s status=%s", f.room.Type, f.room.Status)
	}

	_, err := f.rooms.Create(context.Background(), &dto.CreateRoomRequest{RoomNumber: "A101"}, root.ID)
	if !errors.Is(err, ErrRoomNumberTaken) {
		t.Errorf("期望 ErrRoomNumberTaken，实际: %v", err)
	}
}

func TestRoomService_DeleteBlockedByFutureBooking(t *testing.T) {
	f := setupBookingFixture(t)
	ctx := context.Background()

	b, err := f.book("09:00", "10:00", alice)
	if err != nil {
		t.Fatalf("预订失败: %v", err)
	}
	if err := f.rooms.Delete(ctx, f.room.ID); !errors.Is(err, ErrRoomInUse) {
		t.Fatalf("存在未来预订时期望 ErrRoomInUse，实际: %v", err)
	}

	if _, err := f.bookings.Cancel(ctx, b.ID, alice); err != nil {
		t.Fatalf("取消失败: %v", err)
	}
	if err := f.rooms.Delete(ctx, f.room.ID); err != nil {
		t.Errorf("预订取消后应可删除: %v", err)
	}
}

// ── 预订测试 ──

func TestBookingService_Create_Success(t *testing.T) {
	f := setupBookingFixture(t)

	b, err := f.book("09:00", "10:00", alice)
	if err != nil {
		t.Fatalf("预订应成功: %v", err)
	}
	if b.Status != model.BookingStatusConfirmed || b.BookedBy != alice.ID {
		t.Errorf("预订字段不符: %+v", b)
	}
	if b.Room == nil || b.Room.RoomNumber != "A101" {
		t.Error("期望返回关联教室")
	}
	if got := f.em.byEvent(realtime.EventBookingUpdate); len(got) != 1 {
		t.Errorf("期望广播 1 次，实际 %d", len(got))
	}
}

func TestBookingService_Create_Overlap(t *testing.T) {
	f := setupBookingFixture(t)

	if _, err := f.book("09:00", "10:00", alice); err != nil {
		t.Fatalf("首个预订失败: %v", err)
	}
	_, err := f.book("09:30", "10:30", bob)
	if _, ok := apperrors.AsConflict(err); !ok {
		t.Errorf("期望 ConflictError，实际: %v", err)
	}
	if _, err := f.book("10:00", "11:00", bob); err != nil {
		t.Errorf("首尾相接应允许: %v", err)
	}
}

func TestBookingService_Create_CancelledDoesNotBlock(t *testing.T) {
	f := setupBookingFixture(t)

	b, _ := f.book("09:00", "10:00", alice)
	if _, err := f.bookings.Cancel(context.Background(), b.ID, alice); err != nil {
		t.Fatalf("取消失败: %v", err)
	}
	if _, err := f.book("09:00", "10:00", bob); err != nil {
		t.Errorf("已取消的预订不应阻挡: %v", err)
	}
}

func TestBookingService_Create_ClashesWithSchedule(t *testing.T) {
	f := setupBookingFixture(t)

	_, err := f.schedule.Create(context.Background(), &dto.ScheduleEntryRequest{
		Date: "2026-03-02", StartTime: "09:00", EndTime: "10:00",
		RoomNumber: "A101", Subject: "Calculus", FacultyName: "Dr. Rao",
	}, root.ID)
	if err != nil {
		t.Fatalf("创建课表失败: %v", err)
	}

	_, err = f.book("09:15", "09:45", alice)
	ce, ok := apperrors.AsConflict(err)
	if !ok {
		t.Fatalf("期望与课表冲突，实际: %v", err)
	}
	if ce.Message != "Room A101 is already booked for Calculus from 09:00 to 10:00" {
		t.Errorf("冲突信息不符: %s", ce.Message)
	}
}

// 课表只与课表比较冲突，已有预订不阻止排课
func TestScheduleService_Create_IgnoresBookings(t *testing.T) {
	f := setupBookingFixture(t)

	if _, err := f.book("09:00", "10:00", alice); err != nil {
		t.Fatalf("创建预订失败: %v", err)
	}
	_, err := f.schedule.Create(context.Background(), &dto.ScheduleEntryRequest{
		Date: "2026-03-02", StartTime: "09:00", EndTime: "10:00",
		RoomNumber: "A101", Subject: "Calculus", FacultyName: "Dr. Rao",
	}, root.ID)
	if err != nil {
		t.Errorf("预订不应阻止排课，实际: %v", err)
	}
}

func TestBookingService_Create_Validation(t *testing.T) {
	f := setupBookingFixture(t)
	ctx := context.Background()

	_, err := f.bookings.Create(ctx, &dto.CreateBookingRequest{
		RoomID: f.room.ID, Date: "2026-03-02", StartTime: "10:00", EndTime: "09:00", Title: " ",
	}, alice)
	fields := fieldsOf(t, err)
	for _, field := range []string{"end_time", "title"} {
		if _, ok := fields[field]; !ok {
			t.Errorf("期望字段 %s 报错，实际 %v", field, fields)
		}
	}

	_, err = f.bookings.Create(ctx, &dto.CreateBookingRequest{
		RoomID: f.room.ID, Date: "2026-03-02", StartTime: "09:00", EndTime: "10:00", Title: "Big", Attendees: 31,
	}, alice)
	if _, ok := fieldsOf(t, err)["attendees"]; !ok {
		t.Error("超出容量应报 attendees 错误")
	}

	_, err = f.bookings.Create(ctx, &dto.CreateBookingRequest{
		RoomID: "missing", Date: "2026-03-02", StartTime: "09:00", EndTime: "10:00", Title: "x",
	}, alice)
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("期望 ErrRoomNotFound，实际: %v", err)
	}
}

func TestBookingService_Create_RoomUnavailable(t *testing.T) {
	f := setupBookingFixture(t)
	status := model.RoomStatusMaintenance
	if _, err := f.rooms.Update(context.Background(), f.room.ID, &dto.UpdateRoomRequest{Status: &status}, root.ID); err != nil {
		t.Fatalf("更新教室失败: %v", err)
	}

	if _, err := f.book("09:00", "10:00", alice); !errors.Is(err, ErrBookingRoomUnavailable) {
		t.Errorf("期望 ErrBookingRoomUnavailable，实际: %v", err)
	}
}

func TestBookingService_CancelPermissions(t *testing.T) {
	f := setupBookingFixture(t)
	ctx := context.Background()

	b, _ := f.book("09:00", "10:00", alice)
	if _, err := f.bookings.Cancel(ctx, b.ID, bob); !errors.Is(err, ErrBookingForbidden) {
		t.Errorf("非预订人期望 ErrBookingForbidden，实际: %v", err)
	}
	if _, err := f.bookings.Cancel(ctx, b.ID, root); err != nil {
		t.Errorf("管理员应可取消: %v", err)
	}
	if _, err := f.bookings.Cancel(ctx, b.ID, alice); !errors.Is(err, ErrBookingCancelled) {
		t.Errorf("重复取消期望 ErrBookingCancelled，实际: %v", err)
	}
}

func TestBookingService_ListMineAndAvailability(t *testing.T) {
	f := setupBookingFixture(t)
	ctx := context.Background()

	_, _ = f.book("09:00", "10:00", alice)
	cancelled, _ := f.book("10:00", "11:00", bob)
	_, _ = f.bookings.Cancel(ctx, cancelled.ID, bob)

	mine, err := f.bookings.List(ctx, &dto.BookingListRequest{Mine: true}, alice)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(mine) != 1 || mine[0].BookedBy != alice.ID {
		t.Errorf("mine=true 应只返回自己的预订，实际 %+v", mine)
	}

	avail, err := f.bookings.Availability(ctx, f.room.ID, &dto.RoomAvailabilityRequest{From: "2026-03-01", To: "2026-03-03"})
	if err != nil {
		t.Fatalf("Availability 失败: %v", err)
	}
	if len(avail) != 1 {
		t.Errorf("期望仅返回 1 个有效预订，实际 %d", len(avail))
	}

	_, err = f.bookings.Availability(ctx, f.room.ID, &dto.RoomAvailabilityRequest{From: "2026-03-03", To: "2026-03-01"})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("期望 ErrInvalidDateRange，实际: %v", err)
	}
}
