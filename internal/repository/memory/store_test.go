package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
)

func TestScheduleEntry_CRUD(t *testing.T) {
	repo := NewRepository().ScheduleEntry
	ctx := context.Background()

	e := &model.ScheduleEntry{Date: "2024-01-15", StartTime: "09:00", EndTime: "10:00", RoomNumber: "101", Tags: model.StringArray{"lab"}}
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if e.ID == "" {
		t.Fatal("Create 后应分配 ID")
	}

	got, err := repo.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	// 返回的是拷贝，修改不影响存储
	got.Tags[0] = "changed"
	again, _ := repo.GetByID(ctx, e.ID)
	if again.Tags[0] != "lab" {
		t.Errorf("存储被外部修改: %v", again.Tags)
	}

	got.Subject = "Physics"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update 失败: %v", err)
	}

	if err := repo.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if err := repo.Delete(ctx, e.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("重复删除期望 ErrRecordNotFound，实际: %v", err)
	}
	if _, err := repo.GetByID(ctx, e.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望 ErrRecordNotFound，实际: %v", err)
	}
	if err := repo.Update(ctx, got); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("更新已删除记录期望 ErrRecordNotFound，实际: %v", err)
	}
}

func TestScheduleEntry_ListFilterAndOrder(t *testing.T) {
	repo := NewRepository().ScheduleEntry
	ctx := context.Background()

	for _, e := range []model.ScheduleEntry{
		{Date: "2024-01-16", StartTime: "08:00", EndTime: "09:00", RoomNumber: "101"},
		{Date: "2024-01-15", StartTime: "11:00", EndTime: "12:00", RoomNumber: "101"},
		{Date: "2024-01-15", StartTime: "09:00", EndTime: "10:00", RoomNumber: "202"},
	} {
		e := e
		if err := repo.Create(ctx, &e); err != nil {
			t.Fatal(err)
		}
	}

	list, _ := repo.ListByDate(ctx, "2024-01-15")
	if len(list) != 2 {
		t.Fatalf("期望 2 条，实际 %d", len(list))
	}
	if list[0].StartTime != "09:00" {
		t.Errorf("应按开始时间升序，首条=%s", list[0].StartTime)
	}

	list, _ = repo.List(ctx, repository.ScheduleFilter{From: "2024-01-15", To: "2024-01-16", RoomNumber: "101"})
	if len(list) != 2 || list[0].Date != "2024-01-15" {
		t.Errorf("范围+教室过滤结果错误: %+v", list)
	}
}

func TestWithSlotLock_SerialisesSameSlot(t *testing.T) {
	repo := NewRepository().ScheduleEntry
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.WithSlotLock(ctx, "2024-01-15", "101", func(ctx context.Context, r repository.ScheduleEntryRepository) error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Errorf("同一时段锁内最多应有 1 个执行者，实际 %d", maxSeen)
	}
}

func TestWithSlotLock_PropagatesError(t *testing.T) {
	repo := NewRepository().ScheduleEntry
	want := errors.New("boom")
	err := repo.WithSlotLock(context.Background(), "2024-01-15", "101", func(context.Context, repository.ScheduleEntryRepository) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("期望透传错误，实际: %v", err)
	}
}

func TestUser_UniqueConstraints(t *testing.T) {
	repo := NewRepository().User
	ctx := context.Background()

	if err := repo.Create(ctx, &model.User{Username: "alice", Email: "alice@example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, &model.User{Username: "alice", Email: "other@example.com"}); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("重复用户名期望 ErrDuplicatedKey，实际: %v", err)
	}
	if err := repo.Create(ctx, &model.User{Username: "bob", Email: "ALICE@example.com"}); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("重复邮箱期望 ErrDuplicatedKey，实际: %v", err)
	}

	u, err := repo.GetByEmail(ctx, "Alice@Example.com")
	if err != nil || u.Username != "alice" {
		t.Errorf("邮箱查询应忽略大小写: %v", err)
	}
}

func TestAnnouncement_ListActive(t *testing.T) {
	repo := NewRepository().Announcement
	ctx := context.Background()
	now := time.Now()

	_ = repo.Create(ctx, &model.Announcement{Message: "old", Active: true, Timestamp: now.Add(-time.Hour)})
	_ = repo.Create(ctx, &model.Announcement{Message: "new", Active: true, Timestamp: now})
	_ = repo.Create(ctx, &model.Announcement{Message: "off", Active: false, Timestamp: now})

	active := true
	list, _ := repo.List(ctx, &active)
	if len(list) != 2 || list[0].Message != "new" {
		t.Errorf("期望按时间倒序返回 2 条有效公告: %+v", list)
	}

	all, _ := repo.List(ctx, nil)
	if len(all) != 3 {
		t.Errorf("期望全部 3 条，实际 %d", len(all))
	}
}

func TestEmployee_ListPaging(t *testing.T) {
	repo := NewRepository().Employee
	ctx := context.Background()

	for i, name := range []string{"Chen", "Adams", "Brown"} {
		e := &model.Employee{
			EmployeeCode: "E00" + string(rune('1'+i)),
			FirstName:    "X",
			LastName:     name,
			Email:        name + "@corp.example",
		}
		if err := repo.Create(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	list, total, _ := repo.List(ctx, repository.EmployeeFilter{Offset: 1, Limit: 1})
	if total != 3 {
		t.Errorf("total 期望 3，实际 %d", total)
	}
	if len(list) != 1 || list[0].LastName != "Brown" {
		t.Errorf("分页结果错误: %+v", list)
	}

	list, _, _ = repo.List(ctx, repository.EmployeeFilter{Keyword: "ada"})
	if len(list) != 1 || list[0].LastName != "Adams" {
		t.Errorf("关键字过滤错误: %+v", list)
	}
}

func TestNotification_MarkRead(t *testing.T) {
	repo := NewRepository().Notification
	ctx := context.Background()

	n := &model.Notification{UserID: "u1", Type: "task", Title: "t", Content: "c"}
	_ = repo.Create(ctx, n)
	_ = repo.Create(ctx, &model.Notification{UserID: "u1", Type: "task", Title: "t2", Content: "c"})

	if err := repo.MarkRead(ctx, n.ID, "u2", time.Now()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("他人通知期望 ErrRecordNotFound，实际: %v", err)
	}
	if err := repo.MarkRead(ctx, n.ID, "u1", time.Now()); err != nil {
		t.Fatalf("MarkRead 失败: %v", err)
	}

	unread, _ := repo.ListByUser(ctx, "u1", true)
	if len(unread) != 1 {
		t.Errorf("期望 1 条未读，实际 %d", len(unread))
	}

	n2, _ := repo.MarkAllRead(ctx, "u1", time.Now())
	if n2 != 1 {
		t.Errorf("MarkAllRead 期望影响 1 条，实际 %d", n2)
	}
}

func TestAttendance_GetOpen(t *testing.T) {
	repo := NewRepository().Attendance
	ctx := context.Background()

	if _, err := repo.GetOpen(ctx, "emp", "2024-01-15"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望 ErrRecordNotFound，实际: %v", err)
	}

	a := &model.Attendance{EmployeeID: "emp", Date: "2024-01-15", CheckIn: time.Now()}
	_ = repo.Create(ctx, a)

	open, err := repo.GetOpen(ctx, "emp", "2024-01-15")
	if err != nil || open.ID != a.ID {
		t.Fatalf("应返回未签退记录: %v", err)
	}

	out := time.Now()
	open.CheckOut = &out
	_ = repo.Update(ctx, open)
	if _, err := repo.GetOpen(ctx, "emp", "2024-01-15"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("签退后不应再有未结束记录: %v", err)
	}
}
