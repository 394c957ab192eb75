package memory

import (
	"context"
	"strings"
	"time"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
)

// ────── User ──────

type userRepo struct {
	t *table[model.User]
}

func newUserRepo() *userRepo {
	return &userRepo{t: newTable(
		func(u *model.User) *string { return &u.ID },
		func(a, b *model.User) bool {
			return a.Username == b.Username || strings.EqualFold(a.Email, b.Email)
		},
		nil,
	)}
}

func (r *userRepo) Create(_ context.Context, user *model.User) error {
	return r.t.insert(user)
}

func (r *userRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	return r.t.get(id)
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return r.t.first(func(u *model.User) bool { return u.Username == username }, nil)
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return r.t.first(func(u *model.User) bool { return strings.EqualFold(u.Email, email) }, nil)
}

func (r *userRepo) Update(_ context.Context, user *model.User) error {
	return r.t.replace(user)
}

func (r *userRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.t.mutate(func(u *model.User) bool { return u.ID == id }, func(u *model.User) {
		u.LastLogin = &at
	})
	return nil
}

func (r *userRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	all := r.t.filter(nil, func(a, b *model.User) bool { return a.CreatedAt.After(b.CreatedAt) })
	return page(all, offset, limit), int64(len(all)), nil
}

// ────── ScheduleEntry ──────

type scheduleEntryRepo struct {
	t     *table[model.ScheduleEntry]
	slots *keyedMutex
}

func newScheduleEntryRepo() *scheduleEntryRepo {
	return &scheduleEntryRepo{
		t: newTable(
			func(e *model.ScheduleEntry) *string { return &e.ID },
			nil,
			func(e model.ScheduleEntry) model.ScheduleEntry {
				if e.Tags != nil {
					e.Tags = append(model.StringArray{}, e.Tags...)
				}
				return e
			},
		),
		slots: newKeyedMutex(),
	}
}

func scheduleLess(a, b *model.ScheduleEntry) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	if a.StartTime != b.StartTime {
		return a.StartTime < b.StartTime
	}
	return a.RoomNumber < b.RoomNumber
}

func (r *scheduleEntryRepo) Create(_ context.Context, entry *model.ScheduleEntry) error {
	return r.t.insert(entry)
}

func (r *scheduleEntryRepo) GetByID(_ context.Context, id string) (*model.ScheduleEntry, error) {
	return r.t.get(id)
}

func (r *scheduleEntryRepo) List(_ context.Context, f repository.ScheduleFilter) ([]model.ScheduleEntry, error) {
	return r.t.filter(func(e *model.ScheduleEntry) bool {
		switch {
		case f.Date != "" && e.Date != f.Date:
			return false
		case f.From != "" && e.Date < f.From:
			return false
		case f.To != "" && e.Date > f.To:
			return false
		case f.RoomNumber != "" && e.RoomNumber != f.RoomNumber:
			return false
		}
		return true
	}, scheduleLess), nil
}

func (r *scheduleEntryRepo) ListByDate(ctx context.Context, date string) ([]model.ScheduleEntry, error) {
	return r.List(ctx, repository.ScheduleFilter{Date: date})
}

func (r *scheduleEntryRepo) Update(_ context.Context, entry *model.ScheduleEntry) error {
	return r.t.replace(entry)
}

func (r *scheduleEntryRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

func (r *scheduleEntryRepo) WithSlotLock(ctx context.Context, date, room string, fn func(ctx context.Context, repo repository.ScheduleEntryRepository) error) error {
	unlock := r.slots.Lock(date + "\x00" + room)
	defer unlock()
	return fn(ctx, r)
}

// ────── Announcement ──────

type announcementRepo struct {
	t *table[model.Announcement]
}

func newAnnouncementRepo() *announcementRepo {
	return &announcementRepo{t: newTable(
		func(a *model.Announcement) *string { return &a.ID }, nil, nil,
	)}
}

func (r *announcementRepo) Create(_ context.Context, a *model.Announcement) error {
	return r.t.insert(a)
}

func (r *announcementRepo) GetByID(_ context.Context, id string) (*model.Announcement, error) {
	return r.t.get(id)
}

func (r *announcementRepo) List(_ context.Context, active *bool) ([]model.Announcement, error) {
	return r.t.filter(func(a *model.Announcement) bool {
		return active == nil || a.Active == *active
	}, func(a, b *model.Announcement) bool {
		return a.Timestamp.After(b.Timestamp)
	}), nil
}

func (r *announcementRepo) Update(_ context.Context, a *model.Announcement) error {
	return r.t.replace(a)
}

func (r *announcementRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

// ────── Task ──────

type taskRepo struct {
	t *table[model.Task]
}

func newTaskRepo() *taskRepo {
	return &taskRepo{t: newTable(
		func(t *model.Task) *string { return &t.ID }, nil, nil,
	)}
}

func (r *taskRepo) Create(_ context.Context, task *model.Task) error {
	return r.t.insert(task)
}

func (r *taskRepo) GetByID(_ context.Context, id string) (*model.Task, error) {
	return r.t.get(id)
}

func (r *taskRepo) List(_ context.Context, f repository.TaskFilter) ([]model.Task, error) {
	return r.t.filter(func(t *model.Task) bool {
		if f.Status != "" && t.Status != f.Status {
			return false
		}
		if f.AssignedTo != "" && !strPtrEq(t.AssignedTo, f.AssignedTo) {
			return false
		}
		return true
	}, func(a, b *model.Task) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}), nil
}

func (r *taskRepo) Update(_ context.Context, task *model.Task) error {
	return r.t.replace(task)
}

func (r *taskRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}
