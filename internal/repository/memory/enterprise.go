package memory

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
)

// ────── Employee ──────

type employeeRepo struct {
	t *table[model.Employee]
}

func newEmployeeRepo() *employeeRepo {
	return &employeeRepo{t: newTable(
		func(e *model.Employee) *string { return &e.ID },
		func(a, b *model.Employee) bool {
			return a.EmployeeCode == b.EmployeeCode || strings.EqualFold(a.Email, b.Email)
		},
		nil,
	)}
}

func (r *employeeRepo) Create(_ context.Context, e *model.Employee) error {
	return r.t.insert(e)
}

func (r *employeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	return r.t.get(id)
}

func (r *employeeRepo) GetByCode(_ context.Context, code string) (*model.Employee, error) {
	return r.t.first(func(e *model.Employee) bool { return e.EmployeeCode == code }, nil)
}

func (r *employeeRepo) GetByEmail(_ context.Context, email string) (*model.Employee, error) {
	return r.t.first(func(e *model.Employee) bool { return strings.EqualFold(e.Email, email) }, nil)
}

func (r *employeeRepo) GetByUserID(_ context.Context, userID string) (*model.Employee, error) {
	return r.t.first(func(e *model.Employee) bool { return strPtrEq(e.UserID, userID) }, nil)
}

func (r *employeeRepo) List(_ context.Context, f repository.EmployeeFilter) ([]model.Employee, int64, error) {
	kw := strings.ToLower(f.Keyword)
	all := r.t.filter(func(e *model.Employee) bool {
		if f.Department != "" && e.Department != f.Department {
			return false
		}
		if f.Status != "" && e.Status != f.Status {
			return false
		}
		if kw != "" {
			hay := strings.ToLower(e.FirstName + " " + e.LastName + " " + e.EmployeeCode + " " + e.Email)
			if !strings.Contains(hay, kw) {
				return false
			}
		}
		return true
	}, func(a, b *model.Employee) bool {
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		return a.FirstName < b.FirstName
	})
	return page(all, f.Offset, f.Limit), int64(len(all)), nil
}

func (r *employeeRepo) Update(_ context.Context, e *model.Employee) error {
	return r.t.replace(e)
}

func (r *employeeRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

// ────── Room ──────

type roomRepo struct {
	t *table[model.Room]
}

func newRoomRepo() *roomRepo {
	return &roomRepo{t: newTable(
		func(r *model.Room) *string { return &r.ID },
		func(a, b *model.Room) bool { return a.RoomNumber == b.RoomNumber },
		func(r model.Room) model.Room {
			if r.Amenities != nil {
				r.Amenities = append(model.StringArray{}, r.Amenities...)
			}
			return r
		},
	)}
}

func (r *roomRepo) Create(_ context.Context, room *model.Room) error {
	return r.t.insert(room)
}

func (r *roomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	return r.t.get(id)
}

func (r *roomRepo) GetByRoomNumber(_ context.Context, roomNumber string) (*model.Room, error) {
	return r.t.first(func(room *model.Room) bool { return room.RoomNumber == roomNumber }, nil)
}

func (r *roomRepo) List(_ context.Context, f repository.RoomFilter) ([]model.Room, error) {
	return r.t.filter(func(room *model.Room) bool {
		switch {
		case f.Building != "" && room.Building != f.Building:
			return false
		case f.Status != "" && room.Status != f.Status:
			return false
		case f.MinCapacity > 0 && room.Capacity < f.MinCapacity:
			return false
		}
		return true
	}, func(a, b *model.Room) bool { return a.RoomNumber < b.RoomNumber }), nil
}

func (r *roomRepo) Update(_ context.Context, room *model.Room) error {
	return r.t.replace(room)
}

func (r *roomRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

// ────── Booking ──────

type bookingRepo struct {
	t     *table[model.Booking]
	slots *keyedMutex
}

func newBookingRepo() *bookingRepo {
	return &bookingRepo{
		t: newTable(
			func(b *model.Booking) *string { return &b.ID }, nil,
			func(b model.Booking) model.Booking {
				b.Room = nil // 关联对象不入库
				return b
			},
		),
		slots: newKeyedMutex(),
	}
}

func bookingLess(a, b *model.Booking) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	return a.StartTime < b.StartTime
}

func (r *bookingRepo) Create(_ context.Context, b *model.Booking) error {
	return r.t.insert(b)
}

func (r *bookingRepo) GetByID(_ context.Context, id string) (*model.Booking, error) {
	return r.t.get(id)
}

func (r *bookingRepo) List(_ context.Context, f repository.BookingFilter) ([]model.Booking, error) {
	return r.t.filter(func(b *model.Booking) bool {
		switch {
		case f.RoomID != "" && b.RoomID != f.RoomID:
			return false
		case f.Date != "" && b.Date != f.Date:
			return false
		case f.BookedBy != "" && b.BookedBy != f.BookedBy:
			return false
		case f.Status != "" && b.Status != f.Status:
			return false
		}
		return true
	}, bookingLess), nil
}

func (r *bookingRepo) ListByRoomAndRange(_ context.Context, roomID, from, to string) ([]model.Booking, error) {
	return r.t.filter(func(b *model.Booking) bool {
		return b.RoomID == roomID && b.Date >= from && b.Date <= to
	}, bookingLess), nil
}

func (r *bookingRepo) Update(_ context.Context, b *model.Booking) error {
	return r.t.replace(b)
}

func (r *bookingRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

func (r *bookingRepo) WithRoomLock(ctx context.Context, roomID, date string, fn func(ctx context.Context, repo repository.BookingRepository) error) error {
	unlock := r.slots.Lock(roomID + "\x00" + date)
	defer unlock()
	return fn(ctx, r)
}

// ────── Visitor ──────

type visitorRepo struct {
	t *table[model.Visitor]
}

func newVisitorRepo() *visitorRepo {
	return &visitorRepo{t: newTable(
		func(v *model.Visitor) *string { return &v.ID }, nil, nil,
	)}
}

func (r *visitorRepo) Create(_ context.Context, v *model.Visitor) error {
	return r.t.insert(v)
}

func (r *visitorRepo) GetByID(_ context.Context, id string) (*model.Visitor, error) {
	return r.t.get(id)
}

func (r *visitorRepo) List(_ context.Context, f repository.VisitorFilter) ([]model.Visitor, int64, error) {
	all := r.t.filter(func(v *model.Visitor) bool {
		if f.Status != "" && v.Status != f.Status {
			return false
		}
		if f.HostEmployeeID != "" && !strPtrEq(v.HostEmployeeID, f.HostEmployeeID) {
			return false
		}
		return true
	}, func(a, b *model.Visitor) bool { return a.CreatedAt.After(b.CreatedAt) })
	return page(all, f.Offset, f.Limit), int64(len(all)), nil
}

func (r *visitorRepo) Update(_ context.Context, v *model.Visitor) error {
	return r.t.replace(v)
}

func (r *visitorRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

// ────── Asset ──────

type assetRepo struct {
	t *table[model.Asset]
}

func newAssetRepo() *assetRepo {
	return &assetRepo{t: newTable(
		func(a *model.Asset) *string { return &a.ID },
		func(a, b *model.Asset) bool { return a.AssetTag == b.AssetTag },
		nil,
	)}
}

func (r *assetRepo) Create(_ context.Context, a *model.Asset) error {
	return r.t.insert(a)
}

func (r *assetRepo) GetByID(_ context.Context, id string) (*model.Asset, error) {
	return r.t.get(id)
}

func (r *assetRepo) GetByTag(_ context.Context, tag string) (*model.Asset, error) {
	return r.t.first(func(a *model.Asset) bool { return a.AssetTag == tag }, nil)
}

func (r *assetRepo) List(_ context.Context, f repository.AssetFilter) ([]model.Asset, int64, error) {
	all := r.t.filter(func(a *model.Asset) bool {
		switch {
		case f.Status != "" && a.Status != f.Status:
			return false
		case f.Category != "" && a.Category != f.Category:
			return false
		case f.AssignedTo != "" && !strPtrEq(a.AssignedTo, f.AssignedTo):
			return false
		}
		return true
	}, func(a, b *model.Asset) bool { return a.AssetTag < b.AssetTag })
	return page(all, f.Offset, f.Limit), int64(len(all)), nil
}

func (r *assetRepo) Update(_ context.Context, a *model.Asset) error {
	return r.t.replace(a)
}

func (r *assetRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

// ────── Attendance ──────

type attendanceRepo struct {
	t *table[model.Attendance]
}

func newAttendanceRepo() *attendanceRepo {
	return &attendanceRepo{t: newTable(
		func(a *model.Attendance) *string { return &a.ID }, nil, nil,
	)}
}

func (r *attendanceRepo) Create(_ context.Context, a *model.Attendance) error {
	return r.t.insert(a)
}

func (r *attendanceRepo) GetByID(_ context.Context, id string) (*model.Attendance, error) {
	return r.t.get(id)
}

func (r *attendanceRepo) GetOpen(_ context.Context, employeeID, date string) (*model.Attendance, error) {
	return r.t.first(func(a *model.Attendance) bool {
		return a.EmployeeID == employeeID && a.Date == date && a.Open()
	}, func(a, b *model.Attendance) bool { return a.CheckIn.After(b.CheckIn) })
}

func (r *attendanceRepo) List(_ context.Context, f repository.AttendanceFilter) ([]model.Attendance, error) {
	return r.t.filter(func(a *model.Attendance) bool {
		switch {
		case f.EmployeeID != "" && a.EmployeeID != f.EmployeeID:
			return false
		case f.From != "" && a.Date < f.From:
			return false
		case f.To != "" && a.Date > f.To:
			return false
		}
		return true
	}, func(a, b *model.Attendance) bool {
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		return a.CheckIn.After(b.CheckIn)
	}), nil
}

func (r *attendanceRepo) Update(_ context.Context, a *model.Attendance) error {
	return r.t.replace(a)
}

// ────── LeaveRequest ──────

type leaveRequestRepo struct {
	t *table[model.LeaveRequest]
}

func newLeaveRequestRepo() *leaveRequestRepo {
	return &leaveRequestRepo{t: newTable(
		func(l *model.LeaveRequest) *string { return &l.ID }, nil, nil,
	)}
}

func (r *leaveRequestRepo) Create(_ context.Context, l *model.LeaveRequest) error {
	return r.t.insert(l)
}

func (r *leaveRequestRepo) GetByID(_ context.Context, id string) (*model.LeaveRequest, error) {
	return r.t.get(id)
}

func (r *leaveRequestRepo) List(_ context.Context, f repository.LeaveFilter) ([]model.LeaveRequest, error) {
	return r.t.filter(func(l *model.LeaveRequest) bool {
		if f.EmployeeID != "" && l.EmployeeID != f.EmployeeID {
			return false
		}
		return f.Status == "" || l.Status == f.Status
	}, func(a, b *model.LeaveRequest) bool { return a.StartDate > b.StartDate }), nil
}

func (r *leaveRequestRepo) Update(_ context.Context, l *model.LeaveRequest) error {
	return r.t.replace(l)
}

func (r *leaveRequestRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

// ────── Notification ──────

type notificationRepo struct {
	t *table[model.Notification]
}

func newNotificationRepo() *notificationRepo {
	return &notificationRepo{t: newTable(
		func(n *model.Notification) *string { return &n.ID }, nil, nil,
	)}
}

func (r *notificationRepo) Create(_ context.Context, n *model.Notification) error {
	return r.t.insert(n)
}

func (r *notificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	return r.t.get(id)
}

func (r *notificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	return r.t.filter(func(n *model.Notification) bool {
		return n.UserID == userID && (!unreadOnly || !n.IsRead)
	}, func(a, b *model.Notification) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

func (r *notificationRepo) MarkRead(_ context.Context, id, userID string, at time.Time) error {
	n := r.t.mutate(func(n *model.Notification) bool {
		return n.ID == id && n.UserID == userID
	}, func(n *model.Notification) {
		n.IsRead = true
		n.ReadAt = &at
		n.UpdatedAt = at
	})
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(_ context.Context, userID string, at time.Time) (int64, error) {
	return r.t.mutate(func(n *model.Notification) bool {
		return n.UserID == userID && !n.IsRead
	}, func(n *model.Notification) {
		n.IsRead = true
		n.ReadAt = &at
		n.UpdatedAt = at
	}), nil
}
