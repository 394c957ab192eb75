package rbac

import "testing"

func TestHas(t *testing.T) {
	tests := []struct {
		role string
		perm Permission
		want bool
	}{
		{"viewer", ScheduleRead, true},
		{"viewer", ScheduleWrite, false},
		{"viewer", TaskWrite, false},
		{"editor", ScheduleWrite, true},
		{"editor", ExportRead, true},
		{"editor", ScheduleImport, false},
		{"editor", LeaveApprove, false},
		{"admin", ScheduleImport, true},
		{"admin", UsersManage, true},
		{"admin", TaskRead, true},
		{"guest", ScheduleRead, false},
		{"", ScheduleRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+string(tt.perm), func(t *testing.T) {
			if got := Has(tt.role, tt.perm); got != tt.want {
				t.Errorf("Has(%q, %q) = %v, want %v", tt.role, tt.perm, got, tt.want)
			}
		})
	}
}

func TestRoleHierarchy(t *testing.T) {
	// admin ⊇ editor ⊇ viewer
	for _, p := range Permissions("viewer") {
		if !Has("editor", Permission(p)) {
			t.Errorf("editor 缺少 viewer 权限 %s", p)
		}
	}
	for _, p := range Permissions("editor") {
		if !Has("admin", Permission(p)) {
			t.Errorf("admin 缺少 editor 权限 %s", p)
		}
	}
	if len(Permissions("admin")) <= len(Permissions("editor")) {
		t.Error("admin 权限应严格多于 editor")
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{"admin", "editor", "viewer"} {
		if !ValidRole(r) {
			t.Errorf("%s 应为合法角色", r)
		}
	}
	if ValidRole("root") {
		t.Error("root 不应为合法角色")
	}
	if got := Permissions("root"); len(got) != 0 {
		t.Errorf("未知角色不应有权限: %v", got)
	}
}
