package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/dto"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
)

func TestUserService_List(t *testing.T) {
	repo := newTestRepo()
	createTestUser(t, repo, "alice", "password123", model.RoleEditor)
	createTestUser(t, repo, "bob", "password123", model.RoleViewer)
	createTestUser(t, repo, "carol", "password123", model.RoleViewer)
	svc := NewUserService(repo, zap.NewNop())

	list, total, err := svc.List(context.Background(), &dto.PaginationRequest{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 3 {
		t.Errorf("total 期望 3，实际 %d", total)
	}
	if len(list) != 2 {
		t.Errorf("分页后期望 2 条，实际 %d", len(list))
	}
	for _, u := range list {
		if len(u.Permissions) == 0 {
			t.Errorf("%s 缺少权限列表", u.Username)
		}
	}
}

func TestUserService_AssignRole(t *testing.T) {
	repo := newTestRepo()
	admin := createTestUser(t, repo, "root", "password123", model.RoleAdmin)
	bob := createTestUser(t, repo, "bob", "password123", model.RoleViewer)
	svc := NewUserService(repo, zap.NewNop())
	ctx := context.Background()

	resp, err := svc.AssignRole(ctx, bob.ID, &dto.AssignRoleRequest{Role: model.RoleEditor}, admin.ID)
	if err != nil {
		t.Fatalf("AssignRole 失败: %v", err)
	}
	if resp.Role != model.RoleEditor {
		t.Errorf("角色期望 editor，实际 %s", resp.Role)
	}
	stored, _ := repo.User.GetByID(ctx, bob.ID)
	if stored.Role != model.RoleEditor {
		t.Errorf("存储中的角色未更新: %s", stored.Role)
	}

	tests := []struct {
		name    string
		id      string
		role    string
		wantErr error
	}{
		{"修改自己", admin.ID, model.RoleViewer, ErrUserSelfRoleChange},
		{"未知角色", bob.ID, "superuser", ErrInvalidRole},
		{"用户不存在", "00000000-0000-0000-0000-00000000dead", model.RoleViewer, ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AssignRole(ctx, tt.id, &dto.AssignRoleRequest{Role: tt.role}, admin.ID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("期望 %v，实际 %v", tt.wantErr, err)
			}
		})
	}
}
