package dto

// AssignRoleRequest 分配角色请求（管理员）
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin editor viewer"`
}
