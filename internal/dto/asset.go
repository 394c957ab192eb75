package dto

// ── 资产模块 DTO ──

// CreateAssetRequest 创建资产请求
type CreateAssetRequest struct {
	AssetTag     string  `json:"asset_tag"     binding:"required,max=50"`
	Name         string  `json:"name"          binding:"required,max=200"`
	Category     string  `json:"category"      binding:"omitempty,max=50"`
	RoomID       *string `json:"room_id"`
	PurchaseDate *string `json:"purchase_date" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateAssetRequest 更新资产请求
type UpdateAssetRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=1,max=200"`
	Category     *string `json:"category"      binding:"omitempty,max=50"`
	Status       *string `json:"status"        binding:"omitempty,oneof=available maintenance retired"`
	RoomID       *string `json:"room_id"`
	PurchaseDate *string `json:"purchase_date" binding:"omitempty,datetime=2006-01-02"`
}

// AssignAssetRequest 资产领用
type AssignAssetRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
}

// AssetListRequest 资产查询参数
type AssetListRequest struct {
	PaginationRequest
	Status     string `form:"status" binding:"omitempty,oneof=available assigned maintenance retired"`
	Category   string `form:"category"`
	AssignedTo string `form:"assigned_to"`
}
