package dto

// ── 教室模块 DTO ──

// CreateRoomRequest 创建教室请求
type CreateRoomRequest struct {
	RoomNumber string   `json:"room_number" binding:"required,max=20"`
	Name       string   `json:"name"        binding:"omitempty,max=100"`
	Building   string   `json:"building"    binding:"omitempty,max=100"`
	Floor      int      `json:"floor"`
	Capacity   int      `json:"capacity"    binding:"omitempty,min=0,max=10000"`
	Type       string   `json:"type"        binding:"omitempty,oneof=classroom lab meeting auditorium office"`
	Amenities  []string `json:"amenities"   binding:"omitempty,max=30,dive,max=50"`
}

// UpdateRoomRequest 更新教室请求
type UpdateRoomRequest struct {
	Name      *string   `json:"name"      binding:"omitempty,max=100"`
	Building  *string   `json:"building"  binding:"omitempty,max=100"`
	Floor     *int      `json:"floor"`
	Capacity  *int      `json:"capacity"  binding:"omitempty,min=0,max=10000"`
	Type      *string   `json:"type"      binding:"omitempty,oneof=classroom lab meeting auditorium office"`
	Status    *string   `json:"status"    binding:"omitempty,oneof=available maintenance inactive"`
	Amenities *[]string `json:"amenities" binding:"omitempty,max=30,dive,max=50"`
}

// RoomListRequest 教室查询参数
type RoomListRequest struct {
	Building    string `form:"building"`
	Status      string `form:"status"       binding:"omitempty,oneof=available maintenance inactive"`
	MinCapacity int    `form:"min_capacity" binding:"omitempty,min=0"`
}
