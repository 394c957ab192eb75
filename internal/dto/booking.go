package dto

// ── 预订模块 DTO ──

// CreateBookingRequest 创建预订请求
type CreateBookingRequest struct {
	RoomID    string  `json:"room_id"    binding:"required"`
	Date      string  `json:"date"       binding:"required,datetime=2006-01-02"`
	StartTime string  `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string  `json:"end_time"   binding:"required,datetime=15:04"`
	Title     string  `json:"title"      binding:"required,max=200"`
	Attendees int     `json:"attendees"  binding:"omitempty,min=0"`
	Notes     *string `json:"notes"      binding:"omitempty,max=2000"`
}

// BookingListRequest 预订查询参数
type BookingListRequest struct {
	RoomID string `form:"room_id"`
	Date   string `form:"date"   binding:"omitempty,datetime=2006-01-02"`
	Status string `form:"status" binding:"omitempty,oneof=confirmed cancelled"`
	Mine   bool   `form:"mine"`
}

// RoomAvailabilityRequest 教室占用查询
type RoomAvailabilityRequest struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to"   binding:"required,datetime=2006-01-02"`
}
