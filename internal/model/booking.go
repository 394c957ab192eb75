package model

// 预订状态
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking 教室预订 — 对应 bookings
// 同一教室同一天的已确认预订时段不得重叠（取消的预订不参与冲突判断）
type Booking struct {
	ID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RoomID    string  `gorm:"type:uuid;not null;index:idx_booking_room_date" json:"room_id"`
	Date      string  `gorm:"type:varchar(10);not null;index:idx_booking_room_date" json:"date"`
	StartTime string  `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime   string  `gorm:"type:varchar(5);not null"                       json:"end_time"`
	Title     string  `gorm:"type:varchar(200);not null"                     json:"title"`
	BookedBy  string  `gorm:"type:uuid;not null"                             json:"booked_by"`
	Attendees int     `gorm:"not null;default:0"                             json:"attendees"`
	Status    string  `gorm:"type:varchar(20);not null;default:'confirmed'"  json:"status"`
	Notes     *string `gorm:"type:text"                                      json:"notes,omitempty"`
	BaseModel

	// 关联
	Room *Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}

// TableName 指定表名
func (Booking) TableName() string { return "bookings" }
