package model

// 教室状态
const (
	RoomStatusAvailable   = "available"
	RoomStatusMaintenance = "maintenance"
	RoomStatusInactive    = "inactive"
)

// Room 教室/会议室 — 对应 rooms
// RoomNumber 与课表条目的 room_number 使用同一编号体系
type Room struct {
	ID         string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RoomNumber string      `gorm:"type:varchar(20);not null;uniqueIndex"          json:"room_number"`
	Name       string      `gorm:"type:varchar(100)"                              json:"name"`
	Building   string      `gorm:"type:varchar(100)"                              json:"building"`
	Floor      int         `gorm:"not null;default:0"                             json:"floor"`
	Capacity   int         `gorm:"not null;default:0"                             json:"capacity"`
	Type       string      `gorm:"type:varchar(20);not null;default:'classroom'"  json:"type"`
	Status     string      `gorm:"type:varchar(20);not null;default:'available'"  json:"status"`
	Amenities  StringArray `gorm:"type:text[]"                                    json:"amenities"`
	BaseModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }
