package model

import "time"

// ScheduleEntry 课表条目 — 对应 schedule_entries
// 同一 (date, room_number) 下任意两条记录的 [start_time, end_time) 不得重叠
type ScheduleEntry struct {
	ID          string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Date        string      `gorm:"type:varchar(10);not null;index:idx_schedule_date_room" json:"date"`        // YYYY-MM-DD
	StartTime   string      `gorm:"type:varchar(5);not null"                        json:"start_time"`  // HH:mm
	EndTime     string      `gorm:"type:varchar(5);not null"                        json:"end_time"`    // HH:mm
	RoomNumber  string      `gorm:"type:varchar(20);not null;index:idx_schedule_date_room" json:"room_number"`
	Subject     string      `gorm:"type:varchar(200);not null"                      json:"subject"`
	FacultyName string      `gorm:"type:varchar(100);not null"                      json:"faculty_name"`
	Tags        StringArray `gorm:"type:text[]"                                     json:"tags"`
	CreatedBy   string      `gorm:"type:uuid;not null"                              json:"created_by"`
	CreatedAt   time.Time   `gorm:"not null;autoCreateTime:false"                   json:"created_at"`
	UpdatedBy   *string     `gorm:"type:uuid"                                       json:"updated_by,omitempty"`
	UpdatedAt   *time.Time  `gorm:"autoUpdateTime:false"                            json:"updated_at,omitempty"`
}

// TableName 指定表名
func (ScheduleEntry) TableName() string { return "schedule_entries" }
