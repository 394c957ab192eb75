package model

import "time"

// Announcement 公告 — 对应 announcements
// 显示端只展示 active=true 的公告（取第一条）
type Announcement struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Message   string    `gorm:"type:text;not null"                             json:"message"`
	Active    bool      `gorm:"not null"                                       json:"active"`
	Timestamp time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"timestamp"`
	CreatedBy *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	UpdatedBy *string   `gorm:"type:uuid"                                      json:"updated_by,omitempty"`
}

// TableName 指定表名
func (Announcement) TableName() string { return "announcements" }
