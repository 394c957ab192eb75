package dto

// ── 通知模块 DTO ──

// CreateNotificationRequest 发送通知
type CreateNotificationRequest struct {
	UserID      string  `json:"user_id"      binding:"required"`
	Type        string  `json:"type"         binding:"required,max=50"`
	Title       string  `json:"title"        binding:"required,max=200"`
	Content     string  `json:"content"      binding:"required,max=5000"`
	RelatedType *string `json:"related_type" binding:"omitempty,oneof=booking leave task visitor"`
	RelatedID   *string `json:"related_id"`
}

// NotificationListRequest 通知查询参数
type NotificationListRequest struct {
	UnreadOnly bool `form:"unread_only"`
}

// MarkAllReadResponse 全部已读结果
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
