package dto

// ── 公告模块 DTO ──

// CreateAnnouncementRequest 创建公告请求，active 缺省为 true
type CreateAnnouncementRequest struct {
	Message string `json:"message" binding:"required,max=1000"`
	Active  *bool  `json:"active"`
}

// UpdateAnnouncementRequest 更新公告请求
type UpdateAnnouncementRequest struct {
	Message *string `json:"message" binding:"omitempty,min=1,max=1000"`
	Active  *bool   `json:"active"`
}

// AnnouncementListRequest 公告查询参数
type AnnouncementListRequest struct {
	Active *bool `form:"active"`
}

// AnnouncementDeleted 删除公告后的广播负载
type AnnouncementDeleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
