package model

// 资产状态
const (
	AssetStatusAvailable   = "available"
	AssetStatusAssigned    = "assigned"
	AssetStatusMaintenance = "maintenance"
	AssetStatusRetired     = "retired"
)

// Asset 固定资产 — 对应 assets
type Asset struct {
	ID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AssetTag     string  `gorm:"type:varchar(50);not null;uniqueIndex"          json:"asset_tag"`
	Name         string  `gorm:"type:varchar(200);not null"                     json:"name"`
	Category     string  `gorm:"type:varchar(50)"                               json:"category"`
	Status       string  `gorm:"type:varchar(20);not null;default:'available'"  json:"status"`
	AssignedTo   *string `gorm:"type:uuid"                                      json:"assigned_to,omitempty"` // employee id
	RoomID       *string `gorm:"type:uuid"                                      json:"room_id,omitempty"`
	PurchaseDate *string `gorm:"type:varchar(10)"                                      json:"purchase_date,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Asset) TableName() string { return "assets" }
