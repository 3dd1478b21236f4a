package models

import "gorm.io/datatypes"

// Field 场地模型（租户可预订的运动场地）
type Field struct {
	BaseModel
	TenantID     uint           `gorm:"not null;index" json:"tenant_id"`
	Name         string         `gorm:"not null;size:100" json:"name"`
	SportType    string         `gorm:"not null;size:30" json:"sport_type"`
	Status       string         `gorm:"default:'open';size:20" json:"status"`
	HourlyPrice  int64          `gorm:"default:0" json:"hourly_price"` // 单位：分
	OpeningHours datatypes.JSON `gorm:"type:jsonb" json:"opening_hours"`

	// 关联
	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// TableName 表名
func (f *Field) TableName() string {
	return "fields"
}

// 场地状态常量
const (
	FieldStatusOpen        = "open"
	FieldStatusClosed      = "closed"
	FieldStatusMaintenance = "maintenance"
)

// 运动类型常量
const (
	SportTypeFootball   = "football"
	SportTypeBasketball = "basketball"
	SportTypeTennis     = "tennis"
	SportTypeBadminton  = "badminton"
	SportTypePadel      = "padel"
)

// IsValidSportType 检查运动类型是否有效
func IsValidSportType(sportType string) bool {
	switch sportType {
	case SportTypeFootball, SportTypeBasketball, SportTypeTennis, SportTypeBadminton, SportTypePadel:
		return true
	default:
		return false
	}
}

// IsValidFieldStatus 检查场地状态是否有效
func IsValidFieldStatus(status string) bool {
	switch status {
	case FieldStatusOpen, FieldStatusClosed, FieldStatusMaintenance:
		return true
	default:
		return false
	}
}
