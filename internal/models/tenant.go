package models

import "gorm.io/datatypes"

// Tenant 租户模型（场馆运营方）
type Tenant struct {
	BaseModel
	Name        string         `json:"name" gorm:"not null;size:100"`
	Code        string         `json:"code" gorm:"unique;not null;size:50;index"` // 租户标识（slug）
	DisplayName string         `json:"display_name" gorm:"size:100"`
	PlanTier    string         `json:"plan_tier" gorm:"default:'free';size:20"`
	Status      string         `json:"status" gorm:"default:'active';size:20"`
	MaxFields   int            `json:"max_fields" gorm:"default:3"`  // 套餐限制：最大场地数
	MaxUsers    int            `json:"max_users" gorm:"default:20"`  // 套餐限制：最大用户数
	Settings    datatypes.JSON `json:"settings" gorm:"type:jsonb"`   // 租户自定义设置
	UserCount   int            `json:"user_count" gorm:"-"`          // 用户数量，不存储在数据库中
}

// TableName 表名
func (t *Tenant) TableName() string {
	return "tenants"
}

// 租户状态常量
const (
	TenantStatusActive   = "active"
	TenantStatusInactive = "inactive"
)

// 套餐档位常量
const (
	PlanTierFree     = "free"
	PlanTierStandard = "standard"
	PlanTierPro      = "pro"
)

// planDefaults 各套餐的默认资源上限
var planDefaults = map[string]struct {
	MaxFields int
	MaxUsers  int
}{
	PlanTierFree:     {MaxFields: 3, MaxUsers: 20},
	PlanTierStandard: {MaxFields: 10, MaxUsers: 100},
	PlanTierPro:      {MaxFields: 50, MaxUsers: 1000},
}

// ApplyPlanDefaults 按套餐档位填充资源上限
func (t *Tenant) ApplyPlanDefaults() {
	if caps, ok := planDefaults[t.PlanTier]; ok {
		t.MaxFields = caps.MaxFields
		t.MaxUsers = caps.MaxUsers
	}
}

// IsValidPlanTier 检查套餐档位是否有效
func IsValidPlanTier(tier string) bool {
	_, ok := planDefaults[tier]
	return ok
}
