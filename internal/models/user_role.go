package models

import "time"

// UserRole 用户-角色持有记录
// IsActive=false 或 ExpiresAt 已过期的记录在任何授权判定中都视为未持有，
// 过滤在数据查询层统一完成，评估器不重复做这件事
type UserRole struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	RoleID     uint       `gorm:"not null;index" json:"role_id"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`   // 软禁用开关，无需删除记录
	AssignedAt time.Time  `gorm:"not null" json:"assigned_at"`     // 分配时间
	AssignedBy *uint      `json:"assigned_by"`                     // 分配人ID
	ExpiresAt  *time.Time `json:"expires_at"`                      // 过期时间（nil表示长期有效）
	CreatedAt  time.Time  `json:"created_at"`

	// 关联
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"role,omitempty"`
}

// TableName 表名
func (UserRole) TableName() string {
	return "user_roles"
}

// IsExpired 检查持有记录是否已过期
func (ur *UserRole) IsExpired(now time.Time) bool {
	return ur.ExpiresAt != nil && !ur.ExpiresAt.After(now)
}

// IsHeld 检查持有记录在指定时刻是否有效
func (ur *UserRole) IsHeld(now time.Time) bool {
	return ur.IsActive && !ur.IsExpired(now)
}
