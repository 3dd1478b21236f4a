package models

import "time"

// Role 角色模型
// 角色严格按租户隔离：即使是标准角色，每个租户在开通时也会生成自己的副本
type Role struct {
	BaseModel
	TenantID    uint   `gorm:"not null;index;uniqueIndex:idx_tenant_role_code" json:"tenant_id"`
	Code        string `gorm:"size:100;not null;uniqueIndex:idx_tenant_role_code" json:"code"` // 角色代码，租户内唯一
	Name        string `gorm:"size:100;not null" json:"name"`                                  // 角色显示名称
	Description string `gorm:"size:255" json:"description"`
	IsSystem    bool   `gorm:"default:false" json:"is_system"`         // 系统角色：代码不可改，不可删除
	Status      string `gorm:"size:20;default:'active'" json:"status"` // 状态：active, inactive

	// 关联关系
	Tenant      *Tenant      `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
}

// 角色状态常量
const (
	RoleStatusActive   = "active"
	RoleStatusInactive = "inactive"
)

// 标准角色代码常量
// 规范类别的归类（含历史别名）由 pkg/rbac 的别名表统一负责
const (
	RoleCodeSysAdmin    = "sys_admin"    // 平台管理员
	RoleCodeTenantAdmin = "tenant_admin" // 租户管理员
	RoleCodeTenantStaff = "tenant_staff" // 租户员工
	RoleCodeClient      = "client"       // 客户
)

// StandardTenantRoles 租户开通时播种的标准角色代码
var StandardTenantRoles = []struct {
	Code string
	Name string
}{
	{RoleCodeTenantAdmin, "租户管理员"},
	{RoleCodeTenantStaff, "租户员工"},
	{RoleCodeClient, "客户"},
}

// RolePermission 角色权限关联表
type RolePermission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RoleID       uint      `gorm:"not null;index" json:"role_id"`
	PermissionID uint      `gorm:"not null;index" json:"permission_id"`
	CreatedAt    time.Time `json:"created_at"`
}
