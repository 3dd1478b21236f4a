package models

import "fmt"

// Permission 权限模型：按租户隔离的（操作，资源）对
// 操作与资源取值见 pkg/rbac 的枚举常量；MANAGE 是独立权限项，不展开
type Permission struct {
	BaseModel
	TenantID    uint   `gorm:"not null;index;uniqueIndex:idx_tenant_perm" json:"tenant_id"`
	Action      string `gorm:"size:20;not null;uniqueIndex:idx_tenant_perm" json:"action"`   // CREATE/READ/UPDATE/DELETE/MANAGE
	Resource    string `gorm:"size:50;not null;uniqueIndex:idx_tenant_perm" json:"resource"` // USER/ROLE/FIELD/RESERVATION/...
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

// TableName 表名
func (p *Permission) TableName() string {
	return "permissions"
}

// Code 权限代码，如 "FIELD:CREATE"
func (p *Permission) Code() string {
	return fmt.Sprintf("%s:%s", p.Resource, p.Action)
}
