package services

import (
	"reservo/internal/database"
	"reservo/internal/models"

	"gorm.io/gorm"
)

type PermissionService struct {
	db *gorm.DB
}

func NewPermissionService() *PermissionService {
	return &PermissionService{
		db: database.GetDB(),
	}
}

// GetByID 根据ID获取权限
// 租户隔离：tenantID 非nil时只能取到该租户的权限项，跨租户的ID按不存在处理
func (s *PermissionService) GetByID(id uint, tenantID *uint) (*models.Permission, error) {
	var permission models.Permission
	query := s.db.Where("id = ?", id)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}
	err := query.First(&permission).Error
	return &permission, err
}

// GetByTenant 获取租户的权限目录
func (s *PermissionService) GetByTenant(tenantID uint) ([]*models.Permission, error) {
	var permissions []*models.Permission
	err := s.db.Where("tenant_id = ?", tenantID).
		Order("resource, action").
		Find(&permissions).Error
	return permissions, err
}

// GetByTenantAndResource 按资源过滤租户的权限目录
func (s *PermissionService) GetByTenantAndResource(tenantID uint, resource string) ([]*models.Permission, error) {
	var permissions []*models.Permission
	err := s.db.Where("tenant_id = ? AND resource = ?", tenantID, resource).
		Order("action").
		Find(&permissions).Error
	return permissions, err
}

// SetActive 启停权限项（停用后所有角色的该项授权立即失效）
func (s *PermissionService) SetActive(id uint, isActive bool, tenantID *uint) (*models.Permission, error) {
	permission, err := s.GetByID(id, tenantID)
	if err != nil {
		return nil, err
	}

	permission.IsActive = isActive
	err = s.db.Save(permission).Error
	return permission, err
}
