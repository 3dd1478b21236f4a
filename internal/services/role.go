package services

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"reservo/internal/database"
	"reservo/internal/models"

	"gorm.io/gorm"
)

type RoleService struct {
	db    *gorm.DB
	authz *AuthzService
}

func NewRoleService(authz *AuthzService) *RoleService {
	return &RoleService{
		db:    database.GetDB(),
		authz: authz,
	}
}

// ========== 基础CRUD方法 ==========

// Create 在指定租户下创建自定义角色
func (s *RoleService) Create(tenantID uint, code, name, description string) (*models.Role, error) {
	if err := s.ValidateCreateParams(code, name); err != nil {
		return nil, err
	}

	// 角色代码在租户内唯一
	var count int64
	s.db.Model(&models.Role{}).Where("tenant_id = ? AND code = ?", tenantID, code).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("角色代码在该租户下已存在")
	}

	role := &models.Role{
		TenantID:    tenantID,
		Code:        code,
		Name:        name,
		Description: description,
		IsSystem:    false,
		Status:      models.RoleStatusActive,
	}

	err := s.db.Create(role).Error
	if err != nil {
		return nil, err
	}

	return role, nil
}

// findScoped 按ID取角色
// 租户隔离：tenantID 非nil时只能取到该租户的角色，跨租户的ID按不存在处理
func (s *RoleService) findScoped(id uint, tenantID *uint) (*models.Role, error) {
	var role models.Role
	query := s.db.Where("id = ?", id)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}
	err := query.First(&role).Error
	return &role, err
}

// GetByID 根据ID获取角色（含权限列表）
func (s *RoleService) GetByID(id uint, tenantID *uint) (*models.Role, error) {
	var role models.Role
	query := s.db.Preload("Permissions").Where("id = ?", id)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}
	err := query.First(&role).Error
	return &role, err
}

// GetByCode 根据租户和代码获取角色
func (s *RoleService) GetByCode(tenantID uint, code string) (*models.Role, error) {
	var role models.Role
	err := s.db.Where("tenant_id = ? AND code = ?", tenantID, code).First(&role).Error
	return &role, err
}

// GetByTenant 获取租户下的所有角色
func (s *RoleService) GetByTenant(tenantID uint) ([]*models.Role, error) {
	var roles []*models.Role
	err := s.db.Where("tenant_id = ?", tenantID).
		Order("is_system DESC, created_at ASC").
		Find(&roles).Error
	return roles, err
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *RoleService) GetWithFiltersAndPage(tenantID uint, status, keyword string, page, pageSize int) ([]*models.Role, int64, error) {
	var roles []*models.Role
	var total int64

	query := s.db.Model(&models.Role{}).Where("tenant_id = ?", tenantID)

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("code LIKE ? OR name LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).
		Order("is_system DESC, created_at ASC").
		Find(&roles).Error
	if err != nil {
		return nil, 0, err
	}

	return roles, total, nil
}

// Update 更新角色（系统角色的代码不可修改）
func (s *RoleService) Update(id uint, tenantID *uint, name, description, status string) (*models.Role, error) {
	if !s.ValidateName(name) {
		return nil, fmt.Errorf("角色名称长度必须在2-100个字符之间")
	}
	if status != models.RoleStatusActive && status != models.RoleStatusInactive {
		return nil, fmt.Errorf("状态只能是active或inactive")
	}

	role, err := s.findScoped(id, tenantID)
	if err != nil {
		return nil, err
	}

	if role.IsSystem && status == models.RoleStatusInactive {
		return nil, fmt.Errorf("系统角色不能停用")
	}

	role.Name = name
	role.Description = description
	role.Status = status

	err = s.db.Save(role).Error
	if err != nil {
		return nil, err
	}

	s.authz.InvalidateRole(role.ID)
	return role, nil
}

// Delete 删除角色（系统角色不可删除，有用户持有的角色不可删除）
func (s *RoleService) Delete(id uint, tenantID *uint) error {
	role, err := s.findScoped(id, tenantID)
	if err != nil {
		return err
	}

	if role.IsSystem {
		return fmt.Errorf("系统角色不能删除")
	}

	var holderCount int64
	s.db.Model(&models.UserRole{}).Where("role_id = ?", role.ID).Count(&holderCount)
	if holderCount > 0 {
		return fmt.Errorf("该角色仍有%d个用户持有，不能删除", holderCount)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", role.ID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Role{}, role.ID).Error
	})
}

// ========== 权限管理方法 ==========

// AssignPermissions 全量设置角色的权限（替换现有配置）
// 角色必须在生效租户范围内，权限必须与角色同租户
func (s *RoleService) AssignPermissions(roleID uint, tenantID *uint, permissionIDs []uint) error {
	role, err := s.findScoped(roleID, tenantID)
	if err != nil {
		return fmt.Errorf("角色不存在")
	}

	// 校验所有权限都属于角色所在租户
	if len(permissionIDs) > 0 {
		var count int64
		s.db.Model(&models.Permission{}).
			Where("id IN ? AND tenant_id = ?", permissionIDs, role.TenantID).
			Count(&count)
		if int(count) != len(permissionIDs) {
			return fmt.Errorf("存在无效或不属于该租户的权限")
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", role.ID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		for _, permissionID := range permissionIDs {
			rolePermission := &models.RolePermission{
				RoleID:       role.ID,
				PermissionID: permissionID,
			}
			if err := tx.Create(rolePermission).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// 角色权限变化后失效所有持有者的授权快照
	s.authz.InvalidateRole(role.ID)
	return nil
}

// GetRolePermissions 获取角色的权限列表
func (s *RoleService) GetRolePermissions(roleID uint, tenantID *uint) ([]*models.Permission, error) {
	if _, err := s.findScoped(roleID, tenantID); err != nil {
		return nil, fmt.Errorf("角色不存在")
	}

	var permissions []*models.Permission
	err := s.db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Where("permissions.is_active = ?", true).
		Order("permissions.resource, permissions.action").
		Find(&permissions).Error
	return permissions, err
}

// GetRoleUsers 获取持有角色的用户列表
func (s *RoleService) GetRoleUsers(roleID uint, tenantID *uint) ([]*models.User, error) {
	if _, err := s.findScoped(roleID, tenantID); err != nil {
		return nil, fmt.Errorf("角色不存在")
	}

	var users []*models.User
	err := s.db.Table("users").
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("user_roles.role_id = ?", roleID).
		Where("user_roles.is_active = ?", true).
		Find(&users).Error
	return users, err
}

// ========== 验证相关方法 ==========

var roleCodeRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{1,99}$`)

// ValidateCode 验证角色代码
func (s *RoleService) ValidateCode(code string) bool {
	return roleCodeRegex.MatchString(code)
}

// ValidateName 验证角色名称
func (s *RoleService) ValidateName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	return runeCount >= 2 && runeCount <= 100
}

// ValidateCreateParams 验证创建角色的参数
func (s *RoleService) ValidateCreateParams(code, name string) error {
	if !s.ValidateCode(code) {
		return fmt.Errorf("角色代码格式无效：小写字母开头，只能包含小写字母、数字和下划线")
	}
	if !s.ValidateName(name) {
		return fmt.Errorf("角色名称长度必须在2-100个字符之间")
	}
	return nil
}
