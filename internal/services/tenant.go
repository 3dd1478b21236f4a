package services

import (
	"fmt"
	"unicode/utf8"

	"reservo/internal/database"
	"reservo/internal/models"
	"reservo/pkg/rbac"

	"gorm.io/gorm"
)

type TenantService struct {
	db *gorm.DB
}

// TenantStats 租户统计信息
type TenantStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

func NewTenantService() *TenantService {
	return &TenantService{
		db: database.GetDB(),
	}
}

// ========== 租户开通 ==========

// tenantResources 每个租户开通时播种权限目录的资源清单
// TENANT 资源是平台级的，只在平台租户播种
var tenantResources = []rbac.Resource{
	rbac.ResourceUser,
	rbac.ResourceRole,
	rbac.ResourcePermission,
	rbac.ResourceField,
	rbac.ResourceReservation,
	rbac.ResourceStaff,
	rbac.ResourceMetrics,
	rbac.ResourceSettings,
	rbac.ResourcePayment,
}

var allActions = []rbac.Action{
	rbac.ActionCreate,
	rbac.ActionRead,
	rbac.ActionUpdate,
	rbac.ActionDelete,
	rbac.ActionManage,
}

// standardRoleGrants 标准角色的默认权限配置
// MANAGE 是独立权限项：需要全量操作的角色必须显式授予 MANAGE
var standardRoleGrants = map[string][]rbac.PermissionCheck{
	models.RoleCodeTenantAdmin: manageAll(tenantResources),
	models.RoleCodeTenantStaff: {
		{Action: rbac.ActionRead, Resource: rbac.ResourceField},
		{Action: rbac.ActionUpdate, Resource: rbac.ResourceField},
		{Action: rbac.ActionCreate, Resource: rbac.ResourceReservation},
		{Action: rbac.ActionRead, Resource: rbac.ResourceReservation},
		{Action: rbac.ActionUpdate, Resource: rbac.ResourceReservation},
		{Action: rbac.ActionRead, Resource: rbac.ResourceUser},
		{Action: rbac.ActionRead, Resource: rbac.ResourceMetrics},
	},
	models.RoleCodeClient: {
		{Action: rbac.ActionRead, Resource: rbac.ResourceField},
		{Action: rbac.ActionCreate, Resource: rbac.ResourceReservation},
		{Action: rbac.ActionRead, Resource: rbac.ResourceReservation},
	},
}

func manageAll(resources []rbac.Resource) []rbac.PermissionCheck {
	checks := make([]rbac.PermissionCheck, 0, len(resources))
	for _, resource := range resources {
		checks = append(checks, rbac.PermissionCheck{Action: rbac.ActionManage, Resource: resource})
	}
	return checks
}

// Create 创建租户并完成开通：播种权限目录和标准角色
func (s *TenantService) Create(name, code, displayName, planTier string) (*models.Tenant, error) {
	if err := s.ValidateCreateParams(name, code); err != nil {
		return nil, err
	}
	if planTier == "" {
		planTier = models.PlanTierFree
	}
	if !models.IsValidPlanTier(planTier) {
		return nil, fmt.Errorf("套餐档位无效")
	}

	// 检查代码是否重复
	var count int64
	s.db.Model(&models.Tenant{}).Where("code = ?", code).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("租户代码已存在")
	}

	tenant := &models.Tenant{
		Name:        name,
		Code:        code,
		DisplayName: displayName,
		PlanTier:    planTier,
		Status:      models.TenantStatusActive,
	}
	tenant.ApplyPlanDefaults()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return err
		}
		if err := s.seedPermissions(tx, tenant.ID); err != nil {
			return err
		}
		return s.seedStandardRoles(tx, tenant.ID)
	})
	if err != nil {
		return nil, err
	}

	return tenant, nil
}

// seedPermissions 为租户播种权限目录（资源×操作）
func (s *TenantService) seedPermissions(tx *gorm.DB, tenantID uint) error {
	permissions := make([]models.Permission, 0, len(tenantResources)*len(allActions))
	for _, resource := range tenantResources {
		for _, action := range allActions {
			permissions = append(permissions, models.Permission{
				TenantID: tenantID,
				Action:   string(action),
				Resource: string(resource),
				Name:     fmt.Sprintf("%s %s", resource, action),
				IsActive: true,
			})
		}
	}
	return tx.Create(&permissions).Error
}

// seedStandardRoles 为租户播种标准角色并挂接默认权限
func (s *TenantService) seedStandardRoles(tx *gorm.DB, tenantID uint) error {
	for _, standard := range models.StandardTenantRoles {
		role := &models.Role{
			TenantID: tenantID,
			Code:     standard.Code,
			Name:     standard.Name,
			IsSystem: true,
			Status:   models.RoleStatusActive,
		}
		if err := tx.Create(role).Error; err != nil {
			return err
		}

		grants, ok := standardRoleGrants[standard.Code]
		if !ok {
			continue
		}
		for _, grant := range grants {
			var permission models.Permission
			err := tx.Where("tenant_id = ? AND action = ? AND resource = ?",
				tenantID, string(grant.Action), string(grant.Resource)).
				First(&permission).Error
			if err != nil {
				return fmt.Errorf("查找权限 %s:%s 失败: %v", grant.Resource, grant.Action, err)
			}
			rolePermission := &models.RolePermission{
				RoleID:       role.ID,
				PermissionID: permission.ID,
			}
			if err := tx.Create(rolePermission).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// ========== 基础CRUD方法 ==========

// GetByID 根据ID获取租户
func (s *TenantService) GetByID(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.First(&tenant, id).Error
	return &tenant, err
}

// GetByCode 根据代码获取租户
func (s *TenantService) GetByCode(code string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.Where("code = ?", code).First(&tenant).Error
	return &tenant, err
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *TenantService) GetWithFiltersAndPage(status, keyword string, page, pageSize int) ([]*models.Tenant, int64, error) {
	var tenants []*models.Tenant
	var total int64

	query := s.db.Model(&models.Tenant{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("name LIKE ? OR code LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Find(&tenants).Error
	if err != nil {
		return nil, 0, err
	}

	return tenants, total, nil
}

// GetAllActive 获取所有激活的租户（含用户数量）
func (s *TenantService) GetAllActive() ([]*models.Tenant, error) {
	var tenants []*models.Tenant
	err := s.db.Model(&models.Tenant{}).
		Where("status = ?", models.TenantStatusActive).
		Order("created_at DESC").
		Find(&tenants).Error

	for i := range tenants {
		var userCount int64
		s.db.Model(&models.User{}).Where("tenant_id = ?", tenants[i].ID).Count(&userCount)
		tenants[i].UserCount = int(userCount)
	}

	return tenants, err
}

// Update 更新租户
func (s *TenantService) Update(id uint, name, displayName, status, planTier string) (*models.Tenant, error) {
	if !s.ValidateName(name) {
		return nil, fmt.Errorf("租户名称长度必须在2-50个字符之间")
	}
	if !s.IsValidStatus(status) {
		return nil, fmt.Errorf("状态只能是active或inactive")
	}

	var tenant models.Tenant
	err := s.db.First(&tenant, id).Error
	if err != nil {
		return nil, err
	}

	tenant.Name = name
	tenant.DisplayName = displayName
	tenant.Status = status
	if planTier != "" && planTier != tenant.PlanTier {
		if !models.IsValidPlanTier(planTier) {
			return nil, fmt.Errorf("套餐档位无效")
		}
		tenant.PlanTier = planTier
		tenant.ApplyPlanDefaults()
	}

	err = s.db.Save(&tenant).Error
	return &tenant, err
}

// Activate 激活租户
func (s *TenantService) Activate(id uint) (*models.Tenant, error) {
	return s.setStatus(id, models.TenantStatusActive)
}

// Deactivate 停用租户
func (s *TenantService) Deactivate(id uint) (*models.Tenant, error) {
	return s.setStatus(id, models.TenantStatusInactive)
}

func (s *TenantService) setStatus(id uint, status string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.First(&tenant, id).Error
	if err != nil {
		return nil, err
	}

	tenant.Status = status
	err = s.db.Save(&tenant).Error
	return &tenant, err
}

// ========== 统计相关方法 ==========

// GetStats 获取租户统计
func (s *TenantService) GetStats() (*TenantStats, error) {
	stats := &TenantStats{}

	s.db.Model(&models.Tenant{}).Count(&stats.Total)
	s.db.Model(&models.Tenant{}).Where("status = ?", models.TenantStatusActive).Count(&stats.Active)
	s.db.Model(&models.Tenant{}).Where("status = ?", models.TenantStatusInactive).Count(&stats.Inactive)

	return stats, nil
}

// ========== 业务判断方法 ==========

// IsActive 检查租户是否激活
func (s *TenantService) IsActive(tenant *models.Tenant) bool {
	return tenant.Status == models.TenantStatusActive
}

// IsValidStatus 检查租户状态是否有效
func (s *TenantService) IsValidStatus(status string) bool {
	switch status {
	case models.TenantStatusActive, models.TenantStatusInactive:
		return true
	default:
		return false
	}
}

// ========== 验证相关方法 ==========

// ValidateName 验证租户名称
func (s *TenantService) ValidateName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	return runeCount >= 2 && runeCount <= 50
}

// ValidateCode 验证租户代码
func (s *TenantService) ValidateCode(code string) bool {
	if len(code) < 2 || len(code) > 20 {
		return false
	}
	for _, r := range code {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}

// ValidateCreateParams 验证创建租户的参数
func (s *TenantService) ValidateCreateParams(name, code string) error {
	if !s.ValidateName(name) {
		return fmt.Errorf("租户名称长度必须在2-50个字符之间")
	}
	if !s.ValidateCode(code) {
		return fmt.Errorf("租户代码长度必须在2-20个字符之间，且只能包含小写字母、数字和连字符")
	}
	return nil
}
