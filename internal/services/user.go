package services

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"reservo/internal/database"
	"reservo/internal/models"

	"gorm.io/gorm"
)

type UserService struct {
	db    *gorm.DB
	authz *AuthzService
}

// UserStats 用户统计信息
type UserStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Locked   int64 `json:"locked"`
}

func NewUserService(authz *AuthzService) *UserService {
	return &UserService{
		db:    database.GetDB(),
		authz: authz,
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建用户（受租户套餐的用户数上限约束）
func (s *UserService) Create(username, email, password, name string, tenantID *uint, phone *string) (*models.User, error) {
	if err := s.ValidateCreateParams(username, email, password, name); err != nil {
		return nil, err
	}

	// 检查用户名和邮箱是否重复
	var count int64
	s.db.Model(&models.User{}).Where("username = ? OR email = ?", username, email).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("用户名或邮箱已存在")
	}

	if tenantID != nil {
		if err := s.checkUserQuota(*tenantID); err != nil {
			return nil, err
		}
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Name:     name,
		TenantID: tenantID,
		Phone:    phone,
		Status:   models.UserStatusActive,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	err := s.db.Create(user).Error
	if err != nil {
		return nil, err
	}

	return user, nil
}

// checkUserQuota 检查租户用户数是否达到套餐上限
func (s *UserService) checkUserQuota(tenantID uint) error {
	var tenant models.Tenant
	if err := s.db.First(&tenant, tenantID).Error; err != nil {
		return fmt.Errorf("租户不存在")
	}
	if tenant.Status != models.TenantStatusActive {
		return fmt.Errorf("租户已停用")
	}

	var count int64
	s.db.Model(&models.User{}).Where("tenant_id = ?", tenantID).Count(&count)
	if int(count) >= tenant.MaxUsers {
		return fmt.Errorf("租户用户数已达套餐上限（%d）", tenant.MaxUsers)
	}
	return nil
}

// findScoped 按ID取用户
// 租户隔离：tenantID 非nil时只能取到该租户的用户，跨租户的ID按不存在处理
// 平台管理员没有所属租户，天然不会被租户范围内的管理操作取到
func (s *UserService) findScoped(id uint, tenantID *uint) (*models.User, error) {
	var user models.User
	query := s.db.Where("id = ?", id)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}
	err := query.First(&user).Error
	return &user, err
}

// GetByID 根据ID获取用户
func (s *UserService) GetByID(id uint, tenantID *uint) (*models.User, error) {
	var user models.User
	query := s.db.Preload("Tenant").Where("id = ?", id)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}
	err := query.First(&user).Error
	return &user, err
}

// GetByUsername 根据用户名获取用户
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	return &user, err
}

// GetByEmail 根据邮箱获取用户
func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *UserService) GetWithFiltersAndPage(tenantID *uint, status, keyword string, page, pageSize int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := s.db.Model(&models.User{})

	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("username LIKE ? OR email LIKE ? OR name LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Tenant").Offset(offset).Limit(pageSize).
		Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update 更新用户基本信息
func (s *UserService) Update(id uint, tenantID *uint, name string, phone, avatar *string) (*models.User, error) {
	if !s.ValidateName(name) {
		return nil, fmt.Errorf("姓名长度必须在2-100个字符之间")
	}

	user, err := s.findScoped(id, tenantID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Phone = phone
	user.Avatar = avatar

	err = s.db.Save(user).Error
	return user, err
}

// Delete 删除用户（同时清理角色持有记录并失效授权快照）
func (s *UserService) Delete(id uint, tenantID *uint) error {
	user, err := s.findScoped(id, tenantID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, user.ID).Error; err != nil {
			return err
		}
		s.authz.InvalidateUser(user.ID)
		return nil
	})
}

// ========== 状态管理方法 ==========

// Activate 激活用户
func (s *UserService) Activate(id uint, tenantID *uint) (*models.User, error) {
	return s.setStatus(id, tenantID, models.UserStatusActive)
}

// Deactivate 停用用户
func (s *UserService) Deactivate(id uint, tenantID *uint) (*models.User, error) {
	return s.setStatus(id, tenantID, models.UserStatusInactive)
}

// Lock 锁定用户
func (s *UserService) Lock(id uint, tenantID *uint) (*models.User, error) {
	return s.setStatus(id, tenantID, models.UserStatusLocked)
}

func (s *UserService) setStatus(id uint, tenantID *uint, status string) (*models.User, error) {
	user, err := s.findScoped(id, tenantID)
	if err != nil {
		return nil, err
	}

	user.Status = status
	err = s.db.Save(user).Error
	if err != nil {
		return nil, err
	}

	s.authz.InvalidateUser(user.ID)
	return user, nil
}

// UpdateLastLogin 更新最后登录时间
func (s *UserService) UpdateLastLogin(id uint) error {
	now := time.Now()
	return s.db.Model(&models.User{}).Where("id = ?", id).
		Update("last_login_at", &now).Error
}

// ========== 密码管理方法 ==========

// ChangePassword 修改密码（需要验证旧密码）
func (s *UserService) ChangePassword(id uint, oldPassword, newPassword string) error {
	if !s.ValidatePassword(newPassword) {
		return fmt.Errorf("密码长度必须至少8个字符")
	}

	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		return err
	}

	if !user.CheckPassword(oldPassword) {
		return fmt.Errorf("旧密码错误")
	}

	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("密码加密失败: %v", err)
	}
	return s.db.Save(&user).Error
}

// ResetPassword 重置密码（管理员操作，不验证旧密码）
// 只能重置生效租户范围内的用户，跨租户按不存在处理
func (s *UserService) ResetPassword(id uint, tenantID *uint, newPassword string) error {
	if !s.ValidatePassword(newPassword) {
		return fmt.Errorf("密码长度必须至少8个字符")
	}

	user, err := s.findScoped(id, tenantID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("密码加密失败: %v", err)
	}
	return s.db.Save(user).Error
}

// ========== 角色管理方法 ==========

// AssignRole 给用户分配角色
// expiresAt 为 nil 表示长期有效；用户和角色都必须在生效租户范围内
func (s *UserService) AssignRole(userID, roleID uint, tenantID *uint, assignedBy *uint, expiresAt *time.Time) error {
	user, err := s.findScoped(userID, tenantID)
	if err != nil {
		return fmt.Errorf("用户不存在")
	}

	var role models.Role
	roleQuery := s.db.Where("id = ?", roleID)
	if tenantID != nil {
		roleQuery = roleQuery.Where("tenant_id = ?", *tenantID)
	}
	if err := roleQuery.First(&role).Error; err != nil {
		return fmt.Errorf("角色不存在")
	}
	if role.Status != models.RoleStatusActive {
		return fmt.Errorf("角色已停用")
	}

	// 租户隔离：普通用户只能持有本租户的角色
	// 平台管理员身份从角色快照重新推导，不信任存储的标记列
	isPlatformAdmin, err := s.authz.IsPlatformAdmin(user.ID)
	if err != nil {
		return err
	}
	if !isPlatformAdmin {
		if user.TenantID == nil || *user.TenantID != role.TenantID {
			return fmt.Errorf("不能分配其他租户的角色")
		}
	}

	if expiresAt != nil && !expiresAt.After(time.Now()) {
		return fmt.Errorf("过期时间必须晚于当前时间")
	}

	// 已持有同一角色时更新持有记录而不是重复插入
	var existing models.UserRole
	err = s.db.Where("user_id = ? AND role_id = ?", userID, roleID).First(&existing).Error
	if err == nil {
		existing.IsActive = true
		existing.AssignedAt = time.Now()
		existing.AssignedBy = assignedBy
		existing.ExpiresAt = expiresAt
		if err := s.db.Save(&existing).Error; err != nil {
			return err
		}
		s.authz.InvalidateUser(userID)
		return nil
	}

	userRole := &models.UserRole{
		UserID:     userID,
		RoleID:     roleID,
		IsActive:   true,
		AssignedAt: time.Now(),
		AssignedBy: assignedBy,
		ExpiresAt:  expiresAt,
	}
	if err := s.db.Create(userRole).Error; err != nil {
		return err
	}

	s.authz.InvalidateUser(userID)
	return nil
}

// RemoveRole 移除用户的角色
func (s *UserService) RemoveRole(userID, roleID uint, tenantID *uint) error {
	if _, err := s.findScoped(userID, tenantID); err != nil {
		return fmt.Errorf("用户不存在")
	}

	result := s.db.Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&models.UserRole{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("用户未持有该角色")
	}

	s.authz.InvalidateUser(userID)
	return nil
}

// GetUserRoles 获取用户当前有效持有的角色
func (s *UserService) GetUserRoles(userID uint, tenantID *uint) ([]*models.Role, error) {
	if _, err := s.findScoped(userID, tenantID); err != nil {
		return nil, fmt.Errorf("用户不存在")
	}

	var roles []*models.Role
	now := time.Now()
	err := s.db.Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Where("user_roles.is_active = ?", true).
		Where("user_roles.expires_at IS NULL OR user_roles.expires_at > ?", now).
		Where("roles.status = ?", models.RoleStatusActive).
		Find(&roles).Error
	return roles, err
}

// ========== 统计相关方法 ==========

// GetStats 获取用户统计
func (s *UserService) GetStats(tenantID *uint) (*UserStats, error) {
	stats := &UserStats{}

	query := func() *gorm.DB {
		q := s.db.Model(&models.User{})
		if tenantID != nil {
			q = q.Where("tenant_id = ?", *tenantID)
		}
		return q
	}

	query().Count(&stats.Total)
	query().Where("status = ?", models.UserStatusActive).Count(&stats.Active)
	query().Where("status = ?", models.UserStatusInactive).Count(&stats.Inactive)
	query().Where("status = ?", models.UserStatusLocked).Count(&stats.Locked)

	return stats, nil
}

// ========== 验证相关方法 ==========

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidateUsername 验证用户名
func (s *UserService) ValidateUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// ValidateEmail 验证邮箱
func (s *UserService) ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword 验证密码
func (s *UserService) ValidatePassword(password string) bool {
	return len(password) >= 8
}

// ValidateName 验证姓名
func (s *UserService) ValidateName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	return runeCount >= 2 && runeCount <= 100
}

// ValidateCreateParams 验证创建用户的参数
func (s *UserService) ValidateCreateParams(username, email, password, name string) error {
	if !s.ValidateUsername(username) {
		return fmt.Errorf("用户名格式无效：3-50个字符，只能包含字母、数字、下划线和连字符")
	}
	if !s.ValidateEmail(email) {
		return fmt.Errorf("邮箱格式无效")
	}
	if !s.ValidatePassword(password) {
		return fmt.Errorf("密码长度必须至少8个字符")
	}
	if !s.ValidateName(name) {
		return fmt.Errorf("姓名长度必须在2-100个字符之间")
	}
	return nil
}
