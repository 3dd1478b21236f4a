package main

import (
	"fmt"
	"time"

	"reservo/internal/database"
	"reservo/internal/models"
	"reservo/pkg/logger"
	"reservo/pkg/rbac"

	"gorm.io/gorm"
)

// seedData 初始化平台租户、平台管理员角色和默认管理员账号
// 已初始化过时直接跳过，可以安全地重复执行
func seedData() error {
	db := database.GetDB()
	log := logger.GetLogger()

	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// 平台租户
		platform := &models.Tenant{
			Name:        "平台",
			Code:        "platform",
			DisplayName: "平台运营",
			PlanTier:    models.PlanTierPro,
			Status:      models.TenantStatusActive,
		}
		platform.ApplyPlanDefaults()
		if err := tx.Create(platform).Error; err != nil {
			return err
		}

		// 平台级权限目录（含租户资源）
		resources := []rbac.Resource{
			rbac.ResourceTenant,
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
		actions := []rbac.Action{
			rbac.ActionCreate, rbac.ActionRead, rbac.ActionUpdate,
			rbac.ActionDelete, rbac.ActionManage,
		}
		var managePermissions []models.Permission
		for _, resource := range resources {
			for _, action := range actions {
				permission := models.Permission{
					TenantID: platform.ID,
					Action:   string(action),
					Resource: string(resource),
					Name:     fmt.Sprintf("%s %s", resource, action),
					IsActive: true,
				}
				if err := tx.Create(&permission).Error; err != nil {
					return err
				}
				if action == rbac.ActionManage {
					managePermissions = append(managePermissions, permission)
				}
			}
		}

		// 平台管理员角色，授予所有资源的MANAGE
		sysAdmin := &models.Role{
			TenantID: platform.ID,
			Code:     models.RoleCodeSysAdmin,
			Name:     "平台管理员",
			IsSystem: true,
			Status:   models.RoleStatusActive,
		}
		if err := tx.Create(sysAdmin).Error; err != nil {
			return err
		}
		for _, permission := range managePermissions {
			rolePermission := &models.RolePermission{
				RoleID:       sysAdmin.ID,
				PermissionID: permission.ID,
			}
			if err := tx.Create(rolePermission).Error; err != nil {
				return err
			}
		}

		// 默认管理员账号
		admin := &models.User{
			Username:        "admin",
			Email:           "admin@reservo.local",
			Name:            "系统管理员",
			Status:          models.UserStatusActive,
			EmailVerified:   true,
			IsPlatformAdmin: true,
		}
		if err := admin.SetPassword("Admin@123456"); err != nil {
			return err
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}

		userRole := &models.UserRole{
			UserID:     admin.ID,
			RoleID:     sysAdmin.ID,
			IsActive:   true,
			AssignedAt: time.Now(),
		}
		if err := tx.Create(userRole).Error; err != nil {
			return err
		}

		log.Info("种子数据初始化完成，默认管理员: admin / Admin@123456")
		return nil
	})
}
