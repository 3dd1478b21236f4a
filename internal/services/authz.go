package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"reservo/internal/database"
	"reservo/internal/models"
	"reservo/pkg/config"
	"reservo/pkg/logger"
	"reservo/pkg/rbac"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// snapshotTTL 权限快照缓存时长
// 缓存只是渲染层的响应性优化，所有变更操作仍会在服务端重新校验
const snapshotTTL = 5 * time.Minute

// AuthzService 授权数据服务
// 负责从角色/权限表查询某个用户的快照数据，交给 pkg/rbac 的纯评估器判定
// 软禁用和过期的持有记录在这里的查询中统一过滤，评估器拿到的都是有效数据
type AuthzService struct {
	db     *gorm.DB
	cache  *redis.Client
	prefix string
}

func NewAuthzService() *AuthzService {
	return &AuthzService{
		db:     database.GetDB(),
		cache:  database.GetRedisClient(),
		prefix: config.GetConfig().Redis.Prefix,
	}
}

// ========== 数据查询 ==========

// GetRoleAssignments 查询用户当前有效的角色持有记录
// 过滤条件：用户本身激活，持有记录激活、未过期，角色本身激活
// 被锁定/停用的用户即使持有有效令牌，角色也一律视为空
func (s *AuthzService) GetRoleAssignments(userID uint) ([]rbac.RoleAssignment, error) {
	var codes []string
	err := s.db.Table("user_roles").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Joins("JOIN users ON users.id = user_roles.user_id").
		Where("user_roles.user_id = ?", userID).
		Where("users.status = ?", models.UserStatusActive).
		Where("user_roles.is_active = ?", true).
		Where("user_roles.expires_at IS NULL OR user_roles.expires_at > ?", time.Now()).
		Where("roles.status = ?", models.RoleStatusActive).
		Pluck("roles.code", &codes).Error
	if err != nil {
		return nil, err
	}

	assignments := make([]rbac.RoleAssignment, 0, len(codes))
	for _, code := range codes {
		assignments = append(assignments, rbac.RoleAssignment{Name: code, IsActive: true})
	}
	return assignments, nil
}

// GetPermissionGrants 查询用户当前有效角色聚合出的权限授予
func (s *AuthzService) GetPermissionGrants(userID uint) ([]rbac.PermissionGrant, error) {
	var rows []models.Permission
	err := s.db.Table("permissions").
		Select("DISTINCT permissions.action, permissions.resource").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Joins("JOIN users ON users.id = user_roles.user_id").
		Where("user_roles.user_id = ?", userID).
		Where("users.status = ?", models.UserStatusActive).
		Where("user_roles.is_active = ?", true).
		Where("user_roles.expires_at IS NULL OR user_roles.expires_at > ?", time.Now()).
		Where("roles.status = ?", models.RoleStatusActive).
		Where("permissions.is_active = ?", true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	grants := make([]rbac.PermissionGrant, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, rbac.PermissionGrant{
			Action:   rbac.Action(row.Action),
			Resource: rbac.Resource(row.Resource),
			IsActive: true,
		})
	}
	return grants, nil
}

// BuildSnapshot 直接从数据库构建用户的角色/权限快照
func (s *AuthzService) BuildSnapshot(userID uint) (rbac.Snapshot, error) {
	roles, err := s.GetRoleAssignments(userID)
	if err != nil {
		return rbac.EmptySnapshot(), err
	}
	permissions, err := s.GetPermissionGrants(userID)
	if err != nil {
		return rbac.EmptySnapshot(), err
	}
	return rbac.Snapshot{Roles: roles, Permissions: permissions, Loaded: true}, nil
}

// ========== 快照缓存 ==========

func (s *AuthzService) snapshotKey(userID uint) string {
	return fmt.Sprintf("%s:authz:snapshot:%d", s.prefix, userID)
}

// GetSnapshot 获取用户快照，优先命中缓存
// Redis不可用时退化为直接查库，不影响授权判定
func (s *AuthzService) GetSnapshot(userID uint) (rbac.Snapshot, error) {
	ctx := context.Background()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, s.snapshotKey(userID)).Result()
		if err == nil {
			var snap rbac.Snapshot
			if jsonErr := json.Unmarshal([]byte(cached), &snap); jsonErr == nil && snap.Loaded {
				return snap, nil
			}
		}
	}

	snap, err := s.BuildSnapshot(userID)
	if err != nil {
		return rbac.EmptySnapshot(), err
	}

	if s.cache != nil {
		if data, jsonErr := json.Marshal(snap); jsonErr == nil {
			if cacheErr := s.cache.Set(ctx, s.snapshotKey(userID), data, snapshotTTL).Err(); cacheErr != nil {
				logger.GetLogger().Warnf("写入权限快照缓存失败: %v", cacheErr)
			}
		}
	}

	return snap, nil
}

// InvalidateUser 清除单个用户的快照缓存
// 角色分配变化后必须调用，避免旧快照把已撤销的权限当成有效
func (s *AuthzService) InvalidateUser(userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(context.Background(), s.snapshotKey(userID)).Err(); err != nil {
		logger.GetLogger().Warnf("清除用户 %d 权限快照缓存失败: %v", userID, err)
	}
}

// InvalidateRole 清除持有指定角色的所有用户的快照缓存
// 角色的权限配置变化后调用
func (s *AuthzService) InvalidateRole(roleID uint) {
	var userIDs []uint
	if err := s.db.Model(&models.UserRole{}).
		Where("role_id = ?", roleID).
		Pluck("user_id", &userIDs).Error; err != nil {
		logger.GetLogger().Warnf("查询角色 %d 的持有用户失败: %v", roleID, err)
		return
	}
	for _, userID := range userIDs {
		s.InvalidateUser(userID)
	}
}

// ========== 判定入口 ==========

// CheckPermission 检查用户的操作许可（精确权限或该资源的MANAGE权限）
func (s *AuthzService) CheckPermission(userID uint, action rbac.Action, resource rbac.Resource) (bool, error) {
	snap, err := s.GetSnapshot(userID)
	if err != nil {
		return false, err
	}
	return snap.CanAct(action, resource), nil
}

// CheckRole 检查用户是否持有指定角色
func (s *AuthzService) CheckRole(userID uint, roleCode string) (bool, error) {
	snap, err := s.GetSnapshot(userID)
	if err != nil {
		return false, err
	}
	return snap.HasRole(roleCode), nil
}

// IsPlatformAdmin 基于可信角色数据判定是否平台管理员
// 模拟访问等特权路径必须走这里重新推导，不得信任客户端携带的任何状态
func (s *AuthzService) IsPlatformAdmin(userID uint) (bool, error) {
	snap, err := s.GetSnapshot(userID)
	if err != nil {
		return false, err
	}
	return snap.IsPlatformAdmin(), nil
}
