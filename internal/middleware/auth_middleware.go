package middleware

import (
	"strings"

	"reservo/internal/services"
	"reservo/pkg/jwt"
	"reservo/pkg/rbac"
	"reservo/pkg/response"

	"github.com/gin-gonic/gin"
)

// 上下文键常量
const (
	ContextKeyUserID          = "user_id"
	ContextKeyUsername        = "username"
	ContextKeyOwnTenantID     = "own_tenant_id"
	ContextKeyIsPlatformAdmin = "is_platform_admin"
	ContextKeyCurrentTenantID = "current_tenant_id"
	ContextKeyImpersonation   = "impersonation"
)

// RequireLogin 登录认证中间件
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "缺少认证令牌")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "认证令牌格式错误")
			c.Abort()
			return
		}

		claims, err := jwt.GetJWTManager().VerifyToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "认证令牌无效或已过期")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyOwnTenantID, claims.TenantID)
		c.Next()
	}
}

// RequirePermission 权限检查中间件
// MANAGE 作为独立权限项参与判定：持有 MANAGE 视同持有该资源的全部操作
func RequirePermission(authz *services.AuthzService, action rbac.Action, resource rbac.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		allowed, err := authz.CheckPermission(userID, action, resource)
		if err != nil {
			response.ServerError(c, "权限检查失败")
			c.Abort()
			return
		}
		if !allowed {
			response.Forbidden(c, "没有执行该操作的权限")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole 角色检查中间件（持有任一指定角色即可）
func RequireRole(authz *services.AuthzService, roleCodes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		snapshot, err := authz.GetSnapshot(userID)
		if err != nil {
			response.ServerError(c, "权限检查失败")
			c.Abort()
			return
		}
		if !snapshot.HasAnyRole(roleCodes...) {
			response.Forbidden(c, "没有访问权限")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePlatformAdmin 平台管理员检查中间件
// 每次请求都从服务端授权快照重新判定，不信任令牌或cookie中的任何声明
func RequirePlatformAdmin(authz *services.AuthzService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		isAdmin, err := authz.IsPlatformAdmin(userID)
		if err != nil {
			response.ServerError(c, "权限检查失败")
			c.Abort()
			return
		}
		if !isAdmin {
			response.Forbidden(c, "需要平台管理员权限")
			c.Abort()
			return
		}

		c.Set(ContextKeyIsPlatformAdmin, true)
		c.Next()
	}
}

// RequireTenantAdmin 租户管理员检查中间件（平台管理员放行）
func RequireTenantAdmin(authz *services.AuthzService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		snapshot, err := authz.GetSnapshot(userID)
		if err != nil {
			response.ServerError(c, "权限检查失败")
			c.Abort()
			return
		}
		if !snapshot.IsPlatformAdmin() && !snapshot.IsTenantAdmin() {
			response.Forbidden(c, "需要租户管理员权限")
			c.Abort()
			return
		}

		c.Next()
	}
}

// ========== 上下文读取辅助函数 ==========

// GetUserID 从上下文获取当前用户ID
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}

// GetOwnTenantID 从上下文获取用户所属租户ID（可能为nil）
func GetOwnTenantID(c *gin.Context) *uint {
	value, exists := c.Get(ContextKeyOwnTenantID)
	if !exists {
		return nil
	}
	tenantID, ok := value.(*uint)
	if !ok {
		return nil
	}
	return tenantID
}

// GetCurrentTenantID 从上下文获取生效租户ID（可能为nil）
// 这是所有租户内数据查询应当使用的租户范围
func GetCurrentTenantID(c *gin.Context) *uint {
	value, exists := c.Get(ContextKeyCurrentTenantID)
	if !exists {
		return nil
	}
	tenantID, ok := value.(*uint)
	if !ok {
		return nil
	}
	return tenantID
}

// GetImpersonation 从上下文获取当前模拟访问状态（未模拟时为nil）
func GetImpersonation(c *gin.Context) *services.Override {
	value, exists := c.Get(ContextKeyImpersonation)
	if !exists {
		return nil
	}
	override, ok := value.(*services.Override)
	if !ok {
		return nil
	}
	return override
}
