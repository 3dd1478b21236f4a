package handlers

import (
	"reservo/internal/middleware"
	"reservo/internal/models"
	"reservo/internal/services"
	"reservo/pkg/jwt"
	"reservo/pkg/logger"
	"reservo/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	userService   *services.UserService
	tenantService *services.TenantService
	authzService  *services.AuthzService
	impersonation *services.ImpersonationManager
}

func NewAuthHandler(userService *services.UserService, tenantService *services.TenantService,
	authzService *services.AuthzService, impersonation *services.ImpersonationManager) *AuthHandler {
	return &AuthHandler{
		userService:   userService,
		tenantService: tenantService,
		authzService:  authzService,
		impersonation: impersonation,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.userService.GetByUsername(req.Username)
	if err != nil {
		// 也支持用邮箱登录
		user, err = h.userService.GetByEmail(req.Username)
		if err != nil {
			response.Unauthorized(c, "用户名或密码错误")
			return
		}
	}

	if !user.CheckPassword(req.Password) {
		response.Unauthorized(c, "用户名或密码错误")
		return
	}

	switch user.Status {
	case models.UserStatusLocked:
		response.Forbidden(c, "账号已被锁定，请联系管理员")
		return
	case models.UserStatusInactive:
		response.Forbidden(c, "账号已被停用")
		return
	}

	// 用户所属租户必须处于激活状态（平台管理员可以没有租户）
	if user.TenantID != nil {
		tenant, err := h.tenantService.GetByID(*user.TenantID)
		if err != nil || tenant.Status != models.TenantStatusActive {
			response.Forbidden(c, "所属租户已停用")
			return
		}
	}

	isPlatformAdmin, err := h.authzService.IsPlatformAdmin(user.ID)
	if err != nil {
		response.ServerError(c, "登录失败")
		return
	}

	token, err := jwt.GetJWTManager().GenerateToken(
		user.ID, user.TenantID, user.Username, user.EmailVerified, isPlatformAdmin)
	if err != nil {
		response.ServerError(c, "生成令牌失败")
		return
	}

	if err := h.userService.UpdateLastLogin(user.ID); err != nil {
		logger.GetLogger().WithError(err).Warn("更新最后登录时间失败")
	}

	logger.GetLogger().WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("用户登录成功")

	response.Success(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":                user.ID,
			"username":          user.Username,
			"name":              user.Name,
			"email":             user.Email,
			"tenant_id":         user.TenantID,
			"is_platform_admin": isPlatformAdmin,
		},
	})
}

// Logout 用户登出
// 无论是否在模拟访问中都清除覆盖状态，避免下一个登录的账号继承模拟上下文
func (h *AuthHandler) Logout(c *gin.Context) {
	store := middleware.NewCookieOverrideStore(c)
	h.impersonation.StopOnSignOut(store)

	response.SuccessWithMessage(c, "登出成功", nil)
}

// RefreshToken 刷新令牌
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	newToken, err := jwt.GetJWTManager().RefreshToken(req.Token)
	if err != nil {
		response.Unauthorized(c, "令牌无效或已过期")
		return
	}

	response.Success(c, gin.H{"token": newToken})
}

// Me 获取当前用户信息（含角色、权限快照和租户范围）
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := h.userService.GetByID(userID, nil)
	if err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	snapshot, err := h.authzService.GetSnapshot(userID)
	if err != nil {
		response.ServerError(c, "获取授权信息失败")
		return
	}

	data := gin.H{
		"user": gin.H{
			"id":             user.ID,
			"username":       user.Username,
			"name":           user.Name,
			"email":          user.Email,
			"email_verified": user.EmailVerified,
			"tenant_id":      user.TenantID,
			"status":         user.Status,
		},
		"roles":             snapshot.Roles,
		"permissions":       snapshot.Permissions,
		"primary_role":      snapshot.PrimaryRole(),
		"current_tenant_id": middleware.GetCurrentTenantID(c),
		"impersonation":     middleware.GetImpersonation(c),
	}

	// 平台管理员附带可切换的租户列表
	if snapshot.IsPlatformAdmin() {
		tenants, err := h.tenantService.GetAllActive()
		if err == nil {
			data["switchable_tenants"] = tenants
		}
	}

	response.Success(c, data)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword 修改当前用户密码
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := h.userService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "密码修改成功", nil)
}
