package middleware

import (
	"net/http"
	"strconv"
	"time"

	"reservo/internal/services"
	"reservo/pkg/config"
	"reservo/pkg/rbac"
	"reservo/pkg/response"

	"github.com/gin-gonic/gin"
)

// CookieOverrideStore 基于HTTP cookie的覆盖状态存储
// cookie只承载"想看哪个租户"的意图，不承载任何授权；
// 是否生效由 TenantScope 每次请求重新做服务端角色判定
type CookieOverrideStore struct {
	c   *gin.Context
	cfg *config.ImpersonationConfig
}

func NewCookieOverrideStore(c *gin.Context) *CookieOverrideStore {
	return &CookieOverrideStore{
		c:   c,
		cfg: &config.GetConfig().Impersonation,
	}
}

// GetID 读取覆盖租户ID，值无法解析时视为不存在
func (s *CookieOverrideStore) GetID() (uint, bool) {
	value, err := s.c.Cookie(s.cfg.CookieName)
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// SetID 写入覆盖租户ID cookie
func (s *CookieOverrideStore) SetID(tenantID uint, maxAge time.Duration) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.cfg.CookieName, strconv.FormatUint(uint64(tenantID), 10),
		int(maxAge.Seconds()), "/", "", s.cfg.CookieSecure, true)
}

// ClearID 清除覆盖租户ID cookie
func (s *CookieOverrideStore) ClearID() {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.cfg.CookieName, "", -1, "/", "", s.cfg.CookieSecure, true)
}

// GetLabel 读取租户名称展示cookie
func (s *CookieOverrideStore) GetLabel() (string, bool) {
	value, err := s.c.Cookie(s.cfg.LabelCookieName)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

// SetLabel 写入租户名称展示cookie（前端可读，仅用于界面提示）
func (s *CookieOverrideStore) SetLabel(name string, maxAge time.Duration) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.cfg.LabelCookieName, name,
		int(maxAge.Seconds()), "/", "", s.cfg.CookieSecure, false)
}

// ClearLabel 清除租户名称展示cookie
func (s *CookieOverrideStore) ClearLabel() {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.cfg.LabelCookieName, "", -1, "/", "", s.cfg.CookieSecure, false)
}

// TenantScope 租户范围解析中间件，必须挂在 RequireLogin 之后
// 生效租户 = 覆盖租户（仅平台管理员） > 用户所属租户 > nil
func TenantScope(authz *services.AuthzService, manager *services.ImpersonationManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		// 平台管理员身份每次请求从授权快照重新判定
		isPlatformAdmin, err := authz.IsPlatformAdmin(userID)
		if err != nil {
			response.ServerError(c, "租户范围解析失败")
			c.Abort()
			return
		}
		c.Set(ContextKeyIsPlatformAdmin, isPlatformAdmin)

		store := NewCookieOverrideStore(c)
		override := manager.RestoreOnLoad(store)

		scope := rbac.ScopeInput{
			IsPlatformAdmin: isPlatformAdmin,
			OwnTenantID:     GetOwnTenantID(c),
		}
		if override != nil {
			scope.OverrideID = &override.TenantID
		}

		c.Set(ContextKeyCurrentTenantID, rbac.EffectiveTenant(scope))
		if isPlatformAdmin && override != nil {
			c.Set(ContextKeyImpersonation, override)
		}

		c.Next()
	}
}

// RequireTenantScope 要求请求必须有生效租户
// 平台管理员未选择租户时访问租户内资源会收到引导选择租户的错误
func RequireTenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetCurrentTenantID(c) == nil {
			response.NoTenantScope(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
