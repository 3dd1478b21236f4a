package handlers

import (
	"strconv"

	"reservo/internal/middleware"
	"reservo/internal/models"
	"reservo/internal/services"
	"reservo/pkg/logger"
	"reservo/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ImpersonationHandler 模拟访问接口
// 路由必须挂 RequirePlatformAdmin：开始/停止模拟只对平台管理员开放
type ImpersonationHandler struct {
	tenantService *services.TenantService
	impersonation *services.ImpersonationManager
}

func NewImpersonationHandler(tenantService *services.TenantService,
	impersonation *services.ImpersonationManager) *ImpersonationHandler {
	return &ImpersonationHandler{
		tenantService: tenantService,
		impersonation: impersonation,
	}
}

// Start 开始模拟访问指定租户
func (h *ImpersonationHandler) Start(c *gin.Context) {
	tenantID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的租户ID")
		return
	}

	tenant, err := h.tenantService.GetByID(uint(tenantID))
	if err != nil {
		response.NotFound(c, "租户不存在")
		return
	}
	if tenant.Status != models.TenantStatusActive {
		response.BadRequest(c, "租户已停用，不能模拟访问")
		return
	}

	store := middleware.NewCookieOverrideStore(c)
	h.impersonation.Start(store, tenant.ID, tenant.Name)

	userID, _ := middleware.GetUserID(c)
	logger.GetLogger().WithFields(logrus.Fields{
		"user_id":   userID,
		"tenant_id": tenant.ID,
	}).Info("平台管理员开始模拟访问租户")

	response.Success(c, gin.H{
		"tenant_id":   tenant.ID,
		"tenant_name": tenant.Name,
	})
}

// Stop 停止模拟访问
func (h *ImpersonationHandler) Stop(c *gin.Context) {
	store := middleware.NewCookieOverrideStore(c)
	h.impersonation.Stop(store)

	response.SuccessWithMessage(c, "已退出模拟访问", nil)
}

// Current 查询当前模拟访问状态
func (h *ImpersonationHandler) Current(c *gin.Context) {
	store := middleware.NewCookieOverrideStore(c)
	override := h.impersonation.RestoreOnLoad(store)

	if override == nil {
		response.Success(c, gin.H{"active": false})
		return
	}

	response.Success(c, gin.H{
		"active":      true,
		"tenant_id":   override.TenantID,
		"tenant_name": override.TenantName,
	})
}
