package handlers

import (
	"strconv"

	"reservo/internal/middleware"
	"reservo/internal/services"
	"reservo/pkg/response"

	"github.com/gin-gonic/gin"
)

// PermissionHandler 权限目录接口（租户范围内只读，启停除外）
type PermissionHandler struct {
	permissionService *services.PermissionService
}

func NewPermissionHandler(permissionService *services.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// List 当前租户的权限目录
func (h *PermissionHandler) List(c *gin.Context) {
	tenantID := middleware.GetCurrentTenantID(c)
	if tenantID == nil {
		response.NoTenantScope(c)
		return
	}

	resource := c.Query("resource")

	var err error
	var permissions interface{}
	if resource != "" {
		permissions, err = h.permissionService.GetByTenantAndResource(*tenantID, resource)
	} else {
		permissions, err = h.permissionService.GetByTenant(*tenantID)
	}
	if err != nil {
		response.ServerError(c, "查询权限目录失败")
		return
	}

	response.Success(c, permissions)
}

// Get 权限详情
func (h *PermissionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的权限ID")
		return
	}

	permission, err := h.permissionService.GetByID(uint(id), middleware.GetCurrentTenantID(c))
	if err != nil {
		response.NotFound(c, "权限不存在")
		return
	}

	response.Success(c, permission)
}

// SetActiveRequest 启停权限请求
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetActive 启停权限项
func (h *PermissionHandler) SetActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的权限ID")
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	permission, err := h.permissionService.SetActive(uint(id), *req.IsActive, middleware.GetCurrentTenantID(c))
	if err != nil {
		response.NotFound(c, "权限不存在")
		return
	}

	response.SuccessWithMessage(c, "权限状态已更新", permission)
}
