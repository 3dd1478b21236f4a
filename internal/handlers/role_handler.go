package handlers

import (
	"strconv"
	"strings"

	"reservo/internal/middleware"
	"reservo/internal/services"
	"reservo/pkg/pagination"
	"reservo/pkg/response"

	"github.com/gin-gonic/gin"
)

// RoleHandler 角色管理接口（租户范围内）
type RoleHandler struct {
	roleService *services.RoleService
}

func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// CreateRoleRequest 创建角色请求
type CreateRoleRequest struct {
	Code        string `json:"code" binding:"required,min=2,max=100"`
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=255"`
}

// Create 在当前租户下创建自定义角色
func (h *RoleHandler) Create(c *gin.Context) {
	tenantID := middleware.GetCurrentTenantID(c)
	if tenantID == nil {
		response.NoTenantScope(c)
		return
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	role, err := h.roleService.Create(*tenantID, req.Code, req.Name, req.Description)
	if err != nil {
		if strings.Contains(err.Error(), "已存在") {
			response.Conflict(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "角色创建成功", role)
}

// List 当前租户的角色列表
func (h *RoleHandler) List(c *gin.Context) {
	tenantID := middleware.GetCurrentTenantID(c)
	if tenantID == nil {
		response.NoTenantScope(c)
		return
	}

	params := pagination.ParsePageParams(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	roles, total, err := h.roleService.GetWithFiltersAndPage(*tenantID, status, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询角色列表失败")
		return
	}

	response.SuccessWithPage(c, roles, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// Get 角色详情（含权限列表）
func (h *RoleHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的角色ID")
		return
	}

	role, err := h.roleService.GetByID(uint(id), middleware.GetCurrentTenantID(c))
	if err != nil {
		response.NotFound(c, "角色不存在")
		return
	}

	response.Success(c, role)
}

// UpdateRoleRequest 更新角色请求
type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=255"`
	Status      string `json:"status" binding:"required,oneof=active inactive"`
}

// Update 更新角色
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的角色ID")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	role, err := h.roleService.Update(uint(id), middleware.GetCurrentTenantID(c), req.Name, req.Description, req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "角色更新成功", role)
}

// Delete 删除角色
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的角色ID")
		return
	}

	if err := h.roleService.Delete(uint(id), middleware.GetCurrentTenantID(c)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "角色删除成功", nil)
}

// AssignPermissionsRequest 设置角色权限请求
type AssignPermissionsRequest struct {
	PermissionIDs []uint `json:"permission_ids" binding:"required"`
}

// AssignPermissions 全量设置角色的权限
func (h *RoleHandler) AssignPermissions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的角色ID")
		return
	}

	var req AssignPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := h.roleService.AssignPermissions(uint(id), middleware.GetCurrentTenantID(c), req.PermissionIDs); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "权限设置成功", nil)
}

// Permissions 获取角色的权限列表
func (h *RoleHandler) Permissions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的角色ID")
		return
	}

	permissions, err := h.roleService.GetRolePermissions(uint(id), middleware.GetCurrentTenantID(c))
	if err != nil {
		response.ServerError(c, "查询角色权限失败")
		return
	}

	response.Success(c, permissions)
}

// Users 获取持有角色的用户列表
func (h *RoleHandler) Users(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的角色ID")
		return
	}

	users, err := h.roleService.GetRoleUsers(uint(id), middleware.GetCurrentTenantID(c))
	if err != nil {
		response.ServerError(c, "查询角色用户失败")
		return
	}

	response.Success(c, users)
}
