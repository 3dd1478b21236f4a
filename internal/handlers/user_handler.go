package handlers

import (
	"strconv"
	"strings"
	"time"

	"reservo/internal/middleware"
	"reservo/internal/models"
	"reservo/internal/services"
	"reservo/pkg/pagination"
	"reservo/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户管理接口（租户范围内）
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     string  `json:"name" binding:"required,min=2,max=100"`
	Phone    *string `json:"phone"`
}

// Create 在当前租户下创建用户
func (h *UserHandler) Create(c *gin.Context) {
	tenantID := middleware.GetCurrentTenantID(c)
	if tenantID == nil {
		response.NoTenantScope(c)
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.userService.Create(req.Username, req.Email, req.Password, req.Name, tenantID, req.Phone)
	if err != nil {
		if strings.Contains(err.Error(), "已存在") {
			response.Conflict(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "上限") {
			response.QuotaExceeded(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "用户创建成功", user)
}

// List 用户列表（按生效租户过滤；平台管理员未选择租户时查看全部）
func (h *UserHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	tenantID := middleware.GetCurrentTenantID(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	users, total, err := h.userService.GetWithFiltersAndPage(tenantID, status, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询用户列表失败")
		return
	}

	response.SuccessWithPage(c, users, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// Get 用户详情
func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	user, err := h.userService.GetByID(uint(id), middleware.GetCurrentTenantID(c))
	if err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	response.Success(c, user)
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name   string  `json:"name" binding:"required,min=2,max=100"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`
}

// Update 更新用户基本信息
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.userService.Update(uint(id), middleware.GetCurrentTenantID(c), req.Name, req.Phone, req.Avatar)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "用户更新成功", user)
}

// Delete 删除用户
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	if err := h.userService.Delete(uint(id), middleware.GetCurrentTenantID(c)); err != nil {
		response.ServerError(c, "删除用户失败")
		return
	}

	response.SuccessWithMessage(c, "用户删除成功", nil)
}

// Activate 激活用户
func (h *UserHandler) Activate(c *gin.Context) {
	h.setStatus(c, h.userService.Activate, "用户已激活")
}

// Deactivate 停用用户
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setStatus(c, h.userService.Deactivate, "用户已停用")
}

// Lock 锁定用户
func (h *UserHandler) Lock(c *gin.Context) {
	h.setStatus(c, h.userService.Lock, "用户已锁定")
}

func (h *UserHandler) setStatus(c *gin.Context, fn func(uint, *uint) (*models.User, error), message string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	user, err := fn(uint(id), middleware.GetCurrentTenantID(c))
	if err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	response.SuccessWithMessage(c, message, user)
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ResetPassword 管理员重置用户密码
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := h.userService.ResetPassword(uint(id), middleware.GetCurrentTenantID(c), req.NewPassword); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "密码重置成功", nil)
}

// AssignRoleRequest 分配角色请求
type AssignRoleRequest struct {
	RoleID    uint       `json:"role_id" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at"` // 可选，nil表示长期有效
}

// AssignRole 给用户分配角色
func (h *UserHandler) AssignRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	operatorID, _ := middleware.GetUserID(c)
	if err := h.userService.AssignRole(uint(id), req.RoleID, middleware.GetCurrentTenantID(c), &operatorID, req.ExpiresAt); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "角色分配成功", nil)
}

// RemoveRole 移除用户的角色
func (h *UserHandler) RemoveRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}
	roleID, err := strconv.ParseUint(c.Param("roleId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的角色ID")
		return
	}

	if err := h.userService.RemoveRole(uint(id), uint(roleID), middleware.GetCurrentTenantID(c)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "角色移除成功", nil)
}

// Roles 获取用户当前有效持有的角色
func (h *UserHandler) Roles(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	roles, err := h.userService.GetUserRoles(uint(id), middleware.GetCurrentTenantID(c))
	if err != nil {
		response.ServerError(c, "查询用户角色失败")
		return
	}

	response.Success(c, roles)
}

// Stats 用户统计（按生效租户）
func (h *UserHandler) Stats(c *gin.Context) {
	tenantID := middleware.GetCurrentTenantID(c)

	stats, err := h.userService.GetStats(tenantID)
	if err != nil {
		response.ServerError(c, "查询统计失败")
		return
	}

	response.Success(c, stats)
}
