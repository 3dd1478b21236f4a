package handlers

import (
	"strconv"
	"strings"

	"reservo/internal/services"
	"reservo/pkg/pagination"
	"reservo/pkg/response"

	"github.com/gin-gonic/gin"
)

// TenantHandler 租户管理接口（平台控制台）
type TenantHandler struct {
	tenantService *services.TenantService
}

func NewTenantHandler(tenantService *services.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// CreateTenantRequest 创建租户请求
type CreateTenantRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=50"`
	Code        string `json:"code" binding:"required,min=2,max=20"`
	DisplayName string `json:"display_name"`
	PlanTier    string `json:"plan_tier" binding:"omitempty,plantier"`
}

// Create 创建租户（自动播种权限目录和标准角色）
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	tenant, err := h.tenantService.Create(req.Name, req.Code, req.DisplayName, req.PlanTier)
	if err != nil {
		if strings.Contains(err.Error(), "已存在") {
			response.Conflict(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "租户创建成功", tenant)
}

// List 租户列表
func (h *TenantHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	tenants, total, err := h.tenantService.GetWithFiltersAndPage(status, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询租户列表失败")
		return
	}

	response.SuccessWithPage(c, tenants, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// Get 租户详情
func (h *TenantHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的租户ID")
		return
	}

	tenant, err := h.tenantService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "租户不存在")
		return
	}

	response.Success(c, tenant)
}

// UpdateTenantRequest 更新租户请求
type UpdateTenantRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=50"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status" binding:"required,oneof=active inactive"`
	PlanTier    string `json:"plan_tier" binding:"omitempty,plantier"`
}

// Update 更新租户
func (h *TenantHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的租户ID")
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	tenant, err := h.tenantService.Update(uint(id), req.Name, req.DisplayName, req.Status, req.PlanTier)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "租户更新成功", tenant)
}

// Activate 激活租户
func (h *TenantHandler) Activate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的租户ID")
		return
	}

	tenant, err := h.tenantService.Activate(uint(id))
	if err != nil {
		response.NotFound(c, "租户不存在")
		return
	}

	response.SuccessWithMessage(c, "租户已激活", tenant)
}

// Deactivate 停用租户
func (h *TenantHandler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的租户ID")
		return
	}

	tenant, err := h.tenantService.Deactivate(uint(id))
	if err != nil {
		response.NotFound(c, "租户不存在")
		return
	}

	response.SuccessWithMessage(c, "租户已停用", tenant)
}

// Stats 租户统计
func (h *TenantHandler) Stats(c *gin.Context) {
	stats, err := h.tenantService.GetStats()
	if err != nil {
		response.ServerError(c, "查询统计失败")
		return
	}

	response.Success(c, stats)
}
