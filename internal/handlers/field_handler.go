package handlers

import (
	"strconv"
	"strings"

	"reservo/internal/middleware"
	"reservo/internal/services"
	"reservo/pkg/pagination"
	"reservo/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// FieldHandler 场地管理接口（租户范围内）
type FieldHandler struct {
	fieldService *services.FieldService
}

func NewFieldHandler(fieldService *services.FieldService) *FieldHandler {
	return &FieldHandler{fieldService: fieldService}
}

// CreateFieldRequest 创建场地请求
type CreateFieldRequest struct {
	Name         string         `json:"name" binding:"required,min=2,max=100"`
	SportType    string         `json:"sport_type" binding:"required,oneof=football basketball tennis badminton padel"`
	HourlyPrice  int64          `json:"hourly_price" binding:"min=0"`
	OpeningHours datatypes.JSON `json:"opening_hours"`
}

// Create 在当前租户下创建场地
func (h *FieldHandler) Create(c *gin.Context) {
	tenantID := middleware.GetCurrentTenantID(c)
	if tenantID == nil {
		response.NoTenantScope(c)
		return
	}

	var req CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	field, err := h.fieldService.Create(*tenantID, req.Name, req.SportType, req.HourlyPrice, req.OpeningHours)
	if err != nil {
		if strings.Contains(err.Error(), "上限") {
			response.QuotaExceeded(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "场地创建成功", field)
}

// List 当前租户的场地列表
func (h *FieldHandler) List(c *gin.Context) {
	tenantID := middleware.GetCurrentTenantID(c)
	if tenantID == nil {
		response.NoTenantScope(c)
		return
	}

	params := pagination.ParsePageParams(c)
	sportType := c.Query("sport_type")
	status := c.Query("status")
	keyword := c.Query("keyword")

	fields, total, err := h.fieldService.GetWithFiltersAndPage(*tenantID, sportType, status, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询场地列表失败")
		return
	}

	response.SuccessWithPage(c, fields, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// Get 场地详情
func (h *FieldHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的场地ID")
		return
	}

	field, err := h.fieldService.GetByID(uint(id), middleware.GetCurrentTenantID(c))
	if err != nil {
		response.NotFound(c, "场地不存在")
		return
	}

	response.Success(c, field)
}

// UpdateFieldRequest 更新场地请求
type UpdateFieldRequest struct {
	Name         string         `json:"name" binding:"required,min=2,max=100"`
	SportType    string         `json:"sport_type" binding:"required,oneof=football basketball tennis badminton padel"`
	Status       string         `json:"status" binding:"required,oneof=open closed maintenance"`
	HourlyPrice  int64          `json:"hourly_price" binding:"min=0"`
	OpeningHours datatypes.JSON `json:"opening_hours"`
}

// Update 更新场地
func (h *FieldHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的场地ID")
		return
	}

	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	field, err := h.fieldService.Update(uint(id), middleware.GetCurrentTenantID(c), req.Name, req.SportType, req.Status, req.HourlyPrice, req.OpeningHours)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "场地更新成功", field)
}

// Delete 删除场地
func (h *FieldHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的场地ID")
		return
	}

	if err := h.fieldService.Delete(uint(id), middleware.GetCurrentTenantID(c)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "场地删除成功", nil)
}
