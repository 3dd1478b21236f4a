package handlers

import (
	"strconv"
	"time"

	"reservo/internal/middleware"
	"reservo/internal/models"
	"reservo/internal/services"
	"reservo/pkg/pagination"
	"reservo/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReservationHandler 预订管理接口
type ReservationHandler struct {
	reservationService *services.ReservationService
}

func NewReservationHandler(reservationService *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// CreateReservationRequest 创建预订请求
type CreateReservationRequest struct {
	FieldID  uint      `json:"field_id" binding:"required"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
}

// Create 客户在当前租户下创建预订
func (h *ReservationHandler) Create(c *gin.Context) {
	tenantID := middleware.GetCurrentTenantID(c)
	if tenantID == nil {
		response.NoTenantScope(c)
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	userID, _ := middleware.GetUserID(c)
	reservation, err := h.reservationService.Create(*tenantID, req.FieldID, userID, req.StartsAt, req.EndsAt)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "预订创建成功", reservation)
}

// List 当前租户的预订列表（运营侧）
func (h *ReservationHandler) List(c *gin.Context) {
	tenantID := middleware.GetCurrentTenantID(c)
	if tenantID == nil {
		response.NoTenantScope(c)
		return
	}

	params := pagination.ParsePageParams(c)
	status := c.Query("status")

	var fieldID, userID *uint
	if v, err := strconv.ParseUint(c.Query("field_id"), 10, 32); err == nil {
		id := uint(v)
		fieldID = &id
	}
	if v, err := strconv.ParseUint(c.Query("user_id"), 10, 32); err == nil {
		id := uint(v)
		userID = &id
	}

	reservations, total, err := h.reservationService.GetWithFiltersAndPage(
		*tenantID, fieldID, userID, status, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询预订列表失败")
		return
	}

	response.SuccessWithPage(c, reservations, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// Mine 客户自己的预订列表
func (h *ReservationHandler) Mine(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	params := pagination.ParsePageParams(c)

	reservations, total, err := h.reservationService.GetMyReservations(userID, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询预订列表失败")
		return
	}

	response.SuccessWithPage(c, reservations, pagination.NewPageInfo(params.Page, params.PageSize, total))
}

// Get 预订详情
func (h *ReservationHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的预订ID")
		return
	}

	reservation, err := h.reservationService.GetByID(uint(id), middleware.GetCurrentTenantID(c))
	if err != nil {
		response.NotFound(c, "预订不存在")
		return
	}

	response.Success(c, reservation)
}

// Confirm 确认预订
func (h *ReservationHandler) Confirm(c *gin.Context) {
	h.transition(c, h.reservationService.Confirm, "预订已确认")
}

// Cancel 取消预订
// 客户只能取消自己的预订，员工和管理员可以取消租户内任意预订（路由层区分）
func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.transition(c, h.reservationService.Cancel, "预订已取消")
}

// Complete 完成预订
func (h *ReservationHandler) Complete(c *gin.Context) {
	h.transition(c, h.reservationService.Complete, "预订已完成")
}

func (h *ReservationHandler) transition(c *gin.Context, fn func(uint, *uint) (*models.Reservation, error), message string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的预订ID")
		return
	}

	reservation, err := fn(uint(id), middleware.GetCurrentTenantID(c))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, message, reservation)
}

// CancelMine 客户取消自己的预订
func (h *ReservationHandler) CancelMine(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的预订ID")
		return
	}

	tenantID := middleware.GetCurrentTenantID(c)
	reservation, err := h.reservationService.GetByID(uint(id), tenantID)
	if err != nil {
		response.NotFound(c, "预订不存在")
		return
	}

	userID, _ := middleware.GetUserID(c)
	if reservation.UserID != userID {
		response.Forbidden(c, "只能取消自己的预订")
		return
	}

	updated, err := h.reservationService.Cancel(reservation.ID, tenantID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "预订已取消", updated)
}

// Stats 预订统计（按生效租户）
func (h *ReservationHandler) Stats(c *gin.Context) {
	tenantID := middleware.GetCurrentTenantID(c)
	if tenantID == nil {
		response.NoTenantScope(c)
		return
	}

	stats, err := h.reservationService.GetStats(*tenantID)
	if err != nil {
		response.ServerError(c, "查询统计失败")
		return
	}

	response.Success(c, stats)
}
