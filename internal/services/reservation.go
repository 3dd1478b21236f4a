package services

import (
	"fmt"
	"time"

	"reservo/internal/database"
	"reservo/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationService struct {
	db *gorm.DB
}

// ReservationStats 预订统计信息
type ReservationStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Cancelled int64 `json:"cancelled"`
	Completed int64 `json:"completed"`
}

func NewReservationService() *ReservationService {
	return &ReservationService{
		db: database.GetDB(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建预订
// 同一场地同一时间段不允许重叠预订（已取消的不算）
func (s *ReservationService) Create(tenantID, fieldID, userID uint, startsAt, endsAt time.Time) (*models.Reservation, error) {
	if !endsAt.After(startsAt) {
		return nil, fmt.Errorf("结束时间必须晚于开始时间")
	}
	if startsAt.Before(time.Now()) {
		return nil, fmt.Errorf("不能预订过去的时间")
	}

	var field models.Field
	if err := s.db.First(&field, fieldID).Error; err != nil {
		return nil, fmt.Errorf("场地不存在")
	}
	if field.TenantID != tenantID {
		return nil, fmt.Errorf("场地不属于该租户")
	}
	if field.Status != models.FieldStatusOpen {
		return nil, fmt.Errorf("场地当前不可预订")
	}

	// 时段冲突检查
	var conflictCount int64
	s.db.Model(&models.Reservation{}).
		Where("field_id = ?", fieldID).
		Where("status IN ?", []string{models.ReservationStatusPending, models.ReservationStatusConfirmed}).
		Where("starts_at < ? AND ends_at > ?", endsAt, startsAt).
		Count(&conflictCount)
	if conflictCount > 0 {
		return nil, fmt.Errorf("该时段已被预订")
	}

	hours := endsAt.Sub(startsAt).Hours()
	reservation := &models.Reservation{
		TenantID:  tenantID,
		FieldID:   fieldID,
		UserID:    userID,
		Code:      uuid.New().String(),
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		Status:    models.ReservationStatusPending,
		AmountDue: int64(hours * float64(field.HourlyPrice)),
	}

	err := s.db.Create(reservation).Error
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

// GetByID 根据ID获取预订
// 租户隔离：tenantID 非nil时只能取到该租户的预订，跨租户的ID按不存在处理
func (s *ReservationService) GetByID(id uint, tenantID *uint) (*models.Reservation, error) {
	var reservation models.Reservation
	query := s.db.Preload("Field").Preload("User").Where("id = ?", id)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}
	err := query.First(&reservation).Error
	return &reservation, err
}

// GetByCode 根据确认码获取预订
func (s *ReservationService) GetByCode(code string, tenantID *uint) (*models.Reservation, error) {
	var reservation models.Reservation
	query := s.db.Preload("Field").Where("code = ?", code)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}
	err := query.First(&reservation).Error
	return &reservation, err
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *ReservationService) GetWithFiltersAndPage(tenantID uint, fieldID, userID *uint, status string, page, pageSize int) ([]*models.Reservation, int64, error) {
	var reservations []*models.Reservation
	var total int64

	query := s.db.Model(&models.Reservation{}).Where("tenant_id = ?", tenantID)

	if fieldID != nil {
		query = query.Where("field_id = ?", *fieldID)
	}
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Field").Offset(offset).Limit(pageSize).
		Order("starts_at DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, 0, err
	}

	return reservations, total, nil
}

// GetMyReservations 获取客户自己的预订列表
func (s *ReservationService) GetMyReservations(userID uint, page, pageSize int) ([]*models.Reservation, int64, error) {
	var reservations []*models.Reservation
	var total int64

	query := s.db.Model(&models.Reservation{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Field").Offset(offset).Limit(pageSize).
		Order("starts_at DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, 0, err
	}

	return reservations, total, nil
}

// ========== 状态流转方法 ==========

// 预订状态流转表
var reservationTransitions = map[string][]string{
	models.ReservationStatusPending:   {models.ReservationStatusConfirmed, models.ReservationStatusCancelled},
	models.ReservationStatusConfirmed: {models.ReservationStatusCompleted, models.ReservationStatusCancelled},
}

// Confirm 确认预订
func (s *ReservationService) Confirm(id uint, tenantID *uint) (*models.Reservation, error) {
	return s.transition(id, tenantID, models.ReservationStatusConfirmed)
}

// Cancel 取消预订
func (s *ReservationService) Cancel(id uint, tenantID *uint) (*models.Reservation, error) {
	return s.transition(id, tenantID, models.ReservationStatusCancelled)
}

// Complete 完成预订
func (s *ReservationService) Complete(id uint, tenantID *uint) (*models.Reservation, error) {
	return s.transition(id, tenantID, models.ReservationStatusCompleted)
}

func (s *ReservationService) transition(id uint, tenantID *uint, target string) (*models.Reservation, error) {
	var reservation models.Reservation
	query := s.db.Where("id = ?", id)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}
	err := query.First(&reservation).Error
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range reservationTransitions[reservation.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("预订状态不能从%s变更为%s", reservation.Status, target)
	}

	reservation.Status = target
	err = s.db.Save(&reservation).Error
	return &reservation, err
}

// ========== 统计相关方法 ==========

// GetStats 获取租户的预订统计
func (s *ReservationService) GetStats(tenantID uint) (*ReservationStats, error) {
	stats := &ReservationStats{}

	query := func() *gorm.DB {
		return s.db.Model(&models.Reservation{}).Where("tenant_id = ?", tenantID)
	}

	query().Count(&stats.Total)
	query().Where("status = ?", models.ReservationStatusPending).Count(&stats.Pending)
	query().Where("status = ?", models.ReservationStatusConfirmed).Count(&stats.Confirmed)
	query().Where("status = ?", models.ReservationStatusCancelled).Count(&stats.Cancelled)
	query().Where("status = ?", models.ReservationStatusCompleted).Count(&stats.Completed)

	return stats, nil
}
