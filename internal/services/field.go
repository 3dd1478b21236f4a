package services

import (
	"fmt"
	"unicode/utf8"

	"reservo/internal/database"
	"reservo/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FieldService struct {
	db *gorm.DB
}

func NewFieldService() *FieldService {
	return &FieldService{
		db: database.GetDB(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建场地（受租户套餐的场地数上限约束）
func (s *FieldService) Create(tenantID uint, name, sportType string, hourlyPrice int64, openingHours datatypes.JSON) (*models.Field, error) {
	if !s.ValidateName(name) {
		return nil, fmt.Errorf("场地名称长度必须在2-100个字符之间")
	}
	if !models.IsValidSportType(sportType) {
		return nil, fmt.Errorf("运动类型无效")
	}
	if hourlyPrice < 0 {
		return nil, fmt.Errorf("时租价格不能为负")
	}

	if err := s.checkFieldQuota(tenantID); err != nil {
		return nil, err
	}

	field := &models.Field{
		TenantID:     tenantID,
		Name:         name,
		SportType:    sportType,
		Status:       models.FieldStatusOpen,
		HourlyPrice:  hourlyPrice,
		OpeningHours: openingHours,
	}

	err := s.db.Create(field).Error
	if err != nil {
		return nil, err
	}

	return field, nil
}

// checkFieldQuota 检查租户场地数是否达到套餐上限
func (s *FieldService) checkFieldQuota(tenantID uint) error {
	var tenant models.Tenant
	if err := s.db.First(&tenant, tenantID).Error; err != nil {
		return fmt.Errorf("租户不存在")
	}
	if tenant.Status != models.TenantStatusActive {
		return fmt.Errorf("租户已停用")
	}

	var count int64
	s.db.Model(&models.Field{}).Where("tenant_id = ?", tenantID).Count(&count)
	if int(count) >= tenant.MaxFields {
		return fmt.Errorf("租户场地数已达套餐上限（%d）", tenant.MaxFields)
	}
	return nil
}

// GetByID 根据ID获取场地
// 租户隔离：tenantID 非nil时只能取到该租户的场地，跨租户的ID按不存在处理
func (s *FieldService) GetByID(id uint, tenantID *uint) (*models.Field, error) {
	var field models.Field
	query := s.db.Where("id = ?", id)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}
	err := query.First(&field).Error
	return &field, err
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *FieldService) GetWithFiltersAndPage(tenantID uint, sportType, status, keyword string, page, pageSize int) ([]*models.Field, int64, error) {
	var fields []*models.Field
	var total int64

	query := s.db.Model(&models.Field{}).Where("tenant_id = ?", tenantID)

	if sportType != "" {
		query = query.Where("sport_type = ?", sportType)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		query = query.Where("name LIKE ?", fmt.Sprintf("%%%s%%", keyword))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&fields).Error
	if err != nil {
		return nil, 0, err
	}

	return fields, total, nil
}

// Update 更新场地
func (s *FieldService) Update(id uint, tenantID *uint, name, sportType, status string, hourlyPrice int64, openingHours datatypes.JSON) (*models.Field, error) {
	if !s.ValidateName(name) {
		return nil, fmt.Errorf("场地名称长度必须在2-100个字符之间")
	}
	if !models.IsValidSportType(sportType) {
		return nil, fmt.Errorf("运动类型无效")
	}
	if !models.IsValidFieldStatus(status) {
		return nil, fmt.Errorf("场地状态无效")
	}
	if hourlyPrice < 0 {
		return nil, fmt.Errorf("时租价格不能为负")
	}

	field, err := s.GetByID(id, tenantID)
	if err != nil {
		return nil, err
	}

	field.Name = name
	field.SportType = sportType
	field.Status = status
	field.HourlyPrice = hourlyPrice
	if openingHours != nil {
		field.OpeningHours = openingHours
	}

	err = s.db.Save(field).Error
	return field, err
}

// Delete 删除场地（存在未完结预订时不可删除）
func (s *FieldService) Delete(id uint, tenantID *uint) error {
	field, err := s.GetByID(id, tenantID)
	if err != nil {
		return err
	}

	var activeCount int64
	s.db.Model(&models.Reservation{}).
		Where("field_id = ?", field.ID).
		Where("status IN ?", []string{models.ReservationStatusPending, models.ReservationStatusConfirmed}).
		Count(&activeCount)
	if activeCount > 0 {
		return fmt.Errorf("该场地仍有%d个未完结预订，不能删除", activeCount)
	}

	return s.db.Delete(&models.Field{}, field.ID).Error
}

// ========== 验证相关方法 ==========

// ValidateName 验证场地名称
func (s *FieldService) ValidateName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	return runeCount >= 2 && runeCount <= 100
}
