package models

import "time"

// Reservation 预订记录
// 只做预订数据管理，可预订时段的生成不在本系统范围内
type Reservation struct {
	BaseModel
	TenantID  uint      `gorm:"not null;index" json:"tenant_id"`
	FieldID   uint      `gorm:"not null;index" json:"field_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"` // 预订客户
	Code      string    `gorm:"unique;not null;size:36" json:"code"` // 确认码（uuid）
	StartsAt  time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt    time.Time `gorm:"not null" json:"ends_at"`
	Status    string    `gorm:"default:'pending';size:20" json:"status"`
	AmountDue int64     `gorm:"default:0" json:"amount_due"` // 单位：分

	// 关联
	Field *Field `gorm:"foreignKey:FieldID" json:"field,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 表名
func (r *Reservation) TableName() string {
	return "reservations"
}

// 预订状态常量
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"
)

// IsValidReservationStatus 检查预订状态是否有效
func IsValidReservationStatus(status string) bool {
	switch status {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	default:
		return false
	}
}
