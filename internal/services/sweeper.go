package services

import (
	"time"

	"reservo/internal/database"
	"reservo/internal/models"
	"reservo/pkg/logger"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// SweeperService 定时清理过期的角色持有记录
// 授权判定本身在查询层就过滤了过期记录，清扫只是把过期记录落库为停用状态，
// 让列表和统计不再把它们算作持有
type SweeperService struct {
	db    *gorm.DB
	authz *AuthzService
	cron  *cron.Cron
}

func NewSweeperService(authz *AuthzService) *SweeperService {
	return &SweeperService{
		db:    database.GetDB(),
		authz: authz,
		cron:  cron.New(),
	}
}

// Start 启动定时清扫（每小时执行一次）
func (s *SweeperService) Start() error {
	log := logger.WithModule("sweeper")

	_, err := s.cron.AddFunc("@hourly", func() {
		if err := s.SweepExpiredRoles(); err != nil {
			log.WithError(err).Error("清扫过期角色持有记录失败")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Info("角色过期清扫任务已启动")
	return nil
}

// Stop 停止定时清扫
func (s *SweeperService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.WithModule("sweeper").Info("角色过期清扫任务已停止")
}

// SweepExpiredRoles 把已过期但仍标记为激活的持有记录置为停用，并失效相关用户的授权快照
func (s *SweeperService) SweepExpiredRoles() error {
	log := logger.WithModule("sweeper")
	now := time.Now()

	// 先取出受影响的用户，落库后逐个失效快照
	var userIDs []uint
	err := s.db.Model(&models.UserRole{}).
		Where("is_active = ?", true).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Distinct().
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}

	result := s.db.Model(&models.UserRole{}).
		Where("is_active = ?", true).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}

	for _, userID := range userIDs {
		s.authz.InvalidateUser(userID)
	}

	log.WithField("count", result.RowsAffected).Info("已清扫过期的角色持有记录")
	return nil
}
