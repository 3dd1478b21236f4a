package services

import (
	"time"

	"reservo/pkg/config"
)

// Override 模拟访问覆盖状态：平台管理员临时进入某个租户的上下文
// 值本身不携带任何授权，生效与否由租户范围解析时的服务端角色校验决定
type Override struct {
	TenantID   uint   `json:"tenant_id"`
	TenantName string `json:"tenant_name"` // 仅用于界面展示
}

// OverrideStore 覆盖状态的持久化抽象
// 生产实现是HTTP cookie（见中间件包），单测用内存实现
type OverrideStore interface {
	GetID() (uint, bool)
	SetID(tenantID uint, maxAge time.Duration)
	ClearID()

	GetLabel() (string, bool)
	SetLabel(name string, maxAge time.Duration)
	ClearLabel()
}

// ImpersonationManager 模拟访问生命周期管理
// 要防的不是并发问题，而是失效事件（退出模拟、登出）之后残留的状态
type ImpersonationManager struct {
	maxAge time.Duration
}

// NewImpersonationManager 创建管理器，有效期取自配置
func NewImpersonationManager() *ImpersonationManager {
	days := config.GetConfig().Impersonation.MaxAgeDays
	if days <= 0 {
		days = 7
	}
	return &ImpersonationManager{maxAge: time.Duration(days) * 24 * time.Hour}
}

// NewImpersonationManagerWithMaxAge 创建指定有效期的管理器
func NewImpersonationManagerWithMaxAge(maxAge time.Duration) *ImpersonationManager {
	return &ImpersonationManager{maxAge: maxAge}
}

// Start 开始模拟访问：写入租户ID与展示名称
// 调用方必须已经在服务端校验过平台管理员身份和目标租户的有效性
func (m *ImpersonationManager) Start(store OverrideStore, tenantID uint, tenantName string) {
	store.SetID(tenantID, m.maxAge)
	store.SetLabel(tenantName, m.maxAge)
}

// Stop 停止模拟访问：两项状态一起清除
func (m *ImpersonationManager) Stop(store OverrideStore) {
	store.ClearID()
	store.ClearLabel()
}

// RestoreOnLoad 会话启动时恢复覆盖状态
// 两项都在才算有效；只剩其中一项时按无覆盖处理并顺手清掉残留
func (m *ImpersonationManager) RestoreOnLoad(store OverrideStore) *Override {
	tenantID, hasID := store.GetID()
	tenantName, hasLabel := store.GetLabel()

	if !hasID || !hasLabel {
		if hasID || hasLabel {
			m.Stop(store)
		}
		return nil
	}

	return &Override{TenantID: tenantID, TenantName: tenantName}
}

// StopOnSignOut 登出时清除覆盖状态
// 登出必须走这里，保证换一个账号登录不会继承上一个会话的模拟上下文
func (m *ImpersonationManager) StopOnSignOut(store OverrideStore) {
	m.Stop(store)
}
