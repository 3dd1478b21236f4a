package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryOverrideStore 内存实现，模拟一个浏览器会话的存储
type memoryOverrideStore struct {
	id       *uint
	label    *string
	idTTL    time.Duration
	labelTTL time.Duration
}

func (s *memoryOverrideStore) GetID() (uint, bool) {
	if s.id == nil {
		return 0, false
	}
	return *s.id, true
}

func (s *memoryOverrideStore) SetID(tenantID uint, maxAge time.Duration) {
	s.id = &tenantID
	s.idTTL = maxAge
}

func (s *memoryOverrideStore) ClearID() { s.id = nil }

func (s *memoryOverrideStore) GetLabel() (string, bool) {
	if s.label == nil {
		return "", false
	}
	return *s.label, true
}

func (s *memoryOverrideStore) SetLabel(name string, maxAge time.Duration) {
	s.label = &name
	s.labelTTL = maxAge
}

func (s *memoryOverrideStore) ClearLabel() { s.label = nil }

func testManager() *ImpersonationManager {
	return NewImpersonationManagerWithMaxAge(7 * 24 * time.Hour)
}

func TestImpersonationRoundTrip(t *testing.T) {
	// 开始模拟后重新加载（模拟页面刷新）能恢复出同样的覆盖状态
	manager := testManager()
	store := &memoryOverrideStore{}

	manager.Start(store, 2, "Acme")

	override := manager.RestoreOnLoad(store)
	require.NotNil(t, override)
	assert.Equal(t, uint(2), override.TenantID)
	assert.Equal(t, "Acme", override.TenantName)
}

func TestImpersonationStopClearsBoth(t *testing.T) {
	manager := testManager()
	store := &memoryOverrideStore{}

	manager.Start(store, 2, "Acme")
	manager.Stop(store)

	_, hasID := store.GetID()
	_, hasLabel := store.GetLabel()
	assert.False(t, hasID)
	assert.False(t, hasLabel)
	assert.Nil(t, manager.RestoreOnLoad(store))
}

func TestImpersonationPartialStateIsAbsent(t *testing.T) {
	manager := testManager()

	// 只有ID没有名称：无效，且残留被清除
	store := &memoryOverrideStore{}
	store.SetID(2, time.Hour)
	assert.Nil(t, manager.RestoreOnLoad(store))
	_, hasID := store.GetID()
	assert.False(t, hasID, "残留的单项状态应被清除")

	// 只有名称没有ID：同样无效
	store = &memoryOverrideStore{}
	store.SetLabel("Acme", time.Hour)
	assert.Nil(t, manager.RestoreOnLoad(store))
	_, hasLabel := store.GetLabel()
	assert.False(t, hasLabel)
}

func TestImpersonationStopOnSignOut(t *testing.T) {
	// 登出后覆盖状态必须消失，换账号登录不会继承
	manager := testManager()
	store := &memoryOverrideStore{}

	manager.Start(store, 9, "Riverside Courts")
	manager.StopOnSignOut(store)

	assert.Nil(t, manager.RestoreOnLoad(store))
	_, hasID := store.GetID()
	_, hasLabel := store.GetLabel()
	assert.False(t, hasID)
	assert.False(t, hasLabel)
}

func TestImpersonationMaxAgePropagated(t *testing.T) {
	manager := NewImpersonationManagerWithMaxAge(48 * time.Hour)
	store := &memoryOverrideStore{}

	manager.Start(store, 1, "Acme")
	assert.Equal(t, 48*time.Hour, store.idTTL)
	assert.Equal(t, 48*time.Hour, store.labelTTL)
}
