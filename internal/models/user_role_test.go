package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserRoleIsHeld(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		ur   UserRole
		want bool
	}{
		{"激活且无过期时间", UserRole{IsActive: true}, true},
		{"激活且未过期", UserRole{IsActive: true, ExpiresAt: &future}, true},
		{"激活但已过期", UserRole{IsActive: true, ExpiresAt: &past}, false},
		{"软禁用", UserRole{IsActive: false}, false},
		{"软禁用且未过期", UserRole{IsActive: false, ExpiresAt: &future}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ur.IsHeld(now))
		})
	}
}

func TestUserRoleExpiresExactlyNow(t *testing.T) {
	// 过期时间等于当前时刻视为已过期
	now := time.Now()
	ur := UserRole{IsActive: true, ExpiresAt: &now}
	assert.True(t, ur.IsExpired(now))
	assert.False(t, ur.IsHeld(now))
}
