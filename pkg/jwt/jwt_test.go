package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	tenantID := uint(3)
	token, err := manager.GenerateToken(42, &tenantID, "alice", true, false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, uint(3), *claims.TenantID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.EmailVerified)
	assert.False(t, claims.IsPlatformAdmin)
}

func TestPlatformAdminWithoutTenant(t *testing.T) {
	// 平台管理员可以没有所属租户
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.GenerateToken(1, nil, "root", true, true)
	require.NoError(t, err)

	claims, err := manager.VerifyToken(token)
	require.NoError(t, err)
	assert.Nil(t, claims.TenantID)
	assert.True(t, claims.IsPlatformAdmin)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	manager := NewJWTManager("secret-a", time.Hour)
	other := NewJWTManager("secret-b", time.Hour)

	token, err := manager.GenerateToken(1, nil, "alice", false, false)
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.GenerateToken(1, nil, "alice", false, false)
	require.NoError(t, err)

	_, err = manager.VerifyToken(token)
	assert.Error(t, err)
}

func TestRefreshTokenKeepsClaims(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	tenantID := uint(9)
	token, err := manager.GenerateToken(7, &tenantID, "bob", false, false)
	require.NoError(t, err)

	refreshed, err := manager.RefreshToken(token)
	require.NoError(t, err)

	claims, err := manager.VerifyToken(refreshed)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, uint(9), *claims.TenantID)
}
