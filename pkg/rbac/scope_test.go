package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestEffectiveTenant(t *testing.T) {
	tests := []struct {
		name string
		in   ScopeInput
		want *uint
	}{
		{
			name: "平台管理员带覆盖取覆盖租户",
			in:   ScopeInput{IsPlatformAdmin: true, OwnTenantID: uintPtr(1), OverrideID: uintPtr(2)},
			want: uintPtr(2),
		},
		{
			name: "非平台管理员的覆盖一律忽略",
			in:   ScopeInput{IsPlatformAdmin: false, OwnTenantID: uintPtr(1), OverrideID: uintPtr(2)},
			want: uintPtr(1),
		},
		{
			name: "平台管理员无覆盖取所属租户",
			in:   ScopeInput{IsPlatformAdmin: true, OwnTenantID: uintPtr(3)},
			want: uintPtr(3),
		},
		{
			name: "平台管理员无所属租户无覆盖",
			in:   ScopeInput{IsPlatformAdmin: true},
			want: nil,
		},
		{
			name: "普通用户无所属租户",
			in:   ScopeInput{IsPlatformAdmin: false},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveTenant(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestEffectiveTenantCopiesValue(t *testing.T) {
	// 返回值是副本，修改不影响输入
	own := uint(7)
	got := EffectiveTenant(ScopeInput{OwnTenantID: &own})
	require.NotNil(t, got)
	*got = 99
	assert.Equal(t, uint(7), own)
}
