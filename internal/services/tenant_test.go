package services

import (
	"testing"

	"reservo/internal/models"
	"reservo/pkg/rbac"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardRoleGrantsCoverAllSeededRoles(t *testing.T) {
	for _, standard := range models.StandardTenantRoles {
		_, ok := standardRoleGrants[standard.Code]
		assert.True(t, ok, "标准角色 %s 缺少默认权限配置", standard.Code)
	}
}

func TestTenantAdminGrantsManageOnEveryResource(t *testing.T) {
	grants := standardRoleGrants[models.RoleCodeTenantAdmin]
	require.Len(t, grants, len(tenantResources))

	granted := make(map[rbac.Resource]bool)
	for _, grant := range grants {
		assert.Equal(t, rbac.ActionManage, grant.Action)
		granted[grant.Resource] = true
	}
	for _, resource := range tenantResources {
		assert.True(t, granted[resource], "租户管理员缺少 %s 的MANAGE权限", resource)
	}
}

func TestStandardGrantsReferenceSeededCatalogue(t *testing.T) {
	// 默认授权引用的(操作,资源)必须都在播种的权限目录里，否则开通事务会失败
	seeded := make(map[rbac.PermissionCheck]bool)
	for _, resource := range tenantResources {
		for _, action := range allActions {
			seeded[rbac.PermissionCheck{Action: action, Resource: resource}] = true
		}
	}

	for code, grants := range standardRoleGrants {
		for _, grant := range grants {
			assert.True(t, seeded[grant], "角色 %s 的授权 %s:%s 不在权限目录中", code, grant.Resource, grant.Action)
		}
	}
}

func TestClientGrantsAreMinimal(t *testing.T) {
	// 客户角色不应持有任何MANAGE或删除类权限
	for _, grant := range standardRoleGrants[models.RoleCodeClient] {
		assert.NotEqual(t, rbac.ActionManage, grant.Action)
		assert.NotEqual(t, rbac.ActionDelete, grant.Action)
	}
}

func TestTenantValidateCode(t *testing.T) {
	s := &TenantService{}

	assert.True(t, s.ValidateCode("arena-club"))
	assert.True(t, s.ValidateCode("club01"))
	assert.False(t, s.ValidateCode("a"))
	assert.False(t, s.ValidateCode("Arena"))
	assert.False(t, s.ValidateCode("club_01"))
	assert.False(t, s.ValidateCode("a-very-long-tenant-code-over-limit"))
}

func TestTenantResourcesExcludePlatformScope(t *testing.T) {
	// 租户权限目录不包含租户管理资源，那是平台级的
	for _, resource := range tenantResources {
		assert.NotEqual(t, rbac.ResourceTenant, resource)
	}
}
