package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardResolving(t *testing.T) {
	// 登录状态未解析：等待，不跳转
	decision := EvaluateGuard(GuardInput{
		AuthLoaded:   false,
		AllowedRoles: []RoleClass{RoleTenantAdmin},
	})
	assert.Equal(t, GuardResolving, decision.State)
	assert.Empty(t, decision.RedirectTo)

	// 已登录但角色数据未加载：同样等待，最终角色是什么都不影响这一步
	decision = EvaluateGuard(GuardInput{
		AuthLoaded:    true,
		Authenticated: true,
		Snapshot:      EmptySnapshot(),
		AllowedRoles:  []RoleClass{RolePlatformAdmin},
	})
	assert.Equal(t, GuardResolving, decision.State)
	assert.Empty(t, decision.RedirectTo)
}

func TestGuardUnauthenticated(t *testing.T) {
	decision := EvaluateGuard(GuardInput{
		AuthLoaded:    true,
		Authenticated: false,
		AllowedRoles:  []RoleClass{RoleTenantAdmin},
	})
	assert.Equal(t, GuardUnauthenticated, decision.State)
	assert.Equal(t, RouteSignIn, decision.RedirectTo)
}

func TestGuardUnauthorizedRedirectsToOwnLanding(t *testing.T) {
	// 客户访问平台管理员区域：跳到客户自己的默认落地页，不是登录页
	snap := loadedSnapshot([]RoleAssignment{{Name: "client", IsActive: true}}, nil)
	decision := EvaluateGuard(GuardInput{
		AuthLoaded:    true,
		Authenticated: true,
		Snapshot:      snap,
		AllowedRoles:  []RoleClass{RolePlatformAdmin},
	})
	assert.Equal(t, GuardUnauthorized, decision.State)
	assert.Equal(t, RouteClient, decision.RedirectTo)
	assert.Equal(t, RoleClient, decision.PrimaryRole)
}

func TestGuardAuthorized(t *testing.T) {
	snap := loadedSnapshot([]RoleAssignment{{Name: "tenant_staff", IsActive: true}}, nil)
	decision := EvaluateGuard(GuardInput{
		AuthLoaded:    true,
		Authenticated: true,
		Snapshot:      snap,
		AllowedRoles:  []RoleClass{RoleTenantAdmin, RoleTenantStaff},
	})
	assert.Equal(t, GuardAuthorized, decision.State)
	assert.Empty(t, decision.RedirectTo)
	assert.Equal(t, RoleTenantStaff, decision.PrimaryRole)
}

func TestGuardRequiredPermission(t *testing.T) {
	roles := []RoleAssignment{{Name: "tenant_staff", IsActive: true}}

	// 角色满足但细粒度权限缺失
	snap := loadedSnapshot(roles, nil)
	decision := EvaluateGuard(GuardInput{
		AuthLoaded:    true,
		Authenticated: true,
		Snapshot:      snap,
		AllowedRoles:  []RoleClass{RoleTenantStaff},
		RequiredCheck: &PermissionCheck{ActionRead, ResourceMetrics},
	})
	assert.Equal(t, GuardUnauthorized, decision.State)
	assert.Equal(t, RouteDashboard, decision.RedirectTo)

	// MANAGE 作为替代条件满足细粒度检查
	snap = loadedSnapshot(roles, []PermissionGrant{
		{Action: ActionManage, Resource: ResourceMetrics, IsActive: true},
	})
	decision = EvaluateGuard(GuardInput{
		AuthLoaded:    true,
		Authenticated: true,
		Snapshot:      snap,
		AllowedRoles:  []RoleClass{RoleTenantStaff},
		RequiredCheck: &PermissionCheck{ActionRead, ResourceMetrics},
	})
	assert.Equal(t, GuardAuthorized, decision.State)
}

func TestGuardUnknownRoleLandsHome(t *testing.T) {
	// 已登录但没有任何可用角色：发往公共首页
	snap := loadedSnapshot(nil, nil)
	decision := EvaluateGuard(GuardInput{
		AuthLoaded:    true,
		Authenticated: true,
		Snapshot:      snap,
		AllowedRoles:  []RoleClass{RoleClient},
	})
	assert.Equal(t, GuardUnauthorized, decision.State)
	assert.Equal(t, RouteHome, decision.RedirectTo)
	assert.Equal(t, RoleUnknown, decision.PrimaryRole)
}

func TestDefaultRouteTable(t *testing.T) {
	assert.Equal(t, RouteSystem, DefaultRouteFor(RolePlatformAdmin))
	assert.Equal(t, RouteDashboard, DefaultRouteFor(RoleTenantAdmin))
	assert.Equal(t, RouteDashboard, DefaultRouteFor(RoleTenantStaff))
	assert.Equal(t, RouteClient, DefaultRouteFor(RoleClient))
	assert.Equal(t, RouteHome, DefaultRouteFor(RoleUnknown))
}
