package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedSnapshot(roles []RoleAssignment, perms []PermissionGrant) Snapshot {
	return Snapshot{Roles: roles, Permissions: perms, Loaded: true}
}

func TestHasRole(t *testing.T) {
	snap := loadedSnapshot([]RoleAssignment{
		{Name: "tenant_admin", IsActive: true},
		{Name: "client", IsActive: false},
	}, nil)

	assert.True(t, snap.HasRole("tenant_admin"))
	assert.False(t, snap.HasRole("client"), "未激活的角色持有不应计入")
	assert.False(t, snap.HasRole("sys_admin"))
}

func TestHasRoleInactiveAssignment(t *testing.T) {
	// isActive=false 的持有记录在任何判定中都视为未持有
	snap := loadedSnapshot([]RoleAssignment{
		{Name: "tenant_admin", IsActive: false},
	}, nil)

	assert.False(t, snap.HasRole("tenant_admin"))
	assert.Equal(t, RoleUnknown, snap.PrimaryRole())
}

func TestHasAnyAllRoles(t *testing.T) {
	snap := loadedSnapshot([]RoleAssignment{
		{Name: "tenant_staff", IsActive: true},
		{Name: "client", IsActive: true},
	}, nil)

	assert.True(t, snap.HasAnyRole("sys_admin", "tenant_staff"))
	assert.False(t, snap.HasAnyRole("sys_admin", "tenant_admin"))
	assert.True(t, snap.HasAllRoles("tenant_staff", "client"))
	assert.False(t, snap.HasAllRoles("tenant_staff", "tenant_admin"))
	assert.False(t, snap.HasAllRoles(), "空检查集不应放行")
}

func TestHasPermissionExactMatchOnly(t *testing.T) {
	// MANAGE 是独立权限项，不隐含其他操作
	snap := loadedSnapshot(nil, []PermissionGrant{
		{Action: ActionManage, Resource: ResourceUser, IsActive: true},
	})

	assert.False(t, snap.HasPermission(ActionRead, ResourceUser))
	assert.False(t, snap.HasPermission(ActionCreate, ResourceUser))
	assert.True(t, snap.HasPermission(ActionManage, ResourceUser))
}

func TestHasPermissionInactiveGrant(t *testing.T) {
	snap := loadedSnapshot(nil, []PermissionGrant{
		{Action: ActionRead, Resource: ResourceField, IsActive: false},
	})

	assert.False(t, snap.HasPermission(ActionRead, ResourceField))
}

func TestCanAct(t *testing.T) {
	tests := []struct {
		name   string
		grants []PermissionGrant
		action Action
		want   bool
	}{
		{
			name:   "精确权限满足",
			grants: []PermissionGrant{{Action: ActionRead, Resource: ResourceField, IsActive: true}},
			action: ActionRead,
			want:   true,
		},
		{
			name:   "MANAGE作为替代条件满足",
			grants: []PermissionGrant{{Action: ActionManage, Resource: ResourceField, IsActive: true}},
			action: ActionUpdate,
			want:   true,
		},
		{
			name:   "两者都没有",
			grants: []PermissionGrant{{Action: ActionRead, Resource: ResourceUser, IsActive: true}},
			action: ActionRead,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := loadedSnapshot(nil, tt.grants)
			assert.Equal(t, tt.want, snap.CanAct(tt.action, ResourceField))
		})
	}
}

func TestHasAnyAllPermissions(t *testing.T) {
	snap := loadedSnapshot(nil, []PermissionGrant{
		{Action: ActionRead, Resource: ResourceReservation, IsActive: true},
		{Action: ActionCreate, Resource: ResourceReservation, IsActive: true},
	})

	assert.True(t, snap.HasAnyPermission(
		PermissionCheck{ActionDelete, ResourceReservation},
		PermissionCheck{ActionRead, ResourceReservation},
	))
	assert.True(t, snap.HasAllPermissions(
		PermissionCheck{ActionRead, ResourceReservation},
		PermissionCheck{ActionCreate, ResourceReservation},
	))
	assert.False(t, snap.HasAllPermissions(
		PermissionCheck{ActionRead, ResourceReservation},
		PermissionCheck{ActionDelete, ResourceReservation},
	))
}

func TestRoleClassFlags(t *testing.T) {
	tests := []struct {
		name  string
		roles []RoleAssignment
		check func(Snapshot) bool
		want  bool
	}{
		{"sys_admin映射平台管理员", []RoleAssignment{{Name: "sys_admin", IsActive: true}}, Snapshot.IsPlatformAdmin, true},
		{"super_admin别名映射平台管理员", []RoleAssignment{{Name: "super_admin", IsActive: true}}, Snapshot.IsPlatformAdmin, true},
		{"admin别名映射租户管理员", []RoleAssignment{{Name: "admin", IsActive: true}}, Snapshot.IsTenantAdmin, true},
		{"user别名映射客户", []RoleAssignment{{Name: "user", IsActive: true}}, Snapshot.IsClient, true},
		{"员工是租户成员", []RoleAssignment{{Name: "tenant_staff", IsActive: true}}, Snapshot.IsTenantMember, true},
		{"管理员是租户成员", []RoleAssignment{{Name: "tenant_admin", IsActive: true}}, Snapshot.IsTenantMember, true},
		{"客户不是租户成员", []RoleAssignment{{Name: "client", IsActive: true}}, Snapshot.IsTenantMember, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := loadedSnapshot(tt.roles, nil)
			assert.Equal(t, tt.want, tt.check(snap))
		})
	}
}

func TestPrimaryRolePriority(t *testing.T) {
	// 同时持有 tenant_staff 和 client 时主角色必须是 tenant_staff
	snap := loadedSnapshot([]RoleAssignment{
		{Name: "client", IsActive: true},
		{Name: "tenant_staff", IsActive: true},
	}, nil)
	assert.Equal(t, RoleTenantStaff, snap.PrimaryRole())

	snap = loadedSnapshot([]RoleAssignment{
		{Name: "tenant_staff", IsActive: true},
		{Name: "sys_admin", IsActive: true},
		{Name: "tenant_admin", IsActive: true},
	}, nil)
	assert.Equal(t, RolePlatformAdmin, snap.PrimaryRole())
}

func TestPrimaryRoleDeterministic(t *testing.T) {
	snap := loadedSnapshot([]RoleAssignment{
		{Name: "tenant_admin", IsActive: true},
		{Name: "client", IsActive: true},
	}, nil)

	first := snap.PrimaryRole()
	for i := 0; i < 10; i++ {
		require.Equal(t, first, snap.PrimaryRole())
	}
}

func TestPrimaryRoleUnknown(t *testing.T) {
	// 无角色、未知角色代码、数据未加载都解析为unknown
	assert.Equal(t, RoleUnknown, loadedSnapshot(nil, nil).PrimaryRole())
	assert.Equal(t, RoleUnknown, loadedSnapshot([]RoleAssignment{
		{Name: "some_custom_role", IsActive: true},
	}, nil).PrimaryRole())
	assert.Equal(t, RoleUnknown, EmptySnapshot().PrimaryRole())
}

func TestNotLoadedSnapshotDeniesEverything(t *testing.T) {
	// 数据未就绪时所有判定必须返回false，绝不猜测放行
	snap := EmptySnapshot()

	assert.False(t, snap.HasRole("sys_admin"))
	assert.False(t, snap.HasPermission(ActionRead, ResourceUser))
	assert.False(t, snap.CanAct(ActionRead, ResourceUser))
	assert.False(t, snap.IsPlatformAdmin())
	assert.False(t, snap.IsTenantMember())
	assert.Equal(t, RoleUnknown, snap.PrimaryRole())
}
