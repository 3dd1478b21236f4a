package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 被锁定/停用的用户即使持有有效令牌，角色查询也必须过滤用户状态
func TestRoleAssignmentsFilterInactiveUsers(t *testing.T) {
	db, mock := newMockDB(t)
	s := &AuthzService{db: db}

	mock.ExpectQuery(`FROM "user_roles" JOIN roles ON roles\.id = user_roles\.role_id JOIN users ON users\.id = user_roles\.user_id WHERE user_roles\.user_id = \$1 AND users\.status = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"code"}))

	assignments, err := s.GetRoleAssignments(9)
	require.NoError(t, err)
	assert.Empty(t, assignments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 权限聚合查询同样要求用户本身处于激活状态
func TestPermissionGrantsFilterInactiveUsers(t *testing.T) {
	db, mock := newMockDB(t)
	s := &AuthzService{db: db}

	mock.ExpectQuery(`FROM "permissions" JOIN role_permissions ON role_permissions\.permission_id = permissions\.id JOIN user_roles ON user_roles\.role_id = role_permissions\.role_id JOIN roles ON roles\.id = user_roles\.role_id JOIN users ON users\.id = user_roles\.user_id WHERE user_roles\.user_id = \$1 AND users\.status = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"action", "resource"}))

	grants, err := s.GetPermissionGrants(9)
	require.NoError(t, err)
	assert.Empty(t, grants)
	assert.NoError(t, mock.ExpectationsWereMet())
}
