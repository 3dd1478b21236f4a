package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB 用sqlmock构造一个gorm连接，测试只断言SQL形状，不需要真实数据库
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func uintPtr(v uint) *uint {
	return &v
}

// 租户管理员按ID取场地时，查询必须同时带上租户条件
func TestFieldGetByIDScopedToTenant(t *testing.T) {
	db, mock := newMockDB(t)
	s := &FieldService{db: db}

	mock.ExpectQuery(`SELECT \* FROM "fields" WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(7, 1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}).
			AddRow(7, 1, "中央球场"))

	field, err := s.GetByID(7, uintPtr(1))
	require.NoError(t, err)
	assert.Equal(t, uint(7), field.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 跨租户的场地ID按不存在处理
func TestFieldGetByIDOtherTenantBehavesAsMissing(t *testing.T) {
	db, mock := newMockDB(t)
	s := &FieldService{db: db}

	mock.ExpectQuery(`SELECT \* FROM "fields" WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(7, 2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetByID(7, uintPtr(2))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 预订详情同样受租户条件约束
func TestReservationGetByIDOtherTenantBehavesAsMissing(t *testing.T) {
	db, mock := newMockDB(t)
	s := &ReservationService{db: db}

	mock.ExpectQuery(`SELECT \* FROM "reservations" WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(42, 2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetByID(42, uintPtr(2))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 按确认码查询也不能跨租户
func TestReservationGetByCodeOtherTenantBehavesAsMissing(t *testing.T) {
	db, mock := newMockDB(t)
	s := &ReservationService{db: db}

	mock.ExpectQuery(`SELECT \* FROM "reservations" WHERE code = \$1 AND tenant_id = \$2`).
		WithArgs("RSV-ABC123", 2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetByCode("RSV-ABC123", uintPtr(2))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 角色的跨租户ID按不存在处理，防止改写其他租户的角色授权
func TestRoleFindScopedOtherTenantBehavesAsMissing(t *testing.T) {
	db, mock := newMockDB(t)
	s := &RoleService{db: db}

	mock.ExpectQuery(`SELECT \* FROM "roles" WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(5, 2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.findScoped(5, uintPtr(2))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 用户的跨租户ID按不存在处理，防止重置其他租户用户的密码或状态
func TestUserFindScopedOtherTenantBehavesAsMissing(t *testing.T) {
	db, mock := newMockDB(t)
	s := &UserService{db: db}

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(9, 2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.findScoped(9, uintPtr(2))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 平台范围（tenantID为nil）查询不带租户条件
func TestUserFindScopedPlatformScopeOmitsTenantClause(t *testing.T) {
	db, mock := newMockDB(t)
	s := &UserService{db: db}

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY`).
		WithArgs(9, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
			AddRow(9, "platform-root"))

	user, err := s.findScoped(9, nil)
	require.NoError(t, err)
	assert.Equal(t, uint(9), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 分配跨租户角色时，平台管理员身份必须从角色数据重新推导
// 用户行上被篡改的标记列不能绕过租户一致性检查
func TestAssignRoleDerivesPlatformAdminFromRoles(t *testing.T) {
	db, mock := newMockDB(t)
	s := &UserService{db: db, authz: &AuthzService{db: db}}

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY`).
		WithArgs(9, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "status", "is_platform_admin"}).
			AddRow(9, 1, "active", true))

	mock.ExpectQuery(`SELECT \* FROM "roles" WHERE id = \$1 ORDER BY`).
		WithArgs(5, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "code", "status"}).
			AddRow(5, 2, "staff", "active"))

	// 角色快照为空，说明该用户并不是真正的平台管理员
	mock.ExpectQuery(`FROM "user_roles" JOIN roles`).
		WillReturnRows(sqlmock.NewRows([]string{"code"}))
	mock.ExpectQuery(`FROM "permissions" JOIN role_permissions`).
		WillReturnRows(sqlmock.NewRows([]string{"action", "resource"}))

	err := s.AssignRole(9, 5, nil, uintPtr(1), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "不能分配其他租户的角色")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 启停权限项前必须先在租户范围内找到该权限，找不到就不发UPDATE
func TestPermissionSetActiveOtherTenantBehavesAsMissing(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PermissionService{db: db}

	mock.ExpectQuery(`SELECT \* FROM "permissions" WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(3, 2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.SetActive(3, false, uintPtr(2))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
