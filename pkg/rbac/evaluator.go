package rbac

// ========== 权限操作与资源常量定义 ==========

// Action 权限操作类型
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionManage Action = "MANAGE" // 管理权限，独立权限项，不会自动展开为增删改查
)

// Resource 权限资源类型
type Resource string

const (
	ResourceUser        Resource = "USER"
	ResourceRole        Resource = "ROLE"
	ResourcePermission  Resource = "PERMISSION"
	ResourceField       Resource = "FIELD"
	ResourceReservation Resource = "RESERVATION"
	ResourceStaff       Resource = "STAFF"
	ResourceMetrics     Resource = "METRICS"
	ResourceSettings    Resource = "SETTINGS"
	ResourcePayment     Resource = "PAYMENT"
	ResourceTenant      Resource = "TENANT"
)

// RoleClass 角色归类（用于路由决策的规范角色类别）
type RoleClass string

const (
	RolePlatformAdmin RoleClass = "platform_admin" // 平台管理员
	RoleTenantAdmin   RoleClass = "tenant_admin"   // 租户管理员
	RoleTenantStaff   RoleClass = "tenant_staff"   // 租户员工
	RoleClient        RoleClass = "client"         // 客户
	RoleUnknown       RoleClass = "unknown"        // 未知（数据未加载或无可用角色）
)

// roleAliases 角色别名表：历史角色代码统一映射到规范角色类别
// 所有别名比较集中在这一张表里，不要在其他地方做字符串比较
var roleAliases = map[string]RoleClass{
	"sys_admin":    RolePlatformAdmin,
	"super_admin":  RolePlatformAdmin,
	"tenant_admin": RoleTenantAdmin,
	"admin":        RoleTenantAdmin,
	"tenant_staff": RoleTenantStaff,
	"client":       RoleClient,
	"user":         RoleClient,
}

// rolePriority 角色优先级：数值越大优先级越高
var rolePriority = map[RoleClass]int{
	RolePlatformAdmin: 4,
	RoleTenantAdmin:   3,
	RoleTenantStaff:   2,
	RoleClient:        1,
}

// ClassifyRole 将角色代码映射到规范角色类别
func ClassifyRole(code string) RoleClass {
	if class, ok := roleAliases[code]; ok {
		return class
	}
	return RoleUnknown
}

// ========== 评估器输入数据 ==========

// RoleAssignment 角色持有记录（上游已按用户过滤）
type RoleAssignment struct {
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// PermissionGrant 权限授予记录（上游已按用户过滤）
type PermissionGrant struct {
	Action   Action   `json:"action"`
	Resource Resource `json:"resource"`
	IsActive bool     `json:"is_active"`
}

// PermissionCheck 权限检查项
type PermissionCheck struct {
	Action   Action
	Resource Resource
}

// Snapshot 用户的角色/权限快照
// Loaded=false 表示上游数据尚未就绪，此时所有判定返回false，主角色为unknown
type Snapshot struct {
	Roles       []RoleAssignment  `json:"roles"`
	Permissions []PermissionGrant `json:"permissions"`
	Loaded      bool              `json:"loaded"`
}

// EmptySnapshot 未加载状态的快照
func EmptySnapshot() Snapshot {
	return Snapshot{Loaded: false}
}

// ========== 角色判定 ==========

// HasRole 检查是否持有指定角色（仅统计激活的持有记录）
func (s Snapshot) HasRole(name string) bool {
	if !s.Loaded {
		return false
	}
	for _, role := range s.Roles {
		if role.Name == name && role.IsActive {
			return true
		}
	}
	return false
}

// HasAnyRole 检查是否持有任意一个指定角色
func (s Snapshot) HasAnyRole(names ...string) bool {
	for _, name := range names {
		if s.HasRole(name) {
			return true
		}
	}
	return false
}

// HasAllRoles 检查是否持有全部指定角色
func (s Snapshot) HasAllRoles(names ...string) bool {
	if !s.Loaded || len(names) == 0 {
		return false
	}
	for _, name := range names {
		if !s.HasRole(name) {
			return false
		}
	}
	return true
}

// ========== 权限判定 ==========

// HasPermission 检查是否持有指定权限，严格精确匹配
// 不做任何通配或层级展开：MANAGE 不隐含 CREATE/READ/UPDATE/DELETE
func (s Snapshot) HasPermission(action Action, resource Resource) bool {
	if !s.Loaded {
		return false
	}
	for _, grant := range s.Permissions {
		if grant.Action == action && grant.Resource == resource && grant.IsActive {
			return true
		}
	}
	return false
}

// HasAnyPermission 检查是否持有任意一个指定权限
func (s Snapshot) HasAnyPermission(checks ...PermissionCheck) bool {
	for _, check := range checks {
		if s.HasPermission(check.Action, check.Resource) {
			return true
		}
	}
	return false
}

// HasAllPermissions 检查是否持有全部指定权限
func (s Snapshot) HasAllPermissions(checks ...PermissionCheck) bool {
	if !s.Loaded || len(checks) == 0 {
		return false
	}
	for _, check := range checks {
		if !s.HasPermission(check.Action, check.Resource) {
			return false
		}
	}
	return true
}

// CanAct 统一的操作许可检查：精确权限或该资源的MANAGE权限二者满足其一
// 所有"manage语义"的调用方必须走这个入口，不要自行组合判断
func (s Snapshot) CanAct(action Action, resource Resource) bool {
	if s.HasPermission(action, resource) {
		return true
	}
	return s.HasPermission(ActionManage, resource)
}

// ========== 角色类别判定 ==========

// IsPlatformAdmin 是否平台管理员
func (s Snapshot) IsPlatformAdmin() bool {
	return s.hasClass(RolePlatformAdmin)
}

// IsTenantAdmin 是否租户管理员
func (s Snapshot) IsTenantAdmin() bool {
	return s.hasClass(RoleTenantAdmin)
}

// IsTenantStaff 是否租户员工
func (s Snapshot) IsTenantStaff() bool {
	return s.hasClass(RoleTenantStaff)
}

// IsClient 是否客户
func (s Snapshot) IsClient() bool {
	return s.hasClass(RoleClient)
}

// IsTenantMember 是否租户成员（管理员或员工）
func (s Snapshot) IsTenantMember() bool {
	return s.IsTenantAdmin() || s.IsTenantStaff()
}

// hasClass 检查激活角色中是否存在映射到指定类别的角色
func (s Snapshot) hasClass(class RoleClass) bool {
	if !s.Loaded {
		return false
	}
	for _, role := range s.Roles {
		if role.IsActive && ClassifyRole(role.Name) == class {
			return true
		}
	}
	return false
}

// PrimaryRole 解析用户的主角色，用于路由决策
// 遍历所有激活角色，经别名表归类后取优先级最高的类别
// 无可用角色或数据未加载时返回RoleUnknown，调用方据此区分"等待"与"无角色"
func (s Snapshot) PrimaryRole() RoleClass {
	if !s.Loaded {
		return RoleUnknown
	}

	best := RoleUnknown
	bestPriority := 0
	for _, role := range s.Roles {
		if !role.IsActive {
			continue
		}
		class := ClassifyRole(role.Name)
		if priority, ok := rolePriority[class]; ok && priority > bestPriority {
			best = class
			bestPriority = priority
		}
	}
	return best
}
