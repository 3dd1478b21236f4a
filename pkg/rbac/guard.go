package rbac

// ========== 路由守卫状态机 ==========

// GuardState 守卫状态
type GuardState string

const (
	GuardResolving       GuardState = "resolving"       // 数据未就绪，渲染loading，不做任何跳转
	GuardUnauthenticated GuardState = "unauthenticated" // 未登录，跳转登录页
	GuardUnauthorized    GuardState = "unauthorized"    // 已登录但角色/权限不满足，跳转其默认落地页
	GuardAuthorized      GuardState = "authorized"      // 放行
)

// 路由常量
const (
	RouteSignIn    = "/signin"    // 登录页
	RouteSystem    = "/system"    // 平台控制台
	RouteDashboard = "/dashboard" // 租户管理后台
	RouteClient    = "/my"        // 客户自助门户
	RouteHome      = "/"          // 公共首页
)

// defaultRoutes 角色类别到默认落地路由的固定映射
var defaultRoutes = map[RoleClass]string{
	RolePlatformAdmin: RouteSystem,
	RoleTenantAdmin:   RouteDashboard,
	RoleTenantStaff:   RouteDashboard,
	RoleClient:        RouteClient,
	RoleUnknown:       RouteHome,
}

// DefaultRouteFor 返回角色类别的默认落地路由
func DefaultRouteFor(class RoleClass) string {
	if route, ok := defaultRoutes[class]; ok {
		return route
	}
	return RouteHome
}

// GuardInput 守卫评估输入
type GuardInput struct {
	AuthLoaded    bool        // 登录状态是否已解析完成
	Authenticated bool        // 是否存在已认证用户
	Snapshot      Snapshot    // 用户角色/权限快照（含Loaded标记）
	AllowedRoles  []RoleClass // 该保护区域允许的主角色集合
	RequiredCheck *PermissionCheck // 可选：细粒度区域要求的权限（按CanAct语义检查）
}

// GuardDecision 守卫评估结果
type GuardDecision struct {
	State       GuardState `json:"state"`
	RedirectTo  string     `json:"redirect_to,omitempty"` // 仅在需要跳转的状态下有值
	PrimaryRole RoleClass  `json:"primary_role"`
}

// EvaluateGuard 评估一次守卫决策
// 必须在每次导航/挂载时重新评估：模拟访问或角色变化可能发生在会话中途
// 数据未就绪时绝不提前提交unauthorized/authorized，避免角色数据未到就把用户弹走
func EvaluateGuard(in GuardInput) GuardDecision {
	// 登录状态或角色数据未就绪：等待
	if !in.AuthLoaded || (in.Authenticated && !in.Snapshot.Loaded) {
		return GuardDecision{State: GuardResolving, PrimaryRole: RoleUnknown}
	}

	if !in.Authenticated {
		return GuardDecision{
			State:       GuardUnauthenticated,
			RedirectTo:  RouteSignIn,
			PrimaryRole: RoleUnknown,
		}
	}

	primary := in.Snapshot.PrimaryRole()

	allowed := false
	for _, role := range in.AllowedRoles {
		if role == primary {
			allowed = true
			break
		}
	}
	if allowed && in.RequiredCheck != nil {
		allowed = in.Snapshot.CanAct(in.RequiredCheck.Action, in.RequiredCheck.Resource)
	}

	if !allowed {
		// 跳转到该用户自己的默认落地页，不暴露受限区域的存在
		return GuardDecision{
			State:       GuardUnauthorized,
			RedirectTo:  DefaultRouteFor(primary),
			PrimaryRole: primary,
		}
	}

	return GuardDecision{State: GuardAuthorized, PrimaryRole: primary}
}
