package rbac

// ========== 租户范围解析 ==========

// ScopeInput 租户范围解析输入
type ScopeInput struct {
	IsPlatformAdmin bool  // 必须来自服务端可信角色数据，不得取自客户端状态
	OwnTenantID     *uint // 用户所属租户（平台管理员可能没有）
	OverrideID      *uint // 模拟访问覆盖的租户ID（来自cookie，本身不携带任何授权）
}

// EffectiveTenant 计算当前请求的生效租户
// 平台管理员且存在覆盖时取覆盖租户，否则取所属租户；两者都没有时返回nil
// 返回nil表示必须引导到租户选择页，不允许进入任何数据视图
func EffectiveTenant(in ScopeInput) *uint {
	// 非平台管理员的覆盖值一律忽略，cookie只是前端的展示信号
	if in.IsPlatformAdmin && in.OverrideID != nil {
		id := *in.OverrideID
		return &id
	}
	if in.OwnTenantID != nil {
		id := *in.OwnTenantID
		return &id
	}
	return nil
}
