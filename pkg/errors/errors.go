package errors

// ========== 错误码常量定义 ==========

// CodeSuccess 成功码
const (
	CodeSuccess = 200
)

// HTTP层错误码 (400-599)
const (
	CodeInvalidParam = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeConflict     = 409
	CodeServerError  = 500
)

// 业务错误码 (1000+)
const (
	CodeTenantQuotaExceeded = 1001 // 超出租户套餐配额
	CodeTenantInactive      = 1002 // 租户未激活
	CodeNoTenantScope       = 1003 // 无法确定生效租户，需要先选择租户
)
