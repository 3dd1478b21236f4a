package middleware

import (
	"net/http"

	"reservo/internal/services"
	"reservo/pkg/errors"
	"reservo/pkg/rbac"
	"reservo/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireArea 区域守卫中间件：限定只有指定规范角色类别可以进入
// 判定和跳转路径计算都在服务端完成，前端只负责执行跳转
func RequireArea(authz *services.AuthzService, allowed ...rbac.RoleClass) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := rbac.GuardInput{
			AuthLoaded:   true,
			AllowedRoles: allowed,
		}

		userID, authenticated := GetUserID(c)
		in.Authenticated = authenticated
		if authenticated {
			snapshot, err := authz.GetSnapshot(userID)
			if err != nil {
				response.ServerError(c, "权限检查失败")
				c.Abort()
				return
			}
			in.Snapshot = snapshot
		}

		decision := rbac.EvaluateGuard(in)
		switch decision.State {
		case rbac.GuardAuthorized:
			c.Next()
		case rbac.GuardUnauthenticated:
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Response{
				Code:    errors.CodeUnauthorized,
				Message: "请先登录",
				Data:    gin.H{"redirect_to": decision.RedirectTo},
			})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, response.Response{
				Code:    errors.CodeForbidden,
				Message: "没有访问该区域的权限",
				Data:    gin.H{"redirect_to": decision.RedirectTo},
			})
		}
	}
}
