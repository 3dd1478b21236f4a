package router

import (
	"reservo/internal/handlers"
	"reservo/internal/middleware"
	"reservo/internal/models"
	"reservo/internal/services"
	"reservo/pkg/rbac"
	"reservo/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupRouter 初始化路由
func SetupRouter() *gin.Engine {
	registerValidations()

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())

	// 服务初始化
	authzService := services.NewAuthzService()
	impersonation := services.NewImpersonationManager()
	userService := services.NewUserService(authzService)
	tenantService := services.NewTenantService()
	roleService := services.NewRoleService(authzService)
	permissionService := services.NewPermissionService()
	fieldService := services.NewFieldService()
	reservationService := services.NewReservationService()

	// 处理器初始化
	authHandler := handlers.NewAuthHandler(userService, tenantService, authzService, impersonation)
	impersonationHandler := handlers.NewImpersonationHandler(tenantService, impersonation)
	tenantHandler := handlers.NewTenantHandler(tenantService)
	userHandler := handlers.NewUserHandler(userService)
	roleHandler := handlers.NewRoleHandler(roleService)
	permissionHandler := handlers.NewPermissionHandler(permissionService)
	fieldHandler := handlers.NewFieldHandler(fieldService)
	reservationHandler := handlers.NewReservationHandler(reservationService)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	// 认证接口（无需登录）
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	// 认证接口（需要登录）
	authed := api.Group("/auth")
	authed.Use(middleware.RequireLogin(), middleware.TenantScope(authzService, impersonation))
	{
		authed.POST("/logout", authHandler.Logout)
		authed.GET("/me", authHandler.Me)
		authed.POST("/password", authHandler.ChangePassword)
	}

	// 平台控制台（仅平台管理员）
	system := api.Group("/system")
	system.Use(middleware.RequireLogin(),
		middleware.RequirePlatformAdmin(authzService),
		middleware.RequireArea(authzService, rbac.RolePlatformAdmin))
	{
		tenants := system.Group("/tenants")
		{
			tenants.POST("", tenantHandler.Create)
			tenants.GET("", tenantHandler.List)
			tenants.GET("/stats", tenantHandler.Stats)
			tenants.GET("/:id", tenantHandler.Get)
			tenants.PUT("/:id", tenantHandler.Update)
			tenants.POST("/:id/activate", tenantHandler.Activate)
			tenants.POST("/:id/deactivate", tenantHandler.Deactivate)

			// 模拟访问
			tenants.POST("/:id/impersonate", impersonationHandler.Start)
		}
		system.DELETE("/impersonation", impersonationHandler.Stop)
		system.GET("/impersonation", impersonationHandler.Current)
	}

	// 租户管理后台（租户管理员/员工，平台管理员通过模拟访问进入）
	dashboard := api.Group("/dashboard")
	dashboard.Use(middleware.RequireLogin(),
		middleware.TenantScope(authzService, impersonation),
		middleware.RequireArea(authzService, rbac.RolePlatformAdmin, rbac.RoleTenantAdmin, rbac.RoleTenantStaff))
	{
		users := dashboard.Group("/users")
		{
			users.POST("", middleware.RequirePermission(authzService, rbac.ActionCreate, rbac.ResourceUser), userHandler.Create)
			users.GET("", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourceUser), userHandler.List)
			users.GET("/stats", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourceMetrics), userHandler.Stats)
			users.GET("/:id", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourceUser), userHandler.Get)
			users.PUT("/:id", middleware.RequirePermission(authzService, rbac.ActionUpdate, rbac.ResourceUser), userHandler.Update)
			users.DELETE("/:id", middleware.RequirePermission(authzService, rbac.ActionDelete, rbac.ResourceUser), userHandler.Delete)
			users.POST("/:id/activate", middleware.RequirePermission(authzService, rbac.ActionUpdate, rbac.ResourceUser), userHandler.Activate)
			users.POST("/:id/deactivate", middleware.RequirePermission(authzService, rbac.ActionUpdate, rbac.ResourceUser), userHandler.Deactivate)
			users.POST("/:id/lock", middleware.RequirePermission(authzService, rbac.ActionUpdate, rbac.ResourceUser), userHandler.Lock)
			users.POST("/:id/reset-password", middleware.RequirePermission(authzService, rbac.ActionManage, rbac.ResourceUser), userHandler.ResetPassword)

			users.GET("/:id/roles", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourceRole), userHandler.Roles)
			users.POST("/:id/roles", middleware.RequirePermission(authzService, rbac.ActionManage, rbac.ResourceRole), userHandler.AssignRole)
			users.DELETE("/:id/roles/:roleId", middleware.RequirePermission(authzService, rbac.ActionManage, rbac.ResourceRole), userHandler.RemoveRole)
		}

		roles := dashboard.Group("/roles")
		{
			roles.POST("", middleware.RequirePermission(authzService, rbac.ActionCreate, rbac.ResourceRole), roleHandler.Create)
			roles.GET("", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourceRole), roleHandler.List)
			roles.GET("/:id", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourceRole), roleHandler.Get)
			roles.PUT("/:id", middleware.RequirePermission(authzService, rbac.ActionUpdate, rbac.ResourceRole), roleHandler.Update)
			roles.DELETE("/:id", middleware.RequirePermission(authzService, rbac.ActionDelete, rbac.ResourceRole), roleHandler.Delete)
			roles.GET("/:id/permissions", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourceRole), roleHandler.Permissions)
			roles.PUT("/:id/permissions", middleware.RequirePermission(authzService, rbac.ActionManage, rbac.ResourceRole), roleHandler.AssignPermissions)
			roles.GET("/:id/users", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourceRole), roleHandler.Users)
		}

		permissions := dashboard.Group("/permissions")
		{
			permissions.GET("", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourcePermission), permissionHandler.List)
			permissions.GET("/:id", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourcePermission), permissionHandler.Get)
			permissions.PUT("/:id/active", middleware.RequirePermission(authzService, rbac.ActionManage, rbac.ResourcePermission), permissionHandler.SetActive)
		}

		fields := dashboard.Group("/fields")
		{
			fields.POST("", middleware.RequirePermission(authzService, rbac.ActionCreate, rbac.ResourceField), fieldHandler.Create)
			fields.GET("", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourceField), fieldHandler.List)
			fields.GET("/:id", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourceField), fieldHandler.Get)
			fields.PUT("/:id", middleware.RequirePermission(authzService, rbac.ActionUpdate, rbac.ResourceField), fieldHandler.Update)
			fields.DELETE("/:id", middleware.RequirePermission(authzService, rbac.ActionDelete, rbac.ResourceField), fieldHandler.Delete)
		}

		reservations := dashboard.Group("/reservations")
		{
			reservations.GET("", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourceReservation), reservationHandler.List)
			reservations.GET("/stats", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourceMetrics), reservationHandler.Stats)
			reservations.GET("/:id", middleware.RequirePermission(authzService, rbac.ActionRead, rbac.ResourceReservation), reservationHandler.Get)
			reservations.POST("/:id/confirm", middleware.RequirePermission(authzService, rbac.ActionUpdate, rbac.ResourceReservation), reservationHandler.Confirm)
			reservations.POST("/:id/cancel", middleware.RequirePermission(authzService, rbac.ActionUpdate, rbac.ResourceReservation), reservationHandler.Cancel)
			reservations.POST("/:id/complete", middleware.RequirePermission(authzService, rbac.ActionUpdate, rbac.ResourceReservation), reservationHandler.Complete)
		}
	}

	// 客户自助门户
	my := api.Group("/my")
	my.Use(middleware.RequireLogin(),
		middleware.TenantScope(authzService, impersonation),
		middleware.RequireArea(authzService, rbac.RoleClient, rbac.RoleTenantStaff, rbac.RoleTenantAdmin, rbac.RolePlatformAdmin))
	{
		my.GET("/fields", fieldHandler.List)
		my.POST("/reservations", middleware.RequirePermission(authzService, rbac.ActionCreate, rbac.ResourceReservation), reservationHandler.Create)
		my.GET("/reservations", reservationHandler.Mine)
		my.POST("/reservations/:id/cancel", reservationHandler.CancelMine)
	}

	return r
}

// registerValidations 注册自定义校验规则
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("plantier", func(fl validator.FieldLevel) bool {
			return models.IsValidPlanTier(fl.Field().String())
		})
	}
}
