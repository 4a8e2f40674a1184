package handlers

import (
	"chintai/internal/app"
	custommiddleware "chintai/internal/http/middleware"

	"github.com/labstack/echo/v4"
)

// SetupRoutes wires all API routes onto the versioned group
func SetupRoutes(api *echo.Group, services *app.Services) {
	authHandler := NewAuthHandler(services.Auth)
	customerHandler := NewCustomerHandler(services.CustomerRepo, services.ActivityRepo)
	roomHandler := NewRoomHandler(services.RoomRepo)
	inquiryHandler := NewInquiryHandler(services.InquiryRepo, services.PropertyInquiryRepo, services.ActivityRepo, services.Pipeline, services.Unread)
	piHandler := NewPropertyInquiryHandler(services.PropertyInquiryRepo, services.Pipeline)
	notificationHandler := NewNotificationHandler(services.Unread)
	intakeHandler := NewIntakeHandler(services.Intake, services.Unread)
	userHandler := NewUserHandler(services.UserRepo, services.Auth)
	tenantHandler := NewTenantHandler(services.TenantRepo, services.UserRepo, services.Auth)

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.RefreshToken)

	// Inbound channel webhooks, authenticated by gateway secret upstream
	api.POST("/webhooks/:tenant_id/inbound", intakeHandler.HandleInbound)

	// Authenticated routes
	protected := api.Group("")
	protected.Use(custommiddleware.JWTAuth(services.Auth))
	protected.Use(custommiddleware.TenantResolver())

	protected.GET("/auth/me", authHandler.Me)
	protected.PUT("/auth/me", authHandler.UpdateProfile)
	protected.PUT("/auth/password", authHandler.ChangePassword)

	// Tenant-scoped routes
	tenant := protected.Group("")
	tenant.Use(custommiddleware.RequireTenant())
	tenant.Use(custommiddleware.RequireTenantRole())

	tenant.GET("/customers", customerHandler.GetCustomers)
	tenant.POST("/customers", customerHandler.CreateCustomer)
	tenant.GET("/customers/:id", customerHandler.GetCustomer)
	tenant.PUT("/customers/:id", customerHandler.UpdateCustomer)
	tenant.GET("/customers/:id/activities", customerHandler.GetCustomerActivities)

	tenant.GET("/rooms", roomHandler.GetRooms)
	tenant.POST("/rooms", roomHandler.CreateRoom)
	tenant.GET("/rooms/:id", roomHandler.GetRoom)
	tenant.PUT("/rooms/:id", roomHandler.UpdateRoom)
	tenant.DELETE("/rooms/:id", roomHandler.DeleteRoom)

	tenant.GET("/inquiries", inquiryHandler.GetInquiries)
	tenant.POST("/inquiries", inquiryHandler.CreateInquiry)
	tenant.GET("/inquiries/:id", inquiryHandler.GetInquiry)
	tenant.POST("/inquiries/:id/status", inquiryHandler.ChangeInquiryStatus)
	tenant.PUT("/inquiries/:id/assignee", inquiryHandler.AssignInquiry)
	tenant.GET("/inquiries/:id/activities", inquiryHandler.GetInquiryActivities)
	tenant.POST("/inquiries/:id/activities", intakeHandler.CreateActivity)
	tenant.POST("/inquiries/:id/read", notificationHandler.MarkInquiryRead)
	tenant.POST("/inquiries/read", notificationHandler.MarkAllRead)

	tenant.POST("/property-inquiries", piHandler.CreatePropertyInquiry)
	tenant.GET("/property-inquiries/:id", piHandler.GetPropertyInquiry)
	tenant.POST("/property-inquiries/:id/deal-status", piHandler.ChangeDealStatus)
	tenant.PUT("/property-inquiries/:id/assignee", piHandler.AssignPropertyInquiry)

	tenant.GET("/notifications/unread-count", notificationHandler.GetUnreadCount)
	tenant.GET("/notifications/unread", notificationHandler.GetUnreadInquiries)

	// Tenant admin only
	tenantAdmin := tenant.Group("")
	tenantAdmin.Use(custommiddleware.RequireTenantAdminOnly())
	tenantAdmin.GET("/users", userHandler.GetUsers)
	tenantAdmin.POST("/users", userHandler.CreateUser)
	tenantAdmin.PUT("/users/:id", userHandler.UpdateUser)

	// System admin only
	admin := protected.Group("/admin")
	admin.Use(custommiddleware.RequireSystemRole())
	admin.GET("/tenants", tenantHandler.GetTenants)
	admin.POST("/tenants", tenantHandler.CreateTenant)
	admin.PUT("/tenants/:id", tenantHandler.UpdateTenant)
}
