package server

import (
	"sahone-backend/internal/audit"
	"sahone-backend/internal/auth"
	"sahone-backend/internal/delivery"
	"sahone-backend/internal/menu"
	"sahone-backend/internal/models"
	"sahone-backend/internal/offers"
	"sahone-backend/internal/orders"
	"sahone-backend/internal/reports"
	"sahone-backend/internal/servinghours"
	"sahone-backend/internal/settings"
	"sahone-backend/internal/users"

	"github.com/gofiber/fiber/v2"
)

func registerRoutes(api fiber.Router, d Deps) {
	cfg := d.Config
	jwt := auth.JWTMiddleware(cfg)
	adminOnly := auth.RequireRole(models.RoleAdmin)

	// Public auth
	api.Post("/auth/session", auth.SessionHandler(cfg, d.Verifier))
	if cfg.LocalAuthEnabled {
		api.Post("/auth/local/signup", auth.LocalSignupHandler(cfg))
		api.Post("/auth/local/login", auth.LocalLoginHandler(cfg))
	}

	// Menu. The two admin listings sit beside public routes, so they carry
	// their own guards and come before the :id match.
	api.Get("/menu/categories/all", jwt, adminOnly, menu.ListAllCategoriesHandler())
	api.Get("/menu/categories/names", menu.CategoryNamesHandler())
	api.Get("/menu/categories", menu.ListActiveCategoriesHandler())
	api.Get("/menu/items/all", jwt, adminOnly, menu.ListAllItemsHandler())
	api.Get("/menu/items/search", menu.SearchItemsHandler())
	api.Get("/menu/items/category/:category", menu.ListItemsByCategoryHandler())
	api.Get("/menu/items/:id", menu.GetItemHandler())
	api.Get("/menu/items", menu.ListAvailableItemsHandler())

	// Offers
	api.Get("/offers", offers.ListActiveHandler())
	api.Get("/offers/code/:code", offers.GetByCodeHandler())
	api.Post("/offers/validate", offers.ValidateHandler())

	// Serving hours, settings, restaurant status
	api.Get("/serving-hours/active", servinghours.ActiveHandler())
	api.Get("/serving-hours", servinghours.GetHandler())
	api.Get("/settings/stream", settings.StreamHandler(d.Broker))
	api.Get("/settings/:key", settings.GetByKeyHandler())
	api.Get("/settings", settings.ListHandler())
	api.Get("/restaurant/status", settings.StatusHandler())

	// Protected
	protected := api.Group("")
	protected.Use(jwt)

	protected.Get("/auth/me", auth.MeHandler())
	protected.Put("/auth/profile", auth.UpdateProfileHandler())
	protected.Get("/auth/verify-role", auth.VerifyRoleHandler())
	protected.Get("/auth/permissions/:permission", auth.CheckPermissionHandler())

	protected.Put("/users/me", users.UpdateMeHandler())

	// Orders: placed by customers, read by owner, assigned rider or admin
	protected.Post("/orders", auth.RequireRole(models.RoleUser), orders.CreateHandler(cfg))
	protected.Get("/orders/mine", orders.ListMineHandler())
	protected.Get("/orders/:id", orders.GetHandler())
	protected.Post("/orders/:id/cancel", orders.CancelHandler())

	// Delivery self service
	rider := protected.Group("/delivery/me", auth.RequireRole(models.RoleDelivery))
	rider.Get("/orders", orders.ListMyDeliveriesHandler())
	rider.Patch("/availability", delivery.UpdateMyAvailabilityHandler())
	rider.Post("/orders/:id/delivered", orders.MarkDeliveredHandler(cfg))

	// Admin
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(adminOnly)

	adminRoutes.Put("/profile", auth.UpdateAdminHandler())

	admins := adminRoutes.Group("/admins", auth.RequirePermission(auth.PermManageUsers))
	admins.Post("", auth.CreateOrUpdateAdminHandler())
	admins.Get("/:firebaseUid", auth.GetAdminHandler())

	usersAdmin := adminRoutes.Group("/users", auth.RequirePermission(auth.PermManageUsers))
	usersAdmin.Get("", users.ListUsersHandler())
	usersAdmin.Get("/by-email", users.GetUserByEmailHandler())
	usersAdmin.Get("/by-uid/:firebaseUid", users.GetUserByFirebaseUIDHandler())

	categories := adminRoutes.Group("/categories", auth.RequirePermission(auth.PermManageMenu))
	categories.Post("/seed", menu.SeedCategoriesHandler())
	categories.Post("", menu.CreateCategoryHandler())
	categories.Put("/:id", menu.UpdateCategoryHandler())
	categories.Patch("/:id/status", menu.ToggleCategoryStatusHandler())
	categories.Delete("/:id", menu.DeleteCategoryHandler())

	items := adminRoutes.Group("/menu-items", auth.RequirePermission(auth.PermManageMenu))
	items.Post("", menu.CreateItemHandler())
	items.Post("/import", menu.ImportItemsHandler())
	items.Put("/:id", menu.UpdateItemHandler())
	items.Patch("/:id/availability", menu.ToggleItemAvailabilityHandler())
	items.Delete("/:id", menu.DeleteItemHandler())

	ordersAdmin := adminRoutes.Group("/orders", auth.RequirePermission(auth.PermManageOrders))
	ordersAdmin.Get("", orders.ListAllHandler())
	ordersAdmin.Get("/recent", orders.RecentHandler())
	ordersAdmin.Get("/statistics", orders.StatisticsHandler())
	ordersAdmin.Get("/export", orders.ExportHandler())
	ordersAdmin.Get("/user/:userId", orders.ListByUserHandler())
	ordersAdmin.Get("/status/:status", orders.ListByStatusHandler())
	ordersAdmin.Get("/delivery/:deliveryPersonId", orders.ListByDeliveryPersonHandler())
	ordersAdmin.Patch("/:id/status", orders.UpdateStatusHandler(cfg))
	ordersAdmin.Post("/:id/assign", orders.AssignHandler())

	offersAdmin := adminRoutes.Group("/offers", auth.RequirePermission(auth.PermManageOffers))
	offersAdmin.Get("", offers.ListAllHandler())
	offersAdmin.Get("/:id", offers.GetHandler())
	offersAdmin.Post("", offers.CreateHandler())
	offersAdmin.Put("/:id", offers.UpdateHandler())
	offersAdmin.Patch("/:id/status", offers.ToggleStatusHandler())
	offersAdmin.Delete("/:id", offers.DeleteHandler())

	hours := adminRoutes.Group("/serving-hours", auth.RequirePermission(auth.PermManageSettings))
	hours.Put("", servinghours.UpdateHandler())
	hours.Patch("/:slot/items/:itemId", servinghours.ToggleItemHandler())

	settingsAdmin := adminRoutes.Group("/settings", auth.RequirePermission(auth.PermManageSettings))
	settingsAdmin.Put("/bulk", settings.BulkHandler(d.Broker))
	settingsAdmin.Put("", settings.SetHandler(d.Broker))
	settingsAdmin.Delete("/:id", settings.DeleteHandler(d.Broker))
	adminRoutes.Put("/restaurant/status", auth.RequirePermission(auth.PermManageSettings), settings.UpdateStatusHandler(d.Broker))

	riders := adminRoutes.Group("/delivery", auth.RequirePermission(auth.PermManageDelivery))
	riders.Get("", delivery.ListHandler())
	riders.Get("/available", delivery.ListAvailableHandler())
	riders.Get("/by-uid/:firebaseUid", delivery.GetByFirebaseUIDHandler())
	riders.Post("", delivery.CreateOrUpdateHandler())
	riders.Patch("/:id/availability", delivery.UpdateAvailabilityHandler())
	riders.Post("/:id/orders", delivery.AssignOrderHandler())
	riders.Post("/:id/orders/:orderId/complete", delivery.CompleteOrderHandler())
	riders.Delete("/:id", delivery.DeleteHandler())

	reportsAdmin := adminRoutes.Group("/reports", auth.RequirePermission(auth.PermViewReports))
	reportsAdmin.Get("", reports.ListHandler())
	reportsAdmin.Get("/revenue", reports.RevenueHandler())
	reportsAdmin.Post("/daily", reports.GenerateDailyHandler())
	reportsAdmin.Post("/weekly", reports.GenerateWeeklyHandler())
	reportsAdmin.Get("/:id/export", reports.ExportHandler())
	reportsAdmin.Get("/:type/:date", reports.GetHandler())

	adminRoutes.Get("/audit-logs", auth.RequirePermission(auth.PermViewReports), audit.ListAuditLogsHandler())
}
