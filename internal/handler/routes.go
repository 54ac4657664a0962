package handler

import (
	"go-office-inventory/internal/middleware"
	"go-office-inventory/internal/model"
	"go-office-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth        *AuthHandler
	Item        *ItemHandler
	Transaction *TransactionHandler
	Category    *CategoryHandler
	User        *UserHandler
	Dashboard   *DashboardHandler
	Report      *ReportHandler
}

// RegisterRoutes mounts the API under api. Login is public, everything else needs a token.
func RegisterRoutes(api fiber.Router, h Handlers, authService service.AuthService) {
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", h.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(authService))
	protected.Get("/auth/me", h.Auth.Me)

	// Items (read for everyone, manage for admin)
	protected.Get("/items", h.Item.ListItems)
	protected.Get("/items/sku/:sku", h.Item.GetItemBySKU)
	protected.Get("/items/:id", h.Item.GetItem)
	protected.Post("/items", adminOnly, h.Item.CreateItem)
	protected.Put("/items/:id", adminOnly, h.Item.UpdateItem)
	protected.Delete("/items/:id", adminOnly, h.Item.DeleteItem)

	// Categories
	protected.Get("/categories", h.Category.GetCategories)
	protected.Post("/categories", adminOnly, h.Category.CreateCategory)
	protected.Put("/categories/:id", adminOnly, h.Category.UpdateCategory)
	protected.Delete("/categories/:id", adminOnly, h.Category.DeleteCategory)

	// Stock movements
	protected.Post("/transactions/stock-in", adminOnly, h.Transaction.StockIn)
	protected.Post("/transactions/distribute", h.Transaction.Distribute)
	protected.Post("/transactions/return", h.Transaction.Return)
	protected.Get("/transactions/my-history", h.Transaction.MyHistory)
	protected.Get("/transactions", adminOnly, h.Transaction.ListTransactions)

	// User management
	protected.Get("/users", adminOnly, h.User.GetOfficeBoys)
	protected.Post("/users", adminOnly, h.User.CreateOfficeBoy)
	protected.Put("/users/:id", adminOnly, h.User.UpdateUser)

	// Dashboard & reports
	protected.Get("/dashboard", adminOnly, h.Dashboard.GetOverview)
	protected.Get("/dashboard/distribution-trend", adminOnly, h.Dashboard.GetDistributionTrend)
	protected.Get("/reports/:kind", adminOnly, h.Report.Download)
}
