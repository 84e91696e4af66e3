package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/stroymat/internal/config"
	"github.com/example/stroymat/internal/handlers"
	"github.com/example/stroymat/internal/middleware"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db)
	invoiceHandler := handlers.NewInvoiceHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Catalog routes
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Post("/orders/:id/cancel", orderHandler.CancelOrder)

	// Admin routes
	admin := protected.Group("/admin", middleware.RequireAdmin())

	admin.Get("/dashboard", adminHandler.Dashboard)
	admin.Get("/orders", adminHandler.ListAllOrders)
	admin.Patch("/orders/:id/status", adminHandler.UpdateOrderStatus)
	admin.Get("/export/orders.csv", adminHandler.ExportOrders)
	admin.Get("/export/invoices.csv", adminHandler.ExportInvoices)

	admin.Post("/invoices", invoiceHandler.CreateInvoice)
	admin.Get("/invoices", invoiceHandler.ListInvoices)
	admin.Get("/invoices/:id", invoiceHandler.GetInvoice)
	admin.Post("/invoices/:id/send", invoiceHandler.SendInvoice)
	admin.Post("/invoices/:id/payments", invoiceHandler.RecordPayment)
	admin.Post("/invoices/:id/mark-paid", invoiceHandler.MarkPaid)
	admin.Post("/invoices/:id/cancel", invoiceHandler.CancelInvoice)

	admin.Post("/products", productHandler.CreateProduct)
	admin.Put("/products/:id", productHandler.UpdateProduct)
	admin.Delete("/products/:id", productHandler.DeleteProduct)
}
