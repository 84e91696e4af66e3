// Package seed loads demo data for development and review environments.
package seed

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/example/stroymat/internal/config"
	"github.com/example/stroymat/internal/models"
	"github.com/example/stroymat/internal/utils"
)

// EnsureAdmin creates the admin account from config if it does not
// exist. Skipped when no admin password is configured.
func EnsureAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminPassword == "" {
		log.Println("seed: ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}

	var existing models.User
	if err := db.First(&existing, "email = ?", cfg.AdminEmail).Error; err == nil {
		return nil
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        cfg.AdminEmail,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	return db.Create(&admin).Error
}

// LoadDemoData populates the catalog, a demo customer, and a spread of
// orders and invoices across cities, statuses, and the last few months
// so the dashboard has something to show. No-op when orders exist.
func LoadDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{SKU: "CEM-425", Name: "Portland Cement M425", Category: "Cement", Unit: "bag", UnitPrice: 8.50, InStock: true},
		{SKU: "REB-12", Name: "Rebar 12mm A500C", Category: "Steel", Unit: "ton", UnitPrice: 640.00, InStock: true},
		{SKU: "BRK-RED", Name: "Red Clay Brick", Category: "Masonry", Unit: "piece", UnitPrice: 0.45, InStock: true},
		{SKU: "SND-RVR", Name: "River Sand", Category: "Aggregates", Unit: "m3", UnitPrice: 22.00, InStock: true},
		{SKU: "GRV-20", Name: "Crushed Gravel 5-20", Category: "Aggregates", Unit: "m3", UnitPrice: 28.00, InStock: true},
		{SKU: "INS-100", Name: "Mineral Wool 100mm", Category: "Insulation", Unit: "roll", UnitPrice: 31.00, InStock: false},
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	hash, err := utils.HashPassword("customer-demo-1")
	if err != nil {
		return err
	}
	customer := models.User{
		Email:        "demo@stroymat.local",
		Name:         "Demo Builder LLC",
		Phone:        "+998901234567",
		PasswordHash: hash,
		Role:         models.RoleCustomer,
	}
	if err := db.Create(&customer).Error; err != nil {
		return err
	}

	now := time.Now()
	thisYear := now.Year()

	type seedOrder struct {
		number    string
		monthsAgo int
		status    models.OrderStatus
		city      string
		onTime    bool
		items     []models.OrderItem
	}

	seedOrders := []seedOrder{
		{"ORD", 4, models.OrderStatusDelivered, "Tashkent", true, []models.OrderItem{
			{Name: "Portland Cement M425", Qty: 120, Unit: "bag", UnitPrice: 8.50},
			{Name: "River Sand", Qty: 6, Unit: "m3", UnitPrice: 22.00},
		}},
		{"ORD", 3, models.OrderStatusDelivered, "Samarkand", false, []models.OrderItem{
			{Name: "Rebar 12mm A500C", Qty: 2, Unit: "ton", UnitPrice: 640.00},
		}},
		{"ORD", 3, models.OrderStatusCancelled, "Tashkent", false, []models.OrderItem{
			{Name: "Red Clay Brick", Qty: 5000, Unit: "piece", UnitPrice: 0.45},
		}},
		{"ORD", 2, models.OrderStatusDelivered, "Tashkent", true, []models.OrderItem{
			{Name: "Crushed Gravel 5-20", Qty: 10, Unit: "m3", UnitPrice: 28.00},
			{Name: "River Sand", Qty: 10, Unit: "m3", UnitPrice: 22.00},
		}},
		{"ADM", 1, models.OrderStatusOutForDelivery, "Bukhara", false, []models.OrderItem{
			{Name: "Mineral Wool 100mm", Qty: 40, Unit: "roll", UnitPrice: 31.00},
		}},
		{"ORD", 1, models.OrderStatusConfirmed, "Samarkand", false, []models.OrderItem{
			{Name: "Portland Cement M425", Qty: 60, Unit: "bag", UnitPrice: 8.50},
		}},
		{"ORD", 0, models.OrderStatusPending, "Tashkent", false, []models.OrderItem{
			{Name: "Red Clay Brick", Qty: 2000, Unit: "piece", UnitPrice: 0.45},
			{Name: "Portland Cement M425", Qty: 30, Unit: "bag", UnitPrice: 8.50},
		}},
	}

	sequence := make(map[string]int)
	var orders []models.Order
	for _, so := range seedOrders {
		placedAt := now.AddDate(0, -so.monthsAgo, 0)
		promised := placedAt.AddDate(0, 0, 5)

		sequence[so.number]++
		order := models.Order{
			UserID:     customer.ID,
			Number:     numberFor(so.number, thisYear, sequence[so.number]),
			Status:     so.status,
			PlacedAt:   placedAt,
			City:       so.city,
			Address:    "Construction site, block 4",
			PromisedAt: &promised,
			Items:      so.items,
		}
		if so.status == models.OrderStatusDelivered {
			delivered := promised
			if !so.onTime {
				delivered = promised.AddDate(0, 0, 3)
			}
			order.DeliveredAt = &delivered
		}
		order.Normalize()
		orders = append(orders, order)
	}
	if err := db.Create(&orders).Error; err != nil {
		return err
	}

	invoiceSeq := 0
	var invoices []models.Invoice
	for _, order := range orders {
		if order.Status != models.OrderStatusDelivered && order.Status != models.OrderStatusOutForDelivery {
			continue
		}

		invoiceSeq++
		invoice := models.Invoice{
			OrderID:     &order.ID,
			OrderNumber: order.Number,
			Number:      numberFor("INV", thisYear, invoiceSeq),
			Customer:    customer.Name,
			City:        order.City,
			Address:     order.Address,
			IssueDate:   order.PlacedAt.AddDate(0, 0, 1),
			DueDate:     order.PlacedAt.AddDate(0, 0, 15),
			Status:      models.InvoiceStatusSent,
			TaxRate:     0.12,
		}
		for _, item := range order.Items {
			invoice.Items = append(invoice.Items, models.InvoiceItem{
				Name:      item.Name,
				Qty:       item.Qty,
				Unit:      item.Unit,
				UnitPrice: item.UnitPrice,
			})
		}
		invoice.Normalize()

		// First invoice fully settled, second half-paid, rest unpaid.
		switch invoiceSeq {
		case 1:
			invoice.Status = models.InvoiceStatusPaid
			invoice.AmountPaid = invoice.Total
		case 2:
			invoice.Status = models.InvoiceStatusPartiallyPaid
			invoice.AmountPaid = models.Round2(invoice.Total / 2)
		}
		invoice.Normalize()
		invoices = append(invoices, invoice)
	}
	if len(invoices) > 0 {
		if err := db.Create(&invoices).Error; err != nil {
			return err
		}
	}

	log.Printf("seed: loaded %d products, %d orders, %d invoices", len(products), len(orders), len(invoices))
	return nil
}

func numberFor(prefix string, year, n int) string {
	return models.FormatNumber(prefix, year, n)
}
