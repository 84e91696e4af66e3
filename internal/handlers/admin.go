package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/stroymat/internal/analytics"
	"github.com/example/stroymat/internal/export"
	"github.com/example/stroymat/internal/models"
	"github.com/example/stroymat/internal/utils"
)

// AdminHandler manages admin-only order and dashboard endpoints.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// Dashboard returns the full metrics reduction over the filtered order
// and invoice sets: KPIs, status breakdowns, top products/customers,
// city insights, and the trailing 6-month trend.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	orders, err := h.loadOrders()
	if err != nil {
		return err
	}

	var invoices []models.Invoice
	if err := h.db.Preload("Items").Find(&invoices).Error; err != nil {
		return err
	}

	now := time.Now()
	normalizedInvoices := analytics.NormalizeInvoices(invoices)
	for i := range normalizedInvoices {
		normalizedInvoices[i].RefreshOverdue(now)
	}

	filteredOrders := analytics.FilterOrders(orders, utils.ParseOrderFilter(c))
	filteredInvoices := analytics.FilterInvoices(normalizedInvoices, utils.ParseInvoiceFilter(c))

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"orders":   analytics.AggregateOrders(filteredOrders, now),
			"invoices": analytics.AggregateInvoices(filteredInvoices),
		},
	})
}

// ListAllOrders returns every order through the shared pipeline with the
// full filter set, plus the metrics for the filtered subset.
func (h *AdminHandler) ListAllOrders(c *fiber.Ctx) error {
	orders, err := h.loadOrders()
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	filtered := analytics.FilterOrders(orders, utils.ParseOrderFilter(c))
	sorted := analytics.SortOrders(filtered, utils.ParseSortMode(c))
	page, totalPages := analytics.Paginate(sorted, pg.Page, pg.Limit)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    page,
		"metrics": analytics.AggregateOrders(filtered, time.Now()),
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    len(filtered),
			"total_pages":    totalPages,
		},
	})
}

// UpdateOrderStatus applies a validated status transition. Rejected
// transitions come back as 409s.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if err := order.Transition(models.OrderStatus(req.Status), time.Now()); err != nil {
		return domainError(err)
	}

	if err := h.db.Save(&order).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// ExportOrders streams the filtered order set as CSV.
func (h *AdminHandler) ExportOrders(c *fiber.Ctx) error {
	orders, err := h.loadOrders()
	if err != nil {
		return err
	}

	filtered := analytics.FilterOrders(orders, utils.ParseOrderFilter(c))
	sorted := analytics.SortOrders(filtered, utils.ParseSortMode(c))

	headers := []string{"Number", "Placed", "Status", "City", "Items", "Total"}
	rows := make([][]string, 0, len(sorted))
	for _, o := range sorted {
		rows = append(rows, []string{
			o.Number,
			o.PlacedAt.Format("2006-01-02"),
			string(o.Status),
			o.City,
			fmt.Sprintf("%d", o.ItemsCount),
			fmt.Sprintf("%.2f", o.Total),
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="orders.csv"`)
	return c.SendString(export.ToCSV(headers, rows))
}

// ExportInvoices streams the filtered invoice set as CSV.
func (h *AdminHandler) ExportInvoices(c *fiber.Ctx) error {
	var invoices []models.Invoice
	if err := h.db.Preload("Items").Order("issue_date desc").Find(&invoices).Error; err != nil {
		return err
	}

	now := time.Now()
	normalized := analytics.NormalizeInvoices(invoices)
	for i := range normalized {
		normalized[i].RefreshOverdue(now)
	}

	filtered := analytics.FilterInvoices(normalized, utils.ParseInvoiceFilter(c))
	sorted := analytics.SortInvoices(filtered, utils.ParseSortMode(c))

	headers := []string{"Number", "Order", "Customer", "City", "Issued", "Due", "Status", "Total", "Paid", "Balance"}
	rows := make([][]string, 0, len(sorted))
	for _, inv := range sorted {
		rows = append(rows, []string{
			inv.Number,
			inv.OrderNumber,
			inv.Customer,
			inv.City,
			inv.IssueDate.Format("2006-01-02"),
			inv.DueDate.Format("2006-01-02"),
			string(inv.Status),
			fmt.Sprintf("%.2f", inv.Total),
			fmt.Sprintf("%.2f", inv.AmountPaid),
			fmt.Sprintf("%.2f", inv.Balance),
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="invoices.csv"`)
	return c.SendString(export.ToCSV(headers, rows))
}

func (h *AdminHandler) loadOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := h.db.Preload("Items").Preload("User").
		Order("placed_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return analytics.NormalizeOrders(orders), nil
}
