package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/stroymat/internal/analytics"
	"github.com/example/stroymat/internal/models"
	"github.com/example/stroymat/internal/utils"
)

// InvoiceHandler manages admin invoice endpoints.
type InvoiceHandler struct {
	db *gorm.DB
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(db *gorm.DB) *InvoiceHandler {
	return &InvoiceHandler{db: db}
}

type createInvoiceRequest struct {
	OrderID    string     `json:"order_id"`
	TaxRate    float64    `json:"tax_rate"`
	DueDate    *time.Time `json:"due_date"`
	AmountPaid *float64   `json:"amount_paid"`
}

type paymentRequest struct {
	Amount float64 `json:"amount"`
}

// CreateInvoice issues a draft invoice against an existing order,
// copying its line items and delivery details. An omitted amount_paid
// defaults to the invoice total.
func (h *InvoiceHandler) CreateInvoice(c *fiber.Ctx) error {
	var req createInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order_id")
	}
	if req.TaxRate < 0 || req.TaxRate > 1 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "tax_rate must be between 0 and 1")
	}

	var order models.Order
	if err := h.db.Preload("Items").Preload("User").
		First(&order, "id = ?", orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	now := time.Now()
	dueDate := now.AddDate(0, 0, 14)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	customer := order.UserID.String()
	if order.User != nil && order.User.Name != "" {
		customer = order.User.Name
	}

	invoice := models.Invoice{
		OrderID:     &order.ID,
		OrderNumber: order.Number,
		Customer:    customer,
		City:        order.City,
		Address:     order.Address,
		IssueDate:   now,
		DueDate:     dueDate,
		Status:      models.InvoiceStatusDraft,
		TaxRate:     req.TaxRate,
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
	if req.AmountPaid != nil {
		invoice.AmountPaid = *req.AmountPaid
	} else {
		invoice.AmountPaid = invoice.Total
	}
	invoice.Normalize()

	number, err := models.GenerateInvoiceNumber(h.db, now.Year())
	if err != nil {
		return err
	}
	invoice.Number = number

	if err := h.db.Create(&invoice).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": invoice})
}

// ListInvoices returns invoices through the shared pipeline. Sent and
// Partially Paid invoices past their due date are reported as Overdue.
func (h *InvoiceHandler) ListInvoices(c *fiber.Ctx) error {
	var invoices []models.Invoice
	if err := h.db.Preload("Items").
		Order("issue_date desc").
		Find(&invoices).Error; err != nil {
		return err
	}

	now := time.Now()
	normalized := analytics.NormalizeInvoices(invoices)
	for i := range normalized {
		normalized[i].RefreshOverdue(now)
	}

	pg := utils.ParsePagination(c)
	filtered := analytics.FilterInvoices(normalized, utils.ParseInvoiceFilter(c))
	sorted := analytics.SortInvoices(filtered, utils.ParseSortMode(c))
	page, totalPages := analytics.Paginate(sorted, pg.Page, pg.Limit)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    page,
		"metrics": analytics.AggregateInvoices(filtered),
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    len(filtered),
			"total_pages":    totalPages,
		},
	})
}

// GetInvoice returns a single invoice.
func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	invoice, err := h.loadInvoice(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": invoice})
}

// SendInvoice moves a draft invoice to Sent.
func (h *InvoiceHandler) SendInvoice(c *fiber.Ctx) error {
	invoice, err := h.loadInvoice(c)
	if err != nil {
		return err
	}

	if err := invoice.Transition(models.InvoiceStatusSent); err != nil {
		return domainError(err)
	}
	if err := h.db.Save(invoice).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": invoice})
}

// RecordPayment applies a payment to the invoice, advancing its status
// to Partially Paid or Paid as the balance allows.
func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	invoice, err := h.loadInvoice(c)
	if err != nil {
		return err
	}

	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := invoice.RecordPayment(req.Amount); err != nil {
		return domainError(err)
	}
	if err := h.db.Save(invoice).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": invoice})
}

// MarkPaid settles the invoice in full.
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	invoice, err := h.loadInvoice(c)
	if err != nil {
		return err
	}

	if err := invoice.MarkPaid(); err != nil {
		return domainError(err)
	}
	if err := h.db.Save(invoice).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": invoice})
}

// CancelInvoice cancels a non-terminal invoice.
func (h *InvoiceHandler) CancelInvoice(c *fiber.Ctx) error {
	invoice, err := h.loadInvoice(c)
	if err != nil {
		return err
	}

	if err := invoice.Transition(models.InvoiceStatusCancelled); err != nil {
		return domainError(err)
	}
	if err := h.db.Save(invoice).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": invoice})
}

func (h *InvoiceHandler) loadInvoice(c *fiber.Ctx) (*models.Invoice, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var invoice models.Invoice
	if err := h.db.Preload("Items").First(&invoice, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "invoice not found")
		}
		return nil, err
	}

	invoice.Normalize()
	invoice.RefreshOverdue(time.Now())
	return &invoice, nil
}
