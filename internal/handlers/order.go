package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/stroymat/internal/analytics"
	"github.com/example/stroymat/internal/middleware"
	"github.com/example/stroymat/internal/models"
	"github.com/example/stroymat/internal/utils"
)

// OrderHandler manages customer order endpoints.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

type orderItemRequest struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unit_price"`
}

type createOrderRequest struct {
	City       string             `json:"city"`
	Address    string             `json:"address"`
	Notes      string             `json:"notes"`
	PromisedAt *time.Time         `json:"promised_at"`
	Items      []orderItemRequest `json:"items"`
}

// CreateOrder allows authenticated users to place an order. Totals are
// derived from the line items server-side; client-sent totals are
// ignored.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "order must contain at least one item")
	}
	if req.City == "" || req.Address == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "city and address are required")
	}

	now := time.Now()
	order := models.Order{
		UserID:     userID,
		Status:     models.OrderStatusPending,
		PlacedAt:   now,
		City:       req.City,
		Address:    req.Address,
		Notes:      req.Notes,
		PromisedAt: req.PromisedAt,
	}

	for _, p := range req.Items {
		if p.Qty <= 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "item qty must be positive")
		}
		if p.UnitPrice < 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "item unit price must not be negative")
		}

		item := models.OrderItem{
			Name:      p.Name,
			Qty:       p.Qty,
			Unit:      p.Unit,
			UnitPrice: p.UnitPrice,
		}
		if p.ProductID != "" {
			if id, err := uuid.Parse(p.ProductID); err == nil {
				item.ProductID = &id
			}
		}
		order.Items = append(order.Items, item)
	}

	order.Normalize()

	number, err := models.GenerateOrderNumber(h.db, "ORD", now.Year())
	if err != nil {
		return err
	}
	order.Number = number

	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// ListOrders returns the authenticated user's orders, run through the
// shared filter/sort/paginate pipeline.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("placed_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	filtered := analytics.FilterOrders(analytics.NormalizeOrders(orders), utils.ParseOrderFilter(c))
	sorted := analytics.SortOrders(filtered, utils.ParseSortMode(c))
	page, totalPages := analytics.Paginate(sorted, pg.Page, pg.Limit)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    page,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    len(filtered),
			"total_pages":    totalPages,
		},
	})
}

// GetOrder returns a single order for the authenticated user.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// CancelOrder cancels the user's own order if its status allows it.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if err := order.Transition(models.OrderStatusCancelled, time.Now()); err != nil {
		return domainError(err)
	}

	if err := h.db.Save(&order).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
