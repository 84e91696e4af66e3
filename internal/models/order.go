package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "Pending"
	OrderStatusConfirmed      OrderStatus = "Confirmed"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusCancelled      OrderStatus = "Cancelled"
)

// orderTransitions is the allowed transition table. Delivered and
// Cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

// Valid reports whether s is one of the enumerated order statuses.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Terminal reports whether no transition out of s is defined.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether s -> next is in the transition table.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order represents a placed materials order.
type Order struct {
	BaseModel
	UserID      uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User        *User       `json:"user,omitempty"`
	Number      string      `gorm:"uniqueIndex" json:"number"`
	Status      OrderStatus `gorm:"size:20" json:"status"`
	PlacedAt    time.Time   `json:"placed_at"`
	City        string      `json:"city"`
	Address     string      `json:"address"`
	Notes       string      `json:"notes"`
	PromisedAt  *time.Time  `json:"promised_at,omitempty"`
	DeliveredAt *time.Time  `json:"delivered_at,omitempty"`
	Total       float64     `json:"total"`
	ItemsCount  int         `json:"items_count"`
	Items       []OrderItem `json:"items,omitempty"`
}

// OrderItem is a single line on an order.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID *uuid.UUID `gorm:"type:uuid" json:"product_id,omitempty"`
	Name      string     `json:"name"`
	Qty       int        `json:"qty"`
	Unit      string     `json:"unit"`
	UnitPrice float64    `json:"unit_price"`
}

// LineTotal returns the line subtotal.
func (item *OrderItem) LineTotal() float64 {
	return float64(item.Qty) * item.UnitPrice
}

// Normalize recomputes the derived fields from the line items. Derivation
// always starts from Items, so applying it twice yields the same result.
func (o *Order) Normalize() {
	var total float64
	var count int
	for _, item := range o.Items {
		total += item.LineTotal()
		count += item.Qty
	}
	o.Total = total
	o.ItemsCount = count
}

// Transition moves the order to next, returning ErrInvalidTransition for
// any pair not in the allowed table. Reaching Delivered stamps
// DeliveredAt with now.
func (o *Order) Transition(next OrderStatus, now time.Time) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown order status %q", ErrValidation, next)
	}
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	o.Status = next
	if next == OrderStatusDelivered {
		o.DeliveredAt = &now
	}
	return nil
}

// DeliveredOnTime reports whether the order was delivered no later than
// its promised date. Delivered orders without a promised date count as
// on time.
func (o *Order) DeliveredOnTime() bool {
	if o.Status != OrderStatusDelivered || o.DeliveredAt == nil {
		return false
	}
	if o.PromisedAt == nil {
		return true
	}
	return !o.DeliveredAt.After(*o.PromisedAt)
}

// FormatNumber renders a record number like ORD-2026-0001.
func FormatNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// GenerateOrderNumber generates a sequential order number.
// Format: ORD-YYYY-NNNN, or ADM-YYYY-NNNN for admin-placed orders.
func GenerateOrderNumber(db *gorm.DB, prefix string, year int) (string, error) {
	var count int64
	err := db.Model(&Order{}).
		Where("number LIKE ?", fmt.Sprintf("%s-%d-%%", prefix, year)).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return FormatNumber(prefix, year, int(count)+1), nil
}
