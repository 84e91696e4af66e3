package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceStatus represents the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "Draft"
	InvoiceStatusSent          InvoiceStatus = "Sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "Partially Paid"
	InvoiceStatusPaid          InvoiceStatus = "Paid"
	InvoiceStatusOverdue       InvoiceStatus = "Overdue"
	InvoiceStatusCancelled     InvoiceStatus = "Cancelled"
)

// invoiceTransitions is the allowed transition table. Paid and Cancelled
// are terminal; Overdue is reached time-based from Sent or Partially Paid
// and payments can still move it forward.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:         {InvoiceStatusSent, InvoiceStatusCancelled},
	InvoiceStatusSent:          {InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusPartiallyPaid: {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue:       {InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusPaid:          {},
	InvoiceStatusCancelled:     {},
}

// Valid reports whether s is one of the enumerated invoice statuses.
func (s InvoiceStatus) Valid() bool {
	_, ok := invoiceTransitions[s]
	return ok
}

// Terminal reports whether no transition out of s is defined.
func (s InvoiceStatus) Terminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// CanTransitionTo reports whether s -> next is in the transition table.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Invoice represents a billing invoice issued against an order.
type Invoice struct {
	BaseModel
	Number      string        `gorm:"uniqueIndex" json:"number"`
	OrderID     *uuid.UUID    `gorm:"type:uuid;index" json:"order_id,omitempty"`
	OrderNumber string        `json:"order_number"`
	Customer    string        `json:"customer"`
	City        string        `json:"city"`
	Address     string        `json:"address"`
	IssueDate   time.Time     `json:"issue_date"`
	DueDate     time.Time     `json:"due_date"`
	Status      InvoiceStatus `gorm:"size:20" json:"status"`
	TaxRate     float64       `json:"tax_rate"`
	AmountPaid  float64       `json:"amount_paid"`
	Subtotal    float64       `json:"subtotal"`
	Tax         float64       `json:"tax"`
	Total       float64       `json:"total"`
	Balance     float64       `json:"balance"`
	PaidPercent int           `json:"paid_percent"`
	Items       []InvoiceItem `json:"items,omitempty"`
}

// InvoiceItem is a single line on an invoice.
type InvoiceItem struct {
	BaseModel
	InvoiceID uuid.UUID `gorm:"type:uuid;index" json:"invoice_id"`
	Name      string    `json:"name"`
	Qty       int       `json:"qty"`
	Unit      string    `json:"unit"`
	UnitPrice float64   `json:"unit_price"`
}

// LineTotal returns the line subtotal.
func (item *InvoiceItem) LineTotal() float64 {
	return float64(item.Qty) * item.UnitPrice
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Normalize recomputes the derived money fields from the line items and
// tax rate. Derivation always starts from Items, so applying it twice
// yields the same result. Defaulting an unset AmountPaid to the total
// happens at the ingest boundary (seed loader, create handler), not here.
func (inv *Invoice) Normalize() {
	var subtotal float64
	for _, item := range inv.Items {
		subtotal += item.LineTotal()
	}
	inv.Subtotal = subtotal
	inv.Tax = Round2(subtotal * inv.TaxRate)
	inv.Total = inv.Subtotal + inv.Tax
	inv.Balance = Round2(inv.Total - inv.AmountPaid)

	if inv.Total <= 0 {
		inv.PaidPercent = 0
		return
	}
	percent := int(math.Round(inv.AmountPaid / inv.Total * 100))
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	inv.PaidPercent = percent
}

// Transition moves the invoice to next, returning ErrInvalidTransition
// for any pair not in the allowed table.
func (inv *Invoice) Transition(next InvoiceStatus) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown invoice status %q", ErrValidation, next)
	}
	if !inv.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inv.Status, next)
	}
	inv.Status = next
	return nil
}

// MarkPaid settles the invoice in full: AmountPaid is forced to Total,
// balance to zero, paid percent to 100.
func (inv *Invoice) MarkPaid() error {
	if err := inv.Transition(InvoiceStatusPaid); err != nil {
		return err
	}
	inv.AmountPaid = inv.Total
	inv.Balance = 0
	inv.PaidPercent = 100
	return nil
}

// RecordPayment applies a payment and advances the status to Partially
// Paid or Paid depending on the remaining balance. Overpayment is
// accepted and shows up as a negative balance.
func (inv *Invoice) RecordPayment(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	if inv.Status.Terminal() || inv.Status == InvoiceStatusDraft {
		return fmt.Errorf("%w: cannot record payment on %s invoice", ErrInvalidTransition, inv.Status)
	}

	inv.AmountPaid += amount
	inv.Balance = Round2(inv.Total - inv.AmountPaid)

	next := InvoiceStatusPartiallyPaid
	if inv.Balance <= 0 {
		next = InvoiceStatusPaid
	}
	if inv.Status != next {
		if err := inv.Transition(next); err != nil {
			return err
		}
	}

	if inv.Total > 0 {
		percent := int(math.Round(inv.AmountPaid / inv.Total * 100))
		if percent > 100 {
			percent = 100
		}
		inv.PaidPercent = percent
	}
	return nil
}

// RefreshOverdue flips Sent or Partially Paid invoices to Overdue once
// the due date has passed with a balance remaining.
func (inv *Invoice) RefreshOverdue(now time.Time) {
	if inv.Status != InvoiceStatusSent && inv.Status != InvoiceStatusPartiallyPaid {
		return
	}
	if now.After(inv.DueDate) && inv.Balance > 0 {
		inv.Status = InvoiceStatusOverdue
	}
}

// GenerateInvoiceNumber generates a sequential invoice number.
// Format: INV-YYYY-NNNN.
func GenerateInvoiceNumber(db *gorm.DB, year int) (string, error) {
	var count int64
	err := db.Model(&Invoice{}).
		Where("number LIKE ?", fmt.Sprintf("INV-%d-%%", year)).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return FormatNumber("INV", year, int(count)+1), nil
}
