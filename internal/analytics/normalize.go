// Package analytics implements the shared derived-metrics pipeline used
// by the order, invoice, and dashboard endpoints: normalize -> filter ->
// sort -> aggregate/paginate. Every stage is a pure function over plain
// slices; nothing here touches storage.
package analytics

import (
	"github.com/example/stroymat/internal/models"
)

// NormalizeOrders returns a copy of orders with the derived fields
// (Total, ItemsCount) recomputed from the line items. Input is not
// mutated; normalizing an already-normalized slice is a no-op.
func NormalizeOrders(orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	copy(out, orders)
	for i := range out {
		out[i].Normalize()
	}
	return out
}

// NormalizeInvoices returns a copy of invoices with the derived money
// fields (Subtotal, Tax, Total, Balance, PaidPercent) recomputed from the
// line items and tax rate. Input is not mutated.
func NormalizeInvoices(invoices []models.Invoice) []models.Invoice {
	out := make([]models.Invoice, len(invoices))
	copy(out, invoices)
	for i := range out {
		out[i].Normalize()
	}
	return out
}
