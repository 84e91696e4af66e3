package analytics

import (
	"sort"

	"github.com/example/stroymat/internal/models"
)

// SortMode selects the comparator for SortOrders / SortInvoices.
type SortMode string

const (
	SortNewest     SortMode = "newest"
	SortOldest     SortMode = "oldest"
	SortAmountHigh SortMode = "amount_high"
	SortAmountLow  SortMode = "amount_low"
	SortDueSoon    SortMode = "due_soon" // invoices only
)

// SortOrders returns a new slice sorted by mode. The sort is stable so
// equal keys keep their original relative order, which keeps pagination
// deterministic. Unknown modes fall back to newest-first.
func SortOrders(orders []models.Order, mode SortMode) []models.Order {
	out := make([]models.Order, len(orders))
	copy(out, orders)

	switch mode {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PlacedAt.Before(out[j].PlacedAt) })
	case SortAmountHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	case SortAmountLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Total < out[j].Total })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PlacedAt.After(out[j].PlacedAt) })
	}
	return out
}

// SortInvoices returns a new slice sorted by mode, stable. Dates sort on
// the issue date except DueSoon, which sorts by due date ascending.
func SortInvoices(invoices []models.Invoice, mode SortMode) []models.Invoice {
	out := make([]models.Invoice, len(invoices))
	copy(out, invoices)

	switch mode {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].IssueDate.Before(out[j].IssueDate) })
	case SortAmountHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	case SortAmountLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Total < out[j].Total })
	case SortDueSoon:
		sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].IssueDate.After(out[j].IssueDate) })
	}
	return out
}
