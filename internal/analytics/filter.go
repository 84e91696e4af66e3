package analytics

import (
	"strings"
	"time"

	"github.com/example/stroymat/internal/models"
)

// All is the sentinel value that disables a status or city filter.
const All = "All"

// OrderFilter narrows an order collection. Zero-value fields (and the
// All sentinel) leave their predicate as a passthrough, so the zero
// filter is the identity.
type OrderFilter struct {
	Query  string
	Status string
	City   string
	From   time.Time
	To     time.Time
}

// InvoiceFilter narrows an invoice collection.
type InvoiceFilter struct {
	Query  string
	Status string
	City   string
	From   time.Time
	To     time.Time
}

// FilterOrders applies the filter predicates, AND-composed, and returns
// the matching subset in original order.
func FilterOrders(orders []models.Order, f OrderFilter) []models.Order {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	from, to := f.From, endOfDay(f.To)

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if query != "" && !orderMatchesQuery(&o, query) {
			continue
		}
		if f.Status != "" && f.Status != All && string(o.Status) != f.Status {
			continue
		}
		if f.City != "" && f.City != All && o.City != f.City {
			continue
		}
		if !inRange(o.PlacedAt, from, to) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// FilterInvoices applies the filter predicates, AND-composed. The text
// query additionally matches customer and city. The date range applies
// to the issue date.
func FilterInvoices(invoices []models.Invoice, f InvoiceFilter) []models.Invoice {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	from, to := f.From, endOfDay(f.To)

	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if query != "" && !invoiceMatchesQuery(&inv, query) {
			continue
		}
		if f.Status != "" && f.Status != All && string(inv.Status) != f.Status {
			continue
		}
		if f.City != "" && f.City != All && inv.City != f.City {
			continue
		}
		if !inRange(inv.IssueDate, from, to) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

func orderMatchesQuery(o *models.Order, query string) bool {
	if strings.Contains(strings.ToLower(o.Number), query) {
		return true
	}
	for _, item := range o.Items {
		if strings.Contains(strings.ToLower(item.Name), query) {
			return true
		}
	}
	return false
}

func invoiceMatchesQuery(inv *models.Invoice, query string) bool {
	if strings.Contains(strings.ToLower(inv.Number), query) {
		return true
	}
	if strings.Contains(strings.ToLower(inv.Customer), query) {
		return true
	}
	if strings.Contains(strings.ToLower(inv.City), query) {
		return true
	}
	for _, item := range inv.Items {
		if strings.Contains(strings.ToLower(item.Name), query) {
			return true
		}
	}
	return false
}

// endOfDay pushes the upper bound to 23:59:59.999999999 so a same-day
// from/to selection includes everything issued that day.
func endOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// inRange checks an inclusive date range; a zero bound leaves that side
// unconstrained.
func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}
