package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/stroymat/internal/analytics"
)

const dateLayout = "2006-01-02"

// ParseOrderFilter reads the shared filter query params (q, status, city,
// from, to) into an order filter. Malformed dates are ignored rather than
// rejected, leaving that bound unconstrained.
func ParseOrderFilter(c *fiber.Ctx) analytics.OrderFilter {
	return analytics.OrderFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
		City:   c.Query("city"),
		From:   parseDate(c.Query("from")),
		To:     parseDate(c.Query("to")),
	}
}

// ParseInvoiceFilter reads the shared filter query params into an
// invoice filter.
func ParseInvoiceFilter(c *fiber.Ctx) analytics.InvoiceFilter {
	return analytics.InvoiceFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
		City:   c.Query("city"),
		From:   parseDate(c.Query("from")),
		To:     parseDate(c.Query("to")),
	}
}

// ParseSortMode reads the sort query param, defaulting to newest-first.
func ParseSortMode(c *fiber.Ctx) analytics.SortMode {
	if sort := c.Query("sort"); sort != "" {
		return analytics.SortMode(sort)
	}
	return analytics.SortNewest
}

func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
