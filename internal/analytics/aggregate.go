package analytics

import (
	"sort"
	"time"

	"github.com/example/stroymat/internal/models"
)

// trendMonths is the width of the trailing trend window.
const trendMonths = 6

// topN is the truncation size for product/customer groupings.
const topN = 5

// StatusSegment is one slice of a status breakdown.
type StatusSegment struct {
	Status  string  `json:"status"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// GroupTotal is one row of a top-N grouping (product or customer).
type GroupTotal struct {
	Key     string  `json:"key"`
	Qty     int     `json:"qty"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"` // distinct orders containing the key
}

// CityInsight summarizes delivery performance for one city.
type CityInsight struct {
	City           string  `json:"city"`
	Orders         int     `json:"orders"`
	Delivered      int     `json:"delivered"`
	DeliveredRatio float64 `json:"delivered_ratio"`
	OnTimeRate     float64 `json:"on_time_rate"`
}

// TrendBucket is one calendar month of the trailing trend window. Count
// accumulates every record in the month regardless of status; Revenue
// accumulates delivered orders only.
type TrendBucket struct {
	Month   string  `json:"month"` // YYYY-MM
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// OrderMetrics is the full reduction of a filtered order set.
type OrderMetrics struct {
	Count            int             `json:"count"`
	Revenue          float64         `json:"revenue"` // Delivered orders only
	OnTimeRate       float64         `json:"on_time_rate"`
	CancellationRate float64         `json:"cancellation_rate"`
	StatusBreakdown  []StatusSegment `json:"status_breakdown"`
	TopProducts      []GroupTotal    `json:"top_products"`
	TopCustomers     []GroupTotal    `json:"top_customers"`
	CityInsights     []CityInsight   `json:"city_insights"`
	Trend            []TrendBucket   `json:"trend"`
}

// InvoiceMetrics is the full reduction of a filtered invoice set.
type InvoiceMetrics struct {
	Count           int             `json:"count"`
	Billed          float64         `json:"billed"`
	Collected       float64         `json:"collected"`
	Outstanding     float64         `json:"outstanding"`
	OverdueCount    int             `json:"overdue_count"`
	StatusBreakdown []StatusSegment `json:"status_breakdown"`
}

var orderStatusOrder = []models.OrderStatus{
	models.OrderStatusPending,
	models.OrderStatusConfirmed,
	models.OrderStatusOutForDelivery,
	models.OrderStatusDelivered,
	models.OrderStatusCancelled,
}

var invoiceStatusOrder = []models.InvoiceStatus{
	models.InvoiceStatusDraft,
	models.InvoiceStatusSent,
	models.InvoiceStatusPartiallyPaid,
	models.InvoiceStatusPaid,
	models.InvoiceStatusOverdue,
	models.InvoiceStatusCancelled,
}

// AggregateOrders reduces a filtered order set into KPIs, breakdowns,
// and the trailing 6-month trend anchored at now. Rates are zero when
// their denominator is zero, never NaN.
func AggregateOrders(orders []models.Order, now time.Time) OrderMetrics {
	m := OrderMetrics{Count: len(orders)}

	var deliveredTotal, deliveredOnTime, cancelled int
	statusCounts := make(map[string]int, len(orderStatusOrder))
	for _, o := range orders {
		statusCounts[string(o.Status)]++
		switch o.Status {
		case models.OrderStatusDelivered:
			deliveredTotal++
			m.Revenue += o.Total
			if o.DeliveredOnTime() {
				deliveredOnTime++
			}
		case models.OrderStatusCancelled:
			cancelled++
		}
	}

	if deliveredTotal > 0 {
		m.OnTimeRate = float64(deliveredOnTime) / float64(deliveredTotal)
	}
	if len(orders) > 0 {
		m.CancellationRate = float64(cancelled) / float64(len(orders))
	}

	statuses := make([]string, 0, len(orderStatusOrder))
	for _, s := range orderStatusOrder {
		statuses = append(statuses, string(s))
	}
	m.StatusBreakdown = statusBreakdown(statuses, statusCounts)
	m.TopProducts = topProducts(orders)
	m.TopCustomers = topCustomers(orders)
	m.CityInsights = cityInsights(orders)
	m.Trend = trend(orders, now)
	return m
}

// AggregateInvoices reduces a filtered invoice set into billing KPIs.
// Collected caps each invoice at its total so overpayment never inflates
// the figure; Outstanding sums positive balances of non-terminal,
// non-draft invoices.
func AggregateInvoices(invoices []models.Invoice) InvoiceMetrics {
	m := InvoiceMetrics{Count: len(invoices)}

	statusCounts := make(map[string]int, len(invoiceStatusOrder))
	for _, inv := range invoices {
		statusCounts[string(inv.Status)]++
		m.Billed += inv.Total

		collected := inv.AmountPaid
		if collected > inv.Total {
			collected = inv.Total
		}
		m.Collected += collected

		switch inv.Status {
		case models.InvoiceStatusSent, models.InvoiceStatusPartiallyPaid, models.InvoiceStatusOverdue:
			if inv.Balance > 0 {
				m.Outstanding += inv.Balance
			}
		}
		if inv.Status == models.InvoiceStatusOverdue {
			m.OverdueCount++
		}
	}

	statuses := make([]string, 0, len(invoiceStatusOrder))
	for _, s := range invoiceStatusOrder {
		statuses = append(statuses, string(s))
	}
	m.StatusBreakdown = statusBreakdown(statuses, statusCounts)
	return m
}

// statusBreakdown computes per-status counts and percentages over a
// shared max(1, total) denominator. The last non-empty segment absorbs
// the rounding residue so the percentages tile to exactly 100.
func statusBreakdown(statuses []string, counts map[string]int) []StatusSegment {
	total := 0
	for _, s := range statuses {
		total += counts[s]
	}
	denom := total
	if denom < 1 {
		denom = 1
	}

	segments := make([]StatusSegment, len(statuses))
	lastNonEmpty := -1
	var sum float64
	for i, s := range statuses {
		count := counts[s]
		percent := models.Round2(float64(count) / float64(denom) * 100)
		segments[i] = StatusSegment{Status: s, Count: count, Percent: percent}
		sum += percent
		if count > 0 {
			lastNonEmpty = i
		}
	}
	if lastNonEmpty >= 0 {
		segments[lastNonEmpty].Percent = models.Round2(segments[lastNonEmpty].Percent + 100 - sum)
	}
	return segments
}

// topProducts groups line items by product name, summing quantity and
// line revenue, counting distinct orders. Sorted by revenue descending,
// stable on ties, truncated to the top 5.
func topProducts(orders []models.Order) []GroupTotal {
	index := make(map[string]int)
	groups := make([]GroupTotal, 0)
	for _, o := range orders {
		seen := make(map[string]bool, len(o.Items))
		for _, item := range o.Items {
			i, ok := index[item.Name]
			if !ok {
				i = len(groups)
				index[item.Name] = i
				groups = append(groups, GroupTotal{Key: item.Name})
			}
			groups[i].Qty += item.Qty
			groups[i].Revenue += item.LineTotal()
			if !seen[item.Name] {
				groups[i].Count++
				seen[item.Name] = true
			}
		}
	}
	return truncateTop(groups)
}

// topCustomers groups orders by customer, summing order totals.
func topCustomers(orders []models.Order) []GroupTotal {
	index := make(map[string]int)
	groups := make([]GroupTotal, 0)
	for _, o := range orders {
		name := customerName(&o)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, GroupTotal{Key: name})
		}
		groups[i].Qty += o.ItemsCount
		groups[i].Revenue += o.Total
		groups[i].Count++
	}
	return truncateTop(groups)
}

func customerName(o *models.Order) string {
	if o.User != nil && o.User.Name != "" {
		return o.User.Name
	}
	return o.UserID.String()
}

func truncateTop(groups []GroupTotal) []GroupTotal {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Revenue > groups[j].Revenue })
	if len(groups) > topN {
		groups = groups[:topN]
	}
	return groups
}

// cityInsights groups orders by city and computes the delivered ratio
// and per-city on-time rate, both zero-guarded. Cities are ordered by
// order volume descending, stable on ties.
func cityInsights(orders []models.Order) []CityInsight {
	index := make(map[string]int)
	insights := make([]CityInsight, 0)
	onTime := make(map[string]int)
	for _, o := range orders {
		i, ok := index[o.City]
		if !ok {
			i = len(insights)
			index[o.City] = i
			insights = append(insights, CityInsight{City: o.City})
		}
		insights[i].Orders++
		if o.Status == models.OrderStatusDelivered {
			insights[i].Delivered++
			if o.DeliveredOnTime() {
				onTime[o.City]++
			}
		}
	}
	for i := range insights {
		if insights[i].Orders > 0 {
			insights[i].DeliveredRatio = float64(insights[i].Delivered) / float64(insights[i].Orders)
		}
		if insights[i].Delivered > 0 {
			insights[i].OnTimeRate = float64(onTime[insights[i].City]) / float64(insights[i].Delivered)
		}
	}
	sort.SliceStable(insights, func(i, j int) bool { return insights[i].Orders > insights[j].Orders })
	return insights
}

// trend buckets orders into the six trailing calendar months ending at
// now. Records outside the window are dropped. Order counts accumulate
// for every status, revenue only for Delivered orders.
func trend(orders []models.Order, now time.Time) []TrendBucket {
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	buckets := make([]TrendBucket, trendMonths)
	index := make(map[string]int, trendMonths)
	for i := 0; i < trendMonths; i++ {
		month := anchor.AddDate(0, i-(trendMonths-1), 0).Format("2006-01")
		buckets[i] = TrendBucket{Month: month}
		index[month] = i
	}

	for _, o := range orders {
		i, ok := index[o.PlacedAt.Format("2006-01")]
		if !ok {
			continue
		}
		buckets[i].Count++
		if o.Status == models.OrderStatusDelivered {
			buckets[i].Revenue += o.Total
		}
	}
	return buckets
}
