package analytics

import (
	"math"
	"testing"

	"github.com/example/stroymat/internal/models"
)

func TestAggregateOrders_Empty(t *testing.T) {
	m := AggregateOrders(nil, day(2026, 8, 15))

	if m.Count != 0 || m.Revenue != 0 || m.OnTimeRate != 0 || m.CancellationRate != 0 {
		t.Errorf("empty aggregate: got %+v, want all-zero KPIs", m)
	}
	if math.IsNaN(m.OnTimeRate) || math.IsNaN(m.CancellationRate) {
		t.Error("rates must be 0 for an empty set, never NaN")
	}
	if len(m.Trend) != 6 {
		t.Errorf("trend has %d buckets, want 6 even when empty", len(m.Trend))
	}
}

func TestAggregateOrders_DeliveredRevenueOnly(t *testing.T) {
	now := day(2026, 8, 15)
	orders := []models.Order{
		{Status: models.OrderStatusDelivered, Total: 100, PlacedAt: now},
		{Status: models.OrderStatusCancelled, Total: 50, PlacedAt: now},
		{Status: models.OrderStatusConfirmed, Total: 75, PlacedAt: now},
	}

	m := AggregateOrders(orders, now)
	if m.Revenue != 100 {
		t.Errorf("Revenue = %v, want 100 (Delivered only)", m.Revenue)
	}
	if want := 1.0 / 3.0; math.Abs(m.CancellationRate-want) > 1e-9 {
		t.Errorf("CancellationRate = %v, want %v", m.CancellationRate, want)
	}
	if m.Count != 3 {
		t.Errorf("Count = %d, want 3", m.Count)
	}
}

func TestAggregateOrders_OnTimeRate(t *testing.T) {
	now := day(2026, 8, 15)
	promised := day(2026, 8, 1)
	onTime := promised.AddDate(0, 0, -1)
	late := promised.AddDate(0, 0, 3)

	orders := []models.Order{
		{Status: models.OrderStatusDelivered, PromisedAt: &promised, DeliveredAt: &onTime, PlacedAt: now},
		{Status: models.OrderStatusDelivered, PromisedAt: &promised, DeliveredAt: &late, PlacedAt: now},
		{Status: models.OrderStatusPending, PlacedAt: now},
	}

	m := AggregateOrders(orders, now)
	if m.OnTimeRate != 0.5 {
		t.Errorf("OnTimeRate = %v, want 0.5", m.OnTimeRate)
	}
}

func TestStatusBreakdown_PercentagesTileTo100(t *testing.T) {
	now := day(2026, 8, 15)
	// 3 statuses over 7 records: each share rounds to a repeating
	// decimal, so the clamp on the last non-empty segment has to absorb
	// the residue.
	orders := []models.Order{
		{Status: models.OrderStatusPending, PlacedAt: now},
		{Status: models.OrderStatusPending, PlacedAt: now},
		{Status: models.OrderStatusPending, PlacedAt: now},
		{Status: models.OrderStatusConfirmed, PlacedAt: now},
		{Status: models.OrderStatusConfirmed, PlacedAt: now},
		{Status: models.OrderStatusDelivered, PlacedAt: now},
		{Status: models.OrderStatusDelivered, PlacedAt: now},
	}

	m := AggregateOrders(orders, now)

	var sum float64
	for _, seg := range m.StatusBreakdown {
		sum += seg.Percent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("percentages sum to %v, want exactly 100", sum)
	}

	counts := map[string]int{}
	for _, seg := range m.StatusBreakdown {
		counts[seg.Status] = seg.Count
	}
	if counts["Pending"] != 3 || counts["Confirmed"] != 2 || counts["Delivered"] != 2 {
		t.Errorf("unexpected counts: %v", counts)
	}
	if len(m.StatusBreakdown) != 5 {
		t.Errorf("breakdown has %d segments, want one per enum value", len(m.StatusBreakdown))
	}
}

func TestStatusBreakdown_EmptySetHasZeroPercents(t *testing.T) {
	m := AggregateOrders(nil, day(2026, 8, 15))
	for _, seg := range m.StatusBreakdown {
		if seg.Percent != 0 || seg.Count != 0 {
			t.Errorf("segment %s = %+v, want zero", seg.Status, seg)
		}
	}
}

func TestTopProducts(t *testing.T) {
	now := day(2026, 8, 15)
	orders := []models.Order{
		{Status: models.OrderStatusDelivered, PlacedAt: now, Items: []models.OrderItem{
			{Name: "Cement", Qty: 10, UnitPrice: 10}, // 100
			{Name: "Sand", Qty: 2, UnitPrice: 20},    // 40
		}},
		{Status: models.OrderStatusPending, PlacedAt: now, Items: []models.OrderItem{
			{Name: "Cement", Qty: 5, UnitPrice: 10}, // 50
			{Name: "Brick", Qty: 100, UnitPrice: 2}, // 200
		}},
	}

	m := AggregateOrders(orders, now)

	if len(m.TopProducts) != 3 {
		t.Fatalf("got %d products, want 3", len(m.TopProducts))
	}
	if m.TopProducts[0].Key != "Brick" || m.TopProducts[0].Revenue != 200 {
		t.Errorf("top product = %+v, want Brick/200", m.TopProducts[0])
	}
	if m.TopProducts[1].Key != "Cement" || m.TopProducts[1].Revenue != 150 || m.TopProducts[1].Qty != 15 {
		t.Errorf("second product = %+v, want Cement/150/15", m.TopProducts[1])
	}
	if m.TopProducts[1].Count != 2 {
		t.Errorf("Cement order count = %d, want 2 distinct orders", m.TopProducts[1].Count)
	}
}

func TestTopProducts_TruncatesToFive(t *testing.T) {
	now := day(2026, 8, 15)
	items := make([]models.OrderItem, 8)
	for i := range items {
		items[i] = models.OrderItem{Name: string(rune('A' + i)), Qty: 1, UnitPrice: float64(i + 1)}
	}
	orders := []models.Order{{Status: models.OrderStatusPending, PlacedAt: now, Items: items}}

	m := AggregateOrders(orders, now)
	if len(m.TopProducts) != 5 {
		t.Fatalf("got %d products, want truncation to 5", len(m.TopProducts))
	}
	if m.TopProducts[0].Key != "H" {
		t.Errorf("top product = %s, want H (highest revenue)", m.TopProducts[0].Key)
	}
}

func TestCityInsights(t *testing.T) {
	now := day(2026, 8, 15)
	promised := day(2026, 8, 1)
	late := promised.AddDate(0, 0, 2)

	orders := []models.Order{
		{Status: models.OrderStatusDelivered, City: "Tashkent", PromisedAt: &promised, DeliveredAt: &promised, PlacedAt: now},
		{Status: models.OrderStatusDelivered, City: "Tashkent", PromisedAt: &promised, DeliveredAt: &late, PlacedAt: now},
		{Status: models.OrderStatusPending, City: "Tashkent", PlacedAt: now},
		{Status: models.OrderStatusCancelled, City: "Bukhara", PlacedAt: now},
	}

	m := AggregateOrders(orders, now)
	if len(m.CityInsights) != 2 {
		t.Fatalf("got %d cities, want 2", len(m.CityInsights))
	}

	tashkent := m.CityInsights[0]
	if tashkent.City != "Tashkent" {
		t.Fatalf("first city = %s, want Tashkent (highest volume)", tashkent.City)
	}
	if tashkent.Orders != 3 || tashkent.Delivered != 2 {
		t.Errorf("Tashkent = %+v, want 3 orders / 2 delivered", tashkent)
	}
	if want := 2.0 / 3.0; math.Abs(tashkent.DeliveredRatio-want) > 1e-9 {
		t.Errorf("DeliveredRatio = %v, want %v", tashkent.DeliveredRatio, want)
	}
	if tashkent.OnTimeRate != 0.5 {
		t.Errorf("OnTimeRate = %v, want 0.5", tashkent.OnTimeRate)
	}

	bukhara := m.CityInsights[1]
	if bukhara.DeliveredRatio != 0 || bukhara.OnTimeRate != 0 {
		t.Errorf("Bukhara with no deliveries must have zero rates, got %+v", bukhara)
	}
}

func TestTrend_SixMonthWindow(t *testing.T) {
	now := day(2026, 8, 15)
	orders := []models.Order{
		// 7 months ago: outside the window entirely.
		{Status: models.OrderStatusDelivered, Total: 999, PlacedAt: now.AddDate(0, -7, 0)},
		// This month, delivered: counts in both count and revenue.
		{Status: models.OrderStatusDelivered, Total: 100, PlacedAt: now},
		// This month, pending: counts but contributes no revenue.
		{Status: models.OrderStatusPending, Total: 70, PlacedAt: now},
		// 5 months ago: first bucket of the window.
		{Status: models.OrderStatusDelivered, Total: 40, PlacedAt: now.AddDate(0, -5, 0)},
	}

	m := AggregateOrders(orders, now)
	if len(m.Trend) != 6 {
		t.Fatalf("got %d buckets, want 6", len(m.Trend))
	}

	if m.Trend[0].Month != "2026-03" || m.Trend[5].Month != "2026-08" {
		t.Errorf("window = [%s .. %s], want [2026-03 .. 2026-08]", m.Trend[0].Month, m.Trend[5].Month)
	}

	first := m.Trend[0]
	if first.Count != 1 || first.Revenue != 40 {
		t.Errorf("first bucket = %+v, want count 1 / revenue 40", first)
	}

	last := m.Trend[5]
	if last.Count != 2 {
		t.Errorf("current month count = %d, want 2 (all statuses)", last.Count)
	}
	if last.Revenue != 100 {
		t.Errorf("current month revenue = %v, want 100 (delivered only)", last.Revenue)
	}

	var total float64
	for _, b := range m.Trend {
		total += b.Revenue
	}
	if total != 140 {
		t.Errorf("window revenue = %v, want 140 (out-of-window order excluded)", total)
	}
}

func TestAggregateInvoices(t *testing.T) {
	invoices := []models.Invoice{
		{Status: models.InvoiceStatusPaid, Total: 115, AmountPaid: 115, Balance: 0},
		{Status: models.InvoiceStatusPartiallyPaid, Total: 200, AmountPaid: 80, Balance: 120},
		{Status: models.InvoiceStatusOverdue, Total: 50, AmountPaid: 0, Balance: 50},
		{Status: models.InvoiceStatusDraft, Total: 30, AmountPaid: 0, Balance: 30},
		// Overpaid: collected caps at total, negative balance ignored.
		{Status: models.InvoiceStatusPaid, Total: 100, AmountPaid: 130, Balance: -30},
	}

	m := AggregateInvoices(invoices)
	if m.Count != 5 {
		t.Errorf("Count = %d, want 5", m.Count)
	}
	if m.Billed != 495 {
		t.Errorf("Billed = %v, want 495", m.Billed)
	}
	if m.Collected != 295 {
		t.Errorf("Collected = %v, want 295 (115+80+0+0+100)", m.Collected)
	}
	if m.Outstanding != 170 {
		t.Errorf("Outstanding = %v, want 170 (120+50; draft excluded)", m.Outstanding)
	}
	if m.OverdueCount != 1 {
		t.Errorf("OverdueCount = %d, want 1", m.OverdueCount)
	}

	var sum float64
	for _, seg := range m.StatusBreakdown {
		sum += seg.Percent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("invoice breakdown sums to %v, want 100", sum)
	}
}

func TestAggregateInvoices_Empty(t *testing.T) {
	m := AggregateInvoices(nil)
	if m.Count != 0 || m.Billed != 0 || m.Collected != 0 || m.Outstanding != 0 {
		t.Errorf("empty aggregate: got %+v, want zeros", m)
	}
}

func TestNormalizeOrders_PureAndIdempotent(t *testing.T) {
	orders := []models.Order{{
		Total:      9999, // stale derived value
		ItemsCount: 42,
		PlacedAt:   day(2026, 8, 1),
		Items:      []models.OrderItem{{Name: "Cement", Qty: 4, UnitPrice: 10}},
	}}

	once := NormalizeOrders(orders)
	if orders[0].Total != 9999 {
		t.Error("NormalizeOrders mutated its input")
	}
	if once[0].Total != 40 || once[0].ItemsCount != 4 {
		t.Errorf("normalized = %+v, want Total 40 / ItemsCount 4", once[0])
	}

	twice := NormalizeOrders(once)
	if twice[0].Total != once[0].Total || twice[0].ItemsCount != once[0].ItemsCount {
		t.Error("NormalizeOrders is not idempotent")
	}
}
