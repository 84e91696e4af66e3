package analytics

import (
	"testing"

	"github.com/example/stroymat/internal/models"
)

func TestSortOrders(t *testing.T) {
	orders := []models.Order{
		{Number: "A", PlacedAt: day(2026, 6, 1), Total: 200},
		{Number: "B", PlacedAt: day(2026, 8, 1), Total: 50},
		{Number: "C", PlacedAt: day(2026, 7, 1), Total: 500},
	}

	tests := []struct {
		name string
		mode SortMode
		want []string
	}{
		{"newest", SortNewest, []string{"B", "C", "A"}},
		{"oldest", SortOldest, []string{"A", "C", "B"}},
		{"amount high", SortAmountHigh, []string{"C", "A", "B"}},
		{"amount low", SortAmountLow, []string{"B", "A", "C"}},
		{"unknown mode falls back to newest", SortMode("bogus"), []string{"B", "C", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortOrders(orders, tt.mode)
			for i, number := range tt.want {
				if got[i].Number != number {
					t.Errorf("position %d = %s, want %s", i, got[i].Number, number)
				}
			}
		})
	}

	if orders[0].Number != "A" {
		t.Error("SortOrders mutated its input")
	}
}

func TestSortOrders_StableOnEqualTotals(t *testing.T) {
	orders := []models.Order{
		{Number: "first", PlacedAt: day(2026, 6, 1), Total: 100},
		{Number: "second", PlacedAt: day(2026, 7, 1), Total: 100},
		{Number: "big", PlacedAt: day(2026, 5, 1), Total: 900},
	}

	got := SortOrders(orders, SortAmountHigh)
	if got[0].Number != "big" || got[1].Number != "first" || got[2].Number != "second" {
		t.Errorf("equal totals must keep insertion order, got %s, %s, %s",
			got[0].Number, got[1].Number, got[2].Number)
	}
}

func TestSortInvoices_DueSoon(t *testing.T) {
	invoices := []models.Invoice{
		{Number: "late", IssueDate: day(2026, 6, 1), DueDate: day(2026, 9, 1)},
		{Number: "soon", IssueDate: day(2026, 5, 1), DueDate: day(2026, 8, 5)},
		{Number: "mid", IssueDate: day(2026, 7, 1), DueDate: day(2026, 8, 20)},
	}

	got := SortInvoices(invoices, SortDueSoon)
	want := []string{"soon", "mid", "late"}
	for i, number := range want {
		if got[i].Number != number {
			t.Errorf("position %d = %s, want %s", i, got[i].Number, number)
		}
	}
}

func TestSortInvoices_DefaultNewestByIssueDate(t *testing.T) {
	invoices := []models.Invoice{
		{Number: "old", IssueDate: day(2026, 5, 1)},
		{Number: "new", IssueDate: day(2026, 8, 1)},
	}

	got := SortInvoices(invoices, SortNewest)
	if got[0].Number != "new" {
		t.Errorf("first = %s, want new", got[0].Number)
	}
}
