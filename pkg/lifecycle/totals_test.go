package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexgencrm/backend/pkg/models"
)

func TestComputeTotalsExample(t *testing.T) {
	items := []models.LineItem{
		{ProductName: "Scooter", Quantity: 2, UnitPrice: 100, TaxRate: 10, Discount: 20},
		{ProductName: "Helmet", Quantity: 1, UnitPrice: 50, TaxRate: 0, Discount: 0},
	}

	totals := ComputeTotals(items)

	assert.InDelta(t, 250, totals.Subtotal, 1e-9)
	assert.InDelta(t, 20, totals.DiscountTotal, 1e-9)
	assert.InDelta(t, 18, totals.TaxTotal, 1e-9)
	assert.InDelta(t, 248, totals.GrandTotal, 1e-9)
}

func TestComputeTotalsIdempotent(t *testing.T) {
	items := []models.LineItem{
		{ProductName: "A", Quantity: 3, UnitPrice: 19.99, TaxRate: 18, Discount: 5},
		{ProductName: "B", Quantity: 1, UnitPrice: 7, TaxRate: 5, Discount: 0.5},
	}

	first := ComputeTotals(items)
	second := ComputeTotals(items)
	assert.Equal(t, first, second)
}

func TestComputeTotalsPerLineClamp(t *testing.T) {
	// Discount exceeding a line's subtotal contributes zero tax for that
	// line instead of offsetting the other line's taxable amount.
	items := []models.LineItem{
		{ProductName: "Overdiscounted", Quantity: 1, UnitPrice: 10, TaxRate: 10, Discount: 50},
		{ProductName: "Normal", Quantity: 1, UnitPrice: 100, TaxRate: 10, Discount: 0},
	}

	totals := ComputeTotals(items)

	assert.InDelta(t, 110, totals.Subtotal, 1e-9)
	assert.InDelta(t, 50, totals.DiscountTotal, 1e-9)
	// Per-line: max(10-50,0)*10% + 100*10% = 10, not max(110-50,0)*10% = 6.
	assert.InDelta(t, 10, totals.TaxTotal, 1e-9)
	assert.InDelta(t, 70, totals.GrandTotal, 1e-9)
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.GrandTotal)
}

func TestPruneItems(t *testing.T) {
	items := []models.LineItem{
		{ProductName: "Keep", Quantity: 1, UnitPrice: 10},
		{ProductName: "  ", Quantity: 1, UnitPrice: 99},
		{ProductName: "", Quantity: 2, UnitPrice: 5},
	}

	kept := PruneItems(items)
	assert.Len(t, kept, 1)
	assert.Equal(t, "Keep", kept[0].ProductName)
}
