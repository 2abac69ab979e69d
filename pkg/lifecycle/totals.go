package lifecycle

import (
	"strings"

	"github.com/nexgencrm/backend/pkg/models"
)

// Totals holds the computed amounts for a quotation or proforma invoice.
type Totals struct {
	Subtotal      float64
	DiscountTotal float64
	TaxTotal      float64
	GrandTotal    float64
}

// ComputeTotals derives totals from an ordered sequence of line items. Tax is
// computed per line against the clamped per-line taxable amount, not against
// the aggregate, so a line whose discount exceeds its subtotal contributes
// zero tax without offsetting other lines.
func ComputeTotals(items []models.LineItem) Totals {
	var t Totals
	for _, item := range items {
		lineSubtotal := item.Quantity * item.UnitPrice
		lineTaxable := lineSubtotal - item.Discount
		if lineTaxable < 0 {
			lineTaxable = 0
		}
		t.Subtotal += lineSubtotal
		t.DiscountTotal += item.Discount
		t.TaxTotal += lineTaxable * item.TaxRate / 100
	}

	taxableTotal := t.Subtotal - t.DiscountTotal
	if taxableTotal < 0 {
		taxableTotal = 0
	}
	t.GrandTotal = taxableTotal + t.TaxTotal
	return t
}

// PruneItems drops line items whose product name is empty after trimming.
func PruneItems(items []models.LineItem) []models.LineItem {
	kept := make([]models.LineItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.ProductName) == "" {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}
