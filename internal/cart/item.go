package cart

import (
	"github.com/shopspring/decimal"

	"github.com/gadgetshub/storefront-backend/internal/pricing"
)

// LineItem is one product line in a customer's cart. UnitPrice is the
// catalog price before discount; PrescriptionRef is nil until a
// prescription has been attached for the line.
type LineItem struct {
	ProductID            string
	Name                 string
	UnitPrice            decimal.Decimal
	DiscountPercent      decimal.Decimal
	Quantity             int
	RequiresPrescription bool
	PrescriptionRef      *string
	ImageURL             *string
}

// DiscountedUnitPrice is the effective per-unit price for the line.
func (i LineItem) DiscountedUnitPrice() decimal.Decimal {
	return pricing.DiscountedUnitPrice(i.UnitPrice, i.DiscountPercent)
}

// LineTotal is the discounted price across the line's quantity.
func (i LineItem) LineTotal() decimal.Decimal {
	return pricing.LineTotal(i.UnitPrice, i.DiscountPercent, i.Quantity)
}

// ProductSnapshot captures the catalog fields copied onto a cart line
// when a product is added.
type ProductSnapshot struct {
	ProductID            string
	Name                 string
	UnitPrice            decimal.Decimal
	DiscountPercent      decimal.Decimal
	RequiresPrescription bool
	ImageURL             *string
}
