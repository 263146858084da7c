package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// DiscountedUnitPrice applies a percentage discount to a unit price:
// unitPrice * (1 - discountPercent/100). The result keeps full precision;
// callers round only at display or final-total boundaries.
func DiscountedUnitPrice(unitPrice, discountPercent decimal.Decimal) decimal.Decimal {
	if discountPercent.IsZero() {
		return unitPrice
	}
	return unitPrice.Sub(unitPrice.Mul(discountPercent).Div(hundred))
}

// LineTotal is the discounted unit price multiplied by the quantity.
func LineTotal(unitPrice, discountPercent decimal.Decimal, quantity int) decimal.Decimal {
	return DiscountedUnitPrice(unitPrice, discountPercent).Mul(decimal.NewFromInt(int64(quantity)))
}

// Round2 rounds half away from zero to two decimal places. Applied only
// when a value crosses into a display or order-total field.
func Round2(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}
