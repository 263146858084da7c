package eligibility

import "github.com/gadgetshub/storefront-backend/internal/cart"

// IsPayable reports whether the line can be purchased right now. Lines
// that require a prescription are blocked until one has been attached.
func IsPayable(item cart.LineItem) bool {
	return !item.RequiresPrescription || item.PrescriptionRef != nil
}

// Partition splits the cart into payable and blocked lines. Every line
// lands in exactly one of the two slices; relative order is preserved.
func Partition(items []cart.LineItem) (payable, blocked []cart.LineItem) {
	for _, item := range items {
		if IsPayable(item) {
			payable = append(payable, item)
		} else {
			blocked = append(blocked, item)
		}
	}
	return payable, blocked
}

// Payable returns only the lines eligible for purchase.
func Payable(items []cart.LineItem) []cart.LineItem {
	payable, _ := Partition(items)
	return payable
}

// Blocked returns only the lines awaiting a prescription.
func Blocked(items []cart.LineItem) []cart.LineItem {
	_, blocked := Partition(items)
	return blocked
}
