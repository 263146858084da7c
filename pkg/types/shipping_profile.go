package types

import "strings"

// ShippingProfile carries the delivery contact details collected at checkout.
// fullName, phone, address, and city must be present before an order can be
// submitted; the remaining fields are optional.
type ShippingProfile struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

// MissingFields lists the mandatory fields that are blank after trimming.
func (p ShippingProfile) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(p.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(p.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(p.City) == "" {
		missing = append(missing, "city")
	}
	return missing
}
