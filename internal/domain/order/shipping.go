package order

import "strings"

// Address is the shipping address collected by the payment provider.
// Every part is optional.
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
}

// Format joins the non-empty parts with ", " in line1, line2, city, state,
// postal code order.
func (a Address) Format() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ShippingDetails is what a completed checkout tells us about delivery
type ShippingDetails struct {
	Address Address
	Phone   string
}
