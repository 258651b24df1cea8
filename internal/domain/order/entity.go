// internal/domain/order/entity.go
package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/identity"
)

// Status represents the order status
type Status string

const (
	StatusConfirmed Status = "confirmed"
)

// ShippingInfo captures the checkout shipping step. It is immutable once the
// step validates.
type ShippingInfo struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zipCode"`
	Country        string `json:"country"`
	ShippingMethod string `json:"shippingMethod"`
}

// PaymentRecord is the durable projection of the payment step. Raw card
// numbers, expiry dates and CVVs are stripped before anything is written to
// either store; only the method, cardholder name and a masked number survive.
type PaymentRecord struct {
	Method           string `json:"method"` // "card" or "paypal"
	CardholderName   string `json:"cardName,omitempty"`
	MaskedCardNumber string `json:"cardNumber,omitempty"`
}

// MaskCardNumber masks all but the last four digits of a card number
func MaskCardNumber(number string) string {
	clean := strings.ReplaceAll(number, " ", "")
	if len(clean) <= 4 {
		return clean
	}
	return strings.Repeat("*", len(clean)-4) + clean[len(clean)-4:]
}

// Order is the immutable record of a completed checkout submission
type Order struct {
	ID                string             `json:"id,omitempty"` // store-assigned key
	OrderNumber       string             `json:"orderNumber"`
	Date              time.Time          `json:"date"`
	Items             cart.Cart          `json:"items"`
	Shipping          ShippingInfo       `json:"shipping"`
	Payment           PaymentRecord      `json:"payment"`
	Subtotal          decimal.Decimal    `json:"subtotal"`
	ShippingCost      decimal.Decimal    `json:"shippingCost"`
	Tax               decimal.Decimal    `json:"tax"`
	Discount          decimal.Decimal    `json:"discount"`
	Total             decimal.Decimal    `json:"total"`
	Status            Status             `json:"status"`
	EstimatedDelivery string             `json:"estimatedDelivery,omitempty"`
	User              *identity.Identity `json:"user,omitempty"`
}

// BelongsTo reports whether the order belongs to the given identity: a uid
// match wins outright; an order without a user record matches by shipping
// email only.
func (o Order) BelongsTo(id identity.Identity) bool {
	if o.User != nil && id.UID != "" && o.User.UID == id.UID {
		return true
	}
	if id.Email != "" && o.Shipping.Email == id.Email {
		return true
	}
	return false
}
