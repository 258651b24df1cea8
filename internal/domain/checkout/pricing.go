// internal/domain/checkout/pricing.go
package checkout

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/cart"
)

// Promo is a static promo-code table entry: a multiplicative subtotal
// discount and/or a shipping-cost override. At most one promo applies at a
// time; applying a new one replaces the old.
type Promo struct {
	Code             string           `json:"code"`
	Description      string           `json:"description"`
	Discount         decimal.Decimal  `json:"discount"` // fraction of subtotal
	ShippingOverride *decimal.Decimal `json:"shipping,omitempty"`
}

var promoTable = buildPromoTable()

func buildPromoTable() map[string]Promo {
	freeShipping := decimal.Zero
	return map[string]Promo{
		"WELCOME10": {
			Code:        "WELCOME10",
			Description: "10% off your order",
			Discount:    decimal.RequireFromString("0.10"),
		},
		"BEAUTY20": {
			Code:        "BEAUTY20",
			Description: "20% off beauty items",
			Discount:    decimal.RequireFromString("0.20"),
		},
		"FREESHIP": {
			Code:             "FREESHIP",
			Description:      "Free shipping",
			ShippingOverride: &freeShipping,
		},
	}
}

// LookupPromo resolves a promo code, case-insensitively
func LookupPromo(code string) (*Promo, bool) {
	promo, ok := promoTable[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, false
	}
	return &promo, true
}

// ShippingMethod is a selectable shipping option
type ShippingMethod struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"delivery_days"` // calendar days
}

// ShippingMethods returns the selectable shipping options. Standard uses the
// configured default cost.
func ShippingMethods(defaultCost decimal.Decimal) []ShippingMethod {
	return []ShippingMethod{
		{ID: "standard", Name: "Standard Shipping", Price: defaultCost, DeliveryDays: 7},
		{ID: "express", Name: "Express Shipping", Price: decimal.RequireFromString("12.99"), DeliveryDays: 3},
		{ID: "overnight", Name: "Overnight Shipping", Price: decimal.RequireFromString("24.99"), DeliveryDays: 1},
	}
}

func shippingMethodByID(id string) (ShippingMethod, bool) {
	for _, m := range ShippingMethods(decimal.RequireFromString("5.99")) {
		if m.ID == id {
			return m, true
		}
	}
	return ShippingMethod{}, false
}

// Pricing is the order total breakdown: discounted subtotal, then shipping
// (method price or promo override), then tax on the discounted subtotal.
type Pricing struct {
	Subtotal decimal.Decimal `json:"subtotal"` // after discount
	Discount decimal.Decimal `json:"discount"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputePricing recomputes totals from scratch for the given cart, shipping
// method and promo. Amounts are rounded to 2 decimal places at each displayed
// boundary.
func ComputePricing(c cart.Cart, methodID string, promo *Promo, defaultShipping, taxRate decimal.Decimal) Pricing {
	subtotal := c.Subtotal()

	// The discount is applied at full precision; rounding happens only at
	// the displayed boundaries.
	discount := decimal.Zero
	if promo != nil && promo.Discount.IsPositive() {
		discount = subtotal.Mul(promo.Discount)
	}
	discounted := subtotal.Sub(discount)

	shipping := defaultShipping
	for _, m := range ShippingMethods(defaultShipping) {
		if m.ID == methodID {
			shipping = m.Price
			break
		}
	}
	if promo != nil && promo.ShippingOverride != nil {
		shipping = *promo.ShippingOverride
	}

	tax := discounted.Mul(taxRate).Round(2)
	total := discounted.Add(shipping).Add(tax).Round(2)

	return Pricing{
		Subtotal: discounted.Round(2),
		Discount: discount.Round(2),
		Shipping: shipping,
		Tax:      tax,
		Total:    total,
	}
}
