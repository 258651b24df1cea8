package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/domain/cart"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricingCart() cart.Cart {
	return cart.Cart{
		{ID: 1, Name: "Radiant Glow Serum", Price: dec("14.99"), Quantity: 2},
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestComputePricing_StandardNoPromo(t *testing.T) {
	p := ComputePricing(pricingCart(), "standard", nil, dec("5.99"), dec("0.08"))

	assertDecimal(t, "29.98", p.Subtotal)
	assertDecimal(t, "0", p.Discount)
	assertDecimal(t, "5.99", p.Shipping)
	assertDecimal(t, "2.40", p.Tax) // 29.98 * 0.08 = 2.3984
	assertDecimal(t, "38.37", p.Total)
}

func TestComputePricing_PercentagePromo(t *testing.T) {
	promo, ok := LookupPromo("WELCOME10")
	require.True(t, ok)

	p := ComputePricing(pricingCart(), "standard", promo, dec("5.99"), dec("0.08"))

	assertDecimal(t, "3.00", p.Discount)
	assertDecimal(t, "26.98", p.Subtotal)
	assertDecimal(t, "2.16", p.Tax) // tax on the discounted subtotal
	assertDecimal(t, "35.13", p.Total)
}

func TestComputePricing_FreeShippingPromo(t *testing.T) {
	promo, ok := LookupPromo("freeship")
	require.True(t, ok)

	p := ComputePricing(pricingCart(), "standard", promo, dec("5.99"), dec("0.08"))

	assertDecimal(t, "29.98", p.Subtotal)
	assertDecimal(t, "0", p.Discount)
	assertDecimal(t, "0", p.Shipping)
	assertDecimal(t, "32.38", p.Total)
}

func TestComputePricing_ShippingMethods(t *testing.T) {
	express := ComputePricing(pricingCart(), "express", nil, dec("5.99"), dec("0.08"))
	assertDecimal(t, "12.99", express.Shipping)
	assertDecimal(t, "45.37", express.Total)

	overnight := ComputePricing(pricingCart(), "overnight", nil, dec("5.99"), dec("0.08"))
	assertDecimal(t, "24.99", overnight.Shipping)

	// unknown methods fall back to the default cost
	unknown := ComputePricing(pricingCart(), "carrier-pigeon", nil, dec("5.99"), dec("0.08"))
	assertDecimal(t, "5.99", unknown.Shipping)
}

func TestComputePricing_EmptyCart(t *testing.T) {
	p := ComputePricing(cart.Cart{}, "standard", nil, dec("5.99"), dec("0.08"))
	assertDecimal(t, "0", p.Subtotal)
	assertDecimal(t, "0", p.Tax)
	assertDecimal(t, "5.99", p.Total)
}

func TestLookupPromo(t *testing.T) {
	for _, code := range []string{"WELCOME10", "welcome10", " Beauty20 "} {
		_, ok := LookupPromo(code)
		assert.True(t, ok, code)
	}
	_, ok := LookupPromo("NOPE")
	assert.False(t, ok)
}

func TestShippingMethods_DeliveryDays(t *testing.T) {
	methods := ShippingMethods(dec("5.99"))
	require.Len(t, methods, 3)
	assert.Equal(t, 7, methods[0].DeliveryDays)
	assert.Equal(t, 3, methods[1].DeliveryDays)
	assert.Equal(t, 1, methods[2].DeliveryDays)
}
