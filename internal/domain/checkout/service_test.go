package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/identity"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/infrastructure/store/snapshot"
)

type fakeRemote struct {
	data      map[string]string
	pushCount int
	failWrite bool
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{data: make(map[string]string)}
}

func (f *fakeRemote) Read(_ context.Context, path string, dest interface{}) error {
	raw, ok := f.data[path]
	if !ok {
		return fmt.Errorf("not found")
	}
	return json.Unmarshal([]byte(raw), dest)
}

func (f *fakeRemote) Write(_ context.Context, path string, value interface{}) error {
	if f.failWrite {
		return fmt.Errorf("remote store unavailable")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[path] = string(raw)
	return nil
}

func (f *fakeRemote) Delete(_ context.Context, path string) error {
	delete(f.data, path)
	return nil
}

func (f *fakeRemote) Push(prefix string) string {
	f.pushCount++
	return fmt.Sprintf("%s/key-%d", prefix, f.pushCount)
}

func checkoutTestConfig() *config.Config {
	return &config.Config{
		Checkout: config.CheckoutConfig{
			TaxRate:                decimal.RequireFromString("0.08"),
			DefaultShippingCost:    decimal.RequireFromString("5.99"),
			MaxItemQuantity:        99,
			RemoveConfirmThreshold: decimal.RequireFromString("20"),
			ProcessingDelay:        3 * time.Second,
			OrderNumberPrefix:      "BG",
		},
	}
}

func newTestService(t *testing.T) (*Service, *snapshot.Store, *fakeRemote) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	snap, err := snapshot.Open(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = snap.Close() })

	rs := newFakeRemote()
	cfg := checkoutTestConfig()
	carts := cart.NewManager(snap, rs, cfg, logger)

	svc := NewService(snap, rs, carts, cfg, logger)
	svc.now = func() time.Time {
		return time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)
	}
	svc.sleep = func(context.Context, time.Duration) error { return nil }
	return svc, snap, rs
}

func seedCart(t *testing.T, snap *snapshot.Store) {
	t.Helper()
	require.NoError(t, snap.SetJSON(snapshot.KeyCart, pricingCart()))
}

func walkToReview(t *testing.T, svc *Service) {
	t.Helper()
	for _, cmd := range []Command{
		SetShipping{Form: validShippingForm()},
		Next{},
		SetPayment{Form: validCardForm()},
		Next{},
	} {
		_, fields, err := svc.Apply(cmd)
		require.NoError(t, err)
		require.True(t, fields.Ok())
	}
}

func TestService_SessionPersistsAcrossLoads(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, fields, err := svc.Apply(SetShipping{Form: validShippingForm()})
	require.NoError(t, err)
	require.True(t, fields.Ok())

	reloaded := svc.Session()
	assert.True(t, reloaded.ShippingValid)
	assert.Equal(t, "Jane", reloaded.Shipping.FirstName)
}

func TestService_FreshSessionPrefillsIdentityEmail(t *testing.T) {
	svc, snap, _ := newTestService(t)

	require.NoError(t, snap.SetJSON(snapshot.KeyCurrentUser, identity.Identity{
		UID: "uid-1", Email: "me@shop.com", Username: "me",
	}))

	sess := svc.Session()
	assert.Equal(t, StepShipping, sess.Step)
	assert.Equal(t, "me@shop.com", sess.Shipping.Email)
}

func TestService_RejectedCommandNotPersisted(t *testing.T) {
	svc, _, _ := newTestService(t)

	form := validShippingForm()
	form.Email = "a@b"
	_, fields, err := svc.Apply(SetShipping{Form: form})
	require.NoError(t, err)
	assert.Contains(t, fields, "email")

	assert.False(t, svc.Session().ShippingValid)
}

func TestService_Summarize(t *testing.T) {
	svc, snap, _ := newTestService(t)
	seedCart(t, snap)
	walkToReview(t, svc)

	_, _, err := svc.Apply(ApplyPromo{Code: "WELCOME10"})
	require.NoError(t, err)

	summary := svc.Summarize(context.Background())
	require.Len(t, summary.Items, 1)
	require.NotNil(t, summary.Promo)
	assertDecimal(t, "26.98", summary.Pricing.Subtotal)
	assertDecimal(t, "35.13", summary.Pricing.Total)
}

func TestService_PlaceOrder(t *testing.T) {
	svc, snap, rs := newTestService(t)
	seedCart(t, snap)
	require.NoError(t, snap.SetJSON(snapshot.KeyCurrentUser, identity.Identity{
		UID: "uid-1", Email: "jane@shop.com", Username: "jane",
	}))
	walkToReview(t, svc)

	conf, err := svc.PlaceOrder(context.Background())
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^BG\d{13}$`), conf.OrderNumber)
	assert.Equal(t, "Monday, June 22, 2026", conf.EstimatedDelivery)
	assert.Equal(t, "38.37", conf.Total)

	// the order committed to the remote store
	raw, ok := rs.data["orders/key-1"]
	require.True(t, ok)
	var committed order.Order
	require.NoError(t, json.Unmarshal([]byte(raw), &committed))
	assert.Equal(t, "key-1", committed.ID)
	assert.Equal(t, order.StatusConfirmed, committed.Status)
	require.NotNil(t, committed.User)
	assert.Equal(t, "uid-1", committed.User.UID)

	// cart and wizard session are gone
	assert.True(t, svc.carts.Fetch(context.Background()).IsEmpty())
	var sess Session
	assert.False(t, snap.GetJSON(snapshot.KeyCheckoutSession, &sess))

	// local order mirror for offline history
	var local []order.Order
	require.True(t, snap.GetJSON(snapshot.KeyOrders, &local))
	require.Len(t, local, 1)
	assert.Equal(t, conf.OrderNumber, local[0].OrderNumber)
}

func TestService_PlaceOrderNeverPersistsRawCardData(t *testing.T) {
	svc, snap, rs := newTestService(t)
	seedCart(t, snap)
	walkToReview(t, svc)

	_, err := svc.PlaceOrder(context.Background())
	require.NoError(t, err)

	for path, raw := range rs.data {
		assert.NotContains(t, raw, "4242424242424242", path)
		assert.NotContains(t, raw, "4242 4242 4242 4242", path)
		assert.NotContains(t, raw, "12/27", path)
		assert.NotContains(t, raw, `"cvv"`, path)
	}

	var committed order.Order
	require.NoError(t, json.Unmarshal([]byte(rs.data["orders/key-1"]), &committed))
	assert.Equal(t, "************4242", committed.Payment.MaskedCardNumber)
}

func TestService_PlaceOrderRemoteFailureKeepsCart(t *testing.T) {
	svc, snap, rs := newTestService(t)
	seedCart(t, snap)
	walkToReview(t, svc)
	rs.failWrite = true

	_, err := svc.PlaceOrder(context.Background())
	require.Error(t, err)

	// cart and session survive so the submission can be retried
	assert.False(t, svc.carts.Fetch(context.Background()).IsEmpty())
	assert.True(t, svc.Session().ReadyToPlace())
}

func TestService_PlaceOrderGuards(t *testing.T) {
	svc, snap, _ := newTestService(t)

	// steps incomplete
	seedCart(t, snap)
	_, err := svc.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)

	// empty cart
	walkToReview(t, svc)
	require.NoError(t, snap.SetJSON(snapshot.KeyCart, cart.Cart{}))
	_, err = svc.PlaceOrder(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestService_PlaceOrderHonorsCancellation(t *testing.T) {
	svc, snap, _ := newTestService(t)
	seedCart(t, snap)
	walkToReview(t, svc)
	svc.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.PlaceOrder(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.False(t, svc.carts.Fetch(context.Background()).IsEmpty())
}
