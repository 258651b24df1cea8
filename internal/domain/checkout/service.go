// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/identity"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/infrastructure/store/snapshot"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no items
	ErrEmptyCart = errors.New("cannot checkout with an empty cart")

	// ErrNotReady is returned when PlaceOrder is called before both the
	// shipping and payment steps validated
	ErrNotReady = errors.New("checkout steps incomplete")
)

// RemoteStore is the subset of the remote store the checkout service needs
type RemoteStore interface {
	Write(ctx context.Context, path string, value interface{}) error
	Push(prefix string) string
}

// Service drives the checkout wizard: it persists the session across
// requests, prices the cart and commits the final order.
type Service struct {
	snapshot *snapshot.Store
	remote   RemoteStore
	carts    *cart.Manager
	config   *config.Config
	logger   *logrus.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewService creates a checkout service
func NewService(snap *snapshot.Store, rs RemoteStore, carts *cart.Manager, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		snapshot: snap,
		remote:   rs,
		carts:    carts,
		config:   cfg,
		logger:   logger,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Session loads the persisted wizard session, or starts a fresh one at the
// shipping step with the signed-in identity's email prefilled.
func (s *Service) Session() *Session {
	var sess Session
	if s.snapshot.GetJSON(snapshot.KeyCheckoutSession, &sess) && sess.Step >= StepShipping {
		return &sess
	}

	fresh := NewSession()
	var id identity.Identity
	if s.snapshot.GetJSON(snapshot.KeyCurrentUser, &id) && id.Valid() {
		fresh.Shipping.Email = id.Email
	}
	return fresh
}

// Apply runs a wizard command against the persisted session and saves the
// result. Field errors and rejected commands leave the stored session alone.
func (s *Service) Apply(cmd Command) (*Session, FieldErrors, error) {
	sess := s.Session()

	fields, err := sess.Apply(cmd, s.now())
	if err != nil {
		return sess, nil, err
	}
	if !fields.Ok() {
		return sess, fields, nil
	}

	if err := s.snapshot.SetJSON(snapshot.KeyCheckoutSession, sess); err != nil {
		return nil, nil, fmt.Errorf("failed to persist checkout session: %w", err)
	}
	return sess, nil, nil
}

// Summary is the review-step view: the cart contents plus the priced totals
// for the session's shipping method and promo.
type Summary struct {
	Items   cart.Cart `json:"items"`
	Pricing Pricing   `json:"pricing"`
	Promo   *Promo    `json:"promo,omitempty"`
}

// Summarize prices the current cart against the session state
func (s *Service) Summarize(ctx context.Context) Summary {
	sess := s.Session()
	items := s.carts.Fetch(ctx)
	promo := sess.AppliedPromo()

	return Summary{
		Items: items,
		Pricing: ComputePricing(items, sess.Shipping.ShippingMethod, promo,
			s.config.Checkout.DefaultShippingCost, s.config.Checkout.TaxRate),
		Promo: promo,
	}
}

// Confirmation is returned to the caller once an order commits
type Confirmation struct {
	OrderID           string `json:"id"`
	OrderNumber       string `json:"orderNumber"`
	EstimatedDelivery string `json:"estimatedDelivery"`
	Total             string `json:"total"`
}

// PlaceOrder commits the checkout. The remote order write is the single
// commit point: if it fails the cart and session are left untouched so the
// submission can be retried. After the commit the cart is cleared in both
// stores and the wizard session is discarded.
func (s *Service) PlaceOrder(ctx context.Context) (*Confirmation, error) {
	sess := s.Session()
	if !sess.ReadyToPlace() {
		return nil, ErrNotReady
	}

	items := s.carts.Fetch(ctx)
	if items.IsEmpty() {
		return nil, ErrEmptyCart
	}

	// Simulated gateway latency. A cancelled context aborts before commit.
	if err := s.sleep(ctx, s.config.Checkout.ProcessingDelay); err != nil {
		return nil, err
	}

	now := s.now()
	pricing := ComputePricing(items, sess.Shipping.ShippingMethod, sess.AppliedPromo(),
		s.config.Checkout.DefaultShippingCost, s.config.Checkout.TaxRate)

	o := order.Order{
		OrderNumber:       fmt.Sprintf("%s%d", s.config.Checkout.OrderNumberPrefix, now.UnixMilli()),
		Date:              now.UTC(),
		Items:             items,
		Shipping:          sess.Shipping,
		Payment:           sess.Payment,
		Subtotal:          pricing.Subtotal,
		ShippingCost:      pricing.Shipping,
		Tax:               pricing.Tax,
		Discount:          pricing.Discount,
		Total:             pricing.Total,
		Status:            order.StatusConfirmed,
		EstimatedDelivery: estimatedDelivery(now, sess.Shipping.ShippingMethod),
	}

	var id identity.Identity
	if s.snapshot.GetJSON(snapshot.KeyCurrentUser, &id) && id.Valid() {
		o.User = &id
	}

	path := s.remote.Push("orders")
	o.ID = path[strings.LastIndex(path, "/")+1:]

	if err := s.remote.Write(ctx, path, o); err != nil {
		s.logger.WithError(err).Error("order commit failed")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"total":        o.Total.String(),
	}).Info("order placed")

	// Everything past the commit is best effort.
	s.appendLocalOrder(o)
	if err := s.carts.Clear(ctx); err != nil {
		s.logger.WithError(err).Warn("failed to clear cart after order")
	}
	if err := s.snapshot.Delete(snapshot.KeyCheckoutSession); err != nil {
		s.logger.WithError(err).Warn("failed to discard checkout session")
	}

	return &Confirmation{
		OrderID:           o.ID,
		OrderNumber:       o.OrderNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		Total:             o.Total.StringFixed(2),
	}, nil
}

// appendLocalOrder mirrors the committed order into the snapshot store's
// order list so history survives remote outages
func (s *Service) appendLocalOrder(o order.Order) {
	var orders []order.Order
	s.snapshot.GetJSON(snapshot.KeyOrders, &orders)
	orders = append(orders, o)
	if err := s.snapshot.SetJSON(snapshot.KeyOrders, orders); err != nil {
		s.logger.WithError(err).Warn("failed to mirror order into snapshot store")
	}
}

// estimatedDelivery formats the delivery date for the selected shipping
// method, e.g. "Monday, January 2, 2006"
func estimatedDelivery(now time.Time, methodID string) string {
	days := 7
	if m, ok := shippingMethodByID(normalizeShippingMethod(methodID)); ok {
		days = m.DeliveryDays
	}
	return now.AddDate(0, 0, days).Format("Monday, January 2, 2006")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
