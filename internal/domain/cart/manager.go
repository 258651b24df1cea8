// internal/domain/cart/manager.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/identity"
	"github.com/your-org/storefront-backend/internal/infrastructure/store/remote"
	"github.com/your-org/storefront-backend/internal/infrastructure/store/snapshot"
)

var (
	// ErrQuantityLimit is returned when an increment would exceed the
	// per-item quantity cap.
	ErrQuantityLimit = errors.New("item quantity limit reached")

	// ErrRemovalPrompt is returned when a decrement would take quantity
	// below 1. The caller is expected to offer removal instead.
	ErrRemovalPrompt = errors.New("quantity cannot drop below 1; remove the item instead")

	// ErrConfirmRequired is returned when removing an item above the price
	// threshold without confirmation.
	ErrConfirmRequired = errors.New("removal requires confirmation")

	// ErrIndexOutOfRange is returned for an invalid cart index.
	ErrIndexOutOfRange = errors.New("cart index out of range")
)

// RemoteStore is the subset of the remote store the cart manager needs
type RemoteStore interface {
	Read(ctx context.Context, path string, dest interface{}) error
	Write(ctx context.Context, path string, value interface{}) error
	Delete(ctx context.Context, path string) error
}

// Manager owns the shopping cart: it merges and persists cart state across
// the snapshot store (always) and the remote store (best effort, when an
// identity is present).
type Manager struct {
	snapshot *snapshot.Store
	remote   RemoteStore
	config   *config.Config
	logger   *logrus.Logger
}

// NewManager creates a new cart manager
func NewManager(snap *snapshot.Store, rs RemoteStore, cfg *config.Config, logger *logrus.Logger) *Manager {
	return &Manager{
		snapshot: snap,
		remote:   rs,
		config:   cfg,
		logger:   logger,
	}
}

// Fetch loads the current cart. With an identity present it reads the remote
// store keyed by uid and falls back to the snapshot store on failure; without
// one the snapshot store is authoritative. Unset or malformed values yield an
// empty cart.
func (m *Manager) Fetch(ctx context.Context) Cart {
	if id := m.currentIdentity(); id != nil {
		var remoteCart Cart
		err := m.remote.Read(ctx, cartPath(id.UID), &remoteCart)
		if err == nil {
			return sanitize(remoteCart, m.logger)
		}
		if !errors.Is(err, remote.ErrNotFound) {
			m.logger.WithError(err).Warn("remote cart read failed, falling back to snapshot")
		}
	}

	var localCart Cart
	if !m.snapshot.GetJSON(snapshot.KeyCart, &localCart) {
		return Cart{}
	}
	return sanitize(localCart, m.logger)
}

// Persist writes the cart. The snapshot write is the durability guarantee;
// the remote write is fire-and-forget relative to the caller and its failure
// is logged, never surfaced.
func (m *Manager) Persist(ctx context.Context, c Cart) error {
	if err := m.snapshot.SetJSON(snapshot.KeyCart, c); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}

	if id := m.currentIdentity(); id != nil {
		if err := m.remote.Write(ctx, cartPath(id.UID), c); err != nil {
			m.logger.WithError(err).WithField("uid", id.UID).Warn("best-effort remote cart write failed")
		}
	}

	return nil
}

// AddOrIncrement merges an item into the cart: an existing id gets its
// quantity incremented (capped), a new id is appended with quantity 1.
func (m *Manager) AddOrIncrement(ctx context.Context, item Item) (Cart, error) {
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	c := m.Fetch(ctx)

	if i := c.IndexOf(item.ID); i >= 0 {
		if c[i].Quantity+item.Quantity > m.config.Checkout.MaxItemQuantity {
			m.logger.WithField("item_id", item.ID).Warn("increment rejected: quantity cap reached")
			return c, ErrQuantityLimit
		}
		c[i].Quantity += item.Quantity
	} else {
		if item.Quantity > m.config.Checkout.MaxItemQuantity {
			return c, ErrQuantityLimit
		}
		c = append(c, item)
	}

	if err := m.Persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ChangeQuantity adjusts the quantity of the item at index by delta, clamped
// to the [1, max] range. A decrement that would drop below 1 returns
// ErrRemovalPrompt and leaves the cart unchanged.
func (m *Manager) ChangeQuantity(ctx context.Context, index, delta int) (Cart, error) {
	c := m.Fetch(ctx)
	if index < 0 || index >= len(c) {
		return c, ErrIndexOutOfRange
	}

	next := c[index].Quantity + delta
	if next < 1 {
		return c, ErrRemovalPrompt
	}
	if next > m.config.Checkout.MaxItemQuantity {
		return c, ErrQuantityLimit
	}

	c[index].Quantity = next
	if err := m.Persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetQuantity sets an absolute quantity for the item at index, with the same
// policy as ChangeQuantity
func (m *Manager) SetQuantity(ctx context.Context, index, quantity int) (Cart, error) {
	c := m.Fetch(ctx)
	if index < 0 || index >= len(c) {
		return c, ErrIndexOutOfRange
	}
	return m.ChangeQuantity(ctx, index, quantity-c[index].Quantity)
}

// Remove deletes the item at index. Items whose unit price exceeds the
// confirmation threshold are only removed when confirmed is set.
func (m *Manager) Remove(ctx context.Context, index int, confirmed bool) (Cart, error) {
	c := m.Fetch(ctx)
	if index < 0 || index >= len(c) {
		return c, ErrIndexOutOfRange
	}

	if !confirmed && c[index].Price.GreaterThan(m.config.Checkout.RemoveConfirmThreshold) {
		return c, ErrConfirmRequired
	}

	c = append(c[:index], c[index+1:]...)
	if err := m.Persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the cart in both stores
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.snapshot.SetJSON(snapshot.KeyCart, Cart{}); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	if id := m.currentIdentity(); id != nil {
		if err := m.remote.Delete(ctx, cartPath(id.UID)); err != nil {
			m.logger.WithError(err).WithField("uid", id.UID).Warn("best-effort remote cart delete failed")
		}
	}

	return nil
}

// SaveForLater moves the item at index from the cart to the saved-items list
func (m *Manager) SaveForLater(ctx context.Context, index int) (Cart, error) {
	c := m.Fetch(ctx)
	if index < 0 || index >= len(c) {
		return c, ErrIndexOutOfRange
	}

	saved := m.SavedItems()
	item := c[index]
	if i := saved.IndexOf(item.ID); i >= 0 {
		saved[i].Quantity += item.Quantity
		if saved[i].Quantity > m.config.Checkout.MaxItemQuantity {
			saved[i].Quantity = m.config.Checkout.MaxItemQuantity
		}
	} else {
		saved = append(saved, item)
	}

	if err := m.snapshot.SetJSON(snapshot.KeySavedItems, saved); err != nil {
		return nil, fmt.Errorf("failed to persist saved items: %w", err)
	}

	c = append(c[:index], c[index+1:]...)
	if err := m.Persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// MoveToCart moves the saved item at index back into the cart
func (m *Manager) MoveToCart(ctx context.Context, index int) (Cart, error) {
	saved := m.SavedItems()
	if index < 0 || index >= len(saved) {
		return nil, ErrIndexOutOfRange
	}

	item := saved[index]
	c, err := m.AddOrIncrement(ctx, item)
	if err != nil {
		return c, err
	}

	saved = append(saved[:index], saved[index+1:]...)
	if err := m.snapshot.SetJSON(snapshot.KeySavedItems, saved); err != nil {
		return nil, fmt.Errorf("failed to persist saved items: %w", err)
	}
	return c, nil
}

// SavedItems returns the save-for-later list from the snapshot store
func (m *Manager) SavedItems() Cart {
	var saved Cart
	if !m.snapshot.GetJSON(snapshot.KeySavedItems, &saved) {
		return Cart{}
	}
	return sanitize(saved, m.logger)
}

func (m *Manager) currentIdentity() *identity.Identity {
	var id identity.Identity
	if !m.snapshot.GetJSON(snapshot.KeyCurrentUser, &id) {
		return nil
	}
	if !id.Valid() {
		return nil
	}
	return &id
}

func cartPath(uid string) string {
	return "carts/" + uid
}

// sanitize drops stored entries that fail validation at the boundary instead
// of letting them flow into the cart
func sanitize(c Cart, logger *logrus.Logger) Cart {
	clean := make(Cart, 0, len(c))
	for _, item := range c {
		if err := item.Validate(); err != nil {
			logger.WithError(err).Warn("dropping malformed stored cart item")
			continue
		}
		clean = append(clean, item)
	}
	return clean
}
