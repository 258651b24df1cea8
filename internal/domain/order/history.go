// internal/domain/order/history.go
package order

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/identity"
	"github.com/your-org/storefront-backend/internal/infrastructure/store/snapshot"
)

// RemoteStore is the subset of the remote store the history viewer needs
type RemoteStore interface {
	Read(ctx context.Context, path string, dest interface{}) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// History fetches and filters the order collection. The whole collection is
// fetched and scanned client-side; there is no pagination and no server-side
// filtering.
type History struct {
	snapshot *snapshot.Store
	remote   RemoteStore
	logger   *logrus.Logger
}

// NewHistory creates an order history viewer
func NewHistory(snap *snapshot.Store, rs RemoteStore, logger *logrus.Logger) *History {
	return &History{snapshot: snap, remote: rs, logger: logger}
}

// List returns the current identity's orders, newest first. The remote
// collection is preferred; on failure the snapshot store's local order list
// is used. Without an identity every order is returned.
func (h *History) List(ctx context.Context) []Order {
	orders, err := h.fetchRemote(ctx)
	if err != nil {
		h.logger.WithError(err).Warn("remote order fetch failed, falling back to snapshot")
		orders = h.fetchLocal()
	}

	orders = h.filterByIdentity(orders)

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})
	return orders
}

// Get returns a single order by its store key or order number, restricted to
// the current identity's orders
func (h *History) Get(ctx context.Context, key string) (*Order, error) {
	for _, o := range h.List(ctx) {
		if o.ID == key || o.OrderNumber == key {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order %q not found", key)
}

func (h *History) fetchRemote(ctx context.Context) ([]Order, error) {
	paths, err := h.remote.List(ctx, "orders")
	if err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(paths))
	for _, path := range paths {
		var o Order
		if err := h.remote.Read(ctx, path, &o); err != nil {
			h.logger.WithError(err).WithField("path", path).Warn("skipping unreadable order record")
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (h *History) fetchLocal() []Order {
	var orders []Order
	if !h.snapshot.GetJSON(snapshot.KeyOrders, &orders) {
		return nil
	}
	return orders
}

func (h *History) filterByIdentity(orders []Order) []Order {
	var id identity.Identity
	if !h.snapshot.GetJSON(snapshot.KeyCurrentUser, &id) || !id.Valid() {
		return orders
	}

	matched := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.BelongsTo(id) {
			matched = append(matched, o)
		}
	}
	return matched
}
