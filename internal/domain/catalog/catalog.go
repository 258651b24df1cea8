// internal/domain/catalog/catalog.go
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/infrastructure/store/snapshot"
)

// Product is a storefront listing entry
type Product struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// Service serves the product listing. The listing is seeded into the
// snapshot store so the quick-add helper can work from the same data the
// storefront renders.
type Service struct {
	snapshot *snapshot.Store
	logger   *logrus.Logger
}

// NewService creates a catalog service and seeds the product listing if the
// snapshot store has none
func NewService(snap *snapshot.Store, logger *logrus.Logger) *Service {
	s := &Service{snapshot: snap, logger: logger}

	var existing []Product
	if !snap.GetJSON(snapshot.KeyProducts, &existing) || len(existing) == 0 {
		if err := snap.SetJSON(snapshot.KeyProducts, defaultProducts()); err != nil {
			logger.WithError(err).Warn("failed to seed product listing")
		}
	}

	return s
}

// List returns the product listing
func (s *Service) List() []Product {
	var products []Product
	if !s.snapshot.GetJSON(snapshot.KeyProducts, &products) {
		return defaultProducts()
	}
	return products
}

// Find returns the product with the given id
func (s *Service) Find(id int) (*Product, error) {
	for _, p := range s.List() {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product %d not found", id)
}

func defaultProducts() []Product {
	return []Product{
		{ID: 1, Name: "Velvet Matte Lipstick", Price: decimal.RequireFromString("14.99"), Image: "images/lipstick.jpg"},
		{ID: 2, Name: "Glow Highlighter Palette", Price: decimal.RequireFromString("22.50"), Image: "images/highlighter.jpg"},
		{ID: 3, Name: "Silky Foundation", Price: decimal.RequireFromString("18.99"), Image: "images/foundation.jpg"},
		{ID: 4, Name: "Luxury Perfume", Price: decimal.RequireFromString("35.00"), Image: "images/perfume.jpg"},
		{ID: 5, Name: "Moisturizing Face Cream", Price: decimal.RequireFromString("16.75"), Image: "images/facecream.jpg"},
		{ID: 6, Name: "Nail Polish Set", Price: decimal.RequireFromString("12.50"), Image: "images/nailpolish.jpg"},
	}
}
