// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	carts   *cart.Manager
	catalog *catalog.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Manager, cat *catalog.Service) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: cat,
	}
}

// AddItemRequest adds a catalog product to the cart
type AddItemRequest struct {
	ProductID int `json:"id" binding:"required"`
	Quantity  int `json:"quantity"`
}

// UpdateItemRequest adjusts a cart line. Exactly one of quantity or delta is
// expected; quantity wins when both are sent.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity"`
	Delta    *int `json:"delta"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	items := h.carts.Fetch(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data": gin.H{
			"items":   items,
			"summary": cart.Summarize(items),
		},
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalog.Find(req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	item := cart.Item{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Image:    product.Image,
		Quantity: req.Quantity,
	}

	items, err := h.carts.AddOrIncrement(c.Request.Context(), item)
	if err != nil {
		h.renderCartError(c, items, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data": gin.H{
			"items":   items,
			"summary": cart.Summarize(items),
		},
	})
}

// UpdateItem handles PUT /cart/items/:index
func (h *CartHandler) UpdateItem(c *gin.Context) {
	index, ok := h.parseIndex(c)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	var items cart.Cart
	var err error
	switch {
	case req.Quantity != nil:
		items, err = h.carts.SetQuantity(c.Request.Context(), index, *req.Quantity)
	case req.Delta != nil:
		items, err = h.carts.ChangeQuantity(c.Request.Context(), index, *req.Delta)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Either quantity or delta is required",
		})
		return
	}
	if err != nil {
		h.renderCartError(c, items, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data": gin.H{
			"items":   items,
			"summary": cart.Summarize(items),
		},
	})
}

// RemoveItem handles DELETE /cart/items/:index
func (h *CartHandler) RemoveItem(c *gin.Context) {
	index, ok := h.parseIndex(c)
	if !ok {
		return
	}

	confirmed := c.Query("confirm") == "true"
	items, err := h.carts.Remove(c.Request.Context(), index, confirmed)
	if err != nil {
		h.renderCartError(c, items, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data": gin.H{
			"items":   items,
			"summary": cart.Summarize(items),
		},
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}

// SaveForLater handles POST /cart/items/:index/save
func (h *CartHandler) SaveForLater(c *gin.Context) {
	index, ok := h.parseIndex(c)
	if !ok {
		return
	}

	items, err := h.carts.SaveForLater(c.Request.Context(), index)
	if err != nil {
		h.renderCartError(c, items, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item saved for later",
		"data": gin.H{
			"items": items,
			"saved": h.carts.SavedItems(),
		},
	})
}

// GetSavedItems handles GET /cart/saved
func (h *CartHandler) GetSavedItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": h.carts.SavedItems(),
	})
}

// MoveToCart handles POST /cart/saved/:index/move
func (h *CartHandler) MoveToCart(c *gin.Context) {
	index, ok := h.parseIndex(c)
	if !ok {
		return
	}

	items, err := h.carts.MoveToCart(c.Request.Context(), index)
	if err != nil {
		h.renderCartError(c, items, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item moved to cart",
		"data": gin.H{
			"items": items,
			"saved": h.carts.SavedItems(),
		},
	})
}

func (h *CartHandler) parseIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cart index",
		})
		return 0, false
	}
	return index, true
}

// renderCartError maps cart manager errors onto HTTP responses. The prompt
// and confirmation cases return the untouched cart so the client can rerender.
func (h *CartHandler) renderCartError(c *gin.Context, items cart.Cart, err error) {
	switch {
	case errors.Is(err, cart.ErrRemovalPrompt):
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Quantity cannot go below 1",
			"action": "remove",
			"data":   gin.H{"items": items},
		})
	case errors.Is(err, cart.ErrConfirmRequired):
		c.JSON(http.StatusConflict, gin.H{
			"error":            "This item needs removal confirmation",
			"confirm_required": true,
			"data":             gin.H{"items": items},
		})
	case errors.Is(err, cart.ErrQuantityLimit):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Item quantity limit reached",
		})
	case errors.Is(err, cart.ErrIndexOutOfRange):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Cart item not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart",
		})
	}
}
