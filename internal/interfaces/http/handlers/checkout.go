// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// CheckoutHandler handles the checkout wizard endpoints
type CheckoutHandler struct {
	checkout *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc}
}

// PromoRequest carries a promo code
type PromoRequest struct {
	Code string `json:"code" binding:"required"`
}

// GetSession handles GET /checkout
func (h *CheckoutHandler) GetSession(c *gin.Context) {
	summary := h.checkout.Summarize(c.Request.Context())
	if summary.Items.IsEmpty() {
		c.JSON(http.StatusConflict, gin.H{
			"error":    "Your cart is empty",
			"redirect": "/cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"session": h.checkout.Session(),
			"summary": summary,
		},
	})
}

// SetShipping handles PUT /checkout/shipping
func (h *CheckoutHandler) SetShipping(c *gin.Context) {
	var form order.ShippingInfo
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.apply(c, checkout.SetShipping{Form: form})
}

// SetPayment handles PUT /checkout/payment
func (h *CheckoutHandler) SetPayment(c *gin.Context) {
	var form checkout.PaymentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.apply(c, checkout.SetPayment{Form: form})
}

// ApplyPromo handles POST /checkout/promo
func (h *CheckoutHandler) ApplyPromo(c *gin.Context) {
	var req PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.apply(c, checkout.ApplyPromo{Code: req.Code})
}

// RemovePromo handles DELETE /checkout/promo
func (h *CheckoutHandler) RemovePromo(c *gin.Context) {
	h.apply(c, checkout.RemovePromo{})
}

// NextStep handles POST /checkout/next
func (h *CheckoutHandler) NextStep(c *gin.Context) {
	h.apply(c, checkout.Next{})
}

// PrevStep handles POST /checkout/prev
func (h *CheckoutHandler) PrevStep(c *gin.Context) {
	h.apply(c, checkout.Prev{})
}

// PlaceOrder handles POST /checkout/order
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	confirmation, err := h.checkout.PlaceOrder(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(http.StatusConflict, gin.H{
				"error":    "Your cart is empty",
				"redirect": "/cart",
			})
		case errors.Is(err, checkout.ErrNotReady):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Complete the shipping and payment steps first",
			})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusRequestTimeout, gin.H{
				"error": "Checkout was cancelled",
			})
		default:
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Order could not be placed. Please try again.",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    confirmation,
	})
}

func (h *CheckoutHandler) apply(c *gin.Context, cmd checkout.Command) {
	session, fields, err := h.checkout.Apply(cmd)
	if err != nil {
		if errors.Is(err, checkout.ErrUnknownPromo) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid promo code",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update checkout",
		})
		return
	}

	if !fields.Ok() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Validation failed",
			"fields": fields,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"session": session,
			"summary": h.checkout.Summarize(c.Request.Context()),
		},
	})
}
