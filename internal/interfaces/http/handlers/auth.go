// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/identity"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	ids        *identity.Service
	jwtManager *auth.JWTManager
	config     *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(ids *identity.Service, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		ids:        ids,
		jwtManager: auth.NewJWTManager(cfg),
		config:     cfg,
	}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest is the password-reset payload
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	id, err := h.ids.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.renderAuthError(c, http.StatusUnauthorized, err)
		return
	}

	token, err := h.jwtManager.GenerateToken(id.UID, id.Email, id.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create session",
		})
		return
	}

	response := gin.H{
		"user":  id,
		"token": token,
	}
	if redirect := h.ids.ConsumeRedirect(); redirect != "" {
		response["redirect"] = redirect
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully",
		"data":    response,
	})
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	id, err := h.ids.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.renderAuthError(c, http.StatusBadRequest, err)
		return
	}

	token, err := h.jwtManager.GenerateToken(id.UID, id.Email, id.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create session",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"data": gin.H{
			"user":  id,
			"token": token,
		},
	})
}

// ForgotPassword handles POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.ids.ResetPassword(c.Request.Context(), req.Email); err != nil {
		h.renderAuthError(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset email sent! Check your inbox.",
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.ids.Logout(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to log out",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Profile handles GET /auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	id, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		// Token was valid but the claims are incomplete; fall back to the
		// locally persisted identity.
		id = h.ids.Current()
	}
	if id == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Not signed in",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"user":         id,
			"display_name": id.DisplayName(),
		},
	})
}

func (h *AuthHandler) renderAuthError(c *gin.Context, status int, err error) {
	var authErr *identity.AuthError
	if errors.As(err, &authErr) {
		c.JSON(status, gin.H{
			"error": authErr.Message,
			"code":  authErr.Code,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "An unexpected error occurred. Please try again.",
	})
}
