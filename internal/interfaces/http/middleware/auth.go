// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/identity"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// AuthMiddleware creates JWT authentication middleware
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		claims, ok := claimsFromRequest(c, jwtManager)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or missing session token",
			})
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware provides optional authentication
func OptionalAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		if claims, ok := claimsFromRequest(c, jwtManager); ok {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

// CheckoutAuthMiddleware guards the checkout flow. An unauthenticated request
// stashes the checkout path so the next login can return the user there.
func CheckoutAuthMiddleware(cfg *config.Config, ids *identity.Service) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		claims, ok := claimsFromRequest(c, jwtManager)
		if !ok {
			// Remember where to send the user once they log in.
			_ = ids.StashRedirect("/checkout")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "Please log in to checkout",
				"redirect": "/login",
			})
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context, jwtManager *auth.JWTManager) (*auth.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	tokenString := auth.ExtractTokenFromHeader(authHeader)
	if tokenString == "" {
		return nil, false
	}

	claims, err := jwtManager.ValidateToken(tokenString)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setIdentity(c *gin.Context, claims *auth.Claims) {
	c.Set("uid", claims.UID)
	c.Set("email", claims.Email)
	c.Set("username", claims.Username)
	c.Set("token_claims", claims)
}

// GetIdentityFromContext extracts the authenticated identity from gin context
func GetIdentityFromContext(c *gin.Context) (*identity.Identity, bool) {
	uid, exists := c.Get("uid")
	if !exists {
		return nil, false
	}

	id := &identity.Identity{
		UID:      uid.(string),
		Email:    c.GetString("email"),
		Username: c.GetString("username"),
	}
	return id, id.Valid()
}
