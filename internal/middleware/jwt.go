package middleware

import (
	"atm_system/internal/i18n"  // Localized messages
	"atm_system/internal/utils" // JWT utility functions
	"net/http"                  // HTTP status codes
	"strings"                   // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// CardIDKey is the gin context key holding the token's card number
const CardIDKey = "cardID"

// JWTAuthMiddleware validates session tokens and extracts the card number
func JWTAuthMiddleware(secret string, tr *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": tr.T("session_required")})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": tr.T("session_required")})
			return
		}
		c.Set(CardIDKey, claims.CardID) // Store card number in context
		c.Next()                        // Proceed to the next handler
	}
}
