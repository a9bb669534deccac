package middleware

import (
	"atm_system/internal/i18n" // Localized messages
	"net/http"                 // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// SessionSource reports the card currently authenticated at the terminal
type SessionSource interface {
	ActiveCardID() (string, bool)
}

// ActiveSessionMiddleware checks that the token belongs to the terminal's active session.
// A newer login by another card makes older tokens stale.
func ActiveSessionMiddleware(sessions SessionSource, tr *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		cardID := c.GetString(CardIDKey) // Set by JWTAuthMiddleware
		// Check if the token carried a card number
		if cardID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": tr.T("session_required")})
			return
		}
		active, ok := sessions.ActiveCardID() // Card of the ledger's session
		// Check the token against the active session
		if !ok || active != cardID {
			logrus.WithField("card", cardID).Warn("Stale session token") // Log the replaced session
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": tr.T("session_required")})
			return
		}
		// If the session matches, proceed to the next handler
		c.Next()
	}
}
