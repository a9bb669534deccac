package api

import (
	"atm_system/internal/domain"     // Domain errors
	"atm_system/internal/i18n"       // Localized messages
	"atm_system/internal/ledger"     // Account ledger
	"atm_system/internal/middleware" // Custom package for middleware
	"errors"                         // Error matching
	"net/http"                       // HTTP status codes
	"sync"                           // Terminal lock

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// Terminal is the single teller front end of a ledger.
// The ledger is not safe for concurrent use, so every call goes through mu.
type Terminal struct {
	mu     sync.Mutex       // Serializes ledger access
	ledger *ledger.Ledger   // Account ledger
	tr     *i18n.Translator // Message language
	rdb    *redis.Client    // Balance cache, nil when disabled
	secret string           // JWT secret key
}

// NewTerminal creates a Terminal; rdb may be nil
func NewTerminal(l *ledger.Ledger, tr *i18n.Translator, rdb *redis.Client, secret string) *Terminal {
	return &Terminal{ledger: l, tr: tr, rdb: rdb, secret: secret}
}

// ActiveCardID returns the card of the ledger's active session
func (t *Terminal) ActiveCardID() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.ActiveCardID()
}

// RegisterRoutes mounts the terminal endpoints on r
func RegisterRoutes(r gin.IRouter, t *Terminal) {
	r.GET("/health", HealthHandler())       // Liveness endpoint
	r.GET("/menu", MenuHandler(t))          // Main menu labels
	r.POST("/accounts", RegisterHandler(t)) // Registration endpoint
	r.POST("/session", LoginHandler(t))     // Login endpoint

	// Teller routes (protected by JWT and the active session)
	atm := r.Group("/atm")
	atm.Use(middleware.JWTAuthMiddleware(t.secret, t.tr), middleware.ActiveSessionMiddleware(t, t.tr))
	atm.GET("/balance", BalanceHandler(t))                  // Balance endpoint
	atm.GET("/withdraw/options", WithdrawOptionsHandler(t)) // Quick withdrawal amounts
	atm.POST("/withdraw", WithdrawHandler(t))               // Withdrawal endpoint
	atm.POST("/transfer", TransferHandler(t))               // Transfer endpoint
	atm.PUT("/pin", ChangePinHandler(t))                    // PIN change endpoint
}

// ownsSession reports whether the request's card still holds the session. Callers hold t.mu.
func (t *Terminal) ownsSession(c *gin.Context) bool {
	active, ok := t.ledger.ActiveCardID()
	return ok && active == c.GetString(middleware.CardIDKey)
}

// fail maps a ledger error to a localized HTTP error response
func (t *Terminal) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, ledger.ErrNoActiveSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": t.tr.T("session_required")})
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidField):
		c.JSON(http.StatusBadRequest, gin.H{"error": t.tr.T("invalid_request")})
	default:
		// Log the storage failure with context
		logrus.WithFields(logrus.Fields{
			"op":    op,          // Failed operation
			"error": err.Error(), // Error message
		}).Error("Ledger operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": t.tr.T("internal_error")})
	}
}
