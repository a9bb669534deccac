package api

import (
	"atm_system/internal/middleware" // Custom package for middleware
	"atm_system/internal/utils"      // Utility functions
	"net/http"                       // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// WithdrawRequest represents a withdrawal request
type WithdrawRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"` // Withdrawal amount
}

// TransferRequest represents a transfer request
type TransferRequest struct {
	TargetCard string `json:"target_card" binding:"required"` // Target card number
	Amount     int64  `json:"amount" binding:"required,gt=0"` // Transfer amount
}

// ChangePinRequest represents a PIN change request
type ChangePinRequest struct {
	NewPin string `json:"new_pin" binding:"required"` // Replacement PIN
}

// BalanceHandler returns the balance of the session's card
func BalanceHandler(t *Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		t.mu.Lock()
		defer t.mu.Unlock()
		// Re-check the session under the terminal lock
		if !t.ownsSession(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": t.tr.T("session_required")})
			return
		}
		ctx := c.Request.Context()                                           // Context for Redis operations
		cacheKey := utils.BalanceCacheKey(c.GetString(middleware.CardIDKey)) // Cache key for the card
		var balance int64                                                    // Balance to return
		found, err := utils.GetCache(ctx, t.rdb, cacheKey, &balance)         // Try to get from cache
		if err != nil {
			logrus.WithField("error", err.Error()).Warn("Balance cache read failed") // Fall back to the ledger
		}
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"balance": balance, "message": t.tr.Balance(balance), "cached": true})
			return
		}
		// If not in cache, read the ledger
		balance, err = t.ledger.Balance()
		if err != nil {
			t.fail(c, "balance", err)
			return
		}
		_ = utils.SetCache(ctx, t.rdb, cacheKey, balance, utils.BalanceTTL) // Cache the balance
		c.JSON(http.StatusOK, gin.H{"balance": balance, "message": t.tr.Balance(balance), "cached": false})
	}
}

// WithdrawHandler debits the session's card
func WithdrawHandler(t *Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WithdrawRequest // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": t.tr.T("invalid_request")})
			return
		}
		t.mu.Lock()
		defer t.mu.Unlock()
		// Re-check the session under the terminal lock
		if !t.ownsSession(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": t.tr.T("session_required")})
			return
		}
		ok, err := t.ledger.Withdraw(req.Amount)
		if err != nil {
			t.invalidate(c, c.GetString(middleware.CardIDKey)) // A failed write keeps the in-memory debit
			t.fail(c, "withdraw", err)
			return
		}
		if !ok {
			// If insufficient funds, return conflict
			c.JSON(http.StatusConflict, gin.H{"error": t.tr.T("insufficient_funds")})
			return
		}
		t.invalidate(c, c.GetString(middleware.CardIDKey)) // Invalidate the cached balance
		balance, _ := t.ledger.Balance()
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": t.tr.T("withdraw_success"), "balance": balance})
	}
}

// TransferHandler moves funds from the session's card to another card
func TransferHandler(t *Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TransferRequest // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": t.tr.T("invalid_request")})
			return
		}
		t.mu.Lock()
		defer t.mu.Unlock()
		// Re-check the session under the terminal lock
		if !t.ownsSession(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": t.tr.T("session_required")})
			return
		}
		ok, err := t.ledger.Transfer(req.TargetCard, req.Amount)
		if err != nil {
			t.invalidate(c, c.GetString(middleware.CardIDKey), req.TargetCard) // A failed write keeps the in-memory transfer
			t.fail(c, "transfer", err)
			return
		}
		if !ok {
			// Unknown target or insufficient funds
			c.JSON(http.StatusConflict, gin.H{"error": t.tr.T("transfer_failed")})
			return
		}
		t.invalidate(c, c.GetString(middleware.CardIDKey), req.TargetCard) // Invalidate both cached balances
		balance, _ := t.ledger.Balance()
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": t.tr.T("transfer_success"), "balance": balance})
	}
}

// ChangePinHandler replaces the PIN of the session's card
func ChangePinHandler(t *Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangePinRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": t.tr.T("fill_fields")})
			return
		}
		t.mu.Lock()
		defer t.mu.Unlock()
		// Re-check the session under the terminal lock
		if !t.ownsSession(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": t.tr.T("session_required")})
			return
		}
		if err := t.ledger.ChangeCredential(req.NewPin); err != nil {
			t.fail(c, "change_pin", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": t.tr.T("pin_changed")})
	}
}

// invalidate drops the cached balances of the given cards
func (t *Terminal) invalidate(c *gin.Context, cardIDs ...string) {
	keys := make([]string, len(cardIDs))
	for i, id := range cardIDs {
		keys[i] = utils.BalanceCacheKey(id)
	}
	if err := utils.DeleteCache(c.Request.Context(), t.rdb, keys...); err != nil {
		logrus.WithField("error", err.Error()).Warn("Balance cache invalidation failed")
	}
}
