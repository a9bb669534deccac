package api

import (
	"atm_system/internal/utils" // Utility functions
	"net/http"                  // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Request struct for registration
type RegisterRequest struct {
	CardNumber string `json:"card_number" binding:"required"` // Card number must be provided
	Pin        string `json:"pin" binding:"required"`         // PIN must be provided
}

// Request struct for login
type LoginRequest struct {
	CardNumber string `json:"card_number" binding:"required"` // Card number must be provided
	Pin        string `json:"pin" binding:"required"`         // PIN must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Token   string `json:"token"`   // JWT session token
	Message string `json:"message"` // Main menu title
}

// RegisterHandler registers a card with the starting balance
func RegisterHandler(t *Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, ask for both fields
			c.JSON(http.StatusBadRequest, gin.H{"error": t.tr.T("fill_fields")})
			return
		}
		t.mu.Lock()
		defer t.mu.Unlock()
		// Attempt to create the account in the ledger
		created, err := t.ledger.Register(req.CardNumber, req.Pin)
		if err != nil {
			t.fail(c, "register", err)
			return
		}
		if !created {
			// If the card exists, return conflict
			c.JSON(http.StatusConflict, gin.H{"error": t.tr.T("already_registered")})
			return
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": t.tr.T("register_success")})
	}
}

// LoginHandler authenticates a card and returns a session token
func LoginHandler(t *Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": t.tr.T("fill_fields")})
			return
		}
		t.mu.Lock()
		defer t.mu.Unlock()
		// Compare card number and PIN in the ledger
		if !t.ledger.Authenticate(req.CardNumber, req.Pin) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": t.tr.T("login_failed")})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(req.CardNumber, t.secret)
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to generate token") // Log failure
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": t.tr.T("internal_error")})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{Token: token, Message: t.tr.T("main_menu")})
	}
}
