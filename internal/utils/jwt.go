package utils

import (
	"errors" // Sentinel errors
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// SessionTTL bounds how long a terminal token stays valid
const SessionTTL = 15 * time.Minute

// ErrEmptyCard rejects tokens without a card number
var ErrEmptyCard = errors.New("token has no card number")

// JWT Claims
type Claims struct {
	CardID               string `json:"card_id"` // Card number of the session
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateJWT creates a session token for a card number
func GenerateJWT(cardID, secret string) (string, error) {
	now := time.Now()
	// Set token claims
	claims := Claims{
		CardID: cardID, // Custom claim for the card number
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cardID,                                  // Card number as subject
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)), // Short-lived terminal session
			IssuedAt:  jwt.NewNumericDate(now),                 // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a session token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})) // Refuse other algorithms
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid // Return error if token is invalid
	}
	if claims.CardID == "" {
		return nil, ErrEmptyCard
	}
	return claims, nil
}
