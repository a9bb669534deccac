package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// WithdrawPresets are the quick amounts offered before a custom amount
var WithdrawPresets = []int64{10000, 20000, 50000, 100000}

// MenuItem is one entry of the main menu
type MenuItem struct {
	Key   string `json:"key"`   // Operation key
	Label string `json:"label"` // Localized label
}

// MenuHandler returns the start and main menu labels in the terminal language
func MenuHandler(t *Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		keys := []string{"show_balance", "withdraw", "transfer", "change_pin", "exit"} // Main menu order
		items := make([]MenuItem, len(keys))
		for i, k := range keys {
			items[i] = MenuItem{Key: k, Label: t.tr.T(k)}
		}
		c.JSON(http.StatusOK, gin.H{
			"language": t.tr.Lang(),         // Configured language
			"welcome":  t.tr.T("welcome"),   // Start window greeting
			"login":    t.tr.T("login"),     // Login button
			"register": t.tr.T("register"),  // Register button
			"title":    t.tr.T("main_menu"), // Main menu title
			"items":    items,               // Main menu entries
		})
	}
}

// WithdrawOptionsHandler returns the quick withdrawal amounts
func WithdrawOptionsHandler(t *Terminal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"prompt":        t.tr.T("withdraw_amount"), // Choice prompt
			"amounts":       WithdrawPresets,           // Preset amounts
			"custom":        t.tr.T("custom_amount"),   // Custom entry label
			"custom_prompt": t.tr.T("amount_prompt"),   // Custom amount prompt
		})
	}
}

// HealthHandler reports liveness
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
