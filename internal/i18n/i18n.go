// Package i18n renders the terminal's messages in the configured language.
package i18n

import (
	"strings" // Placeholder substitution

	"golang.org/x/text/language" // Language tags and matching
	"golang.org/x/text/message"  // Localized number formatting
)

var supported = []language.Tag{language.Persian, language.English} // first entry is the fallback

var matcher = language.NewMatcher(supported) // Picks the closest supported language

// catalog holds the messages of every supported language
var catalog = map[language.Tag]map[string]string{
	language.Persian: {
		"welcome":            "به دستگاه ATM خوش آمدید",
		"login":              "ورود",
		"register":           "ثبت‌نام",
		"register_success":   "ثبت‌نام با موفقیت انجام شد",
		"card_number":        "شماره کارت",
		"pin":                "رمز عبور",
		"success":            "موفق",
		"error":              "خطا",
		"already_registered": "این شماره کارت قبلاً ثبت شده است.",
		"fill_fields":        "لطفاً همه فیلدها را پر کنید.",
		"login_failed":       "شماره کارت یا رمز اشتباه است",
		"balance":            "موجودی: {amount} تومان",
		"withdraw_success":   "برداشت انجام شد",
		"insufficient_funds": "موجودی کافی نیست",
		"transfer_success":   "انتقال انجام شد",
		"transfer_failed":    "مشکل در انتقال وجه",
		"pin_changed":        "رمز تغییر یافت",
		"main_menu":          "منوی اصلی",
		"show_balance":       "نمایش موجودی",
		"withdraw":           "برداشت وجه",
		"transfer":           "انتقال وجه",
		"change_pin":         "تغییر رمز",
		"exit":               "خروج",
		"amount_prompt":      "مبلغ:",
		"target_card":        "کارت مقصد:",
		"new_pin":            "رمز جدید:",
		"withdraw_amount":    "مبلغ برداشت را انتخاب کنید:",
		"custom_amount":      "دستی",
		"invalid_request":    "درخواست نامعتبر است",
		"session_required":   "ابتدا وارد شوید",
		"internal_error":     "خطای داخلی",
	},
	language.English: {
		"welcome":            "Welcome to the ATM",
		"login":              "Login",
		"register":           "Register",
		"register_success":   "Register successful",
		"card_number":        "Card Number",
		"pin":                "PIN",
		"success":            "Success",
		"error":              "Error",
		"already_registered": "This card is already registered.",
		"fill_fields":        "Please fill all fields.",
		"login_failed":       "Invalid card or PIN",
		"balance":            "Balance: {amount} IRR",
		"withdraw_success":   "Withdrawal successful",
		"insufficient_funds": "Insufficient funds",
		"transfer_success":   "Transfer successful",
		"transfer_failed":    "Transfer failed",
		"pin_changed":        "PIN changed",
		"main_menu":          "Main Menu",
		"show_balance":       "Check Balance",
		"withdraw":           "Withdraw",
		"transfer":           "Transfer",
		"change_pin":         "Change PIN",
		"exit":               "Exit",
		"amount_prompt":      "Amount:",
		"target_card":        "Target Card:",
		"new_pin":            "New PIN:",
		"withdraw_amount":    "Choose amount to withdraw:",
		"custom_amount":      "Custom",
		"invalid_request":    "Invalid request",
		"session_required":   "Please log in first",
		"internal_error":     "Internal error",
	},
}

// Translator renders messages for one language
type Translator struct {
	tag     language.Tag      // Matched language
	msgs    map[string]string // Catalog of that language
	printer *message.Printer  // Number formatting for that language
}

// New returns a Translator for lang ("fa", "en", or any BCP 47 tag).
// Unsupported or malformed tags fall back to Persian.
func New(lang string) *Translator {
	tag := supported[0]
	if desired, err := language.Parse(lang); err == nil {
		_, idx, conf := matcher.Match(desired)
		// Keep the fallback when nothing matches
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Translator{tag: tag, msgs: catalog[tag], printer: message.NewPrinter(tag)}
}

// Lang returns the base language code in use
func (t *Translator) Lang() string {
	base, _ := t.tag.Base()
	return base.String()
}

// T returns the message for key, or key itself when the catalog has no entry
func (t *Translator) T(key string) string {
	if msg, ok := t.msgs[key]; ok {
		return msg
	}
	return key
}

// Balance renders the balance message with the amount grouped for the language
func (t *Translator) Balance(amount int64) string {
	return strings.ReplaceAll(t.T("balance"), "{amount}", t.Amount(amount))
}

// Amount formats amount with the language's digit grouping
func (t *Translator) Amount(amount int64) string {
	return t.printer.Sprintf("%d", amount)
}
