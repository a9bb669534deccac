package domain

import (
	"errors"  // Sentinel errors
	"strconv" // Balance parsing
	"strings" // Line splitting
)

// MaxFieldLen bounds card numbers and PINs; it matches the card_id column size
const MaxFieldLen = 64

// ErrInvalidField is returned for card numbers or PINs the record format cannot hold
var ErrInvalidField = errors.New("field must be 1-64 characters without ',', line breaks or surrounding spaces")

// Account Model
type Account struct {
	CardID     string `gorm:"primaryKey;size:64"` // Card number, primary key
	Balance    int64  `gorm:"not null"`           // Balance in the smallest currency unit
	Credential string `gorm:"size:64;not null"`   // PIN
}

// TableName pins the SQL table name
func (Account) TableName() string {
	return "accounts"
}

// Line encodes the account as one record of the line store
func (a Account) Line() string {
	return a.CardID + "," + strconv.FormatInt(a.Balance, 10) + "," + a.Credential + "\n"
}

// ValidateField reports whether value can be stored as a card number or PIN.
// The line format has no escaping and records are trimmed on load, so the
// delimiter, line breaks and surrounding whitespace are refused.
func ValidateField(value string) error {
	switch {
	case value == "" || len(value) > MaxFieldLen: // Empty or wider than the column
		return ErrInvalidField
	case strings.ContainsAny(value, ",\n\r"): // Would split the record
		return ErrInvalidField
	case strings.TrimSpace(value) != value: // Would not survive the trim on load
		return ErrInvalidField
	}
	return nil
}

// ParseLine decodes one record of the line store.
// The returned *CorruptRecordError has no Source or Line set; the caller fills them in.
func ParseLine(line string) (Account, error) {
	text := strings.TrimSpace(line)    // Surrounding whitespace is not part of the record
	fields := strings.Split(text, ",") // card,balance,pin
	if len(fields) != 3 {
		return Account{}, &CorruptRecordError{Text: text, Reason: "expected 3 fields, got " + strconv.Itoa(len(fields))}
	}
	balance, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Account{}, &CorruptRecordError{Text: text, Reason: "balance is not an integer"}
	}
	acc := Account{CardID: fields[0], Balance: balance, Credential: fields[2]}
	if reason := acc.check(); reason != "" {
		return Account{}, &CorruptRecordError{Text: text, Reason: reason}
	}
	return acc, nil
}

// check returns why the account breaks the record rules, or ""
func (a Account) check() string {
	switch {
	case a.Balance < 0:
		return "negative balance"
	case ValidateField(a.CardID) != nil:
		return "invalid card number"
	case ValidateField(a.Credential) != nil:
		return "invalid pin"
	}
	return ""
}

// Validate returns a *CorruptRecordError when a stored account breaks the record rules
func (a Account) Validate(source string) error {
	if reason := a.check(); reason != "" {
		return &CorruptRecordError{Source: source, Text: a.CardID, Reason: reason}
	}
	return nil
}
