// Package ledger holds the account records and the teller operations on them.
//
// A Ledger is not safe for concurrent use; callers serialize access. Every
// successful mutation is followed by a full rewrite of the store, and a failed
// write does not roll the in-memory change back.
package ledger

import (
	"atm_system/internal/domain" // Account record
	"fmt"                        // Error wrapping
	"math"                       // Balance bounds
	"sort"                       // Deterministic account order

	"github.com/sirupsen/logrus" // Logging library
)

// StartingBalance is credited to every new registration
const StartingBalance int64 = 100000

// Store is the durable backend of a Ledger
type Store interface {
	// Load returns every persisted account. A missing backend is created empty.
	Load() ([]domain.Account, error)
	// Save replaces the persisted state with accounts.
	Save(accounts []domain.Account) error
}

// Ledger owns the account collection and the active session
type Ledger struct {
	store    Store                      // Durable backend
	accounts map[string]*domain.Account // Accounts by card number
	active   *domain.Account            // Authenticated account, nil before login
}

// New builds a Ledger and loads every record from store
func New(store Store) (*Ledger, error) {
	l := &Ledger{store: store, accounts: make(map[string]*domain.Account)}
	if err := l.load(); err != nil {
		return nil, err
	}
	return l, nil
}

// load fills the ledger from the store; duplicates are corruption
func (l *Ledger) load() error {
	records, err := l.store.Load()
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	for i := range records {
		acc := records[i] // Copy so the map owns its record
		if _, dup := l.accounts[acc.CardID]; dup {
			return fmt.Errorf("load ledger: %w", &domain.CorruptRecordError{
				Source: "ledger", Text: acc.CardID, Reason: "duplicate card number",
			})
		}
		l.accounts[acc.CardID] = &acc
	}
	logrus.WithField("accounts", len(l.accounts)).Debug("Ledger loaded")
	return nil
}

// persist writes the full account set
func (l *Ledger) persist() error {
	if err := l.store.Save(l.Accounts()); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// Register creates an account with StartingBalance.
// It returns false when cardID is already registered.
func (l *Ledger) Register(cardID, credential string) (bool, error) {
	if err := domain.ValidateField(cardID); err != nil {
		return false, err
	}
	if err := domain.ValidateField(credential); err != nil {
		return false, err
	}
	// Check if the card is already registered
	if _, exists := l.accounts[cardID]; exists {
		reject("register", cardID, ErrDuplicateAccount)
		return false, nil
	}
	l.accounts[cardID] = &domain.Account{CardID: cardID, Balance: StartingBalance, Credential: credential}
	if err := l.persist(); err != nil {
		return false, err
	}
	logrus.WithField("card", cardID).Info("Account registered")
	return true, nil
}

// Authenticate opens a session for cardID when credential matches exactly.
// On failure any previous session is kept.
func (l *Ledger) Authenticate(cardID, credential string) bool {
	acc, ok := l.accounts[cardID]
	if !ok || acc.Credential != credential {
		reject("authenticate", cardID, ErrAuthentication)
		return false
	}
	l.active = acc // Replaces any previous session
	logrus.WithField("card", cardID).Info("Session opened")
	return true
}

// ActiveCardID returns the card of the active session
func (l *Ledger) ActiveCardID() (string, bool) {
	if l.active == nil {
		return "", false
	}
	return l.active.CardID, true
}

// Balance returns the balance of the active session
func (l *Ledger) Balance() (int64, error) {
	if l.active == nil {
		return 0, ErrNoActiveSession
	}
	return l.active.Balance, nil
}

// Withdraw debits the active session. It returns false on insufficient funds.
func (l *Ledger) Withdraw(amount int64) (bool, error) {
	if err := l.checkDebit(amount); err != nil {
		return false, err
	}
	// Check for sufficient balance
	if l.active.Balance < amount {
		reject("withdraw", l.active.CardID, ErrInsufficientFunds)
		return false, nil
	}
	l.active.Balance -= amount // Debit the session's card
	if err := l.persist(); err != nil {
		return false, err
	}
	logrus.WithFields(logrus.Fields{"card": l.active.CardID, "amount": amount}).Info("Withdrawal")
	return true, nil
}

// Transfer moves amount from the active session to targetCardID.
// It returns false when the target is unknown or funds are insufficient.
// A transfer to the active card itself succeeds without net effect.
// A credit that would overflow the target balance is refused.
func (l *Ledger) Transfer(targetCardID string, amount int64) (bool, error) {
	if err := l.checkDebit(amount); err != nil {
		return false, err
	}
	target, ok := l.accounts[targetCardID]
	if !ok {
		reject("transfer", l.active.CardID, ErrUnknownTarget)
		return false, nil
	}
	// Check for sufficient balance
	if l.active.Balance < amount {
		reject("transfer", l.active.CardID, ErrInsufficientFunds)
		return false, nil
	}
	// Check that the credit fits; a self-transfer nets to zero
	if target != l.active && target.Balance > math.MaxInt64-amount {
		reject("transfer", l.active.CardID, ErrBalanceOverflow)
		return false, nil
	}
	l.active.Balance -= amount // Debit sender
	target.Balance += amount   // Credit receiver
	if err := l.persist(); err != nil {
		return false, err
	}
	logrus.WithFields(logrus.Fields{
		"card":   l.active.CardID,
		"target": targetCardID,
		"amount": amount,
	}).Info("Transfer")
	return true, nil
}

// ChangeCredential overwrites the PIN of the active session
func (l *Ledger) ChangeCredential(newCredential string) error {
	if l.active == nil {
		return ErrNoActiveSession
	}
	if err := domain.ValidateField(newCredential); err != nil {
		return err
	}
	l.active.Credential = newCredential // Unconditional overwrite
	if err := l.persist(); err != nil {
		return err
	}
	logrus.WithField("card", l.active.CardID).Info("PIN changed")
	return nil
}

// Accounts returns a copy of every account, ordered by card number
func (l *Ledger) Accounts() []domain.Account {
	out := make([]domain.Account, 0, len(l.accounts))
	for _, acc := range l.accounts {
		out = append(out, *acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CardID < out[j].CardID })
	return out
}

// checkDebit validates the preconditions shared by withdraw and transfer
func (l *Ledger) checkDebit(amount int64) error {
	if l.active == nil {
		return ErrNoActiveSession
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// reject logs a business rejection
func reject(op, cardID string, reason error) {
	logrus.WithFields(logrus.Fields{"op": op, "card": cardID, "reason": reason}).Debug("Operation rejected")
}
