package ledger

import "errors" // Sentinel errors

var (
	// Business rejections. Operations report them as false and log the reason.
	ErrDuplicateAccount  = errors.New("card number already registered")
	ErrAuthentication    = errors.New("invalid card number or pin")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownTarget     = errors.New("target card not registered")
	ErrBalanceOverflow   = errors.New("credit would overflow the target balance")

	// ErrNoActiveSession is a caller contract violation: no successful Authenticate yet
	ErrNoActiveSession = errors.New("no active session")
	// ErrInvalidAmount rejects amounts <= 0
	ErrInvalidAmount = errors.New("amount must be > 0")
)
