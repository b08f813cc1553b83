package risk

import "errors"

var (
	// Input validation errors. These reject the transaction before any
	// evaluation work starts.
	ErrMissingTransactionID = errors.New("transaction id is required")
	ErrMissingUserID        = errors.New("user id is required")
	ErrMissingIPAddress     = errors.New("ip address is required")
	ErrInvalidAmount        = errors.New("amount must not be negative")

	// Blacklist errors.
	ErrInvalidBlacklistType = errors.New("invalid blacklist type")
	ErrInvalidThreatLevel   = errors.New("invalid threat level")
	ErrBlacklistUnavailable = errors.New("blacklist store unavailable")
)
