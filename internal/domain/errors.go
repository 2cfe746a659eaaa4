package domain

import (
	"errors"
	"fmt"
)

var (
	ErrClientNotFound         = errors.New("client not found")
	ErrClientAlreadyExists    = errors.New("client email already registered")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidAmount          = errors.New("transaction amount must not be negative")
	ErrAdminNotFound          = errors.New("admin not found")
	ErrAdminAlreadyExists     = errors.New("admin email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
)

// PersistenceError reports that the atomic write of a ledger entry and its
// balance update failed after validation had passed. Both writes are rolled
// back before it is returned. The store-level cause is available via Unwrap.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: persistence failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
