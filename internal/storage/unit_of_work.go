package storage

import "context"

// Stores are the tx-scoped stores handed to a unit of work callback. Writes
// through them commit or roll back together.
type Stores struct {
	Clients      ClientStore
	Transactions TransactionStore
}

// UnitOfWork is the atomic unit provider: fn runs inside one database
// transaction and every write it performs is all-or-nothing. Returning an
// error rolls everything back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(s Stores) error) error
}
