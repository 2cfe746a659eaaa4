package repository

import (
	"context"

	"gorm.io/gorm"

	"ledgerdesk/internal/storage"
)

// GormUnitOfWork wraps fn in one database transaction; the stores handed to
// fn are bound to that transaction, so their writes commit or roll back as a
// unit.
type GormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

var _ storage.UnitOfWork = (*GormUnitOfWork)(nil)

func (u *GormUnitOfWork) Do(ctx context.Context, fn func(s storage.Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(storage.Stores{
			Clients:      NewClientRepository(tx),
			Transactions: NewTransactionRepository(tx),
		})
	})
}
