package repository

import (
	"context"

	"gorm.io/gorm"

	"ledgerdesk/internal/models"
	"ledgerdesk/internal/storage"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

var _ storage.TransactionStore = (*TransactionRepository)(nil)

func (r *TransactionRepository) Save(ctx context.Context, t *models.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) FindByClientID(ctx context.Context, clientID uint) ([]models.Transaction, error) {
	var ts []models.Transaction
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date DESC, id DESC").
		Find(&ts).Error
	if err != nil {
		return nil, err
	}
	return ts, nil
}
