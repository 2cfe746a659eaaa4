package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ledgerdesk/internal/domain"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/storage"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

var _ storage.AdminStore = (*AdminRepository)(nil)

func (r *AdminRepository) Create(ctx context.Context, a *models.Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) Find(ctx context.Context, id uint) (*models.Admin, error) {
	var a models.Admin
	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) Update(ctx context.Context, a *models.Admin) error {
	return r.db.WithContext(ctx).Save(a).Error
}
