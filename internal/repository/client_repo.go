package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ledgerdesk/internal/domain"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/storage"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

var _ storage.ClientStore = (*ClientRepository)(nil)

func (r *ClientRepository) Find(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindForUpdate takes a SELECT ... FOR UPDATE row lock. Only meaningful when
// the repository is bound to a transaction via the unit of work.
func (r *ClientRepository) FindForUpdate(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) FindByEmail(ctx context.Context, email string) (*models.Client, error) {
	var c models.Client
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) FindByEmailExceptID(ctx context.Context, email string, excludeID uint) (*models.Client, error) {
	var c models.Client
	err := r.db.WithContext(ctx).Where("email = ? AND id <> ?", email, excludeID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Save(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ClientRepository) Update(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ClientRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Client{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) FindAll(ctx context.Context) ([]models.Client, error) {
	var cs []models.Client
	if err := r.db.WithContext(ctx).Order("id").Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *ClientRepository) FindPaginated(ctx context.Context, page, perPage int) (*storage.ClientPage, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Client{}).Count(&total).Error; err != nil {
		return nil, err
	}
	var items []models.Client
	offset := (page - 1) * perPage
	if err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(perPage).Find(&items).Error; err != nil {
		return nil, err
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return &storage.ClientPage{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pages,
	}, nil
}
