// Package storage declares the persistence contracts consumed by the service
// layer. GORM implementations live in internal/repository; an in-memory
// implementation used by tests lives in internal/storage/memory.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ledgerdesk/internal/models"
)

// ClientPage is one page of clients plus pagination metadata.
type ClientPage struct {
	Items   []models.Client `json:"items"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
	Pages   int             `json:"pages"`
}

type ClientStore interface {
	// Find returns domain.ErrClientNotFound when the id does not exist.
	Find(ctx context.Context, id uint) (*models.Client, error)
	// FindForUpdate behaves like Find but takes a row lock when called
	// inside a unit of work, serializing concurrent balance writes.
	FindForUpdate(ctx context.Context, id uint) (*models.Client, error)
	// FindByEmail returns (nil, nil) when no client has the email.
	FindByEmail(ctx context.Context, email string) (*models.Client, error)
	// FindByEmailExceptID is FindByEmail ignoring the given client id.
	FindByEmailExceptID(ctx context.Context, email string, excludeID uint) (*models.Client, error)
	Save(ctx context.Context, c *models.Client) error
	Update(ctx context.Context, c *models.Client) error
	Delete(ctx context.Context, id uint) error
	FindAll(ctx context.Context) ([]models.Client, error)
	FindPaginated(ctx context.Context, page, perPage int) (*ClientPage, error)
}

type TransactionStore interface {
	Save(ctx context.Context, t *models.Transaction) error
	// FindByClientID returns the client's ledger newest first
	// (date desc, id desc).
	FindByClientID(ctx context.Context, clientID uint) ([]models.Transaction, error)
}

// DateRange bounds a statistics query. The zero value means unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Bounded() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

type ClientBalanceRow struct {
	ClientID uint            `json:"client_id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Balance  decimal.Decimal `json:"balance"`
}

type ClientVolumeRow struct {
	ClientID uint            `json:"client_id"`
	Name     string          `json:"name"`
	Volume   decimal.Decimal `json:"volume"`
}

type TypeDistributionRow struct {
	Type  string          `json:"type"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type DailyTrendRow struct {
	Day   string          `json:"date"` // YYYY-MM-DD
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// DailyNetRow is one day's earnings minus expenses, ordered chronologically
// by the store. The service turns these into a cumulative market-cap series.
type DailyNetRow struct {
	Day string          `json:"date"`
	Net decimal.Decimal `json:"net"`
}

type StatStore interface {
	TopClientsByBalance(ctx context.Context, limit int) ([]ClientBalanceRow, error)
	TopClientsByVolume(ctx context.Context, limit int, r DateRange) ([]ClientVolumeRow, error)
	TransactionTypeDistribution(ctx context.Context, r DateRange) ([]TypeDistributionRow, error)
	DailyTransactionTrend(ctx context.Context, r DateRange) ([]DailyTrendRow, error)
	DailyNet(ctx context.Context, r DateRange) ([]DailyNetRow, error)
	// PositiveBalances returns every client with balance > 0, largest
	// first. Unlimited: the capital-distribution base needs all of them.
	PositiveBalances(ctx context.Context) ([]ClientBalanceRow, error)
}

type AdminStore interface {
	Create(ctx context.Context, a *models.Admin) error
	// FindByEmail returns domain.ErrAdminNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Find(ctx context.Context, id uint) (*models.Admin, error)
	Update(ctx context.Context, a *models.Admin) error
}
