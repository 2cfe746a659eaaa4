package repository

import (
	"context"

	"gorm.io/gorm"

	"ledgerdesk/internal/models"
	"ledgerdesk/internal/storage"
)

// StatisticsRepository runs the read-only aggregation queries behind the
// dashboard. It never writes.
type StatisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

var _ storage.StatStore = (*StatisticsRepository)(nil)

func (r *StatisticsRepository) TopClientsByBalance(ctx context.Context, limit int) ([]storage.ClientBalanceRow, error) {
	var rows []storage.ClientBalanceRow
	err := r.db.WithContext(ctx).Model(&models.Client{}).
		Select("id AS client_id, name, email, balance").
		Order("balance DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *StatisticsRepository) TopClientsByVolume(ctx context.Context, limit int, dr storage.DateRange) ([]storage.ClientVolumeRow, error) {
	q := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("transactions.client_id AS client_id, clients.name AS name, SUM(transactions.amount) AS volume").
		Joins("JOIN clients ON clients.id = transactions.client_id").
		Group("transactions.client_id, clients.name").
		Order("volume DESC").
		Limit(limit)
	if dr.Bounded() {
		q = q.Where("transactions.date BETWEEN ? AND ?", dr.From, dr.To)
	}
	var rows []storage.ClientVolumeRow
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *StatisticsRepository) TransactionTypeDistribution(ctx context.Context, dr storage.DateRange) ([]storage.TypeDistributionRow, error) {
	q := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("type, COUNT(*) AS count, SUM(amount) AS total").
		Group("type")
	if dr.Bounded() {
		q = q.Where("date BETWEEN ? AND ?", dr.From, dr.To)
	}
	var rows []storage.TypeDistributionRow
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *StatisticsRepository) DailyTransactionTrend(ctx context.Context, dr storage.DateRange) ([]storage.DailyTrendRow, error) {
	q := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("DATE(date) AS day, COUNT(*) AS count, SUM(amount) AS total").
		Group("DATE(date)").
		Order("day ASC")
	if dr.Bounded() {
		q = q.Where("date BETWEEN ? AND ?", dr.From, dr.To)
	}
	var rows []storage.DailyTrendRow
	err := q.Scan(&rows).Error
	return rows, err
}

// DailyNet returns each day's earnings minus expenses ordered chronologically.
// The cumulative market-cap series is a prefix sum over these rows, done in
// the statistics service.
func (r *StatisticsRepository) DailyNet(ctx context.Context, dr storage.DateRange) ([]storage.DailyNetRow, error) {
	q := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("DATE(date) AS day, SUM(CASE WHEN type = ? THEN amount ELSE -amount END) AS net", "earning").
		Group("DATE(date)").
		Order("day ASC")
	if dr.Bounded() {
		q = q.Where("date BETWEEN ? AND ?", dr.From, dr.To)
	}
	var rows []storage.DailyNetRow
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *StatisticsRepository) PositiveBalances(ctx context.Context) ([]storage.ClientBalanceRow, error) {
	var rows []storage.ClientBalanceRow
	err := r.db.WithContext(ctx).Model(&models.Client{}).
		Select("id AS client_id, name, email, balance").
		Where("balance > 0").
		Order("balance DESC").
		Scan(&rows).Error
	return rows, err
}
