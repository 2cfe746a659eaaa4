package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ledgerdesk/internal/storage"
)

// StatisticsQuery selects the window and size of the dashboard aggregates.
// Zero DateFrom/DateTo default to the trailing 7 days ending now; AllTime
// disables the window entirely.
type StatisticsQuery struct {
	Limit    int
	DateFrom time.Time
	DateTo   time.Time
	AllTime  bool
}

// MarketCapPoint is the running net (earnings minus expenses) across all
// clients up to and including Day.
type MarketCapPoint struct {
	Day   string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// CapitalShare is a client's slice of the sum of all positive balances.
type CapitalShare struct {
	ClientID   uint            `json:"client_id"`
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
	Percentage decimal.Decimal `json:"percentage"`
}

type Statistics struct {
	TopClientsByBalance []storage.ClientBalanceRow    `json:"top_clients_by_balance"`
	TopClientsByVolume  []storage.ClientVolumeRow     `json:"top_clients_by_volume"`
	TypeDistribution    []storage.TypeDistributionRow `json:"type_distribution"`
	DailyTrend          []storage.DailyTrendRow       `json:"daily_trend"`
	MarketCap           []MarketCapPoint              `json:"market_cap"`
	CapitalDistribution []CapitalShare                `json:"capital_distribution"`
}

// StatisticsService is pure read-side orchestration over StatStore.
type StatisticsService struct {
	stats storage.StatStore
	now   func() time.Time
}

func NewStatisticsService(stats storage.StatStore) *StatisticsService {
	return &StatisticsService{stats: stats, now: time.Now}
}

// Overview assembles all dashboard aggregates for one query. Top balances
// and capital distribution rank current state and ignore the date window;
// the remaining aggregates are windowed.
func (s *StatisticsService) Overview(ctx context.Context, q StatisticsQuery) (*Statistics, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}
	dr := s.resolveRange(q)

	topBalance, err := s.stats.TopClientsByBalance(ctx, q.Limit)
	if err != nil {
		return nil, err
	}
	topVolume, err := s.stats.TopClientsByVolume(ctx, q.Limit, dr)
	if err != nil {
		return nil, err
	}
	dist, err := s.stats.TransactionTypeDistribution(ctx, dr)
	if err != nil {
		return nil, err
	}
	trend, err := s.stats.DailyTransactionTrend(ctx, dr)
	if err != nil {
		return nil, err
	}
	nets, err := s.stats.DailyNet(ctx, dr)
	if err != nil {
		return nil, err
	}
	positives, err := s.stats.PositiveBalances(ctx)
	if err != nil {
		return nil, err
	}

	return &Statistics{
		TopClientsByBalance: topBalance,
		TopClientsByVolume:  topVolume,
		TypeDistribution:    dist,
		DailyTrend:          trend,
		MarketCap:           marketCap(nets),
		CapitalDistribution: capitalDistribution(positives, q.Limit),
	}, nil
}

// resolveRange defaults missing bounds to the trailing 7 days and extends
// DateTo to the end of its day, so a date-only bound includes the whole day.
func (s *StatisticsService) resolveRange(q StatisticsQuery) storage.DateRange {
	if q.AllTime {
		return storage.DateRange{}
	}
	now := s.now()
	from := q.DateFrom
	to := q.DateTo
	if from.IsZero() {
		from = now.AddDate(0, 0, -7)
	}
	if to.IsZero() {
		to = now
	}
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, to.Location())
	return storage.DateRange{From: from, To: to}
}

// marketCap turns per-day nets into a cumulative series (prefix sum).
func marketCap(nets []storage.DailyNetRow) []MarketCapPoint {
	points := make([]MarketCapPoint, 0, len(nets))
	running := decimal.Zero
	for _, n := range nets {
		running = running.Add(n.Net)
		points = append(points, MarketCapPoint{Day: n.Day, Total: running})
	}
	return points
}

// capitalDistribution computes each positive-balance client's percentage of
// the total positive capital, rounded to 2 decimal places. Clients at or
// below zero are excluded from both the list and the base. The list is
// capped at limit; the base is not.
func capitalDistribution(positives []storage.ClientBalanceRow, limit int) []CapitalShare {
	base := decimal.Zero
	for _, row := range positives {
		base = base.Add(row.Balance)
	}
	if base.IsZero() {
		return []CapitalShare{}
	}

	if len(positives) > limit {
		positives = positives[:limit]
	}
	shares := make([]CapitalShare, 0, len(positives))
	hundred := decimal.NewFromInt(100)
	for _, row := range positives {
		shares = append(shares, CapitalShare{
			ClientID:   row.ClientID,
			Name:       row.Name,
			Balance:    row.Balance,
			Percentage: row.Balance.Div(base).Mul(hundred).Round(2),
		})
	}
	return shares
}
