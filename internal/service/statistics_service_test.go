package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerdesk/internal/domain"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/service"
	"ledgerdesk/internal/storage/memory"
)

func newStats(t *testing.T) (*service.StatisticsService, *memory.Store) {
	t.Helper()
	store := memory.New()
	return service.NewStatisticsService(store.Stats()), store
}

func seedTx(t *testing.T, store *memory.Store, clientID uint, typ string, amount int64, date time.Time) {
	t.Helper()
	tx := models.Transaction{ClientID: clientID, Type: typ, Amount: dec(amount), Date: date}
	require.NoError(t, store.Transactions().Save(context.Background(), &tx))
}

// =============================================================================
// CAPITAL DISTRIBUTION
// =============================================================================

func TestCapitalDistribution_Percentages(t *testing.T) {
	// Balances 10000 / 5000 / 5000 split as 50% / 25% / 25%.
	svc, store := newStats(t)
	ctx := context.Background()

	seedClient(t, store, "Whale", "whale@example.com", 10000)
	seedClient(t, store, "Mid A", "mida@example.com", 5000)
	seedClient(t, store, "Mid B", "midb@example.com", 5000)

	stats, err := svc.Overview(ctx, service.StatisticsQuery{AllTime: true})
	require.NoError(t, err)

	require.Len(t, stats.CapitalDistribution, 3)
	assert.Equal(t, "Whale", stats.CapitalDistribution[0].Name)
	assert.True(t, stats.CapitalDistribution[0].Percentage.Equal(dec(50)))
	assert.True(t, stats.CapitalDistribution[1].Percentage.Equal(dec(25)))
	assert.True(t, stats.CapitalDistribution[2].Percentage.Equal(dec(25)))
}

func TestCapitalDistribution_ExcludesNonPositive(t *testing.T) {
	svc, store := newStats(t)
	ctx := context.Background()

	seedClient(t, store, "Solvent", "a@example.com", 100)
	seedClient(t, store, "Broke", "b@example.com", 0)
	seedClient(t, store, "In Debt", "c@example.com", -50)

	stats, err := svc.Overview(ctx, service.StatisticsQuery{AllTime: true})
	require.NoError(t, err)

	require.Len(t, stats.CapitalDistribution, 1)
	assert.Equal(t, "Solvent", stats.CapitalDistribution[0].Name)
	assert.True(t, stats.CapitalDistribution[0].Percentage.Equal(dec(100)))
}

func TestCapitalDistribution_EmptyWhenNoPositiveBalances(t *testing.T) {
	svc, store := newStats(t)
	seedClient(t, store, "In Debt", "c@example.com", -50)

	stats, err := svc.Overview(context.Background(), service.StatisticsQuery{AllTime: true})
	require.NoError(t, err)
	assert.Empty(t, stats.CapitalDistribution)
}

func TestCapitalDistribution_ListCappedButBaseIsNot(t *testing.T) {
	// With limit 2 only the top two clients are listed, yet their percentages
	// are still taken against the full positive capital, so they do not sum
	// to 100.
	svc, store := newStats(t)

	seedClient(t, store, "A", "a@example.com", 400)
	seedClient(t, store, "B", "b@example.com", 400)
	seedClient(t, store, "C", "c@example.com", 200)

	stats, err := svc.Overview(context.Background(), service.StatisticsQuery{AllTime: true, Limit: 2})
	require.NoError(t, err)

	require.Len(t, stats.CapitalDistribution, 2)
	assert.True(t, stats.CapitalDistribution[0].Percentage.Equal(dec(40)))
	assert.True(t, stats.CapitalDistribution[1].Percentage.Equal(dec(40)))
}

func TestCapitalDistribution_Rounding(t *testing.T) {
	svc, store := newStats(t)

	seedClient(t, store, "A", "a@example.com", 100)
	seedClient(t, store, "B", "b@example.com", 100)
	seedClient(t, store, "C", "c@example.com", 100)

	stats, err := svc.Overview(context.Background(), service.StatisticsQuery{AllTime: true})
	require.NoError(t, err)

	require.Len(t, stats.CapitalDistribution, 3)
	for _, share := range stats.CapitalDistribution {
		assert.Equal(t, "33.33", share.Percentage.String())
	}
}

// =============================================================================
// MARKET CAP
// =============================================================================

func TestMarketCap_PrefixSum(t *testing.T) {
	svc, store := newStats(t)
	c := seedClient(t, store, "A", "a@example.com", 0)

	seedTx(t, store, c.ID, domain.TypeEarning, 100, day(1))
	seedTx(t, store, c.ID, domain.TypeExpense, 30, day(1))
	seedTx(t, store, c.ID, domain.TypeEarning, 50, day(2))
	seedTx(t, store, c.ID, domain.TypeExpense, 10, day(4))

	stats, err := svc.Overview(context.Background(), service.StatisticsQuery{AllTime: true})
	require.NoError(t, err)

	require.Len(t, stats.MarketCap, 3)
	assert.Equal(t, "2023-01-01", stats.MarketCap[0].Day)
	assert.True(t, stats.MarketCap[0].Total.Equal(dec(70)))
	assert.True(t, stats.MarketCap[1].Total.Equal(dec(120)))
	assert.True(t, stats.MarketCap[2].Total.Equal(dec(110)))
}

// =============================================================================
// WINDOWED AGGREGATES
// =============================================================================

func TestOverview_DefaultsToTrailingSevenDays(t *testing.T) {
	svc, store := newStats(t)
	c := seedClient(t, store, "A", "a@example.com", 0)

	now := time.Now()
	seedTx(t, store, c.ID, domain.TypeEarning, 10, now.AddDate(0, 0, -10))
	seedTx(t, store, c.ID, domain.TypeEarning, 25, now.AddDate(0, 0, -1))

	stats, err := svc.Overview(context.Background(), service.StatisticsQuery{})
	require.NoError(t, err)

	require.Len(t, stats.DailyTrend, 1, "the 10-day-old entry falls outside the window")
	assert.True(t, stats.DailyTrend[0].Total.Equal(dec(25)))

	all, err := svc.Overview(context.Background(), service.StatisticsQuery{AllTime: true})
	require.NoError(t, err)
	assert.Len(t, all.DailyTrend, 2)
}

func TestOverview_DateToIncludesWholeDay(t *testing.T) {
	svc, store := newStats(t)
	c := seedClient(t, store, "A", "a@example.com", 0)

	// Entry late on Jan 3; the query bound is the bare date Jan 3.
	seedTx(t, store, c.ID, domain.TypeEarning, 40, time.Date(2023, time.January, 3, 18, 30, 0, 0, time.UTC))

	stats, err := svc.Overview(context.Background(), service.StatisticsQuery{
		DateFrom: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2023, time.January, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, stats.DailyTrend, 1)
	assert.Equal(t, "2023-01-03", stats.DailyTrend[0].Day)
}

func TestOverview_TypeDistribution(t *testing.T) {
	svc, store := newStats(t)
	c := seedClient(t, store, "A", "a@example.com", 0)

	seedTx(t, store, c.ID, domain.TypeEarning, 100, day(1))
	seedTx(t, store, c.ID, domain.TypeEarning, 50, day(2))
	seedTx(t, store, c.ID, domain.TypeExpense, 30, day(2))

	stats, err := svc.Overview(context.Background(), service.StatisticsQuery{AllTime: true})
	require.NoError(t, err)

	require.Len(t, stats.TypeDistribution, 2)
	byType := map[string]int64{}
	for _, row := range stats.TypeDistribution {
		byType[row.Type] = row.Count
		if row.Type == domain.TypeEarning {
			assert.True(t, row.Total.Equal(dec(150)))
		}
	}
	assert.EqualValues(t, 2, byType[domain.TypeEarning])
	assert.EqualValues(t, 1, byType[domain.TypeExpense])
}

// =============================================================================
// RANKINGS
// =============================================================================

func TestOverview_TopClientsByBalanceRespectsLimit(t *testing.T) {
	svc, store := newStats(t)

	seedClient(t, store, "First", "a@example.com", 300)
	seedClient(t, store, "Second", "b@example.com", 200)
	seedClient(t, store, "Third", "c@example.com", 100)

	stats, err := svc.Overview(context.Background(), service.StatisticsQuery{AllTime: true, Limit: 2})
	require.NoError(t, err)

	require.Len(t, stats.TopClientsByBalance, 2)
	assert.Equal(t, "First", stats.TopClientsByBalance[0].Name)
	assert.Equal(t, "Second", stats.TopClientsByBalance[1].Name)
}

func TestOverview_TopClientsByVolumeIsWindowed(t *testing.T) {
	// Volume sums magnitudes of both types inside the window.
	svc, store := newStats(t)
	a := seedClient(t, store, "Busy", "a@example.com", 0)
	b := seedClient(t, store, "Quiet", "b@example.com", 0)

	seedTx(t, store, a.ID, domain.TypeEarning, 100, day(2))
	seedTx(t, store, a.ID, domain.TypeExpense, 80, day(3))
	seedTx(t, store, b.ID, domain.TypeEarning, 120, day(2))
	// Outside the queried window: must not count.
	seedTx(t, store, b.ID, domain.TypeEarning, 500, day(20))

	stats, err := svc.Overview(context.Background(), service.StatisticsQuery{
		DateFrom: day(1),
		DateTo:   day(5),
	})
	require.NoError(t, err)

	require.Len(t, stats.TopClientsByVolume, 2)
	assert.Equal(t, "Busy", stats.TopClientsByVolume[0].Name)
	assert.True(t, stats.TopClientsByVolume[0].Volume.Equal(dec(180)))
	assert.True(t, stats.TopClientsByVolume[1].Volume.Equal(dec(120)))
}
