package inflation

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterios/inflacast/internal/database"
	"github.com/asterios/inflacast/internal/domain"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(database.Config{Path: ":memory:", Name: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, repo.Init())
	return repo
}

func TestInitSeedsSample(t *testing.T) {
	repo := newTestRepo(t)

	latest, err := repo.Latest()
	require.NoError(t, err)
	assert.Equal(t, 5.1, latest.CurrentRate)
	assert.Equal(t, 4.0, latest.TargetRate)
	assert.Len(t, latest.HistoricalRates, HistoryMonths)
	assert.Equal(t, 7.8, latest.CategoryRates["Food"])
}

func TestInitIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Init())

	history, err := repo.History(10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSaveAndLatest(t *testing.T) {
	repo := newTestRepo(t)

	next := SampleSnapshot()
	next.CurrentRate = 6.2
	next.PreviousRate = 5.1
	require.NoError(t, repo.Save(next))

	latest, err := repo.Latest()
	require.NoError(t, err)
	assert.Equal(t, 6.2, latest.CurrentRate)
	assert.Equal(t, 5.1, latest.PreviousRate)
	assert.Equal(t, SampleSnapshot().CategoryRates, latest.CategoryRates)
}

func TestHistoryNewestFirst(t *testing.T) {
	repo := newTestRepo(t)

	for _, rate := range []float64{5.5, 5.9} {
		s := SampleSnapshot()
		s.CurrentRate = rate
		require.NoError(t, repo.Save(s))
	}

	history, err := repo.History(2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 5.9, history[0].CurrentRate)
	assert.Equal(t, 5.5, history[1].CurrentRate)
}

func TestTrends(t *testing.T) {
	snapshot := SampleSnapshot()
	stats := Trends(snapshot)

	assert.Equal(t, 4.9, stats.Min)
	assert.Equal(t, 6.3, stats.Max)
	assert.InDelta(t, (5.8+5.7+5.3)/3, stats.Sma3, 1e-9)
	assert.Greater(t, stats.StdDev, 0.0)

	assert.Equal(t, "falling", stats.Direction)
	assert.InDelta(t, -0.2, stats.ChangePct, 1e-9)
	assert.True(t, stats.AboveGoal)
	assert.InDelta(t, 1.1, stats.GoalGapPct, 1e-9)
}

func TestTrendsShortSeries(t *testing.T) {
	stats := Trends(domain.InflationSnapshot{
		CurrentRate:     5.0,
		PreviousRate:    5.0,
		TargetRate:      6.0,
		HistoricalRates: []float64{5.0},
	})

	assert.Equal(t, 0.0, stats.Sma6)
	assert.Equal(t, "flat", stats.Direction)
	assert.False(t, stats.AboveGoal)
}
