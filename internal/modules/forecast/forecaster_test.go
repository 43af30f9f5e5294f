package forecast

import (
	"math/rand/v2"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterios/inflacast/internal/domain"
)

func testSnapshot() domain.InflationSnapshot {
	return domain.InflationSnapshot{
		CurrentRate: 10.0,
		TargetRate:  4.0,
	}
}

func testSource() rand.Source {
	return rand.NewPCG(42, 42)
}

func TestForecastDeterministicWithoutShock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShockVolatility = 0
	f := New(cfg, zerolog.Nop())

	path, err := f.Forecast(testSnapshot(), 1, testSource())
	require.NoError(t, err)
	require.Len(t, path.Rates, 1)

	// rate[1] = 10 + 0.2*(4-10) = 8.8
	assert.InDelta(t, 8.8, path.Rates[0], 1e-12)
	assert.InDelta(t, 8.8, path.ExpectedAverage, 1e-12)
}

func TestForecastConvergesMonotonicallyToTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShockVolatility = 0
	f := New(cfg, zerolog.Nop())

	path, err := f.Forecast(testSnapshot(), 24, testSource())
	require.NoError(t, err)
	require.Len(t, path.Rates, 24)

	prev := 10.0
	for i, r := range path.Rates {
		assert.Less(t, r, prev, "rate should decrease toward target at step %d", i)
		assert.Greater(t, r, 4.0, "rate should not cross the target")
		prev = r
	}

	// After 24 periods at 20% reversion the path is essentially at target
	assert.InDelta(t, 4.0, path.Rates[23], 0.05)
}

func TestForecastReproducibleForSameSeed(t *testing.T) {
	f := New(DefaultConfig(), zerolog.Nop())

	a, err := f.Forecast(testSnapshot(), 12, rand.NewPCG(7, 7))
	require.NoError(t, err)
	b, err := f.Forecast(testSnapshot(), 12, rand.NewPCG(7, 7))
	require.NoError(t, err)

	assert.Equal(t, a.Rates, b.Rates)
}

func TestForecastClampedToBounds(t *testing.T) {
	// Extreme shock volatility must still never escape [1, 12].
	cfg := DefaultConfig()
	cfg.ShockVolatility = 50.0
	f := New(cfg, zerolog.Nop())

	path, err := f.Forecast(testSnapshot(), 100, testSource())
	require.NoError(t, err)

	for i, r := range path.Rates {
		assert.GreaterOrEqual(t, r, 1.0, "step %d", i)
		assert.LessOrEqual(t, r, 12.0, "step %d", i)
	}
}

func TestForecastExpectedAverageIsMeanOfPath(t *testing.T) {
	f := New(DefaultConfig(), zerolog.Nop())

	path, err := f.Forecast(testSnapshot(), 12, testSource())
	require.NoError(t, err)

	sum := 0.0
	for _, r := range path.Rates {
		sum += r
	}
	assert.InDelta(t, sum/12.0, path.ExpectedAverage, 1e-12)
}

func TestForecastRejectsBadPeriods(t *testing.T) {
	f := New(DefaultConfig(), zerolog.Nop())

	_, err := f.Forecast(testSnapshot(), 0, testSource())
	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)

	_, err = f.Forecast(testSnapshot(), MaxPeriods+1, testSource())
	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
}
