package projection

import (
	"math/rand/v2"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterios/inflacast/internal/domain"
)

func moderateAllocation() domain.Allocation {
	return domain.Allocation{
		domain.AssetEquity:     0.40,
		domain.AssetDebt:       0.30,
		domain.AssetGold:       0.10,
		domain.AssetRealEstate: 0.15,
		domain.AssetCash:       0.05,
	}
}

func TestSimulateProducesThreeScenarioPaths(t *testing.T) {
	p := New(zerolog.Nop())

	paths, err := p.Simulate(100000, moderateAllocation(), 5, rand.NewPCG(1, 1))
	require.NoError(t, err)
	require.Len(t, paths, 3)

	assert.Equal(t, NameExpected, paths[0].Name)
	assert.Equal(t, NameOptimistic, paths[1].Name)
	assert.Equal(t, NamePessimistic, paths[2].Name)

	for _, path := range paths {
		require.Len(t, path.Values, 6)
		assert.Equal(t, 100000.0, path.Values[0])
		for i, v := range path.Values {
			assert.Greater(t, v, 0.0, "path %s year %d", path.Name, i)
		}
	}
}

func TestYearlyReturnCollapsesAtZeroVolatility(t *testing.T) {
	src := rand.NewPCG(1, 1)

	// With zero volatility the lognormal degenerates to its mean:
	// the yearly return must equal adjReturn/100 exactly.
	r := yearlyReturn(10.0, 0.0, src)
	assert.InDelta(t, 0.10, r, 1e-12)

	// 100000 at a deterministic 10% for 3 years
	values := []float64{100000}
	for year := 0; year < 3; year++ {
		values = append(values, values[len(values)-1]*(1+yearlyReturn(10.0, 0.0, src)))
	}
	expected := []float64{100000, 110000, 121000, 133100}
	for i := range expected {
		assert.InDelta(t, expected[i], values[i], 1e-6)
	}
}

func TestYearlyReturnMeanMatchesExpectedReturn(t *testing.T) {
	// The -sigma^2/2 shift makes the arithmetic mean of simple returns
	// converge to adjReturn/100.
	src := rand.NewPCG(42, 42)

	const draws = 200000
	sum := 0.0
	for i := 0; i < draws; i++ {
		sum += yearlyReturn(8.0, 12.0, src)
	}
	assert.InDelta(t, 0.08, sum/draws, 0.002)
}

func TestSimulateReproducibleForSameSeed(t *testing.T) {
	p := New(zerolog.Nop())

	a, err := p.Simulate(50000, moderateAllocation(), 10, rand.NewPCG(7, 7))
	require.NoError(t, err)
	b, err := p.Simulate(50000, moderateAllocation(), 10, rand.NewPCG(7, 7))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSimulateValidatesInputs(t *testing.T) {
	p := New(zerolog.Nop())

	_, err := p.Simulate(1000, moderateAllocation(), 0, rand.NewPCG(1, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)

	_, err = p.Simulate(1000, domain.Allocation{domain.AssetEquity: -1}, 5, rand.NewPCG(1, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidAllocation)

	_, err = p.Simulate(-5, moderateAllocation(), 5, rand.NewPCG(1, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidAllocation)
}

func TestOptimisticOutpacesPessimisticOnAverage(t *testing.T) {
	p := New(zerolog.Nop())

	// Compare terminal values averaged over many seeded runs.
	var optimistic, pessimistic float64
	const runs = 500
	for i := 0; i < runs; i++ {
		paths, err := p.Simulate(100000, moderateAllocation(), 10, rand.NewPCG(uint64(i), uint64(i)))
		require.NoError(t, err)
		optimistic += paths[1].Values[10]
		pessimistic += paths[2].Values[10]
	}
	assert.Greater(t, optimistic/runs, pessimistic/runs)
}
