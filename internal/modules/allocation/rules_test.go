package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterios/inflacast/internal/domain"
)

func TestExpectedReturnAndVolatilityTables(t *testing.T) {
	assert.Equal(t, 12.0, ExpectedReturn(domain.AssetEquity))
	assert.Equal(t, 7.5, ExpectedReturn(domain.AssetDebt))
	assert.Equal(t, 8.0, ExpectedReturn(domain.AssetGold))
	assert.Equal(t, 9.0, ExpectedReturn(domain.AssetRealEstate))
	assert.Equal(t, 5.5, ExpectedReturn(domain.AssetCash))

	assert.Equal(t, 18.0, Volatility(domain.AssetEquity))
	assert.Equal(t, 6.0, Volatility(domain.AssetDebt))
	assert.Equal(t, 12.0, Volatility(domain.AssetGold))
	assert.Equal(t, 10.0, Volatility(domain.AssetRealEstate))
	assert.Equal(t, 0.5, Volatility(domain.AssetCash))
}

func TestBaselineAllocationsSumToOne(t *testing.T) {
	for _, profile := range []domain.RiskProfile{
		domain.RiskConservative,
		domain.RiskModerate,
		domain.RiskAggressive,
	} {
		base, err := BaselineAllocation(profile)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, base.Sum(), domain.AllocationSumTolerance, "profile %s", profile)
	}
}

func TestBaselineAllocationUnknownProfile(t *testing.T) {
	_, err := BaselineAllocation("Reckless")
	assert.ErrorIs(t, err, domain.ErrUnknownRiskProfile)
}

func TestBaselineAllocationReturnsCopy(t *testing.T) {
	a, err := BaselineAllocation(domain.RiskModerate)
	require.NoError(t, err)
	a[domain.AssetEquity] = 0.99

	b, err := BaselineAllocation(domain.RiskModerate)
	require.NoError(t, err)
	assert.Equal(t, 0.40, b[domain.AssetEquity])
}

func TestPortfolioReturnLinearBlend(t *testing.T) {
	a := domain.Allocation{
		domain.AssetEquity: 0.5,
		domain.AssetDebt:   0.5,
	}
	assert.InDelta(t, 0.5*12.0+0.5*7.5, PortfolioReturn(a), 1e-12)
	assert.InDelta(t, 0.5*18.0+0.5*6.0, PortfolioVolatility(a), 1e-12)
}

func TestAdjustForHorizonLong(t *testing.T) {
	base, err := BaselineAllocation(domain.RiskModerate)
	require.NoError(t, err)

	adjusted, err := AdjustForHorizon(base, 11)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, adjusted.Sum(), domain.AllocationSumTolerance)

	// Equity shifted up relative to baseline, debt and cash down
	assert.Greater(t, adjusted[domain.AssetEquity], base[domain.AssetEquity])
	assert.Less(t, adjusted[domain.AssetDebt], base[domain.AssetDebt])

	// Baseline input must not be mutated
	assert.Equal(t, 0.40, base[domain.AssetEquity])
}

func TestAdjustForHorizonShort(t *testing.T) {
	base, err := BaselineAllocation(domain.RiskAggressive)
	require.NoError(t, err)

	adjusted, err := AdjustForHorizon(base, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, adjusted.Sum(), domain.AllocationSumTolerance)
	assert.Less(t, adjusted[domain.AssetEquity], base[domain.AssetEquity])
	assert.Greater(t, adjusted[domain.AssetDebt], base[domain.AssetDebt])
}

func TestAdjustForHorizonMidRangeNoOp(t *testing.T) {
	base, err := BaselineAllocation(domain.RiskModerate)
	require.NoError(t, err)

	for _, years := range []int{3, 5, 10} {
		adjusted, err := AdjustForHorizon(base, years)
		require.NoError(t, err)
		assert.Equal(t, base, adjusted, "horizon %d should be a no-op", years)
	}
}

func TestAdjustForHorizonAppliesShiftOnce(t *testing.T) {
	// Horizon 11 and horizon 30 land in the same branch and must produce
	// the identical single shift, not a cumulative one.
	base, err := BaselineAllocation(domain.RiskModerate)
	require.NoError(t, err)

	at11, err := AdjustForHorizon(base, 11)
	require.NoError(t, err)
	at30, err := AdjustForHorizon(base, 30)
	require.NoError(t, err)
	assert.Equal(t, at11, at30)
}

func TestAdjustForHorizonInvalid(t *testing.T) {
	base, err := BaselineAllocation(domain.RiskModerate)
	require.NoError(t, err)

	_, err = AdjustForHorizon(base, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
	_, err = AdjustForHorizon(base, 500)
	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
}

func TestAdjustForInflationHigh(t *testing.T) {
	base, err := BaselineAllocation(domain.RiskConservative)
	require.NoError(t, err)

	adjusted, err := AdjustForInflation(base, 7.5)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, adjusted.Sum(), domain.AllocationSumTolerance)
	assert.Greater(t, adjusted[domain.AssetEquity], base[domain.AssetEquity])
	assert.Greater(t, adjusted[domain.AssetGold], base[domain.AssetGold])
	assert.Less(t, adjusted[domain.AssetDebt], base[domain.AssetDebt])
}

func TestAdjustForInflationLow(t *testing.T) {
	base, err := BaselineAllocation(domain.RiskAggressive)
	require.NoError(t, err)

	adjusted, err := AdjustForInflation(base, 2.0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, adjusted.Sum(), domain.AllocationSumTolerance)
	assert.Less(t, adjusted[domain.AssetEquity], base[domain.AssetEquity])
	assert.Greater(t, adjusted[domain.AssetDebt], base[domain.AssetDebt])
	assert.Greater(t, adjusted[domain.AssetCash], base[domain.AssetCash])
}

func TestAdjustForInflationNeutralBandNoOp(t *testing.T) {
	base, err := BaselineAllocation(domain.RiskModerate)
	require.NoError(t, err)

	for _, rate := range []float64{4.0, 5.0, 6.0} {
		adjusted, err := AdjustForInflation(base, rate)
		require.NoError(t, err)
		assert.Equal(t, base, adjusted, "rate %.1f should be a no-op", rate)
	}
}

func TestAdjustmentsPreserveSumInvariant(t *testing.T) {
	// Sum-to-1 must hold for every profile, horizon branch and inflation branch.
	for _, profile := range []domain.RiskProfile{
		domain.RiskConservative,
		domain.RiskModerate,
		domain.RiskAggressive,
	} {
		base, err := BaselineAllocation(profile)
		require.NoError(t, err)

		for _, years := range []int{1, 2, 3, 10, 11, 30} {
			afterHorizon, err := AdjustForHorizon(base, years)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, afterHorizon.Sum(), domain.AllocationSumTolerance)

			for _, rate := range []float64{1.0, 4.5, 8.0} {
				final, err := AdjustForInflation(afterHorizon, rate)
				require.NoError(t, err)
				assert.InDelta(t, 1.0, final.Sum(), domain.AllocationSumTolerance)
			}
		}
	}
}
