package planning

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterios/inflacast/internal/domain"
)

func moderateProfile() domain.FinancialProfile {
	return domain.FinancialProfile{
		Income:      80000,
		Expenses:    50000,
		Savings:     30000,
		Investments: 500000,
		CurrentAllocation: domain.Allocation{
			domain.AssetEquity:     0.30,
			domain.AssetDebt:       0.30,
			domain.AssetGold:       0.15,
			domain.AssetRealEstate: 0.15,
			domain.AssetCash:       0.10,
		},
		RiskTolerance:     domain.RiskModerate,
		InvestmentHorizon: 5,
		Age:               35,
	}
}

func TestRecommendNeutralInputsReturnBaseline(t *testing.T) {
	svc := NewService(zerolog.Nop())

	// Horizon 5 is in [3,10] and rate 5.0 is in [4,6]: no tilt applies,
	// the recommendation must be exactly the Moderate baseline table.
	result, err := svc.Recommend(moderateProfile(), domain.InflationSnapshot{CurrentRate: 5.0})
	require.NoError(t, err)

	expected := domain.Allocation{
		domain.AssetEquity:     0.40,
		domain.AssetDebt:       0.30,
		domain.AssetGold:       0.10,
		domain.AssetRealEstate: 0.15,
		domain.AssetCash:       0.05,
	}
	assert.Equal(t, expected, result.RecommendedAllocation)
}

func TestRecommendReturnMetrics(t *testing.T) {
	svc := NewService(zerolog.Nop())

	result, err := svc.Recommend(moderateProfile(), domain.InflationSnapshot{CurrentRate: 5.0})
	require.NoError(t, err)

	// Current: .30*12 + .30*7.5 + .15*8 + .15*9 + .10*5.5
	assert.InDelta(t, 8.95, result.CurrentReturn, 1e-9)
	// Moderate baseline: .40*12 + .30*7.5 + .10*8 + .15*9 + .05*5.5
	assert.InDelta(t, 9.475, result.RecommendedReturn, 1e-9)
	assert.Greater(t, result.RecommendedReturn, result.CurrentReturn)
}

func TestRecommendHighInflationLongHorizon(t *testing.T) {
	svc := NewService(zerolog.Nop())

	profile := moderateProfile()
	profile.InvestmentHorizon = 15

	result, err := svc.Recommend(profile, domain.InflationSnapshot{CurrentRate: 7.5})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.RecommendedAllocation.Sum(), domain.AllocationSumTolerance)
	// Both tilts push equity above the 0.40 baseline
	assert.Greater(t, result.RecommendedAllocation[domain.AssetEquity], 0.40)
}

func TestRecommendRejectsInvalidCurrentAllocation(t *testing.T) {
	svc := NewService(zerolog.Nop())

	profile := moderateProfile()
	profile.CurrentAllocation = domain.Allocation{domain.AssetEquity: math.NaN()}

	_, err := svc.Recommend(profile, domain.InflationSnapshot{CurrentRate: 5.0})
	assert.ErrorIs(t, err, domain.ErrInvalidAllocation)
}

func TestRecommendRejectsUnknownRiskProfile(t *testing.T) {
	svc := NewService(zerolog.Nop())

	profile := moderateProfile()
	profile.RiskTolerance = "Speculative"

	_, err := svc.Recommend(profile, domain.InflationSnapshot{CurrentRate: 5.0})
	assert.ErrorIs(t, err, domain.ErrUnknownRiskProfile)
}

func TestRealPerformanceFor(t *testing.T) {
	svc := NewService(zerolog.Nop())

	alloc := domain.Allocation{domain.AssetEquity: 0.5, domain.AssetDebt: 0.5}
	perf, err := svc.RealPerformanceFor(alloc, 5.0, 5)
	require.NoError(t, err)

	nominal := 0.5*12.0 + 0.5*7.5 // 9.75
	assert.InDelta(t, nominal, perf.NominalReturn, 1e-9)
	assert.InDelta(t, nominal-5.0, perf.RealReturn, 1e-9)
	assert.InDelta(t, math.Pow(1.0975, 5), perf.NominalMultiplier, 1e-9)
	assert.InDelta(t, math.Pow(1.0475, 5), perf.RealMultiplier, 1e-9)
	assert.Equal(t, 5, perf.Years)
}

func TestRealPerformanceValidates(t *testing.T) {
	svc := NewService(zerolog.Nop())

	_, err := svc.RealPerformanceFor(domain.Allocation{}, 5.0, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidAllocation)

	_, err = svc.RealPerformanceFor(domain.Allocation{domain.AssetCash: 1.0}, 5.0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidHorizon)
}
