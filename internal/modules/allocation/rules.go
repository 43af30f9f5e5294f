// Package allocation provides the static asset-class rule tables and the
// allocation adjustment logic used by the recommendation engine.
package allocation

import (
	"fmt"

	"github.com/asterios/inflacast/internal/domain"
)

// Expected nominal annual return per asset class, in percent.
var expectedReturns = map[domain.AssetClass]float64{
	domain.AssetEquity:     12.0,
	domain.AssetDebt:       7.5,
	domain.AssetGold:       8.0,
	domain.AssetRealEstate: 9.0,
	domain.AssetCash:       5.5,
}

// Annual return standard deviation per asset class, in percent.
var volatilities = map[domain.AssetClass]float64{
	domain.AssetEquity:     18.0,
	domain.AssetDebt:       6.0,
	domain.AssetGold:       12.0,
	domain.AssetRealEstate: 10.0,
	domain.AssetCash:       0.5,
}

// Baseline allocations per risk profile. Weights sum to 1.0.
var baselines = map[domain.RiskProfile]domain.Allocation{
	domain.RiskConservative: {
		domain.AssetEquity:     0.20,
		domain.AssetDebt:       0.40,
		domain.AssetGold:       0.15,
		domain.AssetRealEstate: 0.15,
		domain.AssetCash:       0.10,
	},
	domain.RiskModerate: {
		domain.AssetEquity:     0.40,
		domain.AssetDebt:       0.30,
		domain.AssetGold:       0.10,
		domain.AssetRealEstate: 0.15,
		domain.AssetCash:       0.05,
	},
	domain.RiskAggressive: {
		domain.AssetEquity:     0.60,
		domain.AssetDebt:       0.20,
		domain.AssetGold:       0.05,
		domain.AssetRealEstate: 0.10,
		domain.AssetCash:       0.05,
	},
}

// Horizon and inflation thresholds for allocation tilts.
const (
	longHorizonYears  = 10
	shortHorizonYears = 3
	highInflationPct  = 6.0
	lowInflationPct   = 4.0
)

// ExpectedReturn returns the expected nominal annual return (%) for an asset class.
func ExpectedReturn(asset domain.AssetClass) float64 {
	return expectedReturns[asset]
}

// Volatility returns the annual return standard deviation (%) for an asset class.
func Volatility(asset domain.AssetClass) float64 {
	return volatilities[asset]
}

// BaselineAllocation returns the baseline allocation table for a risk profile.
// Returns ErrUnknownRiskProfile for tags outside the fixed three; UI callers
// are expected to fall back to Moderate rather than surface the error.
func BaselineAllocation(profile domain.RiskProfile) (domain.Allocation, error) {
	base, ok := baselines[profile]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRiskProfile, profile)
	}
	return base.Clone(), nil
}

// PortfolioReturn computes the weight-blended expected nominal return (%).
// This is a linear blend, not a variance-covariance aggregate.
func PortfolioReturn(a domain.Allocation) float64 {
	total := 0.0
	for asset, weight := range a {
		total += expectedReturns[asset] * weight
	}
	return total
}

// PortfolioVolatility computes the weight-blended volatility (%).
// Same simplifying linear blend as PortfolioReturn.
func PortfolioVolatility(a domain.Allocation) float64 {
	total := 0.0
	for asset, weight := range a {
		total += volatilities[asset] * weight
	}
	return total
}

// AdjustForHorizon tilts an allocation for the investment horizon.
// Horizons over 10 years shift weight into equity; horizons under 3 years
// shift it out. Horizons in [3,10] are a no-op. Each shift applies its cap
// or floor independently, then the result is renormalized.
func AdjustForHorizon(a domain.Allocation, years int) (domain.Allocation, error) {
	if err := domain.ValidateHorizon(years); err != nil {
		return nil, err
	}
	out := a.Clone()

	switch {
	case years > longHorizonYears:
		out[domain.AssetEquity] = capAt(out[domain.AssetEquity]+0.10, 0.70)
		out[domain.AssetDebt] = floorAt(out[domain.AssetDebt]-0.05, 0.10)
		out[domain.AssetCash] = floorAt(out[domain.AssetCash]-0.05, 0.05)
	case years < shortHorizonYears:
		out[domain.AssetEquity] = floorAt(out[domain.AssetEquity]-0.10, 0.10)
		out[domain.AssetDebt] = capAt(out[domain.AssetDebt]+0.05, 0.50)
		out[domain.AssetCash] = capAt(out[domain.AssetCash]+0.05, 0.20)
	default:
		return out, nil
	}

	return out.Normalize()
}

// AdjustForInflation tilts an allocation for the current inflation rate.
// Above 6% shifts toward equity and gold; below 4% shifts toward debt and
// cash. Rates in [4,6] are a no-op. Renormalizes after the shift.
func AdjustForInflation(a domain.Allocation, ratePct float64) (domain.Allocation, error) {
	out := a.Clone()

	switch {
	case ratePct > highInflationPct:
		out[domain.AssetEquity] = capAt(out[domain.AssetEquity]+0.05, 0.70)
		out[domain.AssetGold] = capAt(out[domain.AssetGold]+0.05, 0.20)
		out[domain.AssetCash] = floorAt(out[domain.AssetCash]-0.05, 0.05)
		out[domain.AssetDebt] = floorAt(out[domain.AssetDebt]-0.05, 0.10)
	case ratePct < lowInflationPct:
		out[domain.AssetDebt] = capAt(out[domain.AssetDebt]+0.05, 0.50)
		out[domain.AssetCash] = capAt(out[domain.AssetCash]+0.05, 0.20)
		out[domain.AssetEquity] = floorAt(out[domain.AssetEquity]-0.05, 0.10)
		out[domain.AssetGold] = floorAt(out[domain.AssetGold]-0.05, 0.05)
	default:
		return out, nil
	}

	return out.Normalize()
}

func capAt(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}

func floorAt(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}
