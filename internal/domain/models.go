// Package domain provides core domain models and types for the planning engine.
package domain

import (
	"errors"
	"fmt"
	"math"
)

// Engine validation errors. These are raised at the boundary of the public
// engine operations, never from inside the numeric loops.
var (
	// ErrInvalidAllocation indicates allocation weights that are negative,
	// non-finite, or sum to (approximately) zero so they cannot be renormalized.
	ErrInvalidAllocation = errors.New("invalid allocation")
	// ErrUnknownRiskProfile indicates a risk profile tag outside the fixed three.
	ErrUnknownRiskProfile = errors.New("unknown risk profile")
	// ErrInvalidHorizon indicates a non-positive or absurdly large horizon.
	ErrInvalidHorizon = errors.New("invalid investment horizon")
)

// AllocationSumTolerance is the tolerance for the sum-to-1 invariant.
const AllocationSumTolerance = 1e-6

// MaxHorizonYears bounds the accepted investment horizon.
const MaxHorizonYears = 30

// AssetClass is the closed set of asset classes the engine understands.
// Unknown asset names are rejected at the boundary rather than propagated
// as free-form map keys.
type AssetClass string

const (
	AssetEquity     AssetClass = "Equity"
	AssetDebt       AssetClass = "Debt"
	AssetGold       AssetClass = "Gold"
	AssetRealEstate AssetClass = "Real Estate"
	AssetCash       AssetClass = "Cash"
)

// AssetClasses lists all asset classes in canonical display order.
func AssetClasses() []AssetClass {
	return []AssetClass{AssetEquity, AssetDebt, AssetGold, AssetRealEstate, AssetCash}
}

// ParseAssetClass converts a string to an AssetClass, rejecting unknown names.
func ParseAssetClass(s string) (AssetClass, error) {
	switch AssetClass(s) {
	case AssetEquity, AssetDebt, AssetGold, AssetRealEstate, AssetCash:
		return AssetClass(s), nil
	}
	return "", fmt.Errorf("unknown asset class %q", s)
}

// RiskProfile represents the investor's risk tolerance.
type RiskProfile string

const (
	RiskConservative RiskProfile = "Conservative"
	RiskModerate     RiskProfile = "Moderate"
	RiskAggressive   RiskProfile = "Aggressive"
)

// ParseRiskProfile converts a string to a RiskProfile.
// Returns ErrUnknownRiskProfile for anything outside the fixed three.
func ParseRiskProfile(s string) (RiskProfile, error) {
	switch RiskProfile(s) {
	case RiskConservative, RiskModerate, RiskAggressive:
		return RiskProfile(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRiskProfile, s)
}

// Allocation maps asset classes to portfolio weights in [0,1].
// A valid allocation sums to 1.0 within AllocationSumTolerance.
// Allocations are value objects: transformations return new maps,
// the receiver is never mutated.
type Allocation map[AssetClass]float64

// Sum returns the total weight across all asset classes.
func (a Allocation) Sum() float64 {
	total := 0.0
	for _, w := range a {
		total += w
	}
	return total
}

// Validate checks weights for negative or non-finite values and verifies
// the allocation can be normalized. Returns ErrInvalidAllocation on failure.
func (a Allocation) Validate() error {
	if len(a) == 0 {
		return fmt.Errorf("%w: no weights", ErrInvalidAllocation)
	}
	for asset, w := range a {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: non-finite weight for %s", ErrInvalidAllocation, asset)
		}
		if w < 0 {
			return fmt.Errorf("%w: negative weight %.4f for %s", ErrInvalidAllocation, w, asset)
		}
	}
	if a.Sum() < AllocationSumTolerance {
		return fmt.Errorf("%w: weights sum to zero", ErrInvalidAllocation)
	}
	return nil
}

// Normalize returns a new allocation whose weights sum to exactly 1.0.
// The input must pass Validate.
func (a Allocation) Normalize() (Allocation, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	total := a.Sum()
	out := make(Allocation, len(a))
	for asset, w := range a {
		out[asset] = w / total
	}
	return out, nil
}

// Clone returns an independent copy of the allocation.
func (a Allocation) Clone() Allocation {
	out := make(Allocation, len(a))
	for asset, w := range a {
		out[asset] = w
	}
	return out
}

// Weight returns the weight for an asset class (0 when absent).
func (a Allocation) Weight(asset AssetClass) float64 {
	return a[asset]
}

// FinancialProfile is the user's financial snapshot consumed by the engine.
// Monetary amounts are monthly figures except Investments (total invested).
type FinancialProfile struct {
	ID                string      `json:"id"`
	Income            float64     `json:"income"`
	Expenses          float64     `json:"expenses"`
	Savings           float64     `json:"savings"`
	Investments       float64     `json:"investments"`
	CurrentAllocation Allocation  `json:"current_allocation"`
	RiskTolerance     RiskProfile `json:"risk_tolerance"`
	InvestmentHorizon int         `json:"investment_horizon"`
	Age               int         `json:"age"`
}

// ValidateHorizon checks an investment horizon in years.
func ValidateHorizon(years int) error {
	if years <= 0 || years > MaxHorizonYears {
		return fmt.Errorf("%w: %d years (must be 1..%d)", ErrInvalidHorizon, years, MaxHorizonYears)
	}
	return nil
}

// InflationSnapshot is the macro inflation picture the engine consumes.
// HistoricalRates is chronological (oldest first); PreviousRate is stored
// explicitly rather than derived from the series.
type InflationSnapshot struct {
	CurrentRate     float64            `json:"current_rate"`
	PreviousRate    float64            `json:"previous_rate"`
	TargetRate      float64            `json:"target_rate"`
	ExpectedAverage float64            `json:"expected_average"`
	HistoricalRates []float64          `json:"historical_rates"`
	CategoryRates   map[string]float64 `json:"category_rates"`
}

// ForecastPath is a projected inflation rate path. Rates[0] is the first
// future period (t=1); the current rate is not included.
type ForecastPath struct {
	Rates           []float64 `json:"rates"`
	ExpectedAverage float64   `json:"expected_average"`
}

// Scenario is a named inflation scenario with its purchasing-power curve.
// PurchasingPower has horizon+1 entries anchored at 1.0 for t=0.
type Scenario struct {
	Name            string    `json:"name"`
	RatePath        []float64 `json:"rate_path"`
	PurchasingPower []float64 `json:"purchasing_power"`
}

// PortfolioPath is a simulated portfolio value path under a named market
// scenario. Values has horizon+1 entries; Values[0] is the initial investment.
type PortfolioPath struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// RecommendationResult is the output of the recommendation engine.
type RecommendationResult struct {
	RecommendedAllocation Allocation `json:"recommended_allocation"`
	CurrentReturn         float64    `json:"current_return"`
	RecommendedReturn     float64    `json:"recommended_return"`
}
