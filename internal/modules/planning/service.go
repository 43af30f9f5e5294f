// Package planning derives recommended allocations and comparative return
// metrics from a financial profile and the current inflation picture.
package planning

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/asterios/inflacast/internal/domain"
	"github.com/asterios/inflacast/internal/modules/allocation"
)

// Service is the recommendation engine. Stateless and side-effect-free;
// all inputs arrive as explicit arguments.
type Service struct {
	log zerolog.Logger
}

// NewService creates a planning service.
func NewService(log zerolog.Logger) *Service {
	return &Service{log: log.With().Str("component", "planning").Logger()}
}

// Recommend derives a target allocation for the profile: baseline by risk
// tolerance, tilted for horizon, then tilted for current inflation. The
// result includes the expected-return comparison against the profile's
// current allocation.
func (s *Service) Recommend(profile domain.FinancialProfile, snapshot domain.InflationSnapshot) (domain.RecommendationResult, error) {
	if err := profile.CurrentAllocation.Validate(); err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("recommend: %w", err)
	}

	base, err := allocation.BaselineAllocation(profile.RiskTolerance)
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("recommend: %w", err)
	}

	afterHorizon, err := allocation.AdjustForHorizon(base, profile.InvestmentHorizon)
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("recommend: %w", err)
	}

	recommended, err := allocation.AdjustForInflation(afterHorizon, snapshot.CurrentRate)
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("recommend: %w", err)
	}

	result := domain.RecommendationResult{
		RecommendedAllocation: recommended,
		CurrentReturn:         allocation.PortfolioReturn(profile.CurrentAllocation),
		RecommendedReturn:     allocation.PortfolioReturn(recommended),
	}

	s.log.Debug().
		Str("risk_tolerance", string(profile.RiskTolerance)).
		Int("horizon_years", profile.InvestmentHorizon).
		Float64("current_return", result.CurrentReturn).
		Float64("recommended_return", result.RecommendedReturn).
		Msg("Generated allocation recommendation")

	return result, nil
}

// RealPerformance holds nominal vs inflation-adjusted performance metrics
// for an allocation held over a number of years.
type RealPerformance struct {
	NominalReturn     float64 `json:"nominal_return"`
	RealReturn        float64 `json:"real_return"`
	NominalMultiplier float64 `json:"nominal_multiplier"`
	RealMultiplier    float64 `json:"real_multiplier"`
	Years             int     `json:"years"`
}

// RealPerformanceFor computes the expected real (inflation-adjusted)
// performance of an allocation: the blended nominal return less the
// inflation rate, compounded over the horizon.
func (s *Service) RealPerformanceFor(alloc domain.Allocation, inflationRatePct float64, years int) (RealPerformance, error) {
	if err := alloc.Validate(); err != nil {
		return RealPerformance{}, fmt.Errorf("real performance: %w", err)
	}
	if err := domain.ValidateHorizon(years); err != nil {
		return RealPerformance{}, fmt.Errorf("real performance: %w", err)
	}

	nominal := allocation.PortfolioReturn(alloc)
	real := nominal - inflationRatePct

	return RealPerformance{
		NominalReturn:     nominal,
		RealReturn:        real,
		NominalMultiplier: math.Pow(1+nominal/100, float64(years)),
		RealMultiplier:    math.Pow(1+real/100, float64(years)),
		Years:             years,
	}, nil
}
