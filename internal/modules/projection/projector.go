// Package projection simulates multi-year portfolio value paths under
// named market scenarios using a lognormal yearly-return model.
package projection

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/asterios/inflacast/internal/domain"
	"github.com/asterios/inflacast/internal/modules/allocation"
)

// Market scenario names, fixed set.
const (
	NameExpected    = "Expected"
	NameOptimistic  = "Optimistic"
	NamePessimistic = "Pessimistic"
)

// marketScenario scales the blended portfolio return and volatility.
type marketScenario struct {
	name       string
	returnMult float64
	volMult    float64
}

var marketScenarios = []marketScenario{
	{name: NameExpected, returnMult: 1.0, volMult: 1.0},
	{name: NameOptimistic, returnMult: 1.2, volMult: 0.8},
	{name: NamePessimistic, returnMult: 0.8, volMult: 1.2},
}

// Projector simulates portfolio value paths. Stateless; the random source
// is supplied per call.
type Projector struct {
	log zerolog.Logger
}

// New creates a portfolio projector.
func New(log zerolog.Logger) *Projector {
	return &Projector{log: log.With().Str("component", "projector").Logger()}
}

// Simulate projects the portfolio value over the horizon for each market
// scenario. Yearly returns are drawn from a lognormal whose mean is shifted
// by -sigma^2/2 so the arithmetic mean simple return equals the scenario's
// adjusted expected return.
func (p *Projector) Simulate(initialInvestment float64, alloc domain.Allocation, horizonYears int, src rand.Source) ([]domain.PortfolioPath, error) {
	if err := domain.ValidateHorizon(horizonYears); err != nil {
		return nil, fmt.Errorf("simulate portfolio: %w", err)
	}
	if err := alloc.Validate(); err != nil {
		return nil, fmt.Errorf("simulate portfolio: %w", err)
	}
	if initialInvestment < 0 || math.IsNaN(initialInvestment) || math.IsInf(initialInvestment, 0) {
		return nil, fmt.Errorf("%w: initial investment %.2f", domain.ErrInvalidAllocation, initialInvestment)
	}

	portfolioReturn := allocation.PortfolioReturn(alloc)
	portfolioVolatility := allocation.PortfolioVolatility(alloc)

	paths := make([]domain.PortfolioPath, 0, len(marketScenarios))
	for _, scenario := range marketScenarios {
		adjReturn := portfolioReturn * scenario.returnMult
		adjVol := portfolioVolatility * scenario.volMult

		values := make([]float64, horizonYears+1)
		values[0] = initialInvestment
		for year := 1; year <= horizonYears; year++ {
			values[year] = values[year-1] * (1 + yearlyReturn(adjReturn, adjVol, src))
		}

		paths = append(paths, domain.PortfolioPath{
			Name:   scenario.name,
			Values: values,
		})
	}

	p.log.Debug().
		Int("horizon_years", horizonYears).
		Float64("initial_investment", initialInvestment).
		Float64("portfolio_return", portfolioReturn).
		Float64("portfolio_volatility", portfolioVolatility).
		Msg("Simulated portfolio paths")

	return paths, nil
}

// yearlyReturn draws one simple yearly return for the given expected return
// and volatility (both in %). Mu is ln(1+r) - sigma^2/2 so the lognormal's
// arithmetic mean equals 1+r; at zero volatility the distribution collapses
// to exactly r.
func yearlyReturn(adjReturnPct, adjVolPct float64, src rand.Source) float64 {
	sigma := adjVolPct / 100
	mu := math.Log(1+adjReturnPct/100) - 0.5*sigma*sigma
	if sigma == 0 {
		return math.Exp(mu) - 1
	}
	dist := distuv.LogNormal{Mu: mu, Sigma: sigma, Src: src}
	return dist.Rand() - 1
}
