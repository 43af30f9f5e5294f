// Package scenarios simulates named macro inflation scenarios and their
// effect on purchasing power.
package scenarios

import (
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/asterios/inflacast/internal/domain"
)

// Scenario names, fixed set.
const (
	NameExpected = "Expected"
	NameHigh     = "High Inflation"
	NameLow      = "Low Inflation"
)

// rateFloorPct keeps the purchasing-power recurrence defined: a simulated
// yearly rate at or below -100% would divide by zero or flip the sign of
// the curve, so draws are floored here before the division.
const rateFloorPct = -99.0

// scenarioSpec describes the multiplicative draw for one scenario:
// rate = currentRate * (base + spread*z), z ~ N(0,1).
type scenarioSpec struct {
	name   string
	base   float64
	spread float64
}

var specs = []scenarioSpec{
	{name: NameExpected, base: 0.95, spread: 0.10},
	{name: NameHigh, base: 1.20, spread: 0.15},
	{name: NameLow, base: 0.70, spread: 0.10},
}

// Simulator builds inflation scenarios from an inflation snapshot.
type Simulator struct {
	log zerolog.Logger
}

// New creates a scenario simulator.
func New(log zerolog.Logger) *Simulator {
	return &Simulator{log: log.With().Str("component", "scenario_simulator").Logger()}
}

// Simulate produces the three named scenarios over the given horizon.
// Each scenario draws an independent yearly rate path around the current
// rate and derives the purchasing-power curve pp[t] = pp[t-1]/(1+rate/100),
// anchored at pp[0] = 1.0.
func (s *Simulator) Simulate(snapshot domain.InflationSnapshot, horizonYears int, src rand.Source) ([]domain.Scenario, error) {
	if err := domain.ValidateHorizon(horizonYears); err != nil {
		return nil, fmt.Errorf("simulate scenarios: %w", err)
	}

	z := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	out := make([]domain.Scenario, 0, len(specs))
	for _, spec := range specs {
		ratePath := make([]float64, horizonYears)
		for year := 0; year < horizonYears; year++ {
			rate := snapshot.CurrentRate * (spec.base + spec.spread*z.Rand())
			if rate < rateFloorPct {
				rate = rateFloorPct
			}
			ratePath[year] = rate
		}

		pp := make([]float64, horizonYears+1)
		pp[0] = 1.0
		for t := 1; t <= horizonYears; t++ {
			pp[t] = pp[t-1] / (1 + ratePath[t-1]/100)
		}

		out = append(out, domain.Scenario{
			Name:            spec.name,
			RatePath:        ratePath,
			PurchasingPower: pp,
		})
	}

	s.log.Debug().
		Int("horizon_years", horizonYears).
		Float64("current_rate", snapshot.CurrentRate).
		Msg("Simulated inflation scenarios")

	return out, nil
}
