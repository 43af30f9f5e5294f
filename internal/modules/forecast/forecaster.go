// Package forecast projects future inflation rates with a discrete
// mean-reverting random walk.
package forecast

import (
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/asterios/inflacast/internal/domain"
	"github.com/asterios/inflacast/pkg/formulas"
)

// MaxPeriods bounds a single forecast request.
const MaxPeriods = 120

// Config holds the parameters of the mean-reverting walk.
type Config struct {
	ReversionSpeed  float64 // fraction of the gap to target closed per period
	ShockVolatility float64 // stddev of the per-period normal shock, in percentage points
	MinRate         float64 // per-step clamp floor (%)
	MaxRate         float64 // per-step clamp ceiling (%)
}

// DefaultConfig returns the production parameters. The clamp bounds
// represent plausible annual inflation and are enforced on every step so a
// run of shocks cannot walk the path away from the band.
func DefaultConfig() Config {
	return Config{
		ReversionSpeed:  0.2,
		ShockVolatility: 0.5,
		MinRate:         1.0,
		MaxRate:         12.0,
	}
}

// Forecaster produces inflation rate paths from an inflation snapshot.
// It is stateless; the random source is supplied per call so concurrent
// forecasts never share a generator.
type Forecaster struct {
	cfg Config
	log zerolog.Logger
}

// New creates a forecaster with the given configuration.
func New(cfg Config, log zerolog.Logger) *Forecaster {
	return &Forecaster{
		cfg: cfg,
		log: log.With().Str("component", "forecaster").Logger(),
	}
}

// Forecast projects the inflation rate forward by the given number of
// periods. Each step closes ReversionSpeed of the gap to the target rate,
// adds a normal shock, and clamps into [MinRate, MaxRate]. The returned
// path excludes t=0 (the snapshot's current rate).
func (f *Forecaster) Forecast(snapshot domain.InflationSnapshot, periods int, src rand.Source) (domain.ForecastPath, error) {
	if periods <= 0 || periods > MaxPeriods {
		return domain.ForecastPath{}, fmt.Errorf("%w: %d periods (must be 1..%d)", domain.ErrInvalidHorizon, periods, MaxPeriods)
	}

	var shock *distuv.Normal
	if f.cfg.ShockVolatility > 0 {
		shock = &distuv.Normal{Mu: 0, Sigma: f.cfg.ShockVolatility, Src: src}
	}

	rates := make([]float64, periods)
	last := snapshot.CurrentRate

	for t := 0; t < periods; t++ {
		next := last + f.cfg.ReversionSpeed*(snapshot.TargetRate-last)
		if shock != nil {
			next += shock.Rand()
		}

		// Clamp every step, not just the final rate
		next = formulas.Clamp(next, f.cfg.MinRate, f.cfg.MaxRate)

		rates[t] = next
		last = next
	}

	path := domain.ForecastPath{
		Rates:           rates,
		ExpectedAverage: stat.Mean(rates, nil),
	}

	f.log.Debug().
		Int("periods", periods).
		Float64("current_rate", snapshot.CurrentRate).
		Float64("target_rate", snapshot.TargetRate).
		Float64("expected_average", path.ExpectedAverage).
		Msg("Generated inflation forecast")

	return path, nil
}
