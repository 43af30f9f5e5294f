// Package jobs contains scheduled jobs for the inflation module.
package jobs

import (
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/asterios/inflacast/internal/domain"
	"github.com/asterios/inflacast/internal/modules/inflation"
	"github.com/asterios/inflacast/pkg/formulas"
)

// Perturbation bands applied per refresh. There is no live upstream feed;
// the refresh drifts the stored snapshot inside realistic monthly bands
// so downstream consumers see fresh data on every cycle.
const (
	rateBand     = 0.05  // current rate moves up to +/-5% of itself
	expectedBand = 0.025 // expected average moves up to +/-2.5%
	categoryBand = 0.04  // category rates move up to +/-4%
)

// Store is the snapshot persistence the job needs.
type Store interface {
	Latest() (domain.InflationSnapshot, error)
	Save(domain.InflationSnapshot) error
}

// RefreshJob periodically rolls the stored inflation snapshot forward by
// one month. Run executes on the cron goroutine and, via the manual
// trigger endpoint, on request goroutines, so each run builds its own
// random source instead of sharing generator state.
type RefreshJob struct {
	store Store
	seed  uint64
	runs  atomic.Uint64
	log   zerolog.Logger
}

// NewRefreshJob creates the snapshot refresh job. A zero seed gives each
// run clock-derived draws; a fixed seed keeps runs reproducible.
func NewRefreshJob(store Store, seed uint64, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		store: store,
		seed:  seed,
		log:   log.With().Str("job", "inflation_refresh").Logger(),
	}
}

// Name implements scheduler.Job.
func (j *RefreshJob) Name() string {
	return "inflation_refresh"
}

// Run loads the latest snapshot, perturbs it and saves the result.
func (j *RefreshJob) Run() error {
	latest, err := j.store.Latest()
	if err != nil {
		return err
	}

	next := Advance(latest, j.runSource())
	if err := j.store.Save(next); err != nil {
		return err
	}

	j.log.Info().
		Float64("current_rate", next.CurrentRate).
		Float64("expected_average", next.ExpectedAverage).
		Msg("Refreshed inflation snapshot")
	return nil
}

// runSource builds an independent source for one run. With a fixed seed
// the run index is mixed in so successive runs still get distinct draws.
func (j *RefreshJob) runSource() rand.Source {
	n := j.runs.Add(1)
	if j.seed == 0 {
		return formulas.NewSource(0)
	}
	return formulas.NewSource(j.seed + n)
}

// Advance rolls a snapshot forward one month. The current rate becomes
// the previous rate, a perturbed rate becomes current and joins the
// historical series, and the series is trimmed to the trailing window.
func Advance(snapshot domain.InflationSnapshot, src rand.Source) domain.InflationSnapshot {
	rng := rand.New(src)

	next := domain.InflationSnapshot{
		PreviousRate:    snapshot.CurrentRate,
		TargetRate:      snapshot.TargetRate,
		CurrentRate:     round1(snapshot.CurrentRate * jitter(rng, rateBand)),
		ExpectedAverage: round1(snapshot.ExpectedAverage * jitter(rng, expectedBand)),
		CategoryRates:   make(map[string]float64, len(snapshot.CategoryRates)),
	}

	for category, rate := range snapshot.CategoryRates {
		next.CategoryRates[category] = round1(rate * jitter(rng, categoryBand))
	}

	history := append(append([]float64{}, snapshot.HistoricalRates...), next.CurrentRate)
	if len(history) > inflation.HistoryMonths {
		history = history[len(history)-inflation.HistoryMonths:]
	}
	next.HistoricalRates = history

	return next
}

// jitter returns a multiplier uniform in [1-band, 1+band).
func jitter(rng *rand.Rand, band float64) float64 {
	return 1 + (rng.Float64()*2-1)*band
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
