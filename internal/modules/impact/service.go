// Package impact projects the effect of inflation on household expenses
// and the real value of savings.
package impact

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/asterios/inflacast/internal/domain"
)

// defaultCategoryWeights splits monthly expenses across categories when the
// profile carries no breakdown of its own.
var defaultCategoryWeights = map[string]float64{
	"Housing":        0.30,
	"Food":           0.25,
	"Transportation": 0.15,
	"Healthcare":     0.10,
	"Education":      0.10,
	"Others":         0.10,
}

// fallbackCategoryRates covers categories missing from the snapshot.
var fallbackCategoryRates = map[string]float64{
	"Housing":        4.5,
	"Food":           7.8,
	"Transportation": 5.2,
	"Healthcare":     6.9,
	"Education":      5.7,
	"Others":         4.5,
}

// CategoryProjection is one expense category projected forward.
type CategoryProjection struct {
	Category      string  `json:"category"`
	CurrentAmount float64 `json:"current_amount"`
	FutureAmount  float64 `json:"future_amount"`
	InflationRate float64 `json:"inflation_rate"`
}

// ExpenseProjection is the full expense picture at a projection year.
type ExpenseProjection struct {
	Year         int                  `json:"year"`
	Categories   []CategoryProjection `json:"categories"`
	TotalCurrent float64              `json:"total_current"`
	TotalFuture  float64              `json:"total_future"`
	IncreasePct  float64              `json:"increase_pct"`
}

// SavingsErosion is the real value of current savings under one scenario.
type SavingsErosion struct {
	Scenario   string    `json:"scenario"`
	RealValues []float64 `json:"real_values"`
}

// Service computes expense and savings impact projections.
type Service struct {
	log zerolog.Logger
}

// NewService creates an impact service.
func NewService(log zerolog.Logger) *Service {
	return &Service{log: log.With().Str("component", "impact").Logger()}
}

// ProjectExpenses compounds each expense category forward by its own
// inflation rate: future = current * (1 + rate/100)^year. Categories are
// returned in descending current-amount order.
func (s *Service) ProjectExpenses(profile domain.FinancialProfile, snapshot domain.InflationSnapshot, year int) (ExpenseProjection, error) {
	if err := domain.ValidateHorizon(year); err != nil {
		return ExpenseProjection{}, fmt.Errorf("project expenses: %w", err)
	}
	if profile.Expenses < 0 {
		return ExpenseProjection{}, fmt.Errorf("project expenses: negative expenses %.2f", profile.Expenses)
	}

	projection := ExpenseProjection{Year: year}
	for category, weight := range defaultCategoryWeights {
		rate, ok := snapshot.CategoryRates[category]
		if !ok {
			rate = fallbackCategoryRates[category]
		}

		current := profile.Expenses * weight
		future := current * math.Pow(1+rate/100, float64(year))

		projection.Categories = append(projection.Categories, CategoryProjection{
			Category:      category,
			CurrentAmount: current,
			FutureAmount:  future,
			InflationRate: rate,
		})
		projection.TotalCurrent += current
		projection.TotalFuture += future
	}

	sort.Slice(projection.Categories, func(i, j int) bool {
		if projection.Categories[i].CurrentAmount == projection.Categories[j].CurrentAmount {
			return projection.Categories[i].Category < projection.Categories[j].Category
		}
		return projection.Categories[i].CurrentAmount > projection.Categories[j].CurrentAmount
	})

	if projection.TotalCurrent > 0 {
		projection.IncreasePct = (projection.TotalFuture/projection.TotalCurrent - 1) * 100
	}

	s.log.Debug().
		Int("year", year).
		Float64("total_current", projection.TotalCurrent).
		Float64("total_future", projection.TotalFuture).
		Msg("Projected category expenses")

	return projection, nil
}

// SavingsErosionFor scales the profile's savings by each scenario's
// purchasing-power curve, showing the real value of money left in cash.
func (s *Service) SavingsErosionFor(profile domain.FinancialProfile, scenarios []domain.Scenario) []SavingsErosion {
	out := make([]SavingsErosion, 0, len(scenarios))
	for _, sc := range scenarios {
		values := make([]float64, len(sc.PurchasingPower))
		for i, pp := range sc.PurchasingPower {
			values[i] = profile.Savings * pp
		}
		out = append(out, SavingsErosion{Scenario: sc.Name, RealValues: values})
	}
	return out
}

// PersonalInflationRate blends the category rates with the default expense
// weights, giving the household's effective inflation rate rather than the
// headline number.
func (s *Service) PersonalInflationRate(snapshot domain.InflationSnapshot) float64 {
	total := 0.0
	for category, weight := range defaultCategoryWeights {
		rate, ok := snapshot.CategoryRates[category]
		if !ok {
			rate = fallbackCategoryRates[category]
		}
		total += weight * rate
	}
	return total
}
