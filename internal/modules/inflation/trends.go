package inflation

import (
	"math"

	"github.com/asterios/inflacast/internal/domain"
	"github.com/asterios/inflacast/pkg/formulas"
)

// TrendStats summarizes the trailing monthly rate series of a snapshot.
// Moving averages are NaN-stripped into zero values when the series is
// too short for the period, which only happens with truncated snapshots.
type TrendStats struct {
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Sma3       float64 `json:"sma_3"`
	Sma6       float64 `json:"sma_6"`
	Ema3       float64 `json:"ema_3"`
	Direction  string  `json:"direction"`
	ChangePct  float64 `json:"change_pct"`
	AboveGoal  bool    `json:"above_goal"`
	GoalGapPct float64 `json:"goal_gap_pct"`
}

// Trends computes summary statistics over a snapshot's historical rates.
func Trends(snapshot domain.InflationSnapshot) TrendStats {
	rates := snapshot.HistoricalRates

	min, max := formulas.MinMax(rates)
	stats := TrendStats{
		Mean:   formulas.Mean(rates),
		StdDev: formulas.StdDev(rates),
		Min:    min,
		Max:    max,
		Sma3:   zeroNaN(formulas.Sma(rates, 3)),
		Sma6:   zeroNaN(formulas.Sma(rates, 6)),
		Ema3:   zeroNaN(formulas.Ema(rates, 3)),
	}

	stats.ChangePct = snapshot.CurrentRate - snapshot.PreviousRate
	switch {
	case stats.ChangePct > 0:
		stats.Direction = "rising"
	case stats.ChangePct < 0:
		stats.Direction = "falling"
	default:
		stats.Direction = "flat"
	}

	stats.GoalGapPct = snapshot.CurrentRate - snapshot.TargetRate
	stats.AboveGoal = stats.GoalGapPct > 0
	return stats
}

func zeroNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
