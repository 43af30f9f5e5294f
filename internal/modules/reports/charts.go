package reports

import (
	"errors"
	"fmt"

	"github.com/vicanso/go-charts/v2"

	"github.com/asterios/inflacast/internal/domain"
)

// Chart dimensions for PDF embedding (3:2, renders crisp at half size).
const (
	chartWidth  = 600
	chartHeight = 400
)

// ForecastChart renders the projected inflation rate path as a PNG.
// The current rate is prepended so the line starts from today.
func ForecastChart(current float64, path domain.ForecastPath) ([]byte, error) {
	if len(path.Rates) == 0 {
		return nil, errors.New("empty forecast path")
	}

	series := append([]float64{current}, path.Rates...)
	labels := make([]string, len(series))
	labels[0] = "now"
	for i := 1; i < len(series); i++ {
		labels[i] = fmt.Sprintf("+%dm", i)
	}

	yMin, yMax := padBounds(series)
	painter, err := charts.LineRender([][]float64{series},
		charts.TitleTextOptionFunc("Inflation Forecast (% p.a.)"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: 12}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render forecast chart: %w", err)
	}
	return painter.Bytes()
}

// PurchasingPowerChart renders one line per scenario showing the value of
// one unit of currency over the horizon.
func PurchasingPowerChart(scenarios []domain.Scenario) ([]byte, error) {
	if len(scenarios) == 0 {
		return nil, errors.New("no scenarios")
	}

	values := make([][]float64, 0, len(scenarios))
	names := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		values = append(values, s.PurchasingPower)
		names = append(names, s.Name)
	}

	return multiLineChart("Purchasing Power of 1.00", yearLabels(len(scenarios[0].PurchasingPower)), values, names)
}

// PortfolioChart renders one line per simulated portfolio path.
func PortfolioChart(paths []domain.PortfolioPath) ([]byte, error) {
	if len(paths) == 0 {
		return nil, errors.New("no portfolio paths")
	}

	values := make([][]float64, 0, len(paths))
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		values = append(values, p.Values)
		names = append(names, p.Name)
	}

	return multiLineChart("Projected Portfolio Value", yearLabels(len(paths[0].Values)), values, names)
}

func multiLineChart(title string, labels []string, values [][]float64, names []string) ([]byte, error) {
	var flat []float64
	for _, series := range values {
		flat = append(flat, series...)
	}
	yMin, yMax := padBounds(flat)

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: 10}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s chart: %w", title, err)
	}
	return painter.Bytes()
}

func yearLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("Y%d", i)
	}
	return labels
}

// padBounds gives the y-axis a 5% margin so lines never hug the frame.
func padBounds(series []float64) (min, max float64) {
	if len(series) == 0 {
		return 0, 1
	}
	min, max = series[0], series[0]
	for _, v := range series[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	pad := (max - min) * 0.05
	if pad == 0 {
		pad = 0.5
	}
	min -= pad
	if min < 0 {
		min = 0
	}
	max += pad
	return min, max
}
