// Package reports renders the downloadable planning report.
package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"github.com/asterios/inflacast/internal/domain"
	"github.com/asterios/inflacast/internal/modules/planning"
)

// Input bundles everything the report renders. All simulations are run by
// the caller so the generator stays deterministic and side-effect free.
type Input struct {
	GeneratedAt     time.Time
	Profile         domain.FinancialProfile
	Snapshot        domain.InflationSnapshot
	Forecast        domain.ForecastPath
	Scenarios       []domain.Scenario
	PortfolioPaths  []domain.PortfolioPath
	Recommendation  domain.RecommendationResult
	RealPerformance planning.RealPerformance
}

// Generator assembles planning reports as PDF documents.
type Generator struct {
	log zerolog.Logger
}

// NewGenerator creates a report generator.
func NewGenerator(log zerolog.Logger) *Generator {
	return &Generator{
		log: log.With().Str("component", "reports").Logger(),
	}
}

// Generate renders the full report and returns the PDF bytes.
func (g *Generator) Generate(in Input) ([]byte, error) {
	forecastPNG, err := ForecastChart(in.Snapshot.CurrentRate, in.Forecast)
	if err != nil {
		return nil, err
	}
	powerPNG, err := PurchasingPowerChart(in.Scenarios)
	if err != nil {
		return nil, err
	}
	portfolioPNG, err := PortfolioChart(in.PortfolioPaths)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	g.writeHeader(pdf, in)
	g.writeProfile(pdf, in.Profile)
	g.writeInflation(pdf, in.Snapshot)
	g.writeAllocation(pdf, in.Profile.CurrentAllocation, in.Recommendation)
	g.writePerformance(pdf, in.RealPerformance)

	pdf.AddPage()
	g.writeSection(pdf, "Projections")
	embedChart(pdf, "forecast", forecastPNG)
	embedChart(pdf, "purchasing_power", powerPNG)

	pdf.AddPage()
	g.writeSection(pdf, "Portfolio Simulation")
	embedChart(pdf, "portfolio", portfolioPNG)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}

	g.log.Info().Int("pdf_size", buf.Len()).Msg("Generated planning report")
	return buf.Bytes(), nil
}

func (g *Generator) writeHeader(pdf *fpdf.Fpdf, in Input) {
	generated := in.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Inflation Impact Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, "Generated "+generated.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (g *Generator) writeSection(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func (g *Generator) writeProfile(pdf *fpdf.Fpdf, p domain.FinancialProfile) {
	g.writeSection(pdf, "Financial Profile")
	pdf.SetFont("Arial", "", 10)

	rows := [][2]string{
		{"Monthly income", fmt.Sprintf("%.0f", p.Income)},
		{"Monthly expenses", fmt.Sprintf("%.0f", p.Expenses)},
		{"Monthly savings", fmt.Sprintf("%.0f", p.Savings)},
		{"Total investments", fmt.Sprintf("%.0f", p.Investments)},
		{"Risk tolerance", string(p.RiskTolerance)},
		{"Investment horizon", fmt.Sprintf("%d years", p.InvestmentHorizon)},
	}
	for _, row := range rows {
		pdf.CellFormat(60, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (g *Generator) writeInflation(pdf *fpdf.Fpdf, s domain.InflationSnapshot) {
	g.writeSection(pdf, "Inflation Snapshot")
	pdf.SetFont("Arial", "", 10)

	rows := [][2]string{
		{"Current rate", fmt.Sprintf("%.1f%%", s.CurrentRate)},
		{"Previous rate", fmt.Sprintf("%.1f%%", s.PreviousRate)},
		{"Target rate", fmt.Sprintf("%.1f%%", s.TargetRate)},
		{"Expected average", fmt.Sprintf("%.1f%%", s.ExpectedAverage)},
	}
	for _, row := range rows {
		pdf.CellFormat(60, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (g *Generator) writeAllocation(pdf *fpdf.Fpdf, current domain.Allocation, rec domain.RecommendationResult) {
	g.writeSection(pdf, "Recommended Allocation")

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 7, "Asset Class", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "Current", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Recommended", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Change", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, asset := range domain.AssetClasses() {
		cur := current.Weight(asset) * 100
		next := rec.RecommendedAllocation.Weight(asset) * 100
		pdf.CellFormat(50, 7, string(asset), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.1f%%", cur), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.1f%%", next), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%+.1f%%", next-cur), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	pdf.CellFormat(0, 6, fmt.Sprintf("Expected return: %.2f%% current vs %.2f%% recommended",
		rec.CurrentReturn, rec.RecommendedReturn), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (g *Generator) writePerformance(pdf *fpdf.Fpdf, perf planning.RealPerformance) {
	g.writeSection(pdf, "Real Performance")
	pdf.SetFont("Arial", "", 10)

	rows := [][2]string{
		{"Nominal return", fmt.Sprintf("%.2f%% p.a.", perf.NominalReturn)},
		{"Real return", fmt.Sprintf("%.2f%% p.a.", perf.RealReturn)},
		{"Nominal growth", fmt.Sprintf("%.2fx over %d years", perf.NominalMultiplier, perf.Years)},
		{"Real growth", fmt.Sprintf("%.2fx over %d years", perf.RealMultiplier, perf.Years)},
	}
	for _, row := range rows {
		pdf.CellFormat(60, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

// embedChart registers a PNG by name and draws it at half resolution,
// which fits the A4 content width.
func embedChart(pdf *fpdf.Fpdf, name string, png []byte) {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, 15, pdf.GetY(), 180, 0, true, opts, 0, "")
	pdf.Ln(6)
}
