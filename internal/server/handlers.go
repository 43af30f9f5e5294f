package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/asterios/inflacast/internal/domain"
	"github.com/asterios/inflacast/internal/modules/forecast"
	"github.com/asterios/inflacast/internal/modules/impact"
	"github.com/asterios/inflacast/internal/modules/inflation"
	"github.com/asterios/inflacast/internal/modules/planning"
	"github.com/asterios/inflacast/internal/modules/profile"
	"github.com/asterios/inflacast/internal/modules/projection"
	"github.com/asterios/inflacast/internal/modules/reports"
	"github.com/asterios/inflacast/internal/modules/scenarios"
	"github.com/asterios/inflacast/internal/scheduler"
	"github.com/asterios/inflacast/pkg/formulas"
)

// Defaults applied when a request omits a horizon.
const (
	defaultForecastPeriods = 12
	defaultScenarioYears   = 10
)

// Handlers wires the engine services to HTTP routes.
type Handlers struct {
	profiles   *profile.Repository
	snapshots  *inflation.Repository
	forecaster *forecast.Forecaster
	simulator  *scenarios.Simulator
	projector  *projection.Projector
	planner    *planning.Service
	impacts    *impact.Service
	reporter   *reports.Generator
	seed       uint64
	sched      *scheduler.Scheduler
	refreshJob scheduler.Job
	log        zerolog.Logger
}

// NewHandlers creates the API handlers.
func NewHandlers(
	profiles *profile.Repository,
	snapshots *inflation.Repository,
	forecaster *forecast.Forecaster,
	simulator *scenarios.Simulator,
	projector *projection.Projector,
	planner *planning.Service,
	impacts *impact.Service,
	reporter *reports.Generator,
	seed uint64,
	log zerolog.Logger,
) *Handlers {
	return &Handlers{
		profiles:   profiles,
		snapshots:  snapshots,
		forecaster: forecaster,
		simulator:  simulator,
		projector:  projector,
		planner:    planner,
		impacts:    impacts,
		reporter:   reporter,
		seed:       seed,
		log:        log.With().Str("component", "handlers").Logger(),
	}
}

// SetRefreshJob registers the scheduled refresh job so the API can trigger
// it on demand.
func (h *Handlers) SetRefreshJob(sched *scheduler.Scheduler, job scheduler.Job) {
	h.sched = sched
	h.refreshJob = job
}

// RegisterRoutes mounts all planner routes on the router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/profiles", func(r chi.Router) {
		r.Get("/", h.HandleListProfiles)
		r.Post("/", h.HandleCreateProfile)
		r.Get("/default", h.HandleDefaultProfile)

		r.Route("/{profileID}", func(r chi.Router) {
			r.Get("/", h.HandleGetProfile)
			r.Put("/", h.HandleUpdateProfile)
			r.Delete("/", h.HandleDeleteProfile)
			r.Get("/recommendation", h.HandleProfileRecommendation)
			r.Get("/projection", h.HandleProfileProjection)
			r.Get("/impact/expenses", h.HandleExpenseImpact)
			r.Get("/impact/erosion", h.HandleSavingsErosion)
			r.Get("/report", h.HandleReport)
		})
	})

	r.Route("/inflation", func(r chi.Router) {
		r.Get("/", h.HandleInflationSnapshot)
		r.Get("/trends", h.HandleInflationTrends)
		r.Get("/history", h.HandleInflationHistory)
		r.Get("/personal-rate", h.HandlePersonalRate)
		r.Post("/refresh", h.HandleInflationRefresh)
	})

	r.Get("/forecast", h.HandleForecast)
	r.Get("/scenarios", h.HandleScenarios)
	r.Post("/recommendation", h.HandleAdHocRecommendation)
}

// --- Profiles ---

func (h *Handlers) HandleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}
	if profiles == nil {
		profiles = []domain.FinancialProfile{}
	}
	respondJSON(w, http.StatusOK, profiles)
}

func (h *Handlers) HandleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.FinancialProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if p.RiskTolerance == "" {
		p.RiskTolerance = domain.RiskModerate
	}
	if p.InvestmentHorizon == 0 {
		p.InvestmentHorizon = defaultScenarioYears
	}

	created, err := h.profiles.Create(p)
	if err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handlers) HandleDefaultProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.GetOrCreateDefault()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadProfile(w, r)
	if err != nil {
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.FinancialProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	p.ID = chi.URLParam(r, "profileID")

	if err := h.profiles.Update(p); err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return
	}

	updated, err := h.profiles.Get(p.ID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handlers) HandleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "profileID")
	if err := h.profiles.Delete(id); err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// --- Inflation ---

func (h *Handlers) HandleInflationSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshots.Latest()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *Handlers) HandleInflationTrends(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshots.Latest()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, inflation.Trends(snapshot))
}

func (h *Handlers) HandleInflationHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", inflation.HistoryMonths)
	history, err := h.snapshots.History(limit)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (h *Handlers) HandlePersonalRate(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshots.Latest()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]float64{
		"headline_rate": snapshot.CurrentRate,
		"personal_rate": h.impacts.PersonalInflationRate(snapshot),
	})
}

func (h *Handlers) HandleInflationRefresh(w http.ResponseWriter, r *http.Request) {
	if h.sched == nil || h.refreshJob == nil {
		h.respondError(w, http.StatusServiceUnavailable, errors.New("refresh job not configured"))
		return
	}
	if err := h.sched.RunNow(h.refreshJob); err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}

	snapshot, err := h.snapshots.Latest()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// --- Simulations ---

func (h *Handlers) HandleForecast(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshots.Latest()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}

	periods := queryInt(r, "periods", defaultForecastPeriods)
	path, err := h.forecaster.Forecast(snapshot, periods, formulas.NewSource(h.seed))
	if err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return
	}
	respondJSON(w, http.StatusOK, path)
}

func (h *Handlers) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshots.Latest()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}

	years := queryInt(r, "years", defaultScenarioYears)
	result, err := h.simulator.Simulate(snapshot, years, formulas.NewSource(h.seed))
	if err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handlers) HandleProfileProjection(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadProfile(w, r)
	if err != nil {
		return
	}

	years := queryInt(r, "years", p.InvestmentHorizon)
	amount := queryFloat(r, "amount", p.Investments)

	paths, err := h.projector.Simulate(amount, p.CurrentAllocation, years, formulas.NewSource(h.seed))
	if err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return
	}
	respondJSON(w, http.StatusOK, paths)
}

// --- Recommendations ---

func (h *Handlers) HandleProfileRecommendation(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadProfile(w, r)
	if err != nil {
		return
	}

	snapshot, err := h.snapshots.Latest()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}

	result, err := h.planner.Recommend(p, snapshot)
	if err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleAdHocRecommendation recommends for an inline profile that is never
// persisted. An unknown risk tolerance falls back to Moderate instead of
// failing, and an omitted allocation uses the default split.
func (h *Handlers) HandleAdHocRecommendation(w http.ResponseWriter, r *http.Request) {
	var p domain.FinancialProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if _, err := domain.ParseRiskProfile(string(p.RiskTolerance)); err != nil {
		h.log.Warn().Str("risk_tolerance", string(p.RiskTolerance)).Msg("Unknown risk tolerance, using Moderate")
		p.RiskTolerance = domain.RiskModerate
	}
	if p.CurrentAllocation == nil {
		p.CurrentAllocation = profile.DefaultAllocation.Clone()
	}
	if p.InvestmentHorizon == 0 {
		p.InvestmentHorizon = defaultScenarioYears
	}

	snapshot, err := h.snapshots.Latest()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}

	result, err := h.planner.Recommend(p, snapshot)
	if err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// --- Impact ---

func (h *Handlers) HandleExpenseImpact(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadProfile(w, r)
	if err != nil {
		return
	}

	snapshot, err := h.snapshots.Latest()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}

	year := queryInt(r, "year", p.InvestmentHorizon)
	proj, err := h.impacts.ProjectExpenses(p, snapshot, year)
	if err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return
	}
	respondJSON(w, http.StatusOK, proj)
}

func (h *Handlers) HandleSavingsErosion(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadProfile(w, r)
	if err != nil {
		return
	}

	snapshot, err := h.snapshots.Latest()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}

	years := queryInt(r, "years", p.InvestmentHorizon)
	scenarioSet, err := h.simulator.Simulate(snapshot, years, formulas.NewSource(h.seed))
	if err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return
	}
	respondJSON(w, http.StatusOK, h.impacts.SavingsErosionFor(p, scenarioSet))
}

// --- Reports ---

// HandleReport runs the full simulation suite for a profile and streams the
// resulting PDF.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	p, err := h.loadProfile(w, r)
	if err != nil {
		return
	}

	snapshot, err := h.snapshots.Latest()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}

	src := formulas.NewSource(h.seed)

	forecastPath, err := h.forecaster.Forecast(snapshot, defaultForecastPeriods, src)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}
	scenarioSet, err := h.simulator.Simulate(snapshot, p.InvestmentHorizon, src)
	if err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return
	}
	paths, err := h.projector.Simulate(p.Investments, p.CurrentAllocation, p.InvestmentHorizon, src)
	if err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return
	}
	recommendation, err := h.planner.Recommend(p, snapshot)
	if err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return
	}
	performance, err := h.planner.RealPerformanceFor(p.CurrentAllocation, snapshot.CurrentRate, p.InvestmentHorizon)
	if err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return
	}

	pdf, err := h.reporter.Generate(reports.Input{
		GeneratedAt:     time.Now(),
		Profile:         p,
		Snapshot:        snapshot,
		Forecast:        forecastPath,
		Scenarios:       scenarioSet,
		PortfolioPaths:  paths,
		Recommendation:  recommendation,
		RealPerformance: performance,
	})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="planning-report-%s.pdf"`, p.ID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.log.Error().Err(err).Msg("Failed to write report response")
	}
}

// --- Helpers ---

func (h *Handlers) loadProfile(w http.ResponseWriter, r *http.Request) (domain.FinancialProfile, error) {
	id := chi.URLParam(r, "profileID")
	p, err := h.profiles.Get(id)
	if err != nil {
		h.respondError(w, badRequestOr500(err), err)
		return domain.FinancialProfile{}, err
	}
	return p, nil
}

func (h *Handlers) respondError(w http.ResponseWriter, code int, err error) {
	if code >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("Request failed")
	}
	respondJSON(w, code, map[string]string{"error": err.Error()})
}

// badRequestOr500 maps domain validation failures and missing records to
// client error codes; anything else is a server error.
func badRequestOr500(err error) int {
	switch {
	case errors.Is(err, profile.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, profile.ErrInvalidProfile),
		errors.Is(err, domain.ErrInvalidAllocation),
		errors.Is(err, domain.ErrUnknownRiskProfile),
		errors.Is(err, domain.ErrInvalidHorizon):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return defaultValue
}

func queryFloat(r *http.Request, key string, defaultValue float64) float64 {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return defaultValue
}
