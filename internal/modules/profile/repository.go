// Package profile persists user financial profiles.
package profile

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/asterios/inflacast/internal/domain"
)

// ErrNotFound indicates the requested profile does not exist.
var ErrNotFound = errors.New("profile not found")

// ErrInvalidProfile indicates profile fields outside their accepted ranges.
var ErrInvalidProfile = errors.New("invalid profile")

// Age bounds accepted for stored profiles.
const (
	minAge     = 18
	maxAge     = 100
	defaultAge = 30
)

// DefaultAllocation is the starting allocation for new profiles.
var DefaultAllocation = domain.Allocation{
	domain.AssetEquity:     0.30,
	domain.AssetDebt:       0.30,
	domain.AssetGold:       0.15,
	domain.AssetRealEstate: 0.15,
	domain.AssetCash:       0.10,
}

// Repository provides CRUD access to stored profiles. Allocations are
// stored as JSON keyed by asset-class name; unknown keys are rejected
// when reading so bad rows surface instead of propagating.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a profile repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "profile").Logger(),
	}
}

// Init creates the profiles table if it does not exist.
func (r *Repository) Init() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			income REAL NOT NULL DEFAULT 0,
			expenses REAL NOT NULL DEFAULT 0,
			investments REAL NOT NULL DEFAULT 0,
			risk_tolerance TEXT NOT NULL DEFAULT 'Moderate',
			investment_horizon INTEGER NOT NULL DEFAULT 5,
			age INTEGER NOT NULL DEFAULT 30,
			allocation TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create profiles table: %w", err)
	}
	return nil
}

// Create stores a new profile. An empty ID is replaced with a fresh UUID
// and an empty allocation with the default table. Savings is derived
// (income - expenses) and not persisted separately.
func (r *Repository) Create(p domain.FinancialProfile) (domain.FinancialProfile, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CurrentAllocation == nil {
		p.CurrentAllocation = DefaultAllocation.Clone()
	}
	if p.Age == 0 {
		p.Age = defaultAge
	}
	if err := validateProfile(p); err != nil {
		return domain.FinancialProfile{}, err
	}

	allocJSON, err := marshalAllocation(p.CurrentAllocation)
	if err != nil {
		return domain.FinancialProfile{}, err
	}

	_, err = r.db.Exec(`
		INSERT INTO profiles (id, income, expenses, investments, risk_tolerance, investment_horizon, age, allocation, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Income, p.Expenses, p.Investments, string(p.RiskTolerance), p.InvestmentHorizon, p.Age, allocJSON, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return domain.FinancialProfile{}, fmt.Errorf("failed to insert profile: %w", err)
	}

	p.Savings = p.Income - p.Expenses
	r.log.Info().Str("profile_id", p.ID).Msg("Created profile")
	return p, nil
}

// Get loads a profile by ID.
func (r *Repository) Get(id string) (domain.FinancialProfile, error) {
	row := r.db.QueryRow(`
		SELECT id, income, expenses, investments, risk_tolerance, investment_horizon, age, allocation
		FROM profiles WHERE id = ?
	`, id)
	return r.scanProfile(row)
}

// Update overwrites an existing profile's fields.
func (r *Repository) Update(p domain.FinancialProfile) error {
	if err := validateProfile(p); err != nil {
		return err
	}

	allocJSON, err := marshalAllocation(p.CurrentAllocation)
	if err != nil {
		return err
	}

	res, err := r.db.Exec(`
		UPDATE profiles
		SET income = ?, expenses = ?, investments = ?, risk_tolerance = ?, investment_horizon = ?, age = ?, allocation = ?, updated_at = ?
		WHERE id = ?
	`, p.Income, p.Expenses, p.Investments, string(p.RiskTolerance), p.InvestmentHorizon, p.Age, allocJSON, time.Now().UTC().Format(time.RFC3339), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	return nil
}

// Delete removes a profile by ID.
func (r *Repository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// List returns all stored profiles.
func (r *Repository) List() ([]domain.FinancialProfile, error) {
	rows, err := r.db.Query(`
		SELECT id, income, expenses, investments, risk_tolerance, investment_horizon, age, allocation
		FROM profiles ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var out []domain.FinancialProfile
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return out, nil
}

// GetOrCreateDefault returns the first stored profile, creating a default
// one when the store is empty.
func (r *Repository) GetOrCreateDefault() (domain.FinancialProfile, error) {
	profiles, err := r.List()
	if err != nil {
		return domain.FinancialProfile{}, err
	}
	if len(profiles) > 0 {
		return profiles[0], nil
	}

	return r.Create(domain.FinancialProfile{
		RiskTolerance:     domain.RiskModerate,
		InvestmentHorizon: 5,
		Age:               30,
	})
}

// validateProfile checks the collaborator-side field constraints: known
// risk tolerance, valid allocation, non-negative amounts, age in bounds.
func validateProfile(p domain.FinancialProfile) error {
	if _, err := domain.ParseRiskProfile(string(p.RiskTolerance)); err != nil {
		return err
	}
	if err := p.CurrentAllocation.Validate(); err != nil {
		return err
	}
	if p.Income < 0 || p.Expenses < 0 || p.Investments < 0 {
		return fmt.Errorf("%w: negative monetary amount", ErrInvalidProfile)
	}
	if p.Age < minAge || p.Age > maxAge {
		return fmt.Errorf("%w: age %d (must be %d..%d)", ErrInvalidProfile, p.Age, minAge, maxAge)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanProfile(row rowScanner) (domain.FinancialProfile, error) {
	var p domain.FinancialProfile
	var riskTolerance, allocJSON string

	err := row.Scan(&p.ID, &p.Income, &p.Expenses, &p.Investments, &riskTolerance, &p.InvestmentHorizon, &p.Age, &allocJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.FinancialProfile{}, ErrNotFound
	}
	if err != nil {
		return domain.FinancialProfile{}, fmt.Errorf("failed to scan profile: %w", err)
	}

	p.RiskTolerance, err = domain.ParseRiskProfile(riskTolerance)
	if err != nil {
		return domain.FinancialProfile{}, fmt.Errorf("stored profile %s: %w", p.ID, err)
	}

	p.CurrentAllocation, err = unmarshalAllocation(allocJSON)
	if err != nil {
		return domain.FinancialProfile{}, fmt.Errorf("stored profile %s: %w", p.ID, err)
	}

	p.Savings = p.Income - p.Expenses
	return p, nil
}

func marshalAllocation(a domain.Allocation) (string, error) {
	byName := make(map[string]float64, len(a))
	for asset, weight := range a {
		byName[string(asset)] = weight
	}
	data, err := json.Marshal(byName)
	if err != nil {
		return "", fmt.Errorf("failed to marshal allocation: %w", err)
	}
	return string(data), nil
}

func unmarshalAllocation(s string) (domain.Allocation, error) {
	var byName map[string]float64
	if err := json.Unmarshal([]byte(s), &byName); err != nil {
		return nil, fmt.Errorf("failed to unmarshal allocation: %w", err)
	}

	out := make(domain.Allocation, len(byName))
	for name, weight := range byName {
		asset, err := domain.ParseAssetClass(name)
		if err != nil {
			return nil, err
		}
		out[asset] = weight
	}
	return out, nil
}
