// Package inflation stores and serves inflation snapshots.
//
// Snapshots are append-only: every refresh writes a new row and Latest
// returns the most recent one, so historical macro pictures stay
// queryable. Snapshot payloads are msgpack blobs; the schema only knows
// about the row id and timestamp, which keeps snapshot shape changes
// out of SQL migrations.
package inflation

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/asterios/inflacast/internal/database"
	"github.com/asterios/inflacast/internal/domain"
)

// ErrNoSnapshot indicates the store holds no snapshot rows.
var ErrNoSnapshot = errors.New("no inflation snapshot stored")

// HistoryMonths is how many trailing monthly rates a snapshot carries.
const HistoryMonths = 12

// SampleSnapshot returns the bundled macro picture used to seed an empty
// store. Rates are annual percentages; HistoricalRates is chronological
// with the newest month last.
func SampleSnapshot() domain.InflationSnapshot {
	return domain.InflationSnapshot{
		CurrentRate:     5.1,
		PreviousRate:    5.3,
		TargetRate:      4.0,
		ExpectedAverage: 5.5,
		HistoricalRates: []float64{5.7, 6.0, 6.3, 5.9, 5.5, 5.1, 4.9, 5.2, 5.6, 5.8, 5.7, 5.3},
		CategoryRates: map[string]float64{
			"Food":           7.8,
			"Housing":        4.5,
			"Clothing":       5.2,
			"Transportation": 5.7,
			"Healthcare":     6.9,
			"Education":      5.7,
			"Communication":  3.1,
			"Recreation":     4.3,
			"Others":         4.5,
		},
	}
}

// Repository persists inflation snapshots.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates an inflation snapshot repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "inflation").Logger(),
	}
}

// Init creates the snapshots table and seeds it with the sample snapshot
// when empty, so the engine always has a macro picture to work from. The
// count-then-seed runs in one transaction so two processes initializing
// the same store cannot double-seed it.
func (r *Repository) Init() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS inflation_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			data BLOB NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create inflation_snapshots table: %w", err)
	}

	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM inflation_snapshots`).Scan(&count); err != nil {
			return fmt.Errorf("failed to count snapshots: %w", err)
		}
		if count > 0 {
			return nil
		}

		blob, err := msgpack.Marshal(SampleSnapshot())
		if err != nil {
			return fmt.Errorf("failed to encode sample snapshot: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO inflation_snapshots (data, created_at) VALUES (?, ?)
		`, blob, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to seed snapshot store: %w", err)
		}

		r.log.Info().Msg("Seeded inflation store with sample snapshot")
		return nil
	})
}

// Save appends a snapshot row.
func (r *Repository) Save(snapshot domain.InflationSnapshot) error {
	blob, err := msgpack.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO inflation_snapshots (data, created_at) VALUES (?, ?)
	`, blob, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recently saved snapshot.
func (r *Repository) Latest() (domain.InflationSnapshot, error) {
	var blob []byte
	err := r.db.QueryRow(`
		SELECT data FROM inflation_snapshots ORDER BY id DESC LIMIT 1
	`).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InflationSnapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return domain.InflationSnapshot{}, fmt.Errorf("failed to load latest snapshot: %w", err)
	}

	var snapshot domain.InflationSnapshot
	if err := msgpack.Unmarshal(blob, &snapshot); err != nil {
		return domain.InflationSnapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, nil
}

// History returns up to limit snapshots, newest first.
func (r *Repository) History(limit int) ([]domain.InflationSnapshot, error) {
	if limit <= 0 {
		limit = HistoryMonths
	}

	rows, err := r.db.Query(`
		SELECT data FROM inflation_snapshots ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot history: %w", err)
	}
	defer rows.Close()

	var out []domain.InflationSnapshot
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		var snapshot domain.InflationSnapshot
		if err := msgpack.Unmarshal(blob, &snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot row: %w", err)
		}
		out = append(out, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return out, nil
}
