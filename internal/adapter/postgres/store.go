// Package postgres persists the region catalog, historical usage, and
// prediction runs.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"

	"github.com/aquaforesee/water-scenario-service/internal/domain"
	"github.com/aquaforesee/water-scenario-service/internal/observability"
)

// Store wraps the Postgres connection pool.
type Store struct {
	db      *sql.DB
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, url string, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{db: db, clock: clock, metrics: metrics, logger: logger}, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS regions (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		population INTEGER NOT NULL,
		area_km2   DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS historical_data (
		id            BIGSERIAL PRIMARY KEY,
		region_id     TEXT NOT NULL REFERENCES regions(id),
		year          INTEGER NOT NULL,
		rainfall      DOUBLE PRECISION NOT NULL,
		temperature   DOUBLE PRECISION NOT NULL,
		actual_demand DOUBLE PRECISION NOT NULL,
		actual_supply DOUBLE PRECISION NOT NULL,
		stress_level  TEXT NOT NULL,
		UNIQUE (region_id, year)
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		scenario_id TEXT PRIMARY KEY,
		params      JSONB NOT NULL,
		result      JSONB NOT NULL,
		ai_enhanced BOOLEAN NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
}

// InitSchema creates the tables if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Seed loads the built-in region catalog plus years of synthetic historical
// usage per region. Inserts are idempotent (ON CONFLICT DO NOTHING), so
// re-seeding an existing database is safe. Returns the number of new region
// and history rows.
func (s *Store) Seed(ctx context.Context, years int) (int, int, error) {
	var regionRows, historyRows int

	for _, region := range domain.Regions() {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO regions (id, name, population, area_km2)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`,
			region.ID, region.Name, region.Population, region.AreaKm2,
		)
		if err != nil {
			return regionRows, historyRows, fmt.Errorf("seed region %s: %w", region.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			regionRows += int(n)
		}

		for _, rec := range domain.HistoricalSeries(region.ID, years) {
			res, err := s.db.ExecContext(ctx,
				`INSERT INTO historical_data
				   (region_id, year, rainfall, temperature, actual_demand, actual_supply, stress_level)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)
				 ON CONFLICT (region_id, year) DO NOTHING`,
				region.ID, rec.Year, rec.Rainfall, rec.Temperature, rec.ActualDemand, rec.ActualSupply, rec.StressLevel,
			)
			if err != nil {
				return regionRows, historyRows, fmt.Errorf("seed history for %s year %d: %w", region.ID, rec.Year, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				historyRows += int(n)
			}
		}
	}

	return regionRows, historyRows, nil
}

// ListRegions returns all regions ordered by id.
func (s *Store) ListRegions(ctx context.Context) ([]domain.Region, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, population, area_km2 FROM regions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	var out []domain.Region
	for rows.Next() {
		var r domain.Region
		if err := rows.Scan(&r.ID, &r.Name, &r.Population, &r.AreaKm2); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRegion returns one region by id, or domain.ErrRegionNotFound.
func (s *Store) GetRegion(ctx context.Context, id string) (domain.Region, error) {
	var r domain.Region
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, population, area_km2 FROM regions WHERE id = $1`, id).
		Scan(&r.ID, &r.Name, &r.Population, &r.AreaKm2)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Region{}, fmt.Errorf("region %s: %w", id, domain.ErrRegionNotFound)
	}
	if err != nil {
		return domain.Region{}, fmt.Errorf("get region %s: %w", id, err)
	}
	return r, nil
}

// HistoricalSeries returns up to years of the most recent records for a
// region, oldest first.
func (s *Store) HistoricalSeries(ctx context.Context, regionID string, years int) ([]domain.HistoricalRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT year, rainfall, temperature, actual_demand, actual_supply, stress_level
		   FROM historical_data
		  WHERE region_id = $1
		  ORDER BY year DESC
		  LIMIT $2`,
		regionID, years,
	)
	if err != nil {
		return nil, fmt.Errorf("query history for %s: %w", regionID, err)
	}
	defer rows.Close()

	var out []domain.HistoricalRecord
	for rows.Next() {
		var rec domain.HistoricalRecord
		if err := rows.Scan(&rec.Year, &rec.Rainfall, &rec.Temperature, &rec.ActualDemand, &rec.ActualSupply, &rec.StressLevel); err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.Reverse(out)
	return out, nil
}

// SavePrediction stores one prediction run keyed by scenario id. Replays of
// an already stored scenario id are ignored.
func (s *Store) SavePrediction(ctx context.Context, rec domain.PredictionRecord) error {
	params, err := json.Marshal(rec.Params)
	if err != nil {
		return fmt.Errorf("marshal scenario params: %w", err)
	}
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshal scenario result: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO predictions (scenario_id, params, result, ai_enhanced, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (scenario_id) DO NOTHING`,
		rec.ScenarioID, params, result, rec.Result.AIEnhanced, s.clock.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert prediction %s: %w", rec.ScenarioID, err)
	}

	s.metrics.PredictionsStored.Inc()
	s.logger.Debug("prediction stored", "scenario_id", rec.ScenarioID)
	return nil
}

// Ping verifies the connection for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
