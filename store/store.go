// Package store keeps scenario results in SQLite so comparisons can be
// charted without recomputing them.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"biomass-tools/catalog"
	"biomass-tools/scenario"

	_ "modernc.org/sqlite"
)

// Summary is one stored scenario result.
type Summary struct {
	ID                  int64
	Region              string
	Kind                scenario.Kind
	Scenario            catalog.Scenario
	TotalGJ             float64
	ClampedPixels       int
	FailedCrops         []string
	MissingCoefficients []string
	Err                 string
	CreatedAt           time.Time
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens the SQLite file at path and brings its schema up to date.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := New(db)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SummaryFromCell turns a comparison cell into a summary of region.
func SummaryFromCell(region string, c scenario.Cell) Summary {
	sum := Summary{
		Region:              region,
		Kind:                c.Kind,
		Scenario:            c.Scenario,
		TotalGJ:             c.Total,
		ClampedPixels:       c.Quality.ClampedPixels,
		FailedCrops:         c.Quality.FailedCrops,
		MissingCoefficients: c.Quality.MissingCoefficients,
	}
	if c.Err != nil {
		sum.Err = c.Err.Error()
	}
	return sum
}

func (s *Store) SaveSummary(ctx context.Context, sum Summary) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO summaries (region, kind, period, climate_model, rcp, water_supply, input_level, total_gj, clamped_pixels, failed_crops, missing_coefficients, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sum.Region, string(sum.Kind), sum.Scenario.Period, sum.Scenario.ClimateModel, sum.Scenario.RCP,
		sum.Scenario.WaterSupply, sum.Scenario.InputLevel, sum.TotalGJ, sum.ClampedPixels,
		strings.Join(sum.FailedCrops, ","), strings.Join(sum.MissingCoefficients, ","), sum.Err)
	if err != nil {
		return 0, fmt.Errorf("save summary: %w", err)
	}
	return res.LastInsertId()
}

// SaveBreakdown stores the per-crop energy of a saved summary.
func (s *Store) SaveBreakdown(ctx context.Context, summaryID int64, breakdown map[string]float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for crop, energy := range breakdown {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO crop_breakdowns (summary_id, crop, energy_gj) VALUES (?, ?, ?)
			ON CONFLICT(summary_id, crop) DO UPDATE SET energy_gj = excluded.energy_gj
		`, summaryID, crop, energy); err != nil {
			tx.Rollback()
			return fmt.Errorf("save breakdown %s: %w", crop, err)
		}
	}
	return tx.Commit()
}

// SaveCell stores a comparison cell with its breakdown.
func (s *Store) SaveCell(ctx context.Context, region string, c scenario.Cell) (int64, error) {
	id, err := s.SaveSummary(ctx, SummaryFromCell(region, c))
	if err != nil {
		return 0, err
	}
	if len(c.Breakdown) > 0 {
		if err := s.SaveBreakdown(ctx, id, c.Breakdown); err != nil {
			return id, err
		}
	}
	return id, nil
}

// ListSummaries returns the summaries of region, oldest first.
func (s *Store) ListSummaries(ctx context.Context, region string) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, region, kind, period, climate_model, rcp, water_supply, input_level, total_gj, clamped_pixels, failed_crops, missing_coefficients, error, created_at
		FROM summaries
		WHERE region = ?
		ORDER BY id
	`, region)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var kind, failed, missing string
		if err := rows.Scan(&sum.ID, &sum.Region, &kind, &sum.Scenario.Period, &sum.Scenario.ClimateModel,
			&sum.Scenario.RCP, &sum.Scenario.WaterSupply, &sum.Scenario.InputLevel, &sum.TotalGJ,
			&sum.ClampedPixels, &failed, &missing, &sum.Err, &sum.CreatedAt); err != nil {
			return nil, err
		}
		sum.Kind = scenario.Kind(kind)
		sum.FailedCrops = splitList(failed)
		sum.MissingCoefficients = splitList(missing)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Breakdown returns the per-crop energy of a summary.
func (s *Store) Breakdown(ctx context.Context, summaryID int64) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT crop, energy_gj FROM crop_breakdowns WHERE summary_id = ?`, summaryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var crop string
		var energy float64
		if err := rows.Scan(&crop, &energy); err != nil {
			return nil, err
		}
		out[crop] = energy
	}
	return out, rows.Err()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
