// Package sqlite implements the record store on a single SQLite file using
// the pure Go modernc.org/sqlite driver.
//
// Records are kept as JSON payloads keyed by id, with the plot id broken
// out into its own indexed column for filtering and cascading deletes.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/matzehuels/plotkit/pkg/ecology"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/survey"
)

const schema = `
CREATE TABLE IF NOT EXISTS plots (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	payload BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS trees (
	id TEXT PRIMARY KEY,
	plot_id TEXT NOT NULL,
	payload BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS trees_plot ON trees(plot_id);
CREATE TABLE IF NOT EXISTS vegetation (
	id TEXT PRIMARY KEY,
	plot_id TEXT NOT NULL,
	payload BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS vegetation_plot ON vegetation(plot_id);
CREATE TABLE IF NOT EXISTS progress (
	key TEXT PRIMARY KEY,
	plot_id TEXT NOT NULL,
	unit_id TEXT NOT NULL,
	payload BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS progress_plot ON progress(plot_id);
`

// Store is a SQLite-backed record store.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (and if needed creates) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "plotkit.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps writers serialized and ":memory:" databases shared.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// PutPlot inserts or replaces a plot.
func (s *Store) PutPlot(ctx context.Context, p survey.Plot) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode plot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plots(id, created_at, payload) VALUES(?,?,?)
		 ON CONFLICT(id) DO UPDATE SET created_at=excluded.created_at, payload=excluded.payload`,
		p.ID, p.CreatedAt.UnixNano(), data)
	if err != nil {
		return fmt.Errorf("upsert plot %s: %w", p.ID, err)
	}
	return nil
}

// GetPlot returns the plot with the given id.
func (s *Store) GetPlot(ctx context.Context, id string) (survey.Plot, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM plots WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return survey.Plot{}, perrors.New(perrors.ErrCodePlotNotFound, "plot %s not found", id)
	}
	if err != nil {
		return survey.Plot{}, fmt.Errorf("select plot %s: %w", id, err)
	}
	var p survey.Plot
	if err := json.Unmarshal(data, &p); err != nil {
		return survey.Plot{}, fmt.Errorf("decode plot %s: %w", id, err)
	}
	return p, nil
}

// ListPlots returns all plots ordered by creation time, then id.
func (s *Store) ListPlots(ctx context.Context) ([]survey.Plot, error) {
	return query[survey.Plot](ctx, s.db, "plots", `SELECT payload FROM plots ORDER BY created_at, id`)
}

// DeletePlot removes a plot and everything recorded against it.
func (s *Store) DeletePlot(ctx context.Context, id string) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx, `DELETE FROM plots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete plot %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return perrors.New(perrors.ErrCodePlotNotFound, "plot %s not found", id)
	}
	for _, table := range []string{"trees", "vegetation", "progress"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE plot_id = ?`, id); err != nil {
			return fmt.Errorf("delete %s of plot %s: %w", table, id, err)
		}
	}
	return tx.Commit()
}

// PutTree inserts or replaces a tree observation.
func (s *Store) PutTree(ctx context.Context, t ecology.TreeObservation) error {
	if err := perrors.ValidateID("observation id", t.ID); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	return s.putObservation(ctx, "trees", t.ID, t.PlotID, t)
}

// ListTrees returns the trees of the given plots, or all trees.
func (s *Store) ListTrees(ctx context.Context, plotIDs ...string) ([]ecology.TreeObservation, error) {
	q, args := byPlot("trees", plotIDs)
	return query[ecology.TreeObservation](ctx, s.db, "trees", q, args...)
}

// PutVegetation inserts or replaces a vegetation observation.
func (s *Store) PutVegetation(ctx context.Context, v ecology.VegetationObservation) error {
	if err := perrors.ValidateID("observation id", v.ID); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return s.putObservation(ctx, "vegetation", v.ID, v.PlotID, v)
}

// ListVegetation returns the vegetation records of the given plots, or all.
func (s *Store) ListVegetation(ctx context.Context, plotIDs ...string) ([]ecology.VegetationObservation, error) {
	q, args := byPlot("vegetation", plotIDs)
	return query[ecology.VegetationObservation](ctx, s.db, "vegetation", q, args...)
}

// PutProgress records the survey state of a sampling unit.
func (s *Store) PutProgress(ctx context.Context, p survey.SamplingUnitProgress) error {
	if !p.Status.Valid() {
		return perrors.New(perrors.ErrCodeInvalidInput, "unknown progress status %q", p.Status)
	}
	if err := s.requirePlot(ctx, p.PlotID); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO progress(key, plot_id, unit_id, payload) VALUES(?,?,?,?)
		 ON CONFLICT(key) DO UPDATE SET payload=excluded.payload`,
		p.Key(), p.PlotID, p.SamplingUnitID, data)
	if err != nil {
		return fmt.Errorf("upsert progress %s: %w", p.Key(), err)
	}
	return nil
}

// ListProgress returns the progress entries of a plot.
func (s *Store) ListProgress(ctx context.Context, plotID string) ([]survey.SamplingUnitProgress, error) {
	return query[survey.SamplingUnitProgress](ctx, s.db, "progress",
		`SELECT payload FROM progress WHERE plot_id = ? ORDER BY unit_id`, plotID)
}

func (s *Store) putObservation(ctx context.Context, table, id, plotID string, v any) error {
	if err := s.requirePlot(ctx, plotID); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", table, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO `+table+`(id, plot_id, payload) VALUES(?,?,?)
		 ON CONFLICT(id) DO UPDATE SET plot_id=excluded.plot_id, payload=excluded.payload`,
		id, plotID, data)
	if err != nil {
		return fmt.Errorf("upsert %s %s: %w", table, id, err)
	}
	return nil
}

func (s *Store) requirePlot(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM plots WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return perrors.New(perrors.ErrCodePlotNotFound, "plot %s not found", id)
	}
	return err
}

// byPlot builds the list query of an observation table.
func byPlot(table string, plotIDs []string) (string, []any) {
	q := `SELECT payload FROM ` + table
	args := make([]any, len(plotIDs))
	if len(plotIDs) > 0 {
		q += ` WHERE plot_id IN (` + strings.TrimSuffix(strings.Repeat("?,", len(plotIDs)), ",") + `)`
		for i, id := range plotIDs {
			args[i] = id
		}
	}
	return q + ` ORDER BY plot_id, id`, args
}

func query[T any](ctx context.Context, db *sql.DB, what, q string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", what, err)
	}
	defer func() { _ = rows.Close() }()

	var out []T
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", what, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
