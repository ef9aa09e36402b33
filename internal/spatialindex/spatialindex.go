// Package spatialindex keeps district bounding boxes in an in-memory SQLite
// table so point lookups only test the polygons that can contain the point.
package spatialindex

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	_ "modernc.org/sqlite"

	"github.com/ngmaloney/la-districts/internal/districts"
)

const schema = `
	CREATE TABLE IF NOT EXISTS district_bounds (
		layer INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		bbox_min_lon REAL NOT NULL,
		bbox_min_lat REAL NOT NULL,
		bbox_max_lon REAL NOT NULL,
		bbox_max_lat REAL NOT NULL,
		PRIMARY KEY (layer, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_bounds_bbox ON district_bounds(
		layer, bbox_min_lat, bbox_max_lat, bbox_min_lon, bbox_max_lon
	);
`

// Index is a session-scoped bounding box index over every loaded layer.
// It is safe for concurrent use.
type Index struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates the index. dsn is normally ":memory:"; each Index owns its own
// database.
func Open(dsn string) (*Index, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	// An in-memory database lives and dies with its connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index table: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the database
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.db.Close()
}

// Insert replaces the bounds of a layer with those of features
func (ix *Index) Insert(ctx context.Context, kind districts.Kind, features []*districts.Feature) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM district_bounds WHERE layer = ?", int(kind)); err != nil {
		return fmt.Errorf("clearing layer %s: %w", kind, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO district_bounds (layer, seq, bbox_min_lon, bbox_min_lat, bbox_max_lon, bbox_max_lat)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range features {
		b := f.Bound
		if _, err := stmt.ExecContext(ctx, int(kind), f.Seq, b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()); err != nil {
			return fmt.Errorf("inserting %s feature %d: %w", kind, f.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s bounds: %w", kind, err)
	}
	return nil
}

// Remove drops every bound of a layer
func (ix *Index) Remove(ctx context.Context, kind districts.Kind) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, err := ix.db.ExecContext(ctx, "DELETE FROM district_bounds WHERE layer = ?", int(kind)); err != nil {
		return fmt.Errorf("removing layer %s: %w", kind, err)
	}
	return nil
}

// Candidates returns the sequence numbers of the features of a layer whose
// bounding box contains pt, in ascending order
func (ix *Index) Candidates(ctx context.Context, kind districts.Kind, pt orb.Point) ([]int, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	rows, err := ix.db.QueryContext(ctx, `
		SELECT seq
		FROM district_bounds
		WHERE layer = ?
		  AND ? BETWEEN bbox_min_lat AND bbox_max_lat
		  AND ? BETWEEN bbox_min_lon AND bbox_max_lon
		ORDER BY seq
	`, int(kind), pt.Lat(), pt.Lon())
	if err != nil {
		return nil, fmt.Errorf("querying bounds: %w", err)
	}
	defer rows.Close()

	var seqs []int
	for rows.Next() {
		var seq int
		if err := rows.Scan(&seq); err != nil {
			return nil, fmt.Errorf("scanning bound: %w", err)
		}
		seqs = append(seqs, seq)
	}
	return seqs, rows.Err()
}
