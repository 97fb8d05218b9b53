// Package sqlitevec implements the similarity index on a local SQLite
// database with the sqlite-vec extension. It lets the service run without
// a hosted vector index, which is how the tests and local deployments use
// it; ranking semantics match the hosted backend (cosine similarity,
// index-ordered results).
package sqlitevec

import (
	"context"
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/docsage/docsage/pkg/index"
)

func init() {
	// Registers the vec0 module on every new go-sqlite3 connection.
	sqlite_vec.Auto()
}

// Store is a sqlite-vec backed similarity index. The vector table is
// created on first upsert, when the embedding dimension is known.
type Store struct {
	db        *sql.DB
	dimension int
}

// Open opens (or creates) the store at path. Use ":memory:" for an
// in-memory index.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS passages (
			id   TEXT NOT NULL UNIQUE,
			text TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create passages table: %w", err)
	}

	s := &Store{db: db}
	if err := s.loadDimension(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// loadDimension recovers the vector dimension from an existing vector
// table, if one was created by a previous run.
func (s *Store) loadDimension() error {
	var n int
	err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'passage_vectors'`,
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}
	if n == 0 {
		return nil
	}
	row := s.db.QueryRow(`SELECT vec_length(embedding) FROM passage_vectors LIMIT 1`)
	if err := row.Scan(&s.dimension); err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("read vector dimension: %w", err)
	}
	return nil
}

func (s *Store) ensureVectorTable(dimension int) error {
	if s.dimension == dimension {
		return nil
	}
	if s.dimension != 0 {
		return fmt.Errorf("vector dimension mismatch: index has %d, got %d", s.dimension, dimension)
	}
	stmt := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS passage_vectors USING vec0(embedding float[%d] distance_metric=cosine)`,
		dimension,
	)
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("create vector table: %w", err)
	}
	s.dimension = dimension
	return nil
}

// Upsert stores passage vectors and their text, replacing rows that share
// an item ID.
func (s *Store) Upsert(ctx context.Context, items []index.Item) error {
	if len(items) == 0 {
		return nil
	}
	if err := s.ensureVectorTable(len(items[0].Values)); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		if len(item.Values) != s.dimension {
			return fmt.Errorf("vector dimension mismatch: index has %d, got %d", s.dimension, len(item.Values))
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO passages (id, text) VALUES (?, ?)
			 ON CONFLICT(id) DO UPDATE SET text = excluded.text`,
			item.ID, item.Text,
		); err != nil {
			return fmt.Errorf("upsert passage %s: %w", item.ID, err)
		}
		var rowid int64
		if err := tx.QueryRowContext(ctx,
			`SELECT rowid FROM passages WHERE id = ?`, item.ID,
		).Scan(&rowid); err != nil {
			return fmt.Errorf("resolve passage rowid %s: %w", item.ID, err)
		}

		blob, err := sqlite_vec.SerializeFloat32(item.Values)
		if err != nil {
			return fmt.Errorf("serialize vector %s: %w", item.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM passage_vectors WHERE rowid = ?`, rowid,
		); err != nil {
			return fmt.Errorf("replace vector %s: %w", item.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO passage_vectors (rowid, embedding) VALUES (?, ?)`, rowid, blob,
		); err != nil {
			return fmt.Errorf("insert vector %s: %w", item.ID, err)
		}
	}

	return tx.Commit()
}

// Query returns the topK nearest passages by cosine similarity. An index
// with no stored vectors yields an empty result.
func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]index.Match, error) {
	if s.dimension == 0 {
		return nil, nil
	}
	blob, err := sqlite_vec.SerializeFloat32(vector)
	if err != nil {
		return nil, fmt.Errorf("serialize query vector: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.text, v.distance
		 FROM passage_vectors v
		 JOIN passages p ON p.rowid = v.rowid
		 WHERE v.embedding MATCH ? AND k = ?
		 ORDER BY v.distance`,
		blob, topK,
	)
	if err != nil {
		return nil, fmt.Errorf("knn query: %w", err)
	}
	defer rows.Close()

	var matches []index.Match
	for rows.Next() {
		var text string
		var distance float32
		if err := rows.Scan(&text, &distance); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		// Cosine distance is in [0, 2]; report similarity so scores rank
		// the same direction as the hosted backend.
		matches = append(matches, index.Match{Text: text, Score: 1 - distance})
	}
	return matches, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
