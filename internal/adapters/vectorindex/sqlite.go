// Package vectorindex persists chunk records and their embeddings in a
// single SQLite database and serves brute-force flat L2 search over
// them. One container file keeps the records and vectors in the same
// transactional unit, so their 1:1 positional alignment cannot be torn
// by a partial write.
package vectorindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/askcorpus/askcorpus-go/internal/domain/entities"
	"github.com/askcorpus/askcorpus-go/internal/domain/ports"
)

// SQLiteIndex implements ports.VectorIndex.
type SQLiteIndex struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open creates or opens the index database at dbPath, creating parent
// directories as needed.
func Open(dbPath string) (*SQLiteIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	idx := &SQLiteIndex{db: db}
	if err := idx.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return idx, nil
}

func (s *SQLiteIndex) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		kind TEXT NOT NULL,
		file TEXT NOT NULL DEFAULT '',
		page INTEGER NOT NULL DEFAULT 0,
		url TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL,
		embedding BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores records with their precomputed vectors in one
// transaction. The embedding dimension is pinned on first append and
// checked on every later one; a mismatch fails fast before any write.
func (s *SQLiteIndex) Append(ctx context.Context, records []entities.Record, vectors [][]float32) error {
	if len(records) == 0 {
		return nil
	}
	if len(records) != len(vectors) {
		return fmt.Errorf("misaligned append: %d records, %d vectors", len(records), len(vectors))
	}
	for i, r := range records {
		if r.Text == "" {
			return fmt.Errorf("record %d has empty text", i)
		}
		if r.ResolveSource() == "" {
			return fmt.Errorf("record %d has no resolvable source", i)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	dim, err := dimensionTx(ctx, tx)
	if err != nil {
		return err
	}
	if dim == 0 {
		dim = len(vectors[0])
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES ('dimension', ?)`, dim); err != nil {
			return fmt.Errorf("recording dimension: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (text, kind, file, page, url, source, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if len(vectors[i]) != dim {
			return fmt.Errorf("vector %d has dimension %d, index has %d", i, len(vectors[i]), dim)
		}
		blob, err := json.Marshal(vectors[i])
		if err != nil {
			return fmt.Errorf("encoding embedding: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			r.Text, string(r.Kind), r.File, r.Page, r.URL, r.ResolveSource(), blob); err != nil {
			return fmt.Errorf("inserting record: %w", err)
		}
	}

	return tx.Commit()
}

// Search returns up to topK records nearest to the query vector by
// squared L2 distance, nearest first. Brute force over all rows; fine
// for corpus sizes this system targets.
func (s *SQLiteIndex) Search(ctx context.Context, vector []float32, topK int) ([]entities.Record, []float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count, err := s.countLocked(ctx)
	if err != nil {
		return nil, nil, err
	}
	if count == 0 {
		return nil, nil, ports.ErrIndexNotFound
	}

	dim, err := s.dimension(ctx)
	if err != nil {
		return nil, nil, err
	}
	if dim != 0 && len(vector) != dim {
		return nil, nil, fmt.Errorf("query vector has dimension %d, index has %d", len(vector), dim)
	}
	if topK <= 0 {
		topK = 1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT text, kind, file, page, url, source, embedding
		FROM records ORDER BY id
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	type scored struct {
		record   entities.Record
		distance float64
	}

	var results []scored
	for rows.Next() {
		var r entities.Record
		var kind string
		var blob []byte
		if err := rows.Scan(&r.Text, &kind, &r.File, &r.Page, &r.URL, &r.Source, &blob); err != nil {
			return nil, nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Kind = entities.RecordKind(kind)

		var embedding []float32
		if err := json.Unmarshal(blob, &embedding); err != nil {
			return nil, nil, fmt.Errorf("decoding embedding: %w", err)
		}
		results = append(results, scored{record: r, distance: squaredL2(vector, embedding)})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating records: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].distance < results[j].distance
	})
	if len(results) > topK {
		results = results[:topK]
	}

	records := make([]entities.Record, len(results))
	distances := make([]float64, len(results))
	for i, res := range results {
		records[i] = res.record
		distances[i] = res.distance
	}
	return records, distances, nil
}

// Count returns the number of stored records.
func (s *SQLiteIndex) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countLocked(ctx)
}

func (s *SQLiteIndex) countLocked(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// Clear deletes all records, vectors and the pinned dimension.
func (s *SQLiteIndex) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM meta WHERE key = 'dimension'`); err != nil {
		return fmt.Errorf("clearing meta: %w", err)
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}

func (s *SQLiteIndex) dimension(ctx context.Context) (int, error) {
	var dim int
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'dimension'`).Scan(&dim)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading dimension: %w", err)
	}
	return dim, nil
}

func dimensionTx(ctx context.Context, tx *sql.Tx) (int, error) {
	var dim int
	err := tx.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'dimension'`).Scan(&dim)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading dimension: %w", err)
	}
	return dim, nil
}

// squaredL2 matches the flat-L2 metric: no square root, smaller is
// nearer. Mismatched lengths never happen past the dimension check.
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
