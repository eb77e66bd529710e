package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/resume-assistant/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/resume-assistant/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
)

// IndexFileName is the database file written inside the cache directory.
const IndexFileName = "index.db"

// Ensure IndexStore implements the interface.
var _ driven.VectorStore = (*IndexStore)(nil)

// IndexStore builds in-memory indexes and persists them to SQLite.
type IndexStore struct{}

// NewIndexStore creates a new SQLite-backed vector store.
func NewIndexStore() *IndexStore {
	return &IndexStore{}
}

// Build creates an in-memory index from chunks and their embeddings.
func (s *IndexStore) Build(chunks []domain.Chunk, embeddings [][]float32) (driven.VectorIndex, error) {
	return memory.NewIndex(chunks, embeddings)
}

// Save writes index to dir/index.db, replacing any previous file.
func (s *IndexStore) Save(ctx context.Context, index driven.VectorIndex, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	final := filepath.Join(dir, IndexFileName)
	tmp := final + ".tmp"
	if err := os.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing stale temp index: %w", err)
	}

	if err := writeIndex(ctx, tmp, index); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing index file: %w", err)
	}
	return nil
}

// Load reads the index saved in dir/index.db.
func (s *IndexStore) Load(ctx context.Context, dir string) (driven.VectorIndex, error) {
	path := filepath.Join(dir, IndexFileName)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat index file: %w", err)
	}

	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var dim, count int
	row := db.QueryRowContext(ctx, "SELECT dimension, chunk_count FROM index_meta WHERE id = 1")
	if err := row.Scan(&dim, &count); err != nil {
		return nil, fmt.Errorf("reading index metadata: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, source_path, start_offset, end_offset, content, embedding
		FROM chunks ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	chunks := make([]domain.Chunk, 0, count)
	embeddings := make([][]float32, 0, count)
	for rows.Next() {
		var c domain.Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.SourcePath, &c.StartOffset, &c.EndOffset, &c.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if len(blob) != dim*4 {
			return nil, fmt.Errorf("%w: chunk %s has %d bytes, want %d",
				domain.ErrDimensionMismatch, c.ID, len(blob), dim*4)
		}
		chunks = append(chunks, c)
		embeddings = append(embeddings, bytesToFloat32Slice(blob))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	if len(chunks) != count {
		return nil, fmt.Errorf("index holds %d chunks, metadata says %d", len(chunks), count)
	}

	return memory.NewIndex(chunks, embeddings)
}

// writeIndex creates a fresh database at path holding index.
func writeIndex(ctx context.Context, path string, index driven.VectorIndex) error {
	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrate(db, migrations.FS); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	chunks := index.Chunks()
	vectors := index.Vectors()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO index_meta (id, dimension, chunk_count) VALUES (1, ?, ?)",
		index.Dimension(), len(chunks)); err != nil {
		return fmt.Errorf("saving index metadata: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (position, id, source_path, start_offset, end_offset, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, i, c.ID, c.SourcePath, c.StartOffset, c.EndOffset,
			c.Text, float32SliceToBytes(vectors[i])); err != nil {
			return fmt.Errorf("saving chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	return nil
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// migrate runs all pending migrations.
func migrate(db *sql.DB, fsys fs.FS) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_vector_index.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
