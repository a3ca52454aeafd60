package changestore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"filetrail/internal/models"
)

// ChangeStore is the append-only SQLite ledger of change records. It carries
// no rollback semantics beyond mechanical coverage bookkeeping; the history
// controller layers the protocols on top.
//
// All mutating operations serialize on an internal mutex so an insert and a
// coverage update touching the same rows never interleave. Reads reflect the
// latest committed write.
type ChangeStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewChangeStore opens (or creates) the SQLite database at dbPath, enables
// WAL mode, and ensures the schema exists.
func NewChangeStore(dbPath string, logger zerolog.Logger) (*ChangeStore, error) {
	logger = logger.With().Str("component", "ChangeStore").Logger()

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, storageError(err, fmt.Sprintf("failed to create database directory %s", dbDir))
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storageError(err, fmt.Sprintf("sql.Open failed for %s", dbPath))
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, storageError(err, "failed to ping database")
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, storageError(err, fmt.Sprintf("failed to apply %q", pragma))
		}
	}

	store := &ChangeStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info().Str("db_path", dbPath).Msg("Change store initialized")
	return store, nil
}

// Close closes the database connection.
func (s *ChangeStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// initSchema creates the change_records table and its indexes if they do not
// already exist.
func (s *ChangeStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS change_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_path TEXT NOT NULL,
		old_content TEXT NOT NULL,
		new_content TEXT NOT NULL,
		diff TEXT NOT NULL DEFAULT '',
		content_hash TEXT NOT NULL DEFAULT '',
		lines_added INTEGER NOT NULL DEFAULT 0,
		lines_removed INTEGER NOT NULL DEFAULT 0,
		batch_id TEXT,
		operation_type TEXT NOT NULL DEFAULT 'edit',
		rollback_to_id INTEGER,
		covered_by_rollback_id INTEGER,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_change_records_file ON change_records(file_path, id DESC);
	CREATE INDEX IF NOT EXISTS idx_change_records_batch ON change_records(batch_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return storageError(err, "failed to initialize schema")
	}
	return nil
}

// storageError wraps a low-level database failure so callers can classify it
// with errors.Is(err, models.ErrStorageUnavailable).
func storageError(err error, message string) error {
	return fmt.Errorf("%w: %s: %v", models.ErrStorageUnavailable, message, err)
}
