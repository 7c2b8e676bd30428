package patterns

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/ZacxDev/moviemix/pkg/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS patterns (
	hash       TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
)`

// SQLiteStore keeps hashes in a SQLite table. Every Record is its own
// committed statement.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger zerolog.Logger
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, types.StorageError("open pattern store", errors.Wrap(err, "create store directory"))
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, types.StorageError("open pattern store", errors.WithStack(err))
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, types.StorageError("open pattern store", errors.Wrap(err, "create schema"))
	}

	s := &SQLiteStore{db: db, path: path, logger: logger}
	if n, err := s.Len(); err == nil {
		logger.Debug().Str("path", path).Int("patterns", n).Msg("Loaded pattern store")
	}
	return s, nil
}

func (s *SQLiteStore) Exists(hash string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM patterns WHERE hash = ?`, hash).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, types.StorageError("lookup pattern", errors.WithStack(err))
	}
	return true, nil
}

func (s *SQLiteStore) Record(hash string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO patterns (hash, created_at) VALUES (?, ?)`,
		hash, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return types.StorageError("record pattern", errors.WithStack(err))
	}
	s.logger.Debug().Str("hash", hash).Msg("Recorded pattern")
	return nil
}

func (s *SQLiteStore) Len() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM patterns`).Scan(&n); err != nil {
		return 0, types.StorageError("count patterns", errors.WithStack(err))
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return types.StorageError("close pattern store", errors.WithStack(err))
	}
	return nil
}
