package patterns

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ZacxDev/moviemix/pkg/types"
	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// FileStore keeps hashes in a JSON object on disk and rewrites the file on
// every Record. An exclusive lock on <path>.lock is held until Close.
type FileStore struct {
	path    string
	lock    *flock.Flock
	entries map[string]bool
	logger  zerolog.Logger
}

// OpenFile loads path, creating it as "{}" when absent.
func OpenFile(path string, logger zerolog.Logger) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, types.StorageError("open pattern store", errors.Wrap(err, "create store directory"))
		}
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, types.StorageError("open pattern store", errors.Wrap(err, "acquire lock"))
	}
	if !locked {
		return nil, types.StorageError("open pattern store",
			errors.Errorf("%s is in use by another moviemix process", path))
	}

	s := &FileStore{
		path:    path,
		lock:    lock,
		entries: make(map[string]bool),
		logger:  logger,
	}

	if err := s.load(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	logger.Debug().Str("path", path).Int("patterns", len(s.entries)).Msg("Loaded pattern store")
	return s, nil
}

func (s *FileStore) load() error {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s.save()
	}
	if err != nil {
		return types.StorageError("load pattern store", errors.WithStack(err))
	}
	if err := json.Unmarshal(b, &s.entries); err != nil {
		return types.StorageError("load pattern store", errors.Wrapf(err, "parse %s", s.path))
	}
	if s.entries == nil {
		s.entries = make(map[string]bool)
	}
	return nil
}

func (s *FileStore) save() error {
	b, err := json.Marshal(s.entries)
	if err != nil {
		return types.StorageError("save pattern store", errors.WithStack(err))
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return types.StorageError("save pattern store", errors.WithStack(err))
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return types.StorageError("save pattern store", errors.WithStack(err))
	}
	return nil
}

func (s *FileStore) Exists(hash string) (bool, error) {
	return s.entries[hash], nil
}

func (s *FileStore) Record(hash string) error {
	if s.entries[hash] {
		return nil
	}
	s.entries[hash] = true
	if err := s.save(); err != nil {
		delete(s.entries, hash)
		return err
	}
	s.logger.Debug().Str("hash", hash).Msg("Recorded pattern")
	return nil
}

func (s *FileStore) Len() (int, error) {
	return len(s.entries), nil
}

func (s *FileStore) Close() error {
	if err := s.lock.Unlock(); err != nil {
		return types.StorageError("close pattern store", errors.WithStack(err))
	}
	return nil
}
