package patterns

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"github.com/ZacxDev/moviemix/pkg/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Store remembers the hashes of plans that were already compiled.
type Store interface {
	// Exists reports whether hash was recorded by this or an earlier run
	Exists(hash string) (bool, error)

	// Record stores hash durably before returning; recording twice is a no-op
	Record(hash string) error

	// Len returns the number of recorded hashes
	Len() (int, error)

	Close() error
}

// Open returns the store backend named by driver ("json" or "sqlite").
func Open(driver, path string, logger zerolog.Logger) (Store, error) {
	switch driver {
	case "json", "":
		return OpenFile(path, logger)
	case "sqlite":
		return OpenSQLite(path, logger)
	default:
		return nil, types.ConfigurationError("patterns", "unsupported store driver: %s", driver)
	}
}

type patternEntry struct {
	Name     string `json:"name"`
	StartAt  int    `json:"start_at"`
	EndAt    int    `json:"end_at"`
	Duration int    `json:"duration"`
	Skip     bool   `json:"skip"`
}

// Hash returns the md5 hex digest of the plan's ordered clip list.
func Hash(plan types.SequencePlan) (string, error) {
	entries := make([]patternEntry, len(plan.Clips))
	for i, c := range plan.Clips {
		entries[i] = patternEntry{
			Name:     c.Subject.Name,
			StartAt:  c.StartAt,
			EndAt:    c.EndAt,
			Duration: c.Duration,
			Skip:     c.Skip,
		}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", errors.Wrap(err, "encode pattern")
	}
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:]), nil
}
