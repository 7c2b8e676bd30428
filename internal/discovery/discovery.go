package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZacxDev/moviemix/pkg/types"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Discover lists the regular files directly inside dir whose name ends with
// format, sorted by name. Subdirectories are not descended into.
func Discover(dir, format string) ([]string, error) {
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	if format == "" {
		return nil, types.ConfigurationError("discover", "no format configured")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.InputError("discover", "work directory %s does not exist", dir)
		}
		return nil, types.StorageError("discover", errors.Wrapf(err, "read %s", dir))
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), format) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	slices.Sort(files)

	if len(files) == 0 {
		return nil, types.InputError("discover", "no %s files found in %s", format, dir)
	}
	return files, nil
}

// CheckMixMode rejects a subject set that the mix mode cannot accept.
func CheckMixMode(files []string, mode types.MixMode) error {
	if mode == types.MixModeSingle && len(files) > 1 {
		return types.InputError("discover",
			"single mix mode expects one subject, found %d", len(files))
	}
	return nil
}
