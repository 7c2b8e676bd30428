package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ZacxDev/moviemix/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SampleFormats lists the encodings accepted by Marshal.
var SampleFormats = []string{"json", "toml", "yaml"}

// Marshal encodes opts in the given config format.
func Marshal(opts Options, format string) ([]byte, error) {
	switch format {
	case "json", "":
		b, err := json.MarshalIndent(opts, "", "  ")
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return append(b, '\n'), nil
	case "toml":
		b, err := toml.Marshal(opts)
		return b, errors.WithStack(err)
	case "yaml", "yml":
		b, err := yaml.Marshal(opts)
		return b, errors.WithStack(err)
	default:
		return nil, types.ConfigurationError("sample-config", "unsupported config format: %s", format)
	}
}

// WriteSample writes the default options to path.
func WriteSample(path, format string) error {
	b, err := Marshal(Default(), format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return types.StorageError("write sample config", errors.Wrap(err, "create config directory"))
		}
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return types.StorageError("write sample config", errors.WithStack(err))
	}
	return nil
}
