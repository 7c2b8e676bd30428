package config

import (
	"os"
	"strings"

	"github.com/ZacxDev/moviemix/pkg/types"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	DefaultConfigPath = "./config.json"
	EnvPrefix         = "MOVIEMIX"
)

// Default returns the options used when a knob is absent from the config file.
func Default() Options {
	return Options{
		MixMode:    types.MixModeMulti,
		Transition: types.TransitionStatic,
		Ordering:   types.OrderingInOrder,
		Clipping: ClippingOptions{
			Mode:           types.ClippingModeFull,
			Compile:        types.CompileModeGenerate,
			UniqueAttempts: 1000,
			Duration:       Range{Min: types.Unset, Max: types.Unset},
			Bounds:         Bounds{Start: types.Unset, End: types.Unset},
		},
		OutputPrefix: "moviemixed-",
		Format:       "mp4",
		Iterations:   1,
		Stitch: StitchOptions{
			Duration: Range{Min: types.Unset, Max: types.Unset},
			Resolution: ResolutionOptions{
				Strategy: types.ResolutionStrategyNone,
				W:        types.Unset,
				H:        types.Unset,
			},
			Frames: FrameOptions{FPS: 50, Bitrate: "5000k"},
		},
		Filler: types.FillerPolicyLooping,
		Paths: PathOptions{
			WorkDir:    ".",
			ScratchDir: "./tmp_mixer",
			OutputDir:  "./output",
		},
		Store: StoreOptions{Driver: "json", Path: "./store.json"},
		Log:   LogOptions{Level: "info", Format: "console"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("mix_mode", string(d.MixMode))
	v.SetDefault("transition", string(d.Transition))
	v.SetDefault("ordering", string(d.Ordering))
	v.SetDefault("clipping.mode", string(d.Clipping.Mode))
	v.SetDefault("clipping.compile", string(d.Clipping.Compile))
	v.SetDefault("clipping.unique_attempts", d.Clipping.UniqueAttempts)
	v.SetDefault("clipping.duration.min", d.Clipping.Duration.Min)
	v.SetDefault("clipping.duration.max", d.Clipping.Duration.Max)
	v.SetDefault("clipping.bounds.start", d.Clipping.Bounds.Start)
	v.SetDefault("clipping.bounds.end", d.Clipping.Bounds.End)
	v.SetDefault("output_prefix", d.OutputPrefix)
	v.SetDefault("format", d.Format)
	v.SetDefault("iterations", d.Iterations)
	v.SetDefault("stitch.duration.min", d.Stitch.Duration.Min)
	v.SetDefault("stitch.duration.max", d.Stitch.Duration.Max)
	v.SetDefault("stitch.resolution.strategy", string(d.Stitch.Resolution.Strategy))
	v.SetDefault("stitch.resolution.w", d.Stitch.Resolution.W)
	v.SetDefault("stitch.resolution.h", d.Stitch.Resolution.H)
	v.SetDefault("stitch.frames.fps", d.Stitch.Frames.FPS)
	v.SetDefault("stitch.frames.bitrate", d.Stitch.Frames.Bitrate)
	v.SetDefault("filler", string(d.Filler))
	v.SetDefault("seed", d.Seed)
	v.SetDefault("paths.work_dir", d.Paths.WorkDir)
	v.SetDefault("paths.scratch_dir", d.Paths.ScratchDir)
	v.SetDefault("paths.output_dir", d.Paths.OutputDir)
	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load reads path (json, toml or yaml by extension), applies MOVIEMIX_*
// environment overrides and validates the result. A missing file is not an
// error; exists reports whether one was read.
func Load(path string) (opts *Options, exists bool, err error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = DefaultConfigPath
	}

	if _, statErr := os.Stat(path); statErr == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, false, types.StorageError("read config", errors.Wrapf(err, "parse %s", path))
		}
		exists = true
	} else if !os.IsNotExist(statErr) {
		return nil, false, types.StorageError("read config", errors.Wrapf(statErr, "stat %s", path))
	}

	cfg := Options{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, exists, types.StorageError("read config", errors.Wrap(err, "decode options"))
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, exists, err
	}

	return &cfg, exists, nil
}

func (o *Options) normalize() {
	o.Format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(o.Format)), ".")
	o.Store.Driver = strings.ToLower(strings.TrimSpace(o.Store.Driver))
	o.Log.Format = strings.ToLower(strings.TrimSpace(o.Log.Format))
}
