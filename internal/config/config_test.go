package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZacxDev/moviemix/pkg/types"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, exists, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be reported missing")
	}
	want := Default()
	if cfg.MixMode != want.MixMode || cfg.Ordering != want.Ordering || cfg.Format != "mp4" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Clipping.Duration.MinSet() || cfg.Stitch.Duration.MaxSet() {
		t.Fatalf("expected unset durations, got %+v / %+v", cfg.Clipping.Duration, cfg.Stitch.Duration)
	}
	if cfg.Stitch.Frames.FPS != 50 || cfg.Stitch.Frames.Bitrate != "5000k" {
		t.Fatalf("unexpected frame defaults: %+v", cfg.Stitch.Frames)
	}
	if cfg.OutputPrefix != "moviemixed-" {
		t.Fatalf("unexpected prefix %q", cfg.OutputPrefix)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", `{
  "mix_mode": "multi",
  "ordering": "random",
  "clipping": {
    "mode": "clip",
    "compile": "unique",
    "duration": {"min": 5, "max": 10},
    "bounds": {"start": 10, "end": 15}
  },
  "format": ".MP4",
  "iterations": 3,
  "stitch": {
    "duration": {"min": 60},
    "resolution": {"strategy": "custom", "w": 480, "h": 270},
    "frames": {"fps": 30, "bitrate": "2000k"}
  },
  "seed": 99
}`)

	cfg, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Ordering != types.OrderingRandom {
		t.Fatalf("ordering = %s", cfg.Ordering)
	}
	if cfg.Clipping.Mode != types.ClippingModeClip || cfg.Clipping.Compile != types.CompileModeUnique {
		t.Fatalf("clipping = %+v", cfg.Clipping)
	}
	if cfg.Clipping.Duration != (Range{Min: 5, Max: 10}) {
		t.Fatalf("duration = %+v", cfg.Clipping.Duration)
	}
	if cfg.Clipping.Bounds != (Bounds{Start: 10, End: 15}) {
		t.Fatalf("bounds = %+v", cfg.Clipping.Bounds)
	}
	if cfg.Format != "mp4" {
		t.Fatalf("format not normalized: %q", cfg.Format)
	}
	if cfg.Stitch.Duration.Min != 60 || cfg.Stitch.Duration.MaxSet() {
		t.Fatalf("stitch duration = %+v", cfg.Stitch.Duration)
	}
	res, err := cfg.CustomResolution()
	if err != nil {
		t.Fatalf("CustomResolution: %v", err)
	}
	if res != (types.Resolution{Width: 480, Height: 270}) {
		t.Fatalf("custom resolution = %+v", res)
	}
	if cfg.Seed != 99 || cfg.Iterations != 3 {
		t.Fatalf("seed=%d iterations=%d", cfg.Seed, cfg.Iterations)
	}
	// untouched knobs keep their defaults
	if cfg.Filler != types.FillerPolicyLooping || cfg.Paths.OutputDir != "./output" {
		t.Fatalf("defaults lost: filler=%s output=%s", cfg.Filler, cfg.Paths.OutputDir)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MOVIEMIX_ITERATIONS", "4")
	t.Setenv("MOVIEMIX_STITCH_FRAMES_FPS", "24")

	cfg, _, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Iterations != 4 {
		t.Fatalf("iterations = %d, want 4", cfg.Iterations)
	}
	if cfg.Stitch.Frames.FPS != 24 {
		t.Fatalf("fps = %d, want 24", cfg.Stitch.Frames.FPS)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.json", `{"mix_mode": `)
	_, _, err := Load(path)
	if !types.IsKind(err, types.KindStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"mix mode", func(o *Options) { o.MixMode = "triple" }},
		{"transition", func(o *Options) { o.Transition = "crossfade" }},
		{"ordering", func(o *Options) { o.Ordering = "sideways" }},
		{"clipping mode", func(o *Options) { o.Clipping.Mode = "half" }},
		{"compile", func(o *Options) { o.Clipping.Compile = "maybe" }},
		{"unique attempts", func(o *Options) {
			o.Clipping.Compile = types.CompileModeUnique
			o.Clipping.UniqueAttempts = 0
		}},
		{"filler", func(o *Options) { o.Filler = "stretch" }},
		{"python format", func(o *Options) { o.Format = "py" }},
		{"empty format", func(o *Options) { o.Format = "" }},
		{"iterations", func(o *Options) { o.Iterations = 0 }},
		{"fps", func(o *Options) { o.Stitch.Frames.FPS = 0 }},
		{"clip min over max", func(o *Options) { o.Clipping.Duration = Range{Min: 10, Max: 5} }},
		{"stitch min over max", func(o *Options) { o.Stitch.Duration = Range{Min: 100, Max: 50} }},
		{"bounds", func(o *Options) { o.Clipping.Bounds = Bounds{Start: 20, End: 10} }},
		{"custom without size", func(o *Options) { o.Stitch.Resolution.Strategy = types.ResolutionStrategyCustom }},
		{"strategy", func(o *Options) { o.Stitch.Resolution.Strategy = "diagonal" }},
		{"store driver", func(o *Options) { o.Store.Driver = "redis" }},
		{"log format", func(o *Options) { o.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Default()
			tt.mutate(&opts)
			if err := opts.Validate(); !types.IsKind(err, types.KindConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}

	opts := Default()
	if err := opts.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestCustomResolutionRequiresCustomStrategy(t *testing.T) {
	opts := Default()
	if _, err := opts.CustomResolution(); !types.IsKind(err, types.KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestWriteSampleRoundTrip(t *testing.T) {
	for _, format := range SampleFormats {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config."+format)
			if err := WriteSample(path, format); err != nil {
				t.Fatalf("WriteSample: %v", err)
			}
			cfg, exists, err := Load(path)
			if err != nil {
				t.Fatalf("Load(%s): %v", format, err)
			}
			if !exists {
				t.Fatal("expected sample to exist")
			}
			if *cfg != Default() {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", *cfg, Default())
			}
		})
	}
}

func TestMarshalUnknownFormat(t *testing.T) {
	if _, err := Marshal(Default(), "ini"); !types.IsKind(err, types.KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
