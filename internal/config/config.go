package config

import (
	"github.com/ZacxDev/moviemix/pkg/types"
)

// Options defines every knob of a mixing run
type Options struct {
	MixMode      types.MixMode      `mapstructure:"mix_mode" json:"mix_mode" toml:"mix_mode" yaml:"mix_mode"`
	Transition   types.Transition   `mapstructure:"transition" json:"transition" toml:"transition" yaml:"transition"`
	Ordering     types.Ordering     `mapstructure:"ordering" json:"ordering" toml:"ordering" yaml:"ordering"`
	Clipping     ClippingOptions    `mapstructure:"clipping" json:"clipping" toml:"clipping" yaml:"clipping"`
	OutputPrefix string             `mapstructure:"output_prefix" json:"output_prefix" toml:"output_prefix" yaml:"output_prefix"`
	Format       string             `mapstructure:"format" json:"format" toml:"format" yaml:"format"` // container and source extension, e.g. "mp4"
	Iterations   int                `mapstructure:"iterations" json:"iterations" toml:"iterations" yaml:"iterations"`
	Stitch       StitchOptions      `mapstructure:"stitch" json:"stitch" toml:"stitch" yaml:"stitch"`
	Filler       types.FillerPolicy `mapstructure:"filler" json:"filler" toml:"filler" yaml:"filler"`
	Seed         uint64             `mapstructure:"seed" json:"seed" toml:"seed" yaml:"seed"` // 0 seeds from the clock
	Paths        PathOptions        `mapstructure:"paths" json:"paths" toml:"paths" yaml:"paths"`
	Store        StoreOptions       `mapstructure:"store" json:"store" toml:"store" yaml:"store"`
	Log          LogOptions         `mapstructure:"log" json:"log" toml:"log" yaml:"log"`
}

// ClippingOptions controls how each subject's window is chosen
type ClippingOptions struct {
	Mode           types.ClippingMode `mapstructure:"mode" json:"mode" toml:"mode" yaml:"mode"`
	Compile        types.CompileMode  `mapstructure:"compile" json:"compile" toml:"compile" yaml:"compile"`
	UniqueAttempts int                `mapstructure:"unique_attempts" json:"unique_attempts" toml:"unique_attempts" yaml:"unique_attempts"`
	Duration       Range              `mapstructure:"duration" json:"duration" toml:"duration" yaml:"duration"`
	Bounds         Bounds             `mapstructure:"bounds" json:"bounds" toml:"bounds" yaml:"bounds"`
}

// StitchOptions controls the composite output
type StitchOptions struct {
	Duration   Range             `mapstructure:"duration" json:"duration" toml:"duration" yaml:"duration"`
	Resolution ResolutionOptions `mapstructure:"resolution" json:"resolution" toml:"resolution" yaml:"resolution"`
	Frames     FrameOptions      `mapstructure:"frames" json:"frames" toml:"frames" yaml:"frames"`
}

type ResolutionOptions struct {
	Strategy types.ResolutionStrategy `mapstructure:"strategy" json:"strategy" toml:"strategy" yaml:"strategy"`
	W        int                      `mapstructure:"w" json:"w" toml:"w" yaml:"w"`
	H        int                      `mapstructure:"h" json:"h" toml:"h" yaml:"h"`
}

type FrameOptions struct {
	FPS     int    `mapstructure:"fps" json:"fps" toml:"fps" yaml:"fps"`
	Bitrate string `mapstructure:"bitrate" json:"bitrate" toml:"bitrate" yaml:"bitrate"`
}

// Range is a min/max pair in seconds; -1 means unset
type Range struct {
	Min int `mapstructure:"min" json:"min" toml:"min" yaml:"min"`
	Max int `mapstructure:"max" json:"max" toml:"max" yaml:"max"`
}

// Bounds is a start/end pair in seconds; -1 means unset
type Bounds struct {
	Start int `mapstructure:"start" json:"start" toml:"start" yaml:"start"`
	End   int `mapstructure:"end" json:"end" toml:"end" yaml:"end"`
}

type PathOptions struct {
	WorkDir    string `mapstructure:"work_dir" json:"work_dir" toml:"work_dir" yaml:"work_dir"`
	ScratchDir string `mapstructure:"scratch_dir" json:"scratch_dir" toml:"scratch_dir" yaml:"scratch_dir"`
	OutputDir  string `mapstructure:"output_dir" json:"output_dir" toml:"output_dir" yaml:"output_dir"`
}

type StoreOptions struct {
	Driver string `mapstructure:"driver" json:"driver" toml:"driver" yaml:"driver"` // "json" or "sqlite"
	Path   string `mapstructure:"path" json:"path" toml:"path" yaml:"path"`
}

type LogOptions struct {
	Level  string `mapstructure:"level" json:"level" toml:"level" yaml:"level"`
	Format string `mapstructure:"format" json:"format" toml:"format" yaml:"format"` // "console" or "json"
}

func (r Range) MinSet() bool { return r.Min != types.Unset }
func (r Range) MaxSet() bool { return r.Max != types.Unset }

func (b Bounds) StartSet() bool { return b.Start != types.Unset }
func (b Bounds) EndSet() bool   { return b.End != types.Unset }

// CustomResolution returns the pinned output size of the custom strategy.
func (o *Options) CustomResolution() (types.Resolution, error) {
	if o.Stitch.Resolution.Strategy != types.ResolutionStrategyCustom {
		return types.Resolution{}, types.ConfigurationError("config",
			"custom resolution requested while strategy is %s", o.Stitch.Resolution.Strategy)
	}
	return types.Resolution{Width: o.Stitch.Resolution.W, Height: o.Stitch.Resolution.H}, nil
}
