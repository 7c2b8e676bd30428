package config

import (
	"strings"

	"github.com/ZacxDev/moviemix/pkg/types"
)

var sourceExtensions = []string{"py", "pyc", "go", "sh"}

// Validate rejects unknown enumerations and contradictory bounds.
func (o *Options) Validate() error {
	switch o.MixMode {
	case types.MixModeMulti, types.MixModeSingle:
	default:
		return types.ConfigurationError("config", "unsupported mix_mode: %s", o.MixMode)
	}
	if o.Transition != types.TransitionStatic {
		return types.ConfigurationError("config", "unsupported transition: %s (only %s is implemented)",
			o.Transition, types.TransitionStatic)
	}
	switch o.Ordering {
	case types.OrderingInOrder, types.OrderingReverse, types.OrderingRandom:
	default:
		return types.ConfigurationError("config", "unsupported ordering: %s", o.Ordering)
	}
	switch o.Clipping.Mode {
	case types.ClippingModeFull, types.ClippingModeClip:
	default:
		return types.ConfigurationError("config", "unsupported clipping.mode: %s", o.Clipping.Mode)
	}
	switch o.Clipping.Compile {
	case types.CompileModeGenerate, types.CompileModeUnique:
	default:
		return types.ConfigurationError("config", "unsupported clipping.compile: %s", o.Clipping.Compile)
	}
	if o.Clipping.Compile == types.CompileModeUnique && o.Clipping.UniqueAttempts < 1 {
		return types.ConfigurationError("config", "clipping.unique_attempts must be at least 1, got %d",
			o.Clipping.UniqueAttempts)
	}
	switch o.Filler {
	case types.FillerPolicyLooping, types.FillerPolicyTrim:
	default:
		return types.ConfigurationError("config", "unsupported filler: %s", o.Filler)
	}

	if o.Format == "" {
		return types.ConfigurationError("config", "format must not be empty")
	}
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(o.Format, ext) {
			return types.ConfigurationError("config", "invalid format specifier for mixing: %s", o.Format)
		}
	}
	if o.Iterations < 1 {
		return types.ConfigurationError("config", "iterations must be at least 1, got %d", o.Iterations)
	}
	if o.Stitch.Frames.FPS <= 0 {
		return types.ConfigurationError("config", "stitch.frames.fps must be positive, got %d", o.Stitch.Frames.FPS)
	}
	if strings.TrimSpace(o.Stitch.Frames.Bitrate) == "" {
		return types.ConfigurationError("config", "stitch.frames.bitrate must not be empty")
	}

	if err := validateRange("clipping.duration", o.Clipping.Duration); err != nil {
		return err
	}
	if err := validateRange("stitch.duration", o.Stitch.Duration); err != nil {
		return err
	}
	b := o.Clipping.Bounds
	if b.StartSet() && b.EndSet() && b.Start > b.End {
		return types.ConfigurationError("config", "clipping.bounds.start (%d) exceeds clipping.bounds.end (%d)",
			b.Start, b.End)
	}

	res := o.Stitch.Resolution
	switch res.Strategy {
	case types.ResolutionStrategyNone, types.ResolutionStrategyWidth, types.ResolutionStrategyHeight:
	case types.ResolutionStrategyCustom:
		if res.W <= 0 || res.H <= 0 {
			return types.ConfigurationError("config", "custom resolution requires positive w and h, got %dx%d",
				res.W, res.H)
		}
	default:
		return types.ConfigurationError("config", "unsupported stitch.resolution.strategy: %s", res.Strategy)
	}

	switch o.Store.Driver {
	case "json", "sqlite":
	default:
		return types.ConfigurationError("config", "unsupported store.driver: %s", o.Store.Driver)
	}
	switch o.Log.Format {
	case "console", "json":
	default:
		return types.ConfigurationError("config", "unsupported log.format: %s", o.Log.Format)
	}
	return nil
}

func validateRange(key string, r Range) error {
	if r.MinSet() && r.Min < 0 {
		return types.ConfigurationError("config", "%s.min must be -1 or non-negative, got %d", key, r.Min)
	}
	if r.MaxSet() && r.Max < 0 {
		return types.ConfigurationError("config", "%s.max must be -1 or non-negative, got %d", key, r.Max)
	}
	if r.MinSet() && r.MaxSet() && r.Min > r.Max {
		return types.ConfigurationError("config", "%s.min (%d) exceeds %s.max (%d)", key, r.Min, key, r.Max)
	}
	return nil
}
