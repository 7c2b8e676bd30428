package moviemix

import (
	"fmt"
	"io"
	"os"

	"github.com/ZacxDev/moviemix/internal/config"
	"github.com/ZacxDev/moviemix/internal/ffmpeg"
	"github.com/ZacxDev/moviemix/internal/logging"
	"github.com/ZacxDev/moviemix/internal/processor"
	"github.com/ZacxDev/moviemix/internal/resolution"
	"github.com/ZacxDev/moviemix/pkg/types"
	"github.com/rs/zerolog"
)

// RunOptions defines how a command locates its configuration
type RunOptions struct {
	ConfigPath string
	// ConfigRequired fails the run when ConfigPath does not exist instead of
	// falling back to defaults
	ConfigRequired bool
	Verbose        bool
	Output         io.Writer
}

func (o RunOptions) output() io.Writer {
	if o.Output == nil {
		return os.Stdout
	}
	return o.Output
}

// Mix runs every configured iteration and writes one video per iteration.
func Mix(opts RunOptions) ([]processor.IterationSummary, error) {
	cfg, logger, err := setup(opts)
	if err != nil {
		return nil, err
	}

	media := ffmpeg.NewProcessor(opts.Verbose, logging.Component(logger, "ffmpeg"))
	mixer := processor.NewMixer(cfg, media, logger, processor.WithOutput(opts.output()))

	logger.Info().
		Str("run_id", mixer.RunID()).
		Int("iterations", cfg.Iterations).
		Str("compile", string(cfg.Clipping.Compile)).
		Msg("Starting mix")

	return mixer.Start()
}

// Plan prints the sequence one iteration would compile, without encoding.
func Plan(opts RunOptions) (types.SequencePlan, error) {
	cfg, logger, err := setup(opts)
	if err != nil {
		return types.SequencePlan{}, err
	}

	media := ffmpeg.NewProcessor(opts.Verbose, logging.Component(logger, "ffmpeg"))
	plan, err := processor.NewMixer(cfg, media, logger).PlanOnly()
	if err != nil {
		return types.SequencePlan{}, err
	}

	fmt.Fprintln(opts.output(), processor.PlanTable(plan))
	return plan, nil
}

// WriteSampleConfig writes the default configuration to path.
func WriteSampleConfig(path, format string) error {
	return config.WriteSample(path, format)
}

// SupportedStrategies returns the resolution strategy names.
func SupportedStrategies() []string {
	return resolution.Supported()
}

// SupportedConfigFormats returns the encodings sample-config can emit.
func SupportedConfigFormats() []string {
	return config.SampleFormats
}

func setup(opts RunOptions) (*config.Options, zerolog.Logger, error) {
	cfg, exists, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if opts.ConfigRequired && !exists {
		return nil, zerolog.Nop(), types.ConfigurationError("config", "config file %s does not exist", opts.ConfigPath)
	}

	logger := logging.Setup(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Verbose: opts.Verbose,
	})
	if !exists {
		logger.Debug().Str("path", opts.ConfigPath).Msg("No config file found, using defaults")
	}
	return cfg, logger, nil
}
