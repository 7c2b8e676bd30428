package processor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZacxDev/moviemix/internal/config"
	"github.com/ZacxDev/moviemix/internal/ffmpeg"
	"github.com/ZacxDev/moviemix/internal/logging"
	"github.com/ZacxDev/moviemix/internal/resolution"
	"github.com/ZacxDev/moviemix/pkg/types"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// Media is the ffmpeg surface the mixer depends on.
type Media interface {
	Probe(path string) (*ffmpeg.VideoMetadata, error)
	Extract(src, dst string, start, end int) error
	Stitch(segments []ffmpeg.Segment, opts ffmpeg.StitchOptions) error
}

// CompileResult describes one written artifact.
type CompileResult struct {
	OutputPath string
	Segments   int
	Duration   int
	Canvas     types.Resolution
}

// Stitcher turns a finished plan into one encoded file.
type Stitcher struct {
	opts     *config.Options
	media    Media
	strategy resolution.Strategy
	logger   zerolog.Logger
	progress bool
}

// NewStitcher creates a stitcher for opts. Extraction progress is drawn only
// when stderr is a terminal.
func NewStitcher(opts *config.Options, media Media, logger zerolog.Logger) (*Stitcher, error) {
	strategy, err := resolution.Get(opts.Stitch.Resolution.Strategy)
	if err != nil {
		return nil, err
	}
	return &Stitcher{
		opts:     opts,
		media:    media,
		strategy: strategy,
		logger:   logger,
		progress: logging.IsTerminal(os.Stderr),
	}, nil
}

// Compile extracts, backfills, resizes and concatenates plan into outputPath.
func (s *Stitcher) Compile(plan types.SequencePlan, outputPath string) (*CompileResult, error) {
	usable := plan.Usable()
	if len(usable) == 0 {
		return nil, types.InputError("compile", "plan has no usable clip")
	}

	minDuration := s.opts.Stitch.Duration.Min
	if s.opts.Stitch.Duration.MinSet() && plan.SumDurations() < minDuration &&
		s.opts.Filler != types.FillerPolicyLooping {
		return nil, types.ConfigurationError("compile",
			"plan totals %ds, below stitch minimum %ds, and filler is %s",
			plan.SumDurations(), minDuration, s.opts.Filler)
	}

	scratch := s.opts.Paths.ScratchDir
	if err := resetDir(scratch); err != nil {
		return nil, types.StorageError("prepare scratch", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, types.StorageError("prepare output", err)
	}

	extracted, err := s.extract(usable)
	if err != nil {
		return nil, err
	}

	filled, err := Backfill(plan, minDuration)
	if err != nil {
		return nil, err
	}

	paths, err := s.materialize(filled, extracted, len(plan.Clips))
	if err != nil {
		return nil, err
	}

	target := plan.Resolution
	scale := s.strategy.ScaleArgs(target)

	segments := make([]ffmpeg.Segment, 0, len(paths))
	sources := make([]types.Resolution, 0, len(paths))
	for i, c := range filled.Usable() {
		segments = append(segments, ffmpeg.Segment{Path: paths[i], Scale: scale})
		sources = append(sources, c.Subject.Resolution)
	}
	canvas := resolution.Canvas(s.strategy, target, sources)

	s.logger.Debug().
		Int("segments", len(segments)).
		Int("backfilled", len(filled.Clips)-len(plan.Clips)).
		Str("scale", scale).
		Msg("Stitching segments")

	err = s.media.Stitch(segments, ffmpeg.StitchOptions{
		OutputPath: outputPath,
		Format:     s.opts.Format,
		Canvas:     canvas,
		FPS:        s.opts.Stitch.Frames.FPS,
		Bitrate:    s.opts.Stitch.Frames.Bitrate,
	})
	if err != nil {
		return nil, err
	}

	return &CompileResult{
		OutputPath: outputPath,
		Segments:   len(segments),
		Duration:   filled.TotalDuration,
		Canvas:     canvas,
	}, nil
}

// extract cuts every usable clip into the scratch directory, keyed by source path.
func (s *Stitcher) extract(clips []types.ClipSpec) (map[string]string, error) {
	var bar *progressbar.ProgressBar
	if s.progress {
		bar = progressbar.NewOptions(len(clips),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Extracting"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionClearOnFinish(),
		)
	}

	out := make(map[string]string, len(clips))
	for _, c := range clips {
		dst := filepath.Join(s.opts.Paths.ScratchDir, "tailor_clip-"+c.Subject.Name)
		if err := s.media.Extract(c.Subject.Path, dst, c.StartAt, c.EndAt); err != nil {
			return nil, err
		}
		out[c.Subject.Path] = dst
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return out, nil
}

// materialize returns one scratch file per usable clip of filled, in order.
// Clips at index >= planned are backfill repeats and get their own copy so
// no file is fed to the concat twice.
func (s *Stitcher) materialize(filled types.SequencePlan, extracted map[string]string, planned int) ([]string, error) {
	var paths []string
	fill := 0
	for i, c := range filled.Clips {
		if c.Skip {
			continue
		}
		src, ok := extracted[c.Subject.Path]
		if !ok {
			return nil, types.InputError("compile", "clip %s was not extracted", c.Subject.Name)
		}
		if i < planned {
			paths = append(paths, src)
			continue
		}
		fill++
		dst := filepath.Join(s.opts.Paths.ScratchDir, fmt.Sprintf("tailor_clip-fill%d-%s", fill, c.Subject.Name))
		if err := copyFile(src, dst); err != nil {
			return nil, types.StorageError("backfill", err)
		}
		paths = append(paths, dst)
	}
	return paths, nil
}
