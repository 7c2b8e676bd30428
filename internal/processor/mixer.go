package processor

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/ZacxDev/moviemix/internal/config"
	"github.com/ZacxDev/moviemix/internal/discovery"
	"github.com/ZacxDev/moviemix/internal/logging"
	"github.com/ZacxDev/moviemix/internal/ordering"
	"github.com/ZacxDev/moviemix/internal/patterns"
	"github.com/ZacxDev/moviemix/internal/planner"
	"github.com/ZacxDev/moviemix/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Mixer drives the configured number of plan-and-compile iterations.
type Mixer struct {
	opts     *config.Options
	media    Media
	store    patterns.Store
	rng      *rand.Rand
	now      func() time.Time
	out      io.Writer
	runID    string
	logger   zerolog.Logger
	subjects []types.Subject
}

type MixerOption func(*Mixer)

// WithStore uses store instead of opening the configured one.
func WithStore(store patterns.Store) MixerOption {
	return func(m *Mixer) { m.store = store }
}

// WithRand replaces the seeded generator.
func WithRand(rng *rand.Rand) MixerOption {
	return func(m *Mixer) { m.rng = rng }
}

// WithClock sets the time source used for output names.
func WithClock(now func() time.Time) MixerOption {
	return func(m *Mixer) { m.now = now }
}

// WithOutput sets where the run summary table is written.
func WithOutput(w io.Writer) MixerOption {
	return func(m *Mixer) { m.out = w }
}

// NewMixer creates a mixer. Randomness is seeded from opts.Seed, or from the
// clock when it is zero.
func NewMixer(opts *config.Options, media Media, logger zerolog.Logger, options ...MixerOption) *Mixer {
	runID := uuid.NewString()
	m := &Mixer{
		opts:   opts,
		media:  media,
		now:    time.Now,
		out:    os.Stdout,
		runID:  runID,
		logger: logging.Component(logger, "mixer").With().Str("run_id", runID).Logger(),
	}
	for _, o := range options {
		o(m)
	}
	if m.rng == nil {
		m.rng = NewRand(opts.Seed)
	}
	return m
}

// NewRand returns a PCG generator for seed; zero seeds from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RunID identifies this mixer's run in logs.
func (m *Mixer) RunID() string {
	return m.runID
}

// Subjects discovers and probes the source videos once per mixer.
func (m *Mixer) Subjects() ([]types.Subject, error) {
	if m.subjects != nil {
		return m.subjects, nil
	}

	files, err := discovery.Discover(m.opts.Paths.WorkDir, m.opts.Format)
	if err != nil {
		return nil, err
	}
	if err := discovery.CheckMixMode(files, m.opts.MixMode); err != nil {
		return nil, err
	}

	subjects := make([]types.Subject, 0, len(files))
	for _, f := range files {
		md, err := m.media.Probe(f)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, types.Subject{
			Path:       f,
			Name:       filepath.Base(f),
			Duration:   md.Seconds(),
			Resolution: md.Resolution(),
		})
	}

	m.logger.Info().Int("subjects", len(subjects)).Str("work_dir", m.opts.Paths.WorkDir).Msg("Discovered subjects")
	m.subjects = subjects
	return subjects, nil
}

// PlanOnly orders and plans once without compiling or recording patterns.
func (m *Mixer) PlanOnly() (types.SequencePlan, error) {
	subjects, err := m.Subjects()
	if err != nil {
		return types.SequencePlan{}, err
	}
	p, err := m.planner()
	if err != nil {
		return types.SequencePlan{}, err
	}
	return m.planOnce(p, subjects)
}

// Start runs every iteration. The first fatal error stops the run.
func (m *Mixer) Start() ([]IterationSummary, error) {
	subjects, err := m.Subjects()
	if err != nil {
		return nil, err
	}
	p, err := m.planner()
	if err != nil {
		return nil, err
	}
	stitcher, err := NewStitcher(m.opts, m.media, logging.Component(m.logger, "stitcher"))
	if err != nil {
		return nil, err
	}

	unique := m.opts.Clipping.Compile == types.CompileModeUnique
	if unique && m.store == nil {
		store, err := patterns.Open(m.opts.Store.Driver, m.opts.Store.Path, logging.Component(m.logger, "patterns"))
		if err != nil {
			return nil, err
		}
		defer store.Close()
		m.store = store
	}

	var done []IterationSummary
	for i := 1; i <= m.opts.Iterations; i++ {
		logger := m.logger.With().Int("iteration", i).Logger()

		var plan types.SequencePlan
		var hash string
		if unique {
			plan, hash, err = m.planUnique(p, subjects)
		} else {
			plan, err = m.planOnce(p, subjects)
		}
		if err != nil {
			return done, err
		}

		logger.Info().
			Int("expected_duration", plan.TotalDuration).
			Int("width", plan.Resolution.Width).
			Int("height", plan.Resolution.Height).
			Int("clips", len(plan.Usable())).
			Msg("Planned sequence")

		outputPath := OutputPath(m.opts.Paths.OutputDir, m.opts.OutputPrefix, m.opts.Format, m.now())
		result, err := stitcher.Compile(plan, outputPath)
		if err != nil {
			return done, err
		}

		logger.Info().Str("output", result.OutputPath).Int("duration", result.Duration).Msg("Iteration complete")
		done = append(done, IterationSummary{Iteration: i, Hash: hash, Result: result})
	}

	if m.out != nil && len(done) > 0 {
		fmt.Fprintln(m.out, SummaryTable(done))
	}
	return done, nil
}

func (m *Mixer) planner() (*planner.Planner, error) {
	return planner.New(planner.PolicyFromOptions(m.opts), m.rng, logging.Component(m.logger, "planner"))
}

func (m *Mixer) planOnce(p *planner.Planner, subjects []types.Subject) (types.SequencePlan, error) {
	ordered, err := ordering.Apply(m.opts.Ordering, subjects, m.rng)
	if err != nil {
		return types.SequencePlan{}, err
	}
	return p.Plan(ordered)
}

// planUnique re-plans until the plan's hash is absent from the store, then
// records it.
func (m *Mixer) planUnique(p *planner.Planner, subjects []types.Subject) (types.SequencePlan, string, error) {
	attempts := m.opts.Clipping.UniqueAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		plan, err := m.planOnce(p, subjects)
		if err != nil {
			return types.SequencePlan{}, "", err
		}
		hash, err := patterns.Hash(plan)
		if err != nil {
			return types.SequencePlan{}, "", err
		}
		seen, err := m.store.Exists(hash)
		if err != nil {
			return types.SequencePlan{}, "", err
		}
		if seen {
			m.logger.Debug().Str("hash", hash).Int("attempt", attempt).Msg("Plan already compiled, retrying")
			continue
		}
		if err := m.store.Record(hash); err != nil {
			return types.SequencePlan{}, "", err
		}
		return plan, hash, nil
	}

	return types.SequencePlan{}, "", types.ConfigurationError("unique",
		"no unseen plan after %d attempts; the configured clipping cannot yield a new pattern", attempts)
}
