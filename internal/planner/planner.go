package planner

import (
	"math/rand/v2"

	"github.com/ZacxDev/moviemix/internal/config"
	"github.com/ZacxDev/moviemix/internal/resolution"
	"github.com/ZacxDev/moviemix/pkg/types"
	"github.com/rs/zerolog"
)

// Policy holds the knobs that shape a plan.
type Policy struct {
	ClippingMode types.ClippingMode
	Duration     config.Range
	Bounds       config.Bounds
	StitchMin    int // -1 when unset
	StitchMax    int // -1 when unset
	Filler       types.FillerPolicy
	Strategy     types.ResolutionStrategy
	Custom       types.Resolution
}

// PolicyFromOptions extracts the planning policy from loaded options.
func PolicyFromOptions(o *config.Options) Policy {
	p := Policy{
		ClippingMode: o.Clipping.Mode,
		Duration:     o.Clipping.Duration,
		Bounds:       o.Clipping.Bounds,
		StitchMin:    o.Stitch.Duration.Min,
		StitchMax:    o.Stitch.Duration.Max,
		Filler:       o.Filler,
		Strategy:     o.Stitch.Resolution.Strategy,
		Custom:       types.Passthrough(),
	}
	if custom, err := o.CustomResolution(); err == nil {
		p.Custom = custom
	}
	return p
}

// Planner turns an ordered subject list into a SequencePlan.
type Planner struct {
	policy   Policy
	strategy resolution.Strategy
	rng      *rand.Rand
	logger   zerolog.Logger
}

// New creates a planner drawing all randomness from rng.
func New(policy Policy, rng *rand.Rand, logger zerolog.Logger) (*Planner, error) {
	strategy, err := resolution.Get(policy.Strategy)
	if err != nil {
		return nil, err
	}
	if policy.ClippingMode == "" {
		policy.ClippingMode = types.ClippingModeFull
	}
	return &Planner{
		policy:   policy,
		strategy: strategy,
		rng:      rng,
		logger:   logger,
	}, nil
}

// window holds the resolved bounds for one subject before randomization.
type window struct {
	start, end     int
	minDur, maxDur int
}

func (p *Planner) resolveWindow(d int) window {
	if p.policy.ClippingMode != types.ClippingModeClip {
		return window{start: 0, end: d, minDur: d, maxDur: d}
	}

	w := window{start: 0, end: d, minDur: d, maxDur: d}
	if p.policy.Bounds.StartSet() {
		w.start = p.policy.Bounds.Start
	}
	if p.policy.Bounds.EndSet() {
		w.end = p.policy.Bounds.End
	}
	if p.policy.Duration.MinSet() {
		w.minDur = p.policy.Duration.Min
	}
	if p.policy.Duration.MaxSet() {
		w.maxDur = min(d, p.policy.Duration.Max)
	}
	return w
}

// usable is the feasibility rule applied to every subject. The window test
// is kept as (end - start) <= min.
// TODO: confirm with product whether this should read >= min; as written
// only windows no wider than the minimum pass.
func usable(w window, d int) bool {
	return w.minDur <= d && (w.end-w.start) <= w.minDur
}

// randInt returns a uniform integer in [lo, hi].
func (p *Planner) randInt(lo, hi int) int {
	return lo + p.rng.IntN(hi-lo+1)
}

// Plan visits subjects in order and selects one window per usable subject.
func (p *Planner) Plan(subjects []types.Subject) (types.SequencePlan, error) {
	if len(subjects) == 0 {
		return types.SequencePlan{}, types.InputError("plan", "no subjects to plan")
	}

	plan := types.SequencePlan{
		Clips:      make([]types.ClipSpec, 0, len(subjects)),
		Resolution: types.Passthrough(),
		Strategy:   p.policy.Strategy,
	}
	isCustom := p.policy.Strategy == types.ResolutionStrategyCustom
	if isCustom {
		plan.Resolution = p.policy.Custom
	}

	for _, subject := range subjects {
		clip := p.planSubject(subject)
		plan.Clips = append(plan.Clips, clip)

		if !clip.Skip {
			plan.TotalDuration += clip.Duration
			if !isCustom {
				plan.Resolution = p.strategy.Reduce(plan.Resolution, subject.Resolution)
			}
		}

		if p.policy.StitchMax != types.Unset && plan.TotalDuration > p.policy.StitchMax {
			p.logger.Debug().
				Int("total", plan.TotalDuration).
				Int("max", p.policy.StitchMax).
				Msg("Stitch duration budget exhausted, remaining subjects not visited")
			break
		}
	}

	if len(plan.Usable()) == 0 {
		return types.SequencePlan{}, types.InputError("plan",
			"none of the %d subjects satisfied the duration checks", len(plan.Clips))
	}

	if p.policy.StitchMin != types.Unset &&
		plan.TotalDuration < p.policy.StitchMin &&
		p.policy.Filler != types.FillerPolicyLooping {
		return types.SequencePlan{}, types.ConfigurationError("plan",
			"minimum stitch duration violation: filler policy non compliant (expected duration %d, min stitch duration %d, filler %s)",
			plan.TotalDuration, p.policy.StitchMin, p.policy.Filler)
	}

	return plan, nil
}

func (p *Planner) planSubject(subject types.Subject) types.ClipSpec {
	d := subject.Duration
	w := p.resolveWindow(d)

	skip := func(reason *types.Error) types.ClipSpec {
		p.logger.Info().
			Str("subject", subject.Name).
			Int("start", w.start).
			Int("end", w.end).
			Int("duration", d).
			Int("min_duration", w.minDur).
			Int("max_duration", w.maxDur).
			Msg("Skipping subject since its duration checks have failed")
		return types.ClipSpec{
			Subject:    subject,
			Duration:   d,
			Skip:       true,
			SkipReason: reason.Error(),
		}
	}

	if !usable(w, d) {
		return skip(types.Infeasible(subject.Name, w.start, w.end, d, w.minDur, w.maxDur))
	}

	// The drawn duration must also fit inside the bounded window.
	hi := min(w.maxDur, w.end-w.start)
	if hi < w.minDur {
		return skip(types.Infeasible(subject.Name, w.start, w.end, d, w.minDur, w.maxDur))
	}

	finalDuration := p.randInt(w.minDur, hi)
	startAt := p.randInt(w.start, w.end-finalDuration)

	return types.ClipSpec{
		Subject:  subject,
		StartAt:  startAt,
		EndAt:    startAt + finalDuration,
		Duration: finalDuration,
	}
}
