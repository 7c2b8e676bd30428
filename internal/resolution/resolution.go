package resolution

import (
	"math"

	"github.com/ZacxDev/moviemix/pkg/types"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Strategy defines how per-clip resolutions collapse into one output
// resolution and how each segment is scaled towards it.
type Strategy interface {
	// Name returns the configured strategy name
	Name() types.ResolutionStrategy

	// Reduce folds one candidate into the running accumulator
	Reduce(acc, candidate types.Resolution) types.Resolution

	// ScaleArgs returns the ffmpeg scale argument for the target, or "" when
	// segments pass through unscaled
	ScaleArgs(target types.Resolution) string

	// Scaled returns the size of a src-sized segment after ScaleArgs is applied
	Scaled(src, target types.Resolution) types.Resolution
}

var strategies = make(map[types.ResolutionStrategy]Strategy)

// Register adds a strategy to the registry
func Register(s Strategy) {
	strategies[s.Name()] = s
}

// Get returns a strategy by name
func Get(name types.ResolutionStrategy) (Strategy, error) {
	s, ok := strategies[name]
	if !ok {
		return nil, types.ConfigurationError("resolution", "unsupported resolution strategy: %s", name)
	}
	return s, nil
}

// Supported returns the registered strategy names, sorted
func Supported() []string {
	names := maps.Keys(strategies)
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, string(n))
	}
	slices.Sort(out)
	return out
}

// Fold reduces candidates left to right starting from seed. The result
// depends on the order of candidates.
func Fold(s Strategy, seed types.Resolution, candidates []types.Resolution) types.Resolution {
	acc := seed
	for _, c := range candidates {
		acc = s.Reduce(acc, c)
	}
	return acc
}

// Canvas returns the frame that fits every scaled segment.
func Canvas(s Strategy, target types.Resolution, sources []types.Resolution) types.Resolution {
	canvas := types.Resolution{}
	for _, src := range sources {
		r := s.Scaled(src, target)
		if r.Width > canvas.Width {
			canvas.Width = r.Width
		}
		if r.Height > canvas.Height {
			canvas.Height = r.Height
		}
	}
	return canvas
}

// evenRound mirrors ffmpeg's "-2" scale dimension: nearest multiple of two.
func evenRound(v float64) int {
	return int(math.Round(v/2)) * 2
}
