package ordering

import (
	"math/rand/v2"

	"github.com/ZacxDev/moviemix/pkg/types"
	"golang.org/x/exp/slices"
)

// Apply returns a permutation of subjects for the given mode. The input
// slice is never modified.
func Apply(mode types.Ordering, subjects []types.Subject, rng *rand.Rand) ([]types.Subject, error) {
	out := slices.Clone(subjects)
	switch mode {
	case types.OrderingInOrder, "":
		return out, nil
	case types.OrderingReverse:
		slices.Reverse(out)
		return out, nil
	case types.OrderingRandom:
		rng.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
		return out, nil
	default:
		return nil, types.ConfigurationError("ordering", "unsupported ordering: %s", mode)
	}
}
