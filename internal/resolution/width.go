package resolution

import (
	"fmt"

	"github.com/ZacxDev/moviemix/pkg/types"
)

// MaxWidth keeps the widest clip seen so far, with its own height.
type MaxWidth struct{}

func init() {
	Register(&MaxWidth{})
}

func (s *MaxWidth) Name() types.ResolutionStrategy {
	return types.ResolutionStrategyWidth
}

// Reduce replaces acc only on a strictly wider candidate; ties keep acc.
func (s *MaxWidth) Reduce(acc, candidate types.Resolution) types.Resolution {
	if candidate.Width > acc.Width {
		return candidate
	}
	return acc
}

func (s *MaxWidth) ScaleArgs(target types.Resolution) string {
	if target.IsPassthrough() {
		return ""
	}
	return fmt.Sprintf("%d:-2", target.Width)
}

func (s *MaxWidth) Scaled(src, target types.Resolution) types.Resolution {
	if target.IsPassthrough() || src.Width <= 0 {
		return src
	}
	return types.Resolution{
		Width:  target.Width,
		Height: evenRound(float64(src.Height) * float64(target.Width) / float64(src.Width)),
	}
}
