package resolution

import (
	"fmt"

	"github.com/ZacxDev/moviemix/pkg/types"
)

// MaxHeight keeps the tallest clip seen so far, with its own width.
type MaxHeight struct{}

func init() {
	Register(&MaxHeight{})
}

func (s *MaxHeight) Name() types.ResolutionStrategy {
	return types.ResolutionStrategyHeight
}

// Reduce replaces acc only on a strictly taller candidate; ties keep acc.
func (s *MaxHeight) Reduce(acc, candidate types.Resolution) types.Resolution {
	if candidate.Height > acc.Height {
		return candidate
	}
	return acc
}

func (s *MaxHeight) ScaleArgs(target types.Resolution) string {
	if target.IsPassthrough() {
		return ""
	}
	return fmt.Sprintf("-2:%d", target.Height)
}

func (s *MaxHeight) Scaled(src, target types.Resolution) types.Resolution {
	if target.IsPassthrough() || src.Height <= 0 {
		return src
	}
	return types.Resolution{
		Width:  evenRound(float64(src.Width) * float64(target.Height) / float64(src.Height)),
		Height: target.Height,
	}
}
