package resolution

import (
	"fmt"

	"github.com/ZacxDev/moviemix/pkg/types"
)

// Custom pins the output to a configured size. The accumulator is seeded
// once with that size and candidates never change it.
type Custom struct{}

func init() {
	Register(&Custom{})
}

func (s *Custom) Name() types.ResolutionStrategy {
	return types.ResolutionStrategyCustom
}

func (s *Custom) Reduce(acc, _ types.Resolution) types.Resolution {
	return acc
}

func (s *Custom) ScaleArgs(target types.Resolution) string {
	if target.IsPassthrough() {
		return ""
	}
	return fmt.Sprintf("%d:%d", target.Width, target.Height)
}

func (s *Custom) Scaled(src, target types.Resolution) types.Resolution {
	if target.IsPassthrough() {
		return src
	}
	return target
}
