package resolution

import "github.com/ZacxDev/moviemix/pkg/types"

type None struct{}

func init() {
	Register(&None{})
}

func (s *None) Name() types.ResolutionStrategy {
	return types.ResolutionStrategyNone
}

func (s *None) Reduce(_, _ types.Resolution) types.Resolution {
	return types.Passthrough()
}

func (s *None) ScaleArgs(_ types.Resolution) string {
	return ""
}

func (s *None) Scaled(src, _ types.Resolution) types.Resolution {
	return src
}
