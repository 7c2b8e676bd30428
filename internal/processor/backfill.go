package processor

import (
	"github.com/ZacxDev/moviemix/pkg/types"
	"golang.org/x/exp/slices"
)

// Backfill returns a copy of plan extended with repeats of its usable clips,
// round-robin in plan order, until the total reaches minDuration. plan itself
// is left untouched. A minDuration of -1 disables backfill.
func Backfill(plan types.SequencePlan, minDuration int) (types.SequencePlan, error) {
	out := plan
	out.Clips = slices.Clone(plan.Clips)
	out.TotalDuration = plan.SumDurations()

	if minDuration == types.Unset || out.TotalDuration >= minDuration {
		return out, nil
	}

	var pool []types.ClipSpec
	for _, c := range plan.Usable() {
		if c.Duration > 0 {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		return types.SequencePlan{}, types.InputError("backfill",
			"no clip with a positive duration to repeat towards %ds", minDuration)
	}

	for i := 0; out.TotalDuration < minDuration; i++ {
		c := pool[i%len(pool)]
		out.Clips = append(out.Clips, c)
		out.TotalDuration += c.Duration
	}
	return out, nil
}
