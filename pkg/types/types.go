package types

type MixMode string

const (
	MixModeMulti  MixMode = "multi"
	MixModeSingle MixMode = "single"
)

type Transition string

const (
	TransitionStatic Transition = "static"
)

type Ordering string

const (
	OrderingInOrder Ordering = "inorder"
	OrderingReverse Ordering = "reverse"
	OrderingRandom  Ordering = "random"
)

type ClippingMode string

const (
	ClippingModeFull ClippingMode = "full"
	ClippingModeClip ClippingMode = "clip"
)

type CompileMode string

const (
	CompileModeGenerate CompileMode = "gen"
	CompileModeUnique   CompileMode = "unique"
)

type ResolutionStrategy string

const (
	ResolutionStrategyNone   ResolutionStrategy = "none"
	ResolutionStrategyWidth  ResolutionStrategy = "width"
	ResolutionStrategyHeight ResolutionStrategy = "height"
	ResolutionStrategyCustom ResolutionStrategy = "custom"
)

type FillerPolicy string

const (
	FillerPolicyLooping FillerPolicy = "looping"
	FillerPolicyTrim    FillerPolicy = "trim"
)

// Unset marks an integer knob that was not configured.
const Unset = -1

// Resolution is a frame size. Both dimensions at -1 means passthrough.
type Resolution struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// Passthrough returns the "do not resize" resolution.
func Passthrough() Resolution {
	return Resolution{Width: Unset, Height: Unset}
}

// IsPassthrough reports whether no resize should be applied.
func (r Resolution) IsPassthrough() bool {
	return r.Width == Unset || r.Height == Unset
}

// Subject is one discovered source video.
type Subject struct {
	Path       string
	Name       string
	Duration   int // whole seconds
	Resolution Resolution
}

// ClipSpec is the planned window of one subject, or a skip marker.
type ClipSpec struct {
	Subject    Subject
	StartAt    int
	EndAt      int
	Duration   int
	Skip       bool
	SkipReason string
}

// SequencePlan is the ordered outcome of one planning pass.
type SequencePlan struct {
	Clips         []ClipSpec
	TotalDuration int
	Resolution    Resolution
	Strategy      ResolutionStrategy
}

// Usable returns the non-skipped clips in plan order.
func (p SequencePlan) Usable() []ClipSpec {
	out := make([]ClipSpec, 0, len(p.Clips))
	for _, c := range p.Clips {
		if !c.Skip {
			out = append(out, c)
		}
	}
	return out
}

// SumDurations recomputes the total over non-skipped clips.
func (p SequencePlan) SumDurations() int {
	total := 0
	for _, c := range p.Clips {
		if !c.Skip {
			total += c.Duration
		}
	}
	return total
}
