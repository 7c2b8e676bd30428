package processor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZacxDev/moviemix/pkg/types"
	"github.com/rs/zerolog"
)

func twoClipPlan() types.SequencePlan {
	return types.SequencePlan{
		Clips: []types.ClipSpec{
			clip("a.mp4", 0, 5, 640, 360),
			clip("c.mp4", 2, 3, 1280, 720),
		},
		TotalDuration: 8,
		Resolution:    types.Resolution{Width: 1280, Height: 720},
		Strategy:      types.ResolutionStrategyHeight,
	}
}

func TestStitcherCompile(t *testing.T) {
	opts := testOptions(t)
	opts.Stitch.Duration.Min = 20
	opts.Stitch.Resolution.Strategy = types.ResolutionStrategyHeight

	if err := os.MkdirAll(opts.Paths.ScratchDir, 0755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(opts.Paths.ScratchDir, "stale.mp4")
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	media := &fakeMedia{}
	s, err := NewStitcher(opts, media, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStitcher: %v", err)
	}

	out := filepath.Join(opts.Paths.OutputDir, "mix.mp4")
	result, err := s.Compile(twoClipPlan(), out)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("scratch directory was not cleared")
	}
	if len(media.extracts) != 2 {
		t.Fatalf("expected 2 extractions, got %d", len(media.extracts))
	}
	if e := media.extracts[1]; e.start != 2 || e.end != 5 ||
		e.dst != filepath.Join(opts.Paths.ScratchDir, "tailor_clip-c.mp4") {
		t.Errorf("unexpected extraction %+v", e)
	}

	if len(media.stitches) != 1 {
		t.Fatalf("expected one stitch, got %d", len(media.stitches))
	}
	segments := media.stitches[0]
	wantFiles := []string{
		"tailor_clip-a.mp4",
		"tailor_clip-c.mp4",
		"tailor_clip-fill1-a.mp4",
		"tailor_clip-fill2-c.mp4",
		"tailor_clip-fill3-a.mp4",
	}
	if len(segments) != len(wantFiles) {
		t.Fatalf("got %d segments, want %d", len(segments), len(wantFiles))
	}
	seen := map[string]bool{}
	for i, seg := range segments {
		if filepath.Base(seg.Path) != wantFiles[i] {
			t.Errorf("segment %d = %s, want %s", i, filepath.Base(seg.Path), wantFiles[i])
		}
		if seen[seg.Path] {
			t.Errorf("segment %s used twice", seg.Path)
		}
		seen[seg.Path] = true
		if seg.Scale != "-2:720" {
			t.Errorf("segment %d scale = %q", i, seg.Scale)
		}
		if _, err := os.Stat(seg.Path); err != nil {
			t.Errorf("segment file missing: %v", err)
		}
	}

	so := media.options[0]
	if so.Canvas != (types.Resolution{Width: 1280, Height: 720}) {
		t.Errorf("canvas = %+v", so.Canvas)
	}
	if so.FPS != 50 || so.Bitrate != "5000k" || so.Format != "mp4" {
		t.Errorf("unexpected encode options %+v", so)
	}
	if result.Duration != 21 || result.Segments != 5 || result.OutputPath != out {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestStitcherPassthrough(t *testing.T) {
	opts := testOptions(t)
	media := &fakeMedia{}
	s, err := NewStitcher(opts, media, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStitcher: %v", err)
	}

	plan := twoClipPlan()
	plan.Resolution = types.Passthrough()
	plan.Strategy = types.ResolutionStrategyNone

	if _, err := s.Compile(plan, filepath.Join(opts.Paths.OutputDir, "mix.mp4")); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, seg := range media.stitches[0] {
		if seg.Scale != "" {
			t.Errorf("passthrough segment scaled with %q", seg.Scale)
		}
	}
	if c := media.options[0].Canvas; c != (types.Resolution{Width: 1280, Height: 720}) {
		t.Errorf("canvas = %+v, want largest source", c)
	}
}

func TestStitcherFillerFailsBeforeExtraction(t *testing.T) {
	opts := testOptions(t)
	opts.Stitch.Duration.Min = 100
	opts.Filler = types.FillerPolicyTrim

	media := &fakeMedia{}
	s, err := NewStitcher(opts, media, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStitcher: %v", err)
	}

	_, err = s.Compile(twoClipPlan(), filepath.Join(opts.Paths.OutputDir, "mix.mp4"))
	if !types.IsKind(err, types.KindConfiguration) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if len(media.extracts) != 0 || len(media.stitches) != 0 {
		t.Errorf("media touched before failing: %d extracts, %d stitches", len(media.extracts), len(media.stitches))
	}
}

func TestStitcherEmptyPlan(t *testing.T) {
	opts := testOptions(t)
	s, err := NewStitcher(opts, &fakeMedia{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStitcher: %v", err)
	}

	skipped := clip("a.mp4", 0, 5, 640, 360)
	skipped.Skip = true
	_, err = s.Compile(types.SequencePlan{Clips: []types.ClipSpec{skipped}}, "out.mp4")
	if !types.IsKind(err, types.KindInput) {
		t.Errorf("expected InputError, got %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 10, 15, 13, 4, 5, 0, time.UTC)

	first := OutputPath(dir, "moviemixed-", "mp4", now)
	if want := filepath.Join(dir, "moviemixed-10-15-2026-13-04-05.mp4"); first != want {
		t.Fatalf("OutputPath = %s, want %s", first, want)
	}

	if err := os.WriteFile(first, nil, 0644); err != nil {
		t.Fatal(err)
	}
	second := OutputPath(dir, "moviemixed-", "mp4", now)
	if !strings.HasSuffix(second, "moviemixed-10-15-2026-13-04-05 - dup1.mp4") {
		t.Errorf("second = %s", second)
	}

	if err := os.WriteFile(second, nil, 0644); err != nil {
		t.Fatal(err)
	}
	third := OutputPath(dir, "moviemixed-", "mp4", now)
	if !strings.HasSuffix(third, " - dup2.mp4") {
		t.Errorf("third = %s", third)
	}
}
