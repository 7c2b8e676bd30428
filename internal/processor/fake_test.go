package processor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZacxDev/moviemix/internal/config"
	"github.com/ZacxDev/moviemix/internal/ffmpeg"
	"github.com/ZacxDev/moviemix/pkg/types"
)

type extractCall struct {
	src, dst   string
	start, end int
}

// fakeMedia stands in for ffmpeg: extracts and stitches write small marker
// files so the filesystem side of the pipeline is real.
type fakeMedia struct {
	metadata map[string]ffmpeg.VideoMetadata
	extracts []extractCall
	stitches [][]ffmpeg.Segment
	options  []ffmpeg.StitchOptions
}

func (f *fakeMedia) Probe(path string) (*ffmpeg.VideoMetadata, error) {
	md, ok := f.metadata[filepath.Base(path)]
	if !ok {
		md = ffmpeg.VideoMetadata{Duration: 10, Width: 640, Height: 360, Codec: "h264"}
	}
	return &md, nil
}

func (f *fakeMedia) Extract(src, dst string, start, end int) error {
	f.extracts = append(f.extracts, extractCall{src: src, dst: dst, start: start, end: end})
	return os.WriteFile(dst, []byte(filepath.Base(src)), 0644)
}

func (f *fakeMedia) Stitch(segments []ffmpeg.Segment, opts ffmpeg.StitchOptions) error {
	f.stitches = append(f.stitches, segments)
	f.options = append(f.options, opts)
	return os.WriteFile(opts.OutputPath, []byte("stitched"), 0644)
}

func testOptions(t *testing.T) *config.Options {
	t.Helper()
	root := t.TempDir()
	opts := config.Default()
	opts.Paths = config.PathOptions{
		WorkDir:    filepath.Join(root, "work"),
		ScratchDir: filepath.Join(root, "scratch"),
		OutputDir:  filepath.Join(root, "output"),
	}
	opts.Store.Path = filepath.Join(root, "store.json")
	if err := os.MkdirAll(opts.Paths.WorkDir, 0755); err != nil {
		t.Fatal(err)
	}
	return &opts
}

func writeSubjects(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(n), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func clip(name string, start, duration int, w, h int) types.ClipSpec {
	return types.ClipSpec{
		Subject: types.Subject{
			Path:       "/videos/" + name,
			Name:       name,
			Duration:   start + duration,
			Resolution: types.Resolution{Width: w, Height: h},
		},
		StartAt:  start,
		EndAt:    start + duration,
		Duration: duration,
	}
}
