package ffmpeg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/ZacxDev/moviemix/pkg/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

type CodecSettings struct {
	VideoCodec      string
	ContainerFormat string
	FileExtension   string
	EncoderPresets  ffmpeg.KwArgs
}

var codecPresets = map[string]CodecSettings{
	"webm": {
		VideoCodec:      "libvpx-vp9",
		ContainerFormat: "webm",
		FileExtension:   ".webm",
		EncoderPresets: ffmpeg.KwArgs{
			"deadline":     "good",
			"cpu-used":     2,
			"row-mt":       1,
			"tile-columns": 2,
		},
	},
	"mp4": {
		VideoCodec:      "mpeg4",
		ContainerFormat: "mp4",
		FileExtension:   ".mp4",
		EncoderPresets: ffmpeg.KwArgs{
			"movflags": "+faststart",
		},
	},
	"mov": {
		VideoCodec:      "mpeg4",
		ContainerFormat: "mov",
		FileExtension:   ".mov",
		EncoderPresets:  ffmpeg.KwArgs{},
	},
	"mkv": {
		VideoCodec:      "libx264",
		ContainerFormat: "matroska",
		FileExtension:   ".mkv",
		EncoderPresets: ffmpeg.KwArgs{
			"preset": "medium",
		},
	},
}

// GetCodecSettings returns the encoder preset for a container format.
// Unknown formats get mpeg4 in a container named after the format.
func GetCodecSettings(format string) CodecSettings {
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	if settings, ok := codecPresets[format]; ok {
		return settings
	}
	return CodecSettings{
		VideoCodec:      "mpeg4",
		ContainerFormat: format,
		FileExtension:   "." + format,
		EncoderPresets:  ffmpeg.KwArgs{},
	}
}

// VideoMetadata contains metadata about a video file
type VideoMetadata struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
}

// Seconds returns the duration truncated to whole seconds.
func (m *VideoMetadata) Seconds() int {
	return int(m.Duration)
}

func (m *VideoMetadata) Resolution() types.Resolution {
	return types.Resolution{Width: m.Width, Height: m.Height}
}

// Segment is one input of a stitch, already cut to its window.
type Segment struct {
	Path  string
	Scale string // scale filter argument, "" for none
}

// StitchOptions describes the composite encode.
type StitchOptions struct {
	OutputPath string
	Format     string
	Canvas     types.Resolution // frame every segment is padded onto
	FPS        int
	Bitrate    string
}

// Processor wraps FFmpeg functionality
type Processor struct {
	verbose bool
	logger  zerolog.Logger
}

// NewProcessor creates a new FFmpeg processor
func NewProcessor(verbose bool, logger zerolog.Logger) *Processor {
	return &Processor{
		verbose: verbose,
		logger:  logger,
	}
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Duration   string `json:"duration"`
	NbFrames   string `json:"nb_frames"`
	RFrameRate string `json:"r_frame_rate"`
}

// Probe retrieves duration and frame size of a video file
func (p *Processor) Probe(inputPath string) (*VideoMetadata, error) {
	out, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, types.InputError("probe", "cannot probe %s: %v", inputPath, err)
	}
	md, err := parseProbe([]byte(out))
	if err != nil {
		return nil, types.InputError("probe", "%s: %v", inputPath, err)
	}

	p.logger.Debug().
		Str("path", inputPath).
		Float64("duration", md.Duration).
		Int("width", md.Width).
		Int("height", md.Height).
		Str("codec", md.Codec).
		Msg("Probed video")
	return md, nil
}

func parseProbe(raw []byte) (*VideoMetadata, error) {
	var data probeOutput
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "decode ffprobe output")
	}

	var video *probeStream
	for i := range data.Streams {
		if data.Streams[i].CodecType == "video" {
			video = &data.Streams[i]
			break
		}
	}
	if video == nil {
		return nil, errors.New("no video stream found")
	}

	// stream duration, then container duration, then frames over frame rate
	duration := parseSeconds(video.Duration)
	if duration == 0 {
		duration = parseSeconds(data.Format.Duration)
	}
	if duration == 0 {
		frames := parseSeconds(video.NbFrames)
		if rate := parseFrameRate(video.RFrameRate); frames > 0 && rate > 0 {
			duration = frames / rate
		}
	}
	if duration == 0 {
		return nil, errors.New("could not determine video duration")
	}

	return &VideoMetadata{
		Duration: duration,
		Width:    video.Width,
		Height:   video.Height,
		Codec:    video.CodecName,
	}, nil
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return parseSeconds(s)
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

// Extract copies the [start, end] window of src into dst without re-encoding.
func (p *Processor) Extract(src, dst string, start, end int) error {
	if end <= start {
		return types.EncodingError("extract", src, errors.Errorf("empty window %d-%d", start, end))
	}

	stream := ffmpeg.Input(src, ffmpeg.KwArgs{
		"ss": start,
		"t":  end - start,
	}).Output(dst, ffmpeg.KwArgs{
		"c": "copy",
	}).OverWriteOutput()

	p.logger.Debug().Str("src", src).Str("dst", dst).Int("start", start).Int("end", end).Msg("Extracting clip")

	if err := p.run(stream); err != nil {
		return types.EncodingError("extract", src, err)
	}
	return nil
}

// Stitch concatenates segments in order onto a common canvas and encodes the
// result without audio.
func (p *Processor) Stitch(segments []Segment, opts StitchOptions) error {
	if len(segments) == 0 {
		return types.InputError("stitch", "no segments to stitch")
	}

	streams := make([]*ffmpeg.Stream, len(segments))
	for i, seg := range segments {
		s := ffmpeg.Input(seg.Path).Video()
		for _, f := range SegmentFilters(seg, opts.Canvas) {
			s = s.Filter(f.Name, ffmpeg.Args{f.Arg})
		}
		streams[i] = s
	}

	stream := ffmpeg.Concat(streams).
		Output(opts.OutputPath, OutputArgs(opts)).
		OverWriteOutput()

	p.logger.Info().
		Str("output", opts.OutputPath).
		Int("segments", len(segments)).
		Int("width", opts.Canvas.Width).
		Int("height", opts.Canvas.Height).
		Msg("Encoding stitched video")

	if err := p.run(stream); err != nil {
		return types.EncodingError("stitch", opts.OutputPath, err)
	}
	return nil
}

func (p *Processor) run(stream *ffmpeg.Stream) error {
	if p.verbose {
		return errors.WithStack(stream.ErrorToStdOut().Run())
	}
	var stderr bytes.Buffer
	if err := stream.WithErrorOutput(&stderr).Run(); err != nil {
		return errors.Wrap(err, lastLine(stderr.String()))
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	if s == "" {
		return "ffmpeg failed"
	}
	return s
}

// FilterStep is one filter applied to a segment stream.
type FilterStep struct {
	Name string
	Arg  string
}

// SegmentFilters returns the per-segment chain: optional scale, then a
// centered black pad onto canvas and a square sample aspect ratio.
func SegmentFilters(seg Segment, canvas types.Resolution) []FilterStep {
	var steps []FilterStep
	if seg.Scale != "" {
		steps = append(steps, FilterStep{Name: "scale", Arg: seg.Scale})
	}
	if canvas.Width > 0 && canvas.Height > 0 {
		steps = append(steps, FilterStep{
			Name: "pad",
			Arg:  fmt.Sprintf("%d:%d:(ow-iw)/2:(oh-ih)/2:black", canvas.Width, canvas.Height),
		})
	}
	steps = append(steps, FilterStep{Name: "setsar", Arg: "1"})
	return steps
}

// OutputArgs builds the encoder arguments of a stitch.
func OutputArgs(opts StitchOptions) ffmpeg.KwArgs {
	codec := GetCodecSettings(opts.Format)
	args := ffmpeg.KwArgs{
		"an":      "",
		"c:v":     codec.VideoCodec,
		"r":       opts.FPS,
		"b:v":     opts.Bitrate,
		"pix_fmt": "yuv420p",
		"threads": GetOptimalThreadCount(),
		"f":       codec.ContainerFormat,
	}
	for k, v := range codec.EncoderPresets {
		args[k] = v
	}
	return args
}

func GetOptimalThreadCount() int {
	cpuCount := runtime.NumCPU()
	// Use 75% of available cores to prevent overload
	return int(math.Max(1, float64(cpuCount)*0.75))
}

// EnsureExtension replaces any known video extension of filename with format's.
func EnsureExtension(filename, format string) string {
	extensions := []string{".mp4", ".webm", ".mkv", ".avi", ".mov"}
	for _, ext := range extensions {
		filename = strings.TrimSuffix(filename, ext)
	}
	return filename + GetCodecSettings(format).FileExtension
}
