package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/abema/go-mp4"
)

// ErrProbe is returned when a file's duration cannot be determined.
var ErrProbe = errors.New("probe failed")

// DefaultImageDuration is how long a still stays on the timeline, in seconds.
const DefaultImageDuration = 5.0

// Info describes a probed media file.
type Info struct {
	Path     string
	Type     Type
	Duration float64 // seconds
	Size     int64
	ModTime  time.Time
}

// Prober determines the type and duration of a media file.
type Prober interface {
	Probe(ctx context.Context, path string) (Info, error)
}

// runFunc runs an external command and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// FileProber probes files on disk. MP4 and QuickTime containers are parsed
// directly; other video containers go through ffprobe.
type FileProber struct {
	imageDuration float64
	ffprobe       string
	logger        *slog.Logger
	run           runFunc
}

// ProberOption configures a FileProber.
type ProberOption func(*FileProber)

// WithImageDuration sets the duration assigned to stills.
func WithImageDuration(seconds float64) ProberOption {
	return func(p *FileProber) {
		if seconds > 0 {
			p.imageDuration = seconds
		}
	}
}

// WithFFprobe sets the ffprobe binary.
func WithFFprobe(path string) ProberOption {
	return func(p *FileProber) {
		if path != "" {
			p.ffprobe = path
		}
	}
}

// WithLogger sets the logger used for probe diagnostics.
func WithLogger(logger *slog.Logger) ProberOption {
	return func(p *FileProber) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewFileProber creates a prober with the given options.
func NewFileProber(opts ...ProberOption) *FileProber {
	p := &FileProber{
		imageDuration: DefaultImageDuration,
		ffprobe:       "ffprobe",
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ImageDuration returns the duration assigned to stills.
func (p *FileProber) ImageDuration() float64 {
	return p.imageDuration
}

// Probe stats path, classifies it and determines its duration.
func (p *FileProber) Probe(ctx context.Context, path string) (Info, error) {
	typ, err := Classify(path)
	if err != nil {
		return Info{}, err
	}

	st, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrProbe, err)
	}
	if st.IsDir() {
		return Info{}, fmt.Errorf("%w: %s is a directory", ErrProbe, path)
	}

	info := Info{
		Path:    path,
		Type:    typ,
		Size:    st.Size(),
		ModTime: st.ModTime(),
	}

	if typ == Image {
		info.Duration = p.imageDuration
		return info, nil
	}

	d, err := p.videoDuration(ctx, path)
	if err != nil {
		return Info{}, err
	}
	info.Duration = d
	return info, nil
}

func (p *FileProber) videoDuration(ctx context.Context, path string) (float64, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".mp4" || ext == ".mov" {
		d, err := mp4Duration(path)
		if err == nil {
			return d, nil
		}
		p.logger.Debug("mp4 header probe failed, falling back to ffprobe",
			"path", path, "error", err)
	}
	return p.ffprobeDuration(ctx, path)
}

// mp4Duration reads the movie header of an ISO base media file.
func mp4Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrProbe, err)
	}
	defer f.Close()

	info, err := mp4.Probe(f)
	if err != nil {
		return 0, fmt.Errorf("%w: read mp4 header: %w", ErrProbe, err)
	}
	if info.Timescale == 0 {
		return 0, fmt.Errorf("%w: mp4 header has no timescale", ErrProbe)
	}
	return checkDuration(float64(info.Duration) / float64(info.Timescale))
}

func (p *FileProber) ffprobeDuration(ctx context.Context, path string) (float64, error) {
	out, err := p.run(ctx, p.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe %s: %w", ErrProbe, filepath.Base(path), err)
	}
	return parseFFprobeDuration(string(out))
}

func parseFFprobeDuration(out string) (float64, error) {
	s := strings.TrimSpace(out)
	// ffprobe prints one line per stream group for some containers; the
	// format duration is the first.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse ffprobe duration %q: %w", ErrProbe, s, err)
	}
	return checkDuration(d)
}

func checkDuration(d float64) (float64, error) {
	if !(d > 0) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("%w: invalid duration %v", ErrProbe, d)
	}
	return d, nil
}
