// Package preview is the terminal preview surface driven by the playback
// synchronizer. Video sources are tracked by path and offset; stills are
// decoded, scaled and sent to the terminal with the Kitty graphics
// protocol when it is available.
package preview

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder for stills
	_ "image/jpeg" // JPEG decoder for stills
	_ "image/png"  // PNG decoder for stills
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/nfnt/resize"

	"github.com/llehouerou/clipline/internal/logging"
	"github.com/llehouerou/clipline/internal/playback"
)

// ErrNotFile is returned when a source path names a directory.
var ErrNotFile = errors.New("not a regular file")

// Approximate cell size in pixels, used to scale stills to the pane.
const (
	cellWidth  = 8
	cellHeight = 16
)

// Global image ID counter
var nextImageID uint32

func getNextImageID() uint32 {
	return atomic.AddUint32(&nextImageID, 1)
}

// Status is a snapshot of the preview for rendering.
type Status struct {
	Source    string
	Offset    float64
	State     playback.State
	Output    playback.Output
	Still     string
	StillSize image.Point // decoded pixel size of the still
}

// Preview implements playback.Player for the terminal.
type Preview struct {
	mu     sync.Mutex
	logger *slog.Logger
	kitty  bool

	width  int // cells
	height int

	source string
	offset float64
	state  playback.State
	output playback.Output

	still     string
	stillImg  image.Image
	stillSize image.Point
	imageID   uint32

	// Escape sequences waiting to be written to the terminal
	pending strings.Builder
}

// Option configures a Preview.
type Option func(*Preview)

// WithKitty enables Kitty image transmission for stills.
func WithKitty(enabled bool) Option {
	return func(p *Preview) {
		p.kitty = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Preview) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a preview.
func New(opts ...Option) *Preview {
	p := &Preview{logger: logging.Discard()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load opens path as the video source. A missing, unreadable or directory
// path is an error; the previous source is unloaded and nothing is shown.
func (p *Preview) Load(path string) error {
	if err := checkReadable(path); err != nil {
		p.mu.Lock()
		p.source = ""
		p.state = playback.StateStopped
		p.output = playback.OutputHidden
		p.clearImageLocked()
		p.mu.Unlock()
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = path
	p.offset = 0
	p.state = playback.StateStopped
	p.logger.Debug("source loaded", "path", path)
	return nil
}

// Seek sets the source-local offset in seconds.
func (p *Preview) Seek(offset float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset = max(offset, 0)
}

// Play starts the loaded source. Without a source it does nothing.
func (p *Preview) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source == "" {
		return
	}
	p.state = playback.StatePlaying
	p.output = playback.OutputVideo
	p.clearImageLocked()
}

// Stop pauses the source.
func (p *Preview) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = playback.StateStopped
}

// ShowStill decodes the image at path and displays it. The same still is
// not decoded twice in a row.
func (p *Preview) ShowStill(path string) error {
	p.mu.Lock()
	if p.still == path && p.stillImg != nil {
		p.output = playback.OutputStill
		if p.imageID == 0 {
			p.transmitLocked()
		}
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	img, err := decodeImage(path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearImageLocked()
	p.still = path
	p.stillImg = img
	p.stillSize = img.Bounds().Size()
	p.output = playback.OutputStill
	p.transmitLocked()
	return nil
}

// Hide clears any visible output.
func (p *Preview) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = playback.OutputHidden
	p.clearImageLocked()
}

// Source returns the loaded video source path.
func (p *Preview) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// Status returns a snapshot of the preview.
func (p *Preview) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		Source:    p.source,
		Offset:    p.offset,
		State:     p.state,
		Output:    p.output,
		Still:     p.still,
		StillSize: p.stillSize,
	}
}

// Kitty reports whether stills are sent as terminal images.
func (p *Preview) Kitty() bool {
	return p.kitty
}

// SetSize sets the image area in cells. A visible still is re-transmitted
// at the new size.
func (p *Preview) SetSize(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.width == width && p.height == height {
		return
	}
	p.width, p.height = width, height
	if p.output == playback.OutputStill && p.stillImg != nil {
		if p.imageID > 0 {
			p.pending.WriteString(DeleteImage(p.imageID))
			p.imageID = 0
		}
		p.transmitLocked()
	}
}

// Size returns the image area in cells.
func (p *Preview) Size() (width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

// HasImage reports whether a transmitted still is ready for placement.
func (p *Preview) HasImage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.imageID > 0 && p.output == playback.OutputStill
}

// TakeCommands returns and clears the escape sequences queued since the
// last call.
func (p *Preview) TakeCommands() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.pending.String()
	p.pending.Reset()
	return s
}

// PlacementCmd returns the sequence placing the current still at the
// 1-based terminal position, or "" when there is none.
func (p *Preview) PlacementCmd(row, col int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.imageID == 0 || p.output != playback.OutputStill {
		return ""
	}
	return PlaceImage(p.imageID, row, col, p.width, p.height)
}

// Close deletes any image left in terminal memory.
func (p *Preview) Close() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearImageLocked()
	p.still = ""
	p.stillImg = nil
	s := p.pending.String()
	p.pending.Reset()
	return s
}

func (p *Preview) clearImageLocked() {
	if p.imageID > 0 {
		p.pending.WriteString(DeleteImage(p.imageID))
		p.imageID = 0
	}
}

func (p *Preview) transmitLocked() {
	if !p.kitty || p.width <= 0 || p.height <= 0 || p.stillImg == nil {
		return
	}

	pixelWidth := uint(max(p.width*cellWidth, 64))    //nolint:gosec // dimensions are small, no overflow risk
	pixelHeight := uint(max(p.height*cellHeight, 64)) //nolint:gosec // dimensions are small, no overflow risk
	resized := resize.Thumbnail(pixelWidth, pixelHeight, p.stillImg, resize.Lanczos3)

	id := getNextImageID()
	cmd, err := TransmitImage(resized, id)
	if err != nil {
		p.logger.Warn("transmit still failed", "path", p.still, "error", err)
		return
	}
	p.imageID = id
	p.pending.WriteString(cmd)
}

func checkReadable(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrNotFile)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

func decodeImage(path string) (image.Image, error) {
	if err := checkReadable(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Verify Preview implements playback.Player at compile time.
var _ playback.Player = (*Preview)(nil)
