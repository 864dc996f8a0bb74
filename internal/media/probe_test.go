package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// fakeRun returns a runFunc answering every call with out/err and
// recording the invoked binary.
func fakeRun(out string, err error, gotName *string) runFunc {
	return func(_ context.Context, name string, _ ...string) ([]byte, error) {
		if gotName != nil {
			*gotName = name
		}
		return []byte(out), err
	}
}

func TestProbe_ImageUsesDefaultDuration(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.jpg", []byte("not really a jpeg"))

	p := NewFileProber()
	info, err := p.Probe(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, Image, info.Type)
	assert.InDelta(t, DefaultImageDuration, info.Duration, 1e-9)
	assert.Equal(t, int64(17), info.Size)
	assert.Equal(t, path, info.Path)
}

func TestProbe_ImageDurationOption(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.png", nil)

	p := NewFileProber(WithImageDuration(2), WithImageDuration(-1))
	info, err := p.Probe(context.Background(), path)

	require.NoError(t, err)
	assert.InDelta(t, 2.0, info.Duration, 1e-9)
	assert.InDelta(t, 2.0, p.ImageDuration(), 1e-9)
}

func TestProbe_UnsupportedExtension(t *testing.T) {
	p := NewFileProber()
	_, err := p.Probe(context.Background(), "/nowhere/song.flac")
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestProbe_MissingFile(t *testing.T) {
	p := NewFileProber()
	_, err := p.Probe(context.Background(), filepath.Join(t.TempDir(), "gone.mp4"))
	assert.ErrorIs(t, err, ErrProbe)
}

func TestProbe_Directory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "folder.mkv")
	require.NoError(t, os.Mkdir(sub, 0o755))

	p := NewFileProber()
	_, err := p.Probe(context.Background(), sub)
	assert.ErrorIs(t, err, ErrProbe)
}

func TestProbe_VideoViaFFprobe(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "y.mkv", []byte("matroska"))

	var name string
	p := NewFileProber(WithFFprobe("/opt/ffprobe"))
	p.run = fakeRun("10.000000\n", nil, &name)

	info, err := p.Probe(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, Video, info.Type)
	assert.InDelta(t, 10.0, info.Duration, 1e-9)
	assert.Equal(t, "/opt/ffprobe", name)
}

func TestProbe_BrokenMP4FallsBackToFFprobe(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "z.mp4", nil)

	called := false
	p := NewFileProber()
	p.run = func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		called = true
		return []byte("4.5"), nil
	}

	info, err := p.Probe(context.Background(), path)

	require.NoError(t, err)
	assert.True(t, called, "ffprobe should be used when the mp4 header is unreadable")
	assert.InDelta(t, 4.5, info.Duration, 1e-9)
}

func TestProbe_FFprobeFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "y.avi", nil)

	p := NewFileProber()
	p.run = fakeRun("", errors.New("exec: not found"), nil)

	_, err := p.Probe(context.Background(), path)
	assert.ErrorIs(t, err, ErrProbe)
}

func TestParseFFprobeDuration(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    float64
		wantErr bool
	}{
		{"plain", "12.5", 12.5, false},
		{"trailing newline", "3.000000\n", 3, false},
		{"multiple lines", "7.25\n7.30\n", 7.25, false},
		{"surrounding space", "  1.5  ", 1.5, false},
		{"not available", "N/A", 0, true},
		{"empty", "", 0, true},
		{"zero", "0", 0, true},
		{"negative", "-2", 0, true},
		{"infinite", "+Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFFprobeDuration(tt.out)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrProbe)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
