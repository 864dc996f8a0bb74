package media

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path    string
		want    Type
		wantErr bool
	}{
		{"clip.mp4", Video, false},
		{"clip.MOV", Video, false},
		{"/a/b/clip.avi", Video, false},
		{"clip.mkv", Video, false},
		{"photo.png", Image, false},
		{"photo.JPG", Image, false},
		{"photo.jpeg", Image, false},
		{"anim.gif", Image, false},
		{"song.mp3", Unknown, true},
		{"notes.txt", Unknown, true},
		{"noextension", Unknown, true},
		{"", Unknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Classify(tt.path)
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedMedia) {
					t.Errorf("Classify(%q) error = %v, want ErrUnsupportedMedia", tt.path, err)
				}
			} else if err != nil {
				t.Errorf("Classify(%q) unexpected error: %v", tt.path, err)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("a.mp4") {
		t.Error("IsSupported(a.mp4) = false")
	}
	if IsSupported("a.flac") {
		t.Error("IsSupported(a.flac) = true")
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		t    Type
		want string
	}{
		{Video, "video"},
		{Image, "image"},
		{Unknown, "unknown"},
		{Type(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", tt.t, got, tt.want)
		}
	}
}
