package layout

import "testing"

func TestContentHeight(t *testing.T) {
	tests := []struct {
		name         string
		windowHeight int
		opts         ContentOpts
		want         int
	}{
		{
			name:         "idle",
			windowHeight: 40,
			opts:         ContentOpts{},
			want:         32, // 40 - 1 header - 6 timeline - 1 status
		},
		{
			name:         "with job bar",
			windowHeight: 40,
			opts:         ContentOpts{JobBarHeight: 3},
			want:         29,
		},
		{
			name:         "with help",
			windowHeight: 40,
			opts:         ContentOpts{HelpHeight: 4},
			want:         28,
		},
		{
			name:         "tiny window clamps",
			windowHeight: 8,
			opts:         ContentOpts{JobBarHeight: 3},
			want:         MinContentHeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContentHeight(tt.windowHeight, tt.opts)
			if got != tt.want {
				t.Errorf("ContentHeight() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBinWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{120, 40},
		{60, MinBinWidth},
		{20, 20},
	}

	for _, tt := range tests {
		if got := BinWidth(tt.width); got != tt.want {
			t.Errorf("BinWidth(%d) = %d, want %d", tt.width, got, tt.want)
		}
		if got := BinWidth(tt.width) + PreviewWidth(tt.width); got != tt.width {
			t.Errorf("BinWidth+PreviewWidth(%d) = %d, want %d", tt.width, got, tt.width)
		}
	}
}

func TestTimelinePosition(t *testing.T) {
	if got := TimelineTop(20); got != 21 {
		t.Errorf("TimelineTop(20) = %d, want 21", got)
	}

	x, y := LaneOrigin(20)
	if x != 1 || y != 22 {
		t.Errorf("LaneOrigin(20) = (%d, %d), want (1, 22)", x, y)
	}

	if got := TimelineInnerWidth(80); got != 78 {
		t.Errorf("TimelineInnerWidth(80) = %d, want 78", got)
	}
	if got := TimelineInnerWidth(1); got != 0 {
		t.Errorf("TimelineInnerWidth(1) = %d, want 0", got)
	}
}

func TestPreviewImageOrigin(t *testing.T) {
	row, col := PreviewImageOrigin(120)
	if row != 3 || col != 42 {
		t.Errorf("PreviewImageOrigin(120) = (%d, %d), want (3, 42)", row, col)
	}
}
