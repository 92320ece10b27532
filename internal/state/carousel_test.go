package state

import (
	"testing"
	"time"
)

func TestAdvanceWrapsBothWays(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		directions []int
		want       int
	}{
		{name: "back once", count: 3, directions: []int{-1}, want: 2},
		{name: "back twice", count: 3, directions: []int{-1, -1}, want: 1},
		{name: "forward past end", count: 3, directions: []int{1, 1, 1}, want: 0},
		{name: "mixed", count: 4, directions: []int{1, -1, -1, -1, 1}, want: 3},
		{name: "single image", count: 1, directions: []int{1, -1}, want: 0},
		{name: "no images", count: 0, directions: []int{1}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := 0
			for _, d := range tt.directions {
				idx = Advance(idx, d, tt.count)
				if tt.count > 0 && (idx < 0 || idx >= tt.count) {
					t.Fatalf("index %d escaped [0,%d)", idx, tt.count)
				}
			}
			if idx != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, idx)
			}
		})
	}
}

func TestDisplayedImageFadesThroughPrevious(t *testing.T) {
	start := time.Unix(1000, 0)
	fade := 300 * time.Millisecond
	v := &ItemView{ImageIndex: 2, PrevIndex: 0, FadeStart: start}

	idx, alpha := v.DisplayedImage(start, fade)
	if idx != 0 || alpha != 1 {
		t.Fatalf("fade start should show previous image opaque, got %d %.2f", idx, alpha)
	}
	idx, alpha = v.DisplayedImage(start.Add(75*time.Millisecond), fade)
	if idx != 0 || alpha != 0.5 {
		t.Fatalf("expected previous image half dimmed, got %d %.2f", idx, alpha)
	}
	idx, _ = v.DisplayedImage(start.Add(200*time.Millisecond), fade)
	if idx != 2 {
		t.Fatalf("second half should show the new image, got %d", idx)
	}
	idx, alpha = v.DisplayedImage(start.Add(fade), fade)
	if idx != 2 || alpha != 1 {
		t.Fatalf("fade end should show new image opaque, got %d %.2f", idx, alpha)
	}

	if !v.Fading(start.Add(100*time.Millisecond), fade) {
		t.Fatalf("expected fading mid transition")
	}
	if v.Fading(start.Add(time.Second), fade) {
		t.Fatalf("expected fade to be over")
	}
}

func TestDisplayedImageWithoutFade(t *testing.T) {
	v := &ItemView{ImageIndex: 1}
	if idx, alpha := v.DisplayedImage(time.Now(), 300*time.Millisecond); idx != 1 || alpha != 1 {
		t.Fatalf("expected current image, got %d %.2f", idx, alpha)
	}
}
