package state

import "time"

// ItemView is the ephemeral per-unit presentation state of an item. It is
// rebuilt, with the carousel at the first image, whenever units are
// reconstructed.
type ItemView struct {
	Revealed   bool
	ImageIndex int
	PrevIndex  int
	FadeStart  time.Time
}

// Advance moves a carousel index by direction (-1 or +1) over count images,
// wrapping in both directions.
func Advance(index, direction, count int) int {
	if count <= 0 {
		return 0
	}
	next := (index + direction) % count
	if next < 0 {
		next += count
	}
	return next
}

// DisplayedImage returns which image to draw at now and its opacity in
// [0,1]. The first half of the fade dims the previous image out, the second
// half brings the new one in.
func (v *ItemView) DisplayedImage(now time.Time, fade time.Duration) (int, float64) {
	if v.FadeStart.IsZero() || fade <= 0 {
		return v.ImageIndex, 1
	}
	elapsed := now.Sub(v.FadeStart)
	if elapsed >= fade {
		return v.ImageIndex, 1
	}
	half := fade / 2
	if elapsed < half {
		return v.PrevIndex, 1 - float64(elapsed)/float64(half)
	}
	return v.ImageIndex, float64(elapsed-half) / float64(fade-half)
}

// Fading reports whether a transition is still running at now.
func (v *ItemView) Fading(now time.Time, fade time.Duration) bool {
	return !v.FadeStart.IsZero() && now.Sub(v.FadeStart) < fade
}
