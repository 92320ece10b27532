package state

import "testing"

func TestVisibleRatio(t *testing.T) {
	u := RenderUnit{Kind: UnitSection, Y: 10, Height: 10}
	tests := []struct {
		name        string
		top, bottom int
		want        float64
	}{
		{name: "above", top: 0, bottom: 10, want: 0},
		{name: "fully inside", top: 5, bottom: 25, want: 1},
		{name: "top half", top: 0, bottom: 15, want: 0.5},
		{name: "bottom slice", top: 18, bottom: 40, want: 0.2},
		{name: "below", top: 20, bottom: 30, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleRatio(u, tt.top, tt.bottom); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestWatcherFiresOnlyOnEntry(t *testing.T) {
	w := NewWatcher(0.5, 0)
	units := []RenderUnit{
		{Kind: UnitSection, Index: 0, Y: 0, Height: 10},
		{Kind: UnitSection, Index: 1, Y: 10, Height: 10},
	}

	entered := w.Evaluate(units, 0, 10, nil)
	if len(entered) != 1 || entered[0].Index != 0 {
		t.Fatalf("expected unit 0 to enter, got %+v", entered)
	}
	if again := w.Evaluate(units, 0, 10, nil); len(again) != 0 {
		t.Fatalf("unit still visible must not fire again, got %+v", again)
	}

	// 4 rows of unit 1 is below the threshold.
	if got := w.Evaluate(units, 4, 10, nil); len(got) != 0 {
		t.Fatalf("expected nothing, got %+v", got)
	}
	got := w.Evaluate(units, 6, 10, nil)
	if len(got) != 1 || got[0].Index != 1 {
		t.Fatalf("expected unit 1 to enter, got %+v", got)
	}

	// leaving and coming back fires again
	w.Evaluate(units, 10, 10, nil)
	got = w.Evaluate(units, 0, 10, nil)
	if len(got) != 1 || got[0].Index != 0 {
		t.Fatalf("expected unit 0 to re-enter, got %+v", got)
	}
}

func TestWatcherMarginExtendsRegion(t *testing.T) {
	sentinel := []RenderUnit{{Kind: UnitSentinel, Index: -1, Y: 30, Height: 1}}

	w := NewWatcher(0, 0)
	if got := w.Evaluate(sentinel, 0, 20, nil); len(got) != 0 {
		t.Fatalf("sentinel outside viewport fired: %+v", got)
	}
	w.Margin = 20
	if got := w.Evaluate(sentinel, 0, 20, nil); len(got) != 1 {
		t.Fatalf("expected sentinel within margin to fire")
	}
}

func TestWatcherForgetRearms(t *testing.T) {
	w := NewWatcher(0, 0)
	units := []RenderUnit{{Kind: UnitSentinel, Index: -1, Y: 0, Height: 1}}
	w.Evaluate(units, 0, 5, nil)
	if got := w.Evaluate(units, 0, 5, nil); len(got) != 0 {
		t.Fatalf("expected no repeat")
	}
	w.Forget(sentinelKey)
	if got := w.Evaluate(units, 0, 5, nil); len(got) != 1 {
		t.Fatalf("expected event after Forget")
	}
}

func TestWatcherAcceptFilter(t *testing.T) {
	w := NewWatcher(0, 0)
	units := []RenderUnit{
		{Kind: UnitHero, Index: -1, Y: 0, Height: 5},
		{Kind: UnitTile, Index: 0, Y: 0, Height: 5},
	}
	got := w.Evaluate(units, 0, 5, func(u RenderUnit) bool { return u.Kind == UnitTile })
	if len(got) != 1 || got[0].Kind != UnitTile {
		t.Fatalf("expected only the tile, got %+v", got)
	}
}
