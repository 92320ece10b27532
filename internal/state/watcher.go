package state

// Watcher reports units entering a viewport region, modelled on browser
// intersection observers: a unit produces an event each time it goes from
// not intersecting to intersecting.
type Watcher struct {
	// Threshold is the visible fraction of a unit required to intersect.
	// Zero means any overlap.
	Threshold float64
	// Margin extends the observed region below the viewport by this many rows.
	Margin int

	intersecting map[string]bool
}

// NewWatcher creates a watcher.
func NewWatcher(threshold float64, margin int) *Watcher {
	return &Watcher{
		Threshold:    threshold,
		Margin:       margin,
		intersecting: make(map[string]bool),
	}
}

// VisibleRatio is the fraction of u within rows [top, bottom).
func VisibleRatio(u RenderUnit, top, bottom int) float64 {
	if u.Height <= 0 {
		return 0
	}
	lo := max(u.Y, top)
	hi := min(u.Bottom(), bottom)
	if hi <= lo {
		return 0
	}
	return float64(hi-lo) / float64(u.Height)
}

// Evaluate checks units against the viewport [top, top+height) and returns
// those that started intersecting. accept limits which units are observed.
func (w *Watcher) Evaluate(units []RenderUnit, top, height int, accept func(RenderUnit) bool) []RenderUnit {
	if w.intersecting == nil {
		w.intersecting = make(map[string]bool)
	}
	bottom := top + height + w.Margin

	var entered []RenderUnit
	for _, u := range units {
		if accept != nil && !accept(u) {
			continue
		}
		key := u.Key()
		ratio := VisibleRatio(u, top, bottom)
		now := ratio > 0 && ratio >= w.Threshold
		if now && !w.intersecting[key] {
			entered = append(entered, u)
		}
		if now {
			w.intersecting[key] = true
		} else {
			delete(w.intersecting, key)
		}
	}
	return entered
}

// Forget drops the recorded state of key so its next evaluation can fire.
func (w *Watcher) Forget(key string) {
	delete(w.intersecting, key)
}

// Reset forgets every unit.
func (w *Watcher) Reset() {
	w.intersecting = make(map[string]bool)
}
