package state

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// normalizeSearch folds equivalent Unicode spellings of a term together so
// "й" typed as one rune or as "и" + breve queries the same page key.
func normalizeSearch(term string) string {
	return strings.TrimSpace(norm.NFC.String(term))
}

func (s *AppState) cancelSearchTimer() {
	if s.searchTimer != nil {
		s.searchTimer.Stop()
		s.searchTimer = nil
	}
}

// scheduleSearchCommit restarts the debounce window. Only the timer holding
// the newest token may commit; older ones fire into a no-op.
func (r *StateReducer) scheduleSearchCommit(state *AppState) {
	state.cancelSearchTimer()
	state.searchToken++
	token := state.searchToken

	dispatch := state.getDispatch()
	if dispatch == nil || state.SearchDebounce <= 0 {
		r.commitSearch(state)
		return
	}
	state.searchTimer = time.AfterFunc(state.SearchDebounce, func() {
		dispatch(SearchCommitAction{Token: token})
	})
}

// PendingSearch reports whether typed input is waiting for the debounce.
func (s *AppState) PendingSearch() bool {
	return s.searchTimer != nil
}
