package state

import "github.com/kk-code-lab/vitrina/internal/catalog"

// Action is the base interface for all state mutations
type Action interface{}

// ===== LOADER ACTIONS =====

type StartAction struct{}    // initial page request
type LoadMoreAction struct{} // manual retry
type SentinelVisibleAction struct{}
type PageLoadResultAction PageLoadResult
type CategoriesLoadedAction struct {
	Categories []catalog.Category
	Err        error
}
type ImageLoadResultAction ImageLoadResult

// ===== VISIBILITY ACTIONS =====

// UnitVisibleAction reports an item unit crossing the reveal threshold.
type UnitVisibleAction struct {
	Index  int
	ItemID int
}

// UnitSpiedAction reports an item unit crossing the menu-sync threshold.
type UnitSpiedAction struct {
	Index    int
	Category string
}

// ===== FILTER ACTIONS =====

type CategorySelectAction struct {
	Slug string
}
type CategoryCycleAction struct {
	Delta int
}
type SearchStartAction struct{}
type SearchCharAction struct {
	Char rune
}
type SearchBackspaceAction struct{}
type SearchClearAction struct{}
type SearchExitAction struct{}
type SearchSubmitAction struct{}
type SearchCommitAction struct {
	Token int
}
type ResetToTopAction struct{}

// ===== VIEW ACTIONS =====

type ViewToggleAction struct{}
type ResizeAction struct {
	Width  int
	Height int
}
type ScrollAction struct {
	Delta int
}
type ScrollPageAction struct {
	Direction int
}
type ScrollUnitAction struct {
	Direction int
}
type ScrollEndAction struct{}
type SelectMoveAction struct {
	DX, DY int
}
type SelectIndexAction struct {
	Index int
}
type CarouselAction struct {
	Direction int
}

// ===== DIALOG ACTIONS =====

type DescriptionOpenAction struct{}
type ContactOpenAction struct{}
type ContactSendAction struct{}
type DialogCloseAction struct{}

// ===== APPLICATION ACTIONS =====

type HelpToggleAction struct{}
type HelpHideAction struct{}
type QuitAction struct{}
type SuspendAction struct{}

// SendAction queues action on ch without blocking the caller. The app loop
// is the only reader of ch, so when it is full the send moves to a goroutine.
func SendAction(ch chan<- Action, action Action) {
	select {
	case ch <- action:
	default:
		go func() { ch <- action }()
	}
}
