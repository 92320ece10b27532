package input

import (
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/vitrina/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the user asked to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		statepkg.SendAction(ih.actionChan, statepkg.ResizeAction{Width: w, Height: h})
		return true
	default:
		return true
	}
}

func (ih *InputHandler) emit(action statepkg.Action) bool {
	statepkg.SendAction(ih.actionChan, action)
	return true
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		statepkg.SendAction(ih.actionChan, statepkg.QuitAction{})
		return false
	}
	if ev.Key() == tcell.KeyCtrlZ {
		return ih.emit(statepkg.SuspendAction{})
	}

	state := ih.state
	helpVisible := state != nil && state.HelpVisible
	dialog := statepkg.DialogNone
	if state != nil {
		dialog = state.Dialog
	}
	inSearch := state != nil && state.SearchActive

	switch {
	case helpVisible:
		return ih.processHelpKey(ev)
	case dialog != statepkg.DialogNone:
		return ih.processDialogKey(ev, dialog)
	case inSearch:
		if handled := ih.processSearchKey(ev); handled {
			return true
		}
	}
	return ih.processBrowseKey(ev)
}

func (ih *InputHandler) processHelpKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		return ih.emit(statepkg.HelpHideAction{})
	case tcell.KeyRune:
		switch ev.Rune() {
		case '?', 'q', 'Q':
			return ih.emit(statepkg.HelpHideAction{})
		}
	}
	return true
}

func (ih *InputHandler) processDialogKey(ev *tcell.EventKey, dialog statepkg.DialogKind) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		return ih.emit(statepkg.DialogCloseAction{})
	case tcell.KeyEnter:
		if dialog == statepkg.DialogContact {
			return ih.emit(statepkg.ContactSendAction{})
		}
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q', 'd':
			return ih.emit(statepkg.DialogCloseAction{})
		case 'b', 'B':
			if dialog == statepkg.DialogDescription {
				return ih.emit(statepkg.ContactOpenAction{})
			}
		}
	}
	return true
}

// processSearchKey handles editing keys of the search prompt. Keys it does
// not claim fall through to browsing so the gallery can scroll while typing.
func (ih *InputHandler) processSearchKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.emit(statepkg.SearchClearAction{})
	case tcell.KeyEnter:
		ih.emit(statepkg.SearchSubmitAction{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.emit(statepkg.SearchBackspaceAction{})
	case tcell.KeyCtrlU:
		ih.emit(statepkg.SearchClearAction{})
	case tcell.KeyTab, tcell.KeyBacktab:
		ih.emit(statepkg.SearchExitAction{})
	case tcell.KeyRune:
		ih.emit(statepkg.SearchCharAction{Char: ev.Rune()})
	default:
		return false
	}
	return true
}

func (ih *InputHandler) processBrowseKey(ev *tcell.EventKey) bool {
	grid := ih.state != nil && ih.state.Gallery.ViewMode == statepkg.ViewGrid

	switch ev.Key() {
	case tcell.KeyUp:
		if grid {
			return ih.emit(statepkg.SelectMoveAction{DY: -1})
		}
		return ih.emit(statepkg.ScrollUnitAction{Direction: -1})
	case tcell.KeyDown:
		if grid {
			return ih.emit(statepkg.SelectMoveAction{DY: 1})
		}
		return ih.emit(statepkg.ScrollUnitAction{Direction: 1})
	case tcell.KeyLeft:
		if grid {
			return ih.emit(statepkg.SelectMoveAction{DX: -1})
		}
		return ih.emit(statepkg.CarouselAction{Direction: -1})
	case tcell.KeyRight:
		if grid {
			return ih.emit(statepkg.SelectMoveAction{DX: 1})
		}
		return ih.emit(statepkg.CarouselAction{Direction: 1})
	case tcell.KeyPgUp:
		return ih.emit(statepkg.ScrollPageAction{Direction: -1})
	case tcell.KeyPgDn:
		return ih.emit(statepkg.ScrollPageAction{Direction: 1})
	case tcell.KeyHome:
		return ih.emit(statepkg.ResetToTopAction{})
	case tcell.KeyEnd:
		return ih.emit(statepkg.ScrollEndAction{})
	case tcell.KeyTab:
		return ih.emit(statepkg.CategoryCycleAction{Delta: 1})
	case tcell.KeyBacktab:
		return ih.emit(statepkg.CategoryCycleAction{Delta: -1})
	case tcell.KeyEnter:
		if footerVisible(ih.state) {
			return ih.emit(statepkg.ResetToTopAction{})
		}
		return ih.emit(statepkg.DescriptionOpenAction{})
	case tcell.KeyRune:
		return ih.processBrowseRune(ev.Rune())
	}
	return true
}

func (ih *InputHandler) processBrowseRune(r rune) bool {
	if r >= '1' && r <= '9' {
		if ih.state == nil {
			return true
		}
		slugs := ih.state.MenuSlugs()
		if idx := int(r - '1'); idx < len(slugs) {
			return ih.emit(statepkg.CategorySelectAction{Slug: slugs[idx]})
		}
		return true
	}

	switch r {
	case 'q', 'Q':
		statepkg.SendAction(ih.actionChan, statepkg.QuitAction{})
		return false
	case '?':
		return ih.emit(statepkg.HelpToggleAction{})
	case '/':
		return ih.emit(statepkg.SearchStartAction{})
	case 'v', 'V':
		return ih.emit(statepkg.ViewToggleAction{})
	case 'g':
		return ih.emit(statepkg.ResetToTopAction{})
	case 'G':
		return ih.emit(statepkg.ScrollEndAction{})
	case 'd', 'D':
		return ih.emit(statepkg.DescriptionOpenAction{})
	case 'b', 'B':
		return ih.emit(statepkg.ContactOpenAction{})
	case 'r', 'R':
		return ih.emit(statepkg.LoadMoreAction{})
	case 'j':
		return ih.emit(statepkg.ScrollAction{Delta: 1})
	case 'k':
		return ih.emit(statepkg.ScrollAction{Delta: -1})
	case ' ':
		return ih.emit(statepkg.ScrollPageAction{Direction: 1})
	}
	return true
}

// footerVisible reports whether the end-of-collection footer is on screen.
func footerVisible(state *statepkg.AppState) bool {
	if state == nil {
		return false
	}
	top := state.ScrollOffset
	bottom := top + state.ViewportHeight()
	for _, u := range state.Units() {
		if u.Kind == statepkg.UnitFooter {
			return u.Bottom() > top && u.Y < bottom
		}
	}
	return false
}
