package render

import (
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/vitrina/internal/state"
	textutil "github.com/kk-code-lab/vitrina/internal/textutil"
)

const noDescription = "Описание появится позже."

// dialogBox is a centered modal frame with a title on its top border.
type dialogBox struct {
	x, y, w, h int
}

func (d dialogBox) innerX() int { return d.x + 2 }
func (d dialogBox) innerW() int { return d.w - 4 }

// layoutDialog sizes a dialog for bodyRows lines of content on a w x h screen.
func layoutDialog(w, h, bodyRows int) dialogBox {
	dw := min(w-4, dialogMaxWidth)
	if dw < 10 {
		dw = w
	}
	dh := min(bodyRows+4, h-2)
	if dh < 3 {
		dh = h
	}
	return dialogBox{x: (w - dw) / 2, y: (h - dh) / 2, w: dw, h: dh}
}

func (r *Renderer) drawDialogFrame(box dialogBox, title string, style tcell.Style) {
	r.fillRect(box.x, box.y, box.w, box.h, style)
	border := style.Foreground(r.theme.DialogBorder)
	for y := box.y; y < box.y+box.h; y++ {
		switch y {
		case box.y, box.y + box.h - 1:
			left, right := '┌', '┐'
			if y != box.y {
				left, right = '└', '┘'
			}
			r.screen.SetContent(box.x, y, left, nil, border)
			r.screen.SetContent(box.x+box.w-1, y, right, nil, border)
			for x := box.x + 1; x < box.x+box.w-1; x++ {
				r.screen.SetContent(x, y, '─', nil, border)
			}
		default:
			r.screen.SetContent(box.x, y, '│', nil, border)
			r.screen.SetContent(box.x+box.w-1, y, '│', nil, border)
		}
	}
	if title != "" {
		label := r.truncateTextToWidth(" "+textutil.SanitizeTerminalText(title)+" ", box.w-4)
		r.drawTextLine(box.x+2, box.y, box.w-4, label, style.Bold(true))
	}
}

// drawDialogBody writes lines inside the frame and the hint on the last
// inner row.
func (r *Renderer) drawDialogBody(box dialogBox, lines []styledLine, hint string, style tcell.Style) {
	rows := box.h - 4
	if rows < 0 {
		rows = 0
	}
	if len(lines) > rows {
		lines = lines[:rows]
	}
	for i, line := range lines {
		lineStyle := style
		switch line.kind {
		case lineTitle:
			lineStyle = style.Bold(true)
		case linePrice:
			lineStyle = style.Foreground(r.theme.PriceFg)
		case lineMuted:
			lineStyle = style.Foreground(r.theme.MutedFg)
		case lineAction:
			lineStyle = style.Foreground(r.theme.FlashFg).Background(r.theme.FlashBg)
		}
		r.drawTextLine(box.innerX(), box.y+2+i, box.innerW(), r.truncateTextToWidth(line.text, box.innerW()), lineStyle)
	}
	if hint != "" && box.h >= 3 {
		r.drawTextLine(box.innerX(), box.y+box.h-2, box.innerW(), r.truncateTextToWidth(hint, box.innerW()), style.Foreground(r.theme.MutedFg))
	}
}

func (r *Renderer) drawDescriptionDialog(state *statepkg.AppState, w, h int) {
	item, ok := state.ItemByID(state.DialogItemID)
	if !ok {
		return
	}
	style := tcell.StyleDefault.Background(r.theme.DialogBg).Foreground(r.theme.DialogFg)
	width := min(w-4, dialogMaxWidth) - 4

	var lines []styledLine
	lines = append(lines,
		styledLine{kind: lineMuted, text: state.CategoryName(item.Category)},
		styledLine{kind: linePrice, text: r.formatPrice(item.Price)},
		styledLine{kind: lineBody},
	)
	desc := textutil.PlainText(item.Description)
	if desc == "" {
		desc = noDescription
	}
	for _, l := range textutil.Wrap(textutil.SanitizeTerminalText(desc), width) {
		lines = append(lines, styledLine{kind: lineBody, text: l})
	}

	box := layoutDialog(w, h, len(lines)+1)
	r.drawDialogFrame(box, item.Title, style)
	r.drawDialogBody(box, lines, "b: купить · Esc: закрыть", style)
}

func (r *Renderer) drawContactDialog(state *statepkg.AppState, w, h int) {
	style := tcell.StyleDefault.Background(r.theme.DialogBg).Foreground(r.theme.DialogFg)
	width := min(w-4, dialogMaxWidth) - 4

	var lines []styledLine
	lines = append(lines, styledLine{kind: lineMuted, text: "Сообщение мастеру:"})
	for _, l := range textutil.Wrap(textutil.SanitizeTerminalText(state.ContactMessage), width) {
		lines = append(lines, styledLine{kind: lineBody, text: l})
	}
	lines = append(lines,
		styledLine{kind: lineBody},
		styledLine{kind: lineMuted, text: "Ссылка:"},
		styledLine{kind: lineBody, text: textutil.SanitizeTerminalText(state.ContactLink)},
	)
	if copyFlashing(state, r.now()) {
		lines = append(lines, styledLine{kind: lineBody}, styledLine{kind: lineAction, text: " скопировано "})
	}

	box := layoutDialog(w, h, len(lines)+1)
	r.drawDialogFrame(box, "Купить", style)
	r.drawDialogBody(box, lines, "↵: открыть VK и скопировать текст · Esc: отмена", style)
}
