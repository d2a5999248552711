package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/fireworks/countdown"
)

var (
	hudStyle       = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 200, 200)).Background(tcell.ColorBlack)
	countdownStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 199, 68)).Background(tcell.ColorBlack)
	captionStyle   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(160, 160, 160)).Background(tcell.ColorBlack)
)

// drawLine fills row y with s truncated to width cells, padding with blanks
func drawLine(s tcell.Screen, y, width int, text string, style tcell.Style) {
	text = runewidth.Truncate(text, width, "…")
	x := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetContent(x, y, r, nil, style)
		x += w
	}
	for ; x < width; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

// drawCentered writes text centered on row y, truncating when wider than the screen
func drawCentered(s tcell.Screen, y, width int, text string, style tcell.Style) {
	text = runewidth.Truncate(text, width, "…")
	x := max((width-runewidth.StringWidth(text))/2, 0)
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetContent(x, y, r, nil, style)
		x += w
	}
}

// ShowCountdown draws the time left before launch in the middle of a blank screen
func (h *Host) ShowCountdown(r countdown.Remaining) {
	h.drawMu.Lock()
	defer h.drawMu.Unlock()

	cols, rows := h.screen.Size()
	h.screen.Fill(' ', countdownStyle)
	mid := rows / 2
	drawCentered(h.screen, mid-1, cols, "launch in", captionStyle)
	drawCentered(h.screen, mid, cols, r.String(), countdownStyle)
	drawCentered(h.screen, mid+2, cols, "q to quit", captionStyle)
	h.screen.Show()
}
