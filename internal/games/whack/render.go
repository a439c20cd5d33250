package whack

import (
	"fmt"

	"github.com/vovakirdan/tui-whack/internal/core"
)

// Board layout rows, from the top of the screen.
const (
	hudRow      = 0
	timeBarRow  = 1
	boardTop    = 3
	boardMargin = 2 // Rows kept free under the board for the status line
)

// Feedback is the last tap, shown as a colored cell outline until the next
// relocation.
type Feedback struct {
	Outcome TapOutcome
	Cell    int
}

// NoFeedback is the empty feedback.
var NoFeedback = Feedback{Outcome: TapIgnored, Cell: NoCell}

// BoardLayout returns where the cells of a board are drawn on a screen of the
// given size. The platform uses it to map mouse clicks to cells.
func BoardLayout(cells, cols, width, height int) core.GridLayout {
	area := core.NewRect(0, boardTop, width, height-boardTop-boardMargin)
	return core.NewGridLayout(cells, cols, area, 1)
}

// Render draws the HUD, the board and a status line.
func Render(dst *core.Screen, s Snapshot, cols, sessionLength int, fb Feedback) {
	dst.Clear()

	hud := fmt.Sprintf("Score %d   Best %d   Time %ds", s.Score, s.Best, s.TimeRemaining)
	dst.DrawTextCentered(hudRow, hud, core.ColorBrightWhite)
	renderTimeBar(dst, s.TimeRemaining, sessionLength)

	layout := BoardLayout(s.Cells, cols, dst.Width(), dst.Height())
	if !layout.Fits() {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small", core.ColorBrightRed)
		return
	}
	for i := 0; i < s.Cells; i++ {
		renderCell(dst, layout.Cell(i), i, s, fb)
	}

	status, color := statusLine(s, fb)
	dst.DrawTextCentered(dst.Height()-1, status, color)
}

func renderTimeBar(dst *core.Screen, remaining, total int) {
	if total <= 0 {
		return
	}
	width := core.Min(dst.Width()-4, 40)
	if width <= 0 {
		return
	}
	filled := core.Clamp(remaining*width/total, 0, width)
	x := (dst.Width() - width) / 2

	color := core.ColorGreen
	switch {
	case remaining*4 <= total:
		color = core.ColorRed
	case remaining*2 <= total:
		color = core.ColorYellow
	}
	for i := 0; i < width; i++ {
		if i < filled {
			dst.SetColor(x+i, timeBarRow, '━', color)
		} else {
			dst.SetColor(x+i, timeBarRow, '─', core.ColorGray)
		}
	}
}

func renderCell(dst *core.Screen, r core.Rect, i int, s Snapshot, fb Feedback) {
	border := core.ColorGray
	switch {
	case fb.Cell == i && fb.Outcome == TapHit:
		border = core.ColorBrightGreen
	case fb.Cell == i && fb.Outcome == TapMiss:
		border = core.ColorBrightRed
	case i == s.Active:
		border = core.ColorBrightYellow
	}
	dst.DrawBox(r, border)

	cx, cy := r.Center()
	if i == s.Active {
		inner := core.NewRect(r.X+1, r.Y+1, r.W-2, r.H-2)
		dst.DrawRect(inner, '▒', core.ColorOrange)
		dst.DrawText(cx-1, cy, "(•)", core.ColorBrightYellow)
		return
	}

	// Cells are labelled with the key that taps them.
	if i < 9 {
		dst.SetColor(cx, cy, rune('1'+i), core.ColorGray)
	}
}

func statusLine(s Snapshot, fb Feedback) (string, core.Color) {
	switch s.Phase {
	case PhaseIdle:
		return "Press space to start", core.ColorCyan
	case PhaseEnded:
		if s.NewBest {
			return fmt.Sprintf("Game over: %d points, a new best!", s.Score), core.ColorBrightGreen
		}
		return fmt.Sprintf("Game over: %d points", s.Score), core.ColorCyan
	}

	switch fb.Outcome {
	case TapHit:
		return "Hit!", core.ColorBrightGreen
	case TapMiss:
		return "Miss", core.ColorBrightRed
	}
	return "Tap the glowing tile", core.ColorDefault
}
