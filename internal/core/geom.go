// Package core provides fundamental types and utilities for the arcade platform.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

// Rect represents an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// GridLayout places count equally sized cells in rows of cols, centered in
// an area. Terminal cells are roughly twice as tall as they are wide, so
// cells are kept about twice as wide as they are high.
type GridLayout struct {
	Count int
	Cols  int
	Rows  int
	CellW int
	CellH int
	Gap   int
	X, Y  int // Top-left of the first cell
}

// Cell size limits for the grid.
const (
	MinCellW = 5
	MinCellH = 3
	MaxCellW = 16
)

// NewGridLayout computes a layout for count cells in cols columns that fits
// inside area.
func NewGridLayout(count, cols int, area Rect, gap int) GridLayout {
	cols = Max(cols, 1)
	rows := (count + cols - 1) / cols
	g := GridLayout{Count: count, Cols: cols, Rows: rows, Gap: gap}
	if rows == 0 {
		return g
	}

	w := (area.W - gap*(cols-1)) / cols
	h := (area.H - gap*(rows-1)) / rows
	w = Min(w, MaxCellW)
	w = Min(w, h*2)
	h = Min(h, w/2)
	g.CellW, g.CellH = w, h

	totalW := cols*w + gap*(cols-1)
	totalH := rows*h + gap*(rows-1)
	g.X = area.X + (area.W-totalW)/2
	g.Y = area.Y + (area.H-totalH)/2
	return g
}

// Fits reports whether cells are large enough to draw.
func (g GridLayout) Fits() bool {
	return g.CellW >= MinCellW && g.CellH >= MinCellH
}

// Cell returns the rectangle of cell i. Cells are numbered row-major.
func (g GridLayout) Cell(i int) Rect {
	col := i % g.Cols
	row := i / g.Cols
	return Rect{
		X: g.X + col*(g.CellW+g.Gap),
		Y: g.Y + row*(g.CellH+g.Gap),
		W: g.CellW,
		H: g.CellH,
	}
}

// Bounds returns the rectangle covering every cell.
func (g GridLayout) Bounds() Rect {
	return Rect{
		X: g.X,
		Y: g.Y,
		W: g.Cols*g.CellW + g.Gap*(g.Cols-1),
		H: g.Rows*g.CellH + g.Gap*(g.Rows-1),
	}
}

// CellAt returns the index of the cell containing (x, y), or -1.
// Points in the gaps between cells belong to no cell.
func (g GridLayout) CellAt(x, y int) int {
	for i := 0; i < g.Count; i++ {
		if g.Cell(i).Contains(x, y) {
			return i
		}
	}
	return -1
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
