// Package grid lays a flat product list out as rows and works out which rows a
// window-scrolled viewport needs, plus an overscan buffer on each side.
package grid

import "math"

const (
	DefaultRowHeight = 380
	DefaultOverscan  = 3
	// lists this short are always rendered whole
	DefaultMinItems = 12
	// below this width the layout is a single column and row heights vary too much
	DefaultMinWidth = 576
)

// ColumnsForWidth maps a viewport width to items per row.
func ColumnsForWidth(width float64) int {
	switch {
	case width < 576:
		return 1
	case width < 992:
		return 2
	case width < 1200:
		return 3
	default:
		return 4
	}
}

func Partition[T any](items []T, perRow int) [][]T {
	if perRow < 1 {
		perRow = 1
	}
	rows := make([][]T, 0, (len(items)+perRow-1)/perRow)
	for i := 0; i < len(items); i += perRow {
		rows = append(rows, items[i:min(i+perRow, len(items))])
	}
	return rows
}

type Layout struct {
	RowHeight float64
	Overscan  int
	MinItems  int
	MinWidth  float64
	// Columns overrides the width breakpoints when positive.
	Columns int
}

func DefaultLayout() Layout {
	return Layout{
		RowHeight: DefaultRowHeight,
		Overscan:  DefaultOverscan,
		MinItems:  DefaultMinItems,
		MinWidth:  DefaultMinWidth,
	}
}

func (l Layout) withDefaults() Layout {
	if l.RowHeight <= 0 {
		l.RowHeight = DefaultRowHeight
	}
	if l.Overscan < 0 {
		l.Overscan = 0
	}
	return l
}

// Viewport is the window-scroll state. ContainerTop is the grid's offset from the top
// of the document.
type Viewport struct {
	ScrollY      float64 `json:"scrollY"`
	ContainerTop float64 `json:"containerTop"`
	Height       float64 `json:"height"`
	Width        float64 `json:"width"`
}

type Row[T any] struct {
	Index  int     `json:"index"`
	Items  []T     `json:"items"`
	Offset float64 `json:"offset"`
}

type Window[T any] struct {
	Columns     int      `json:"columns"`
	RowCount    int      `json:"rowCount"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
	RowHeight   float64  `json:"rowHeight"`
	TotalHeight float64  `json:"totalHeight"`
	Virtualized bool     `json:"virtualized"`
	Rows        []Row[T] `json:"rows"`
}

// VisibleRange returns the inclusive row range to materialize. The end bound is the
// last row intersecting the viewport bottom, plus overscan.
func VisibleRange(rowCount int, vp Viewport, rowHeight float64, overscan int) (start, end int) {
	if rowCount == 0 || rowHeight <= 0 {
		return 0, -1
	}
	offset := math.Max(0, vp.ScrollY-vp.ContainerTop)
	height := math.Max(0, vp.Height)

	start = max(0, int(math.Floor(offset/rowHeight))-overscan)
	// scrolled past the last row
	start = min(start, rowCount-1)
	end = min(rowCount-1, int(math.Ceil((offset+height)/rowHeight))-1+overscan)
	if end < start {
		end = min(rowCount-1, start)
	}
	return start, end
}

// Compute materializes the rows of items needed for vp.
func Compute[T any](items []T, vp Viewport, l Layout) Window[T] {
	l = l.withDefaults()
	cols := l.Columns
	if cols <= 0 {
		cols = ColumnsForWidth(vp.Width)
	}
	rows := Partition(items, cols)

	w := Window[T]{
		Columns:     cols,
		RowCount:    len(rows),
		RowHeight:   l.RowHeight,
		TotalHeight: float64(len(rows)) * l.RowHeight,
		Rows:        []Row[T]{},
		End:         len(rows) - 1,
	}
	if len(rows) == 0 {
		return w
	}

	w.Virtualized = len(items) > l.MinItems && vp.Width >= l.MinWidth
	if w.Virtualized {
		w.Start, w.End = VisibleRange(len(rows), vp, l.RowHeight, l.Overscan)
	}
	for i := w.Start; i <= w.End; i++ {
		w.Rows = append(w.Rows, Row[T]{Index: i, Items: rows[i], Offset: float64(i) * l.RowHeight})
	}
	return w
}
