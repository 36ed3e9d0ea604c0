package cli

import (
	"sort"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/matzehuels/cardgrid/pkg/deck"
	"github.com/matzehuels/cardgrid/pkg/grid"
)

// Terminal size of one grid cell, including the one-character gutter.
const (
	drawCellCols  = 8
	drawCellLines = 4
)

// drawGrid renders a layout as ASCII boxes, one per card, labeled with the
// card ID. RTL layouts are drawn mirrored, as they would appear on screen.
func drawGrid(l deck.Layout) string {
	if l.Rows == 0 || l.Columns == 0 {
		return ""
	}

	width := l.Columns*drawCellCols - 1
	height := l.Rows*drawCellLines - 1
	// One cell per terminal column. A wide grapheme sits in its first cell
	// and leaves the cells it covers empty.
	canvas := make([][]string, height)
	for y := range canvas {
		canvas[y] = make([]string, width)
		for x := range canvas[y] {
			canvas[y][x] = " "
		}
	}

	ids := make([]string, 0, len(l.Placements))
	for id := range l.Placements {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p := l.Placements[id]
		col := p.Col
		if grid.ParseDirection(l.Direction) == grid.RTL {
			col = l.Columns - p.Col - p.W
		}
		x0, y0 := col*drawCellCols, p.Row*drawCellLines
		x1, y1 := x0+p.W*drawCellCols-2, y0+p.H*drawCellLines-2
		drawBox(canvas, x0, y0, x1, y1)

		drawLabel(canvas[y0+1], x0+2, x1-x0-3, id)
	}

	lines := make([]string, len(canvas))
	for y, row := range canvas {
		lines[y] = strings.TrimRight(strings.Join(row, ""), " ")
	}
	return strings.Join(lines, "\n")
}

// drawLabel writes id into row starting at x, cut by grapheme to at most
// maxWidth terminal columns.
func drawLabel(row []string, x, maxWidth int, id string) {
	used, state := 0, -1
	for id != "" {
		var cluster string
		var w int
		cluster, id, w, state = uniseg.FirstGraphemeClusterInString(id, state)
		if w == 0 {
			continue
		}
		if used+w > maxWidth {
			return
		}
		row[x+used] = cluster
		for i := 1; i < w; i++ {
			row[x+used+i] = ""
		}
		used += w
	}
}

// drawBox outlines the box with corners at (x0,y0) and (x1,y1).
func drawBox(canvas [][]string, x0, y0, x1, y1 int) {
	for x := x0; x <= x1; x++ {
		canvas[y0][x], canvas[y1][x] = "-", "-"
	}
	for y := y0; y <= y1; y++ {
		canvas[y][x0], canvas[y][x1] = "|", "|"
	}
	for _, p := range [][2]int{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		canvas[p[1]][p[0]] = "+"
	}
}
