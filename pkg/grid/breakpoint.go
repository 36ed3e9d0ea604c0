package grid

import "math"

// MaxColumns is the widest grid the resolver produces.
const MaxColumns = 4

// Breakpoints returns the minimum container width for 1..MaxColumns columns.
// Entry i holds the width needed for i+1 columns:
// (i+1)×cellWidth + i×gutter.
func Breakpoints(cellWidth, gutter float64) [MaxColumns]float64 {
	var bp [MaxColumns]float64
	for i := range bp {
		n := float64(i + 1)
		bp[i] = n*cellWidth + (n-1)*gutter
	}
	return bp
}

// ResolveColumns picks the greatest column count whose breakpoint fits in
// width, clamped to maxColumns. A maxColumns of 0 (or anything outside
// 1..MaxColumns) means no override. Non-finite and negative widths count as
// zero. The result is always between 1 and MaxColumns.
func ResolveColumns(width, cellWidth, gutter float64, maxColumns int) int {
	width = sanitizeWidth(width)

	limit := MaxColumns
	if maxColumns >= 1 && maxColumns < MaxColumns {
		limit = maxColumns
	}

	columns := 1
	for i, bp := range Breakpoints(cellWidth, gutter) {
		if i+1 > limit {
			break
		}
		if bp <= width {
			columns = i + 1
		}
	}
	return columns
}

func sanitizeWidth(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}
