package grid

// availabilityMap tracks free cells for a single layout pass.
// Each row holds exactly columns cells; true means free. The map always has
// at least one row and rows are only ever appended.
type availabilityMap struct {
	columns int
	rows    [][]bool
}

func newAvailabilityMap(columns int) *availabilityMap {
	m := &availabilityMap{columns: columns}
	m.appendRow()
	return m
}

// Len returns the number of allocated rows.
func (m *availabilityMap) Len() int { return len(m.rows) }

func (m *availabilityMap) appendRow() {
	row := make([]bool, m.columns)
	for i := range row {
		row[i] = true
	}
	m.rows = append(m.rows, row)
}

// ensureRow grows the map until row n exists.
func (m *availabilityMap) ensureRow(n int) {
	for len(m.rows) <= n {
		m.appendRow()
	}
}

// fits reports whether a w×h rectangle anchored at (row, col) lies inside
// the grid and covers only free cells. Rows below the current extent are
// allocated first and count as free.
func (m *availabilityMap) fits(row, col int, f Footprint) bool {
	if col < 0 || col+f.W > m.columns {
		return false
	}
	m.ensureRow(row + f.H - 1)
	for r := row; r < row+f.H; r++ {
		for c := col; c < col+f.W; c++ {
			if !m.rows[r][c] {
				return false
			}
		}
	}
	return true
}

// occupy marks the rectangle as taken. When the anchor row fills up and is
// the last row, a blank row is appended so the next scan never starts on a
// full map.
func (m *availabilityMap) occupy(row, col int, f Footprint) {
	m.ensureRow(row + f.H - 1)
	for r := row; r < row+f.H; r++ {
		for c := col; c < col+f.W; c++ {
			m.rows[r][c] = false
		}
	}
	if m.rowFull(row) && row == len(m.rows)-1 {
		m.appendRow()
	}
}

func (m *availabilityMap) rowFull(row int) bool {
	for _, free := range m.rows[row] {
		if free {
			return false
		}
	}
	return true
}

// free reports whether a single cell is free. The row must already exist;
// callers allocate it with ensureRow.
func (m *availabilityMap) free(row, col int) bool {
	return m.rows[row][col]
}
