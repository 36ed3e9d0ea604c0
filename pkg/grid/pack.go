package grid

// Placement is a card's top-left cell and its (clamped) footprint.
type Placement struct {
	ID  string `json:"id"`
	Row int    `json:"row"`
	Col int    `json:"col"`
	Footprint
}

// Bottom returns the first row below the placement.
func (p Placement) Bottom() int { return p.Row + p.H }

// Right returns the first column right of the placement.
func (p Placement) Right() int { return p.Col + p.W }

// Overlaps reports whether two placements share at least one cell.
func (p Placement) Overlaps(q Placement) bool {
	return p.Col < q.Right() && q.Col < p.Right() &&
		p.Row < q.Bottom() && q.Row < p.Bottom()
}

// Pack places cards in order, each at the first cell (row-major) where its
// whole footprint is free. Widths are clamped to columns and non-positive
// dimensions to 1. It returns one placement per card, in input order, and the
// number of rows the placements occupy.
func Pack(cards []Card, columns int) ([]Placement, int) {
	if columns < 1 {
		columns = 1
	}
	m := newAvailabilityMap(columns)
	placements := make([]Placement, 0, len(cards))
	rows := 0
	for _, c := range cards {
		p := place(m, c.ID, c.Footprint.clamp(columns))
		placements = append(placements, p)
		rows = max(rows, p.Bottom())
	}
	return placements, rows
}

// place finds the first free anchor for f and marks it occupied. Scanning
// past the last row lands on a freshly allocated blank row, where any
// clamped footprint fits at column 0, so the loop always terminates.
func place(m *availabilityMap, id string, f Footprint) Placement {
	for row := 0; ; row++ {
		m.ensureRow(row)
		for col := 0; col+f.W <= m.columns; col++ {
			if !m.free(row, col) {
				continue
			}
			if m.fits(row, col, f) {
				m.occupy(row, col, f)
				return Placement{ID: id, Row: row, Col: col, Footprint: f}
			}
		}
	}
}
