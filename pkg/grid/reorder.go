package grid

// Reorder pulls every card that spans the full grid width to the start of
// the row group it would otherwise interrupt. Cards are rearranged in place
// and the relative order of all other cards is kept.
//
// A row group is the run of cards that together fill one row. The running
// width is the sum of clamped card widths since the group started. When it
// equals columns the group is closed after the current card. When it exceeds
// columns the current card wrapped, so it opens the next group.
//
// With one column every card is its own row and Reorder does nothing.
func Reorder(cards []Card, columns int) {
	if columns <= 1 {
		return
	}

	start, acc := 0, 0
	for i := range cards {
		w := cards[i].Footprint.clamp(columns).W

		if w >= columns {
			if acc > 0 {
				moveBack(cards, i, start)
			}
			// The wide card fills a row on its own; the open group resumes
			// right after it.
			start++
			continue
		}

		acc += w
		switch {
		case acc == columns:
			start, acc = i+1, 0
		case acc > columns:
			start, acc = i, w
		}
	}
}

// moveBack moves cards[from] to index to (to <= from), shifting the cards in
// between one slot right.
func moveBack(cards []Card, from, to int) {
	c := cards[from]
	copy(cards[to+1:from+1], cards[to:from])
	cards[to] = c
}
