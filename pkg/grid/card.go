package grid

// Card is one rectangular layout unit.
//
// ID must be unique and stable across passes. Index is the card's position
// in the caller's display order; [ComputeLayout] fills it in.
type Card struct {
	ID        string
	Footprint Footprint
	Index     int
}

// NewCard builds a card from its ID and size tags.
func NewCard(id string, tags ...string) Card {
	return Card{ID: id, Footprint: Classify(tags...)}
}
