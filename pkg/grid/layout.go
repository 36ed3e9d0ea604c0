package grid

import (
	apperrors "github.com/matzehuels/cardgrid/pkg/errors"
)

// Default cell geometry in pixels.
const (
	DefaultCellWidth  = 150.0
	DefaultCellHeight = 150.0
	DefaultGutter     = 10.0
)

// Config controls a layout pass.
type Config struct {
	CellWidth  float64
	CellHeight float64
	Gutter     float64

	// MaxColumns caps the resolved column count. Zero means MaxColumns.
	MaxColumns int

	Direction  Direction
	Animate    bool
	Transition Transition

	// Strict turns malformed cards (empty or duplicate IDs) into an error
	// instead of skipping them.
	Strict bool
}

// DefaultConfig returns a left-to-right, unanimated configuration with the
// default cell geometry.
func DefaultConfig() Config {
	return Config{
		CellWidth:  DefaultCellWidth,
		CellHeight: DefaultCellHeight,
		Gutter:     DefaultGutter,
		Direction:  LTR,
	}
}

func (c Config) normalize() Config {
	if c.CellWidth <= 0 {
		c.CellWidth = DefaultCellWidth
	}
	if c.CellHeight <= 0 {
		c.CellHeight = DefaultCellHeight
	}
	if c.Gutter < 0 {
		c.Gutter = 0
	}
	if c.Direction != RTL {
		c.Direction = LTR
	}
	return c
}

// CardPlacement is a card's cell placement together with its pixel geometry.
type CardPlacement struct {
	Placement
	Index    int      `json:"index"`
	Geometry Geometry `json:"geometry"`
}

// Skipped records a card dropped from a pass.
type Skipped struct {
	ID     string `json:"id"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Result is the outcome of one layout pass.
type Result struct {
	Columns int     `json:"columns"`
	Rows    int     `json:"rows"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`

	// Placements maps card ID to its placement.
	Placements map[string]CardPlacement `json:"placements"`

	// Order lists placed card IDs in packing order.
	Order []string `json:"order"`

	Skipped []Skipped `json:"skipped,omitempty"`
}

// ComputeLayout positions cards in a grid sized for containerWidth.
//
// Cards keep their caller order except for the full-row pull-forward done by
// [Reorder]. An empty card list yields an empty result whose column count is
// still resolved from the width.
//
// Cards with an empty or duplicate ID are skipped and reported in
// Result.Skipped, or rejected with an INVALID_CARD error when cfg.Strict is
// set. No other input is an error.
func ComputeLayout(cards []Card, containerWidth float64, cfg Config) (Result, error) {
	cfg = cfg.normalize()
	columns := ResolveColumns(containerWidth, cfg.CellWidth, cfg.Gutter, cfg.MaxColumns)

	work, skipped, err := admit(cards, cfg.Strict)
	if err != nil {
		return Result{}, err
	}

	Reorder(work, columns)
	placements, rows := Pack(work, columns)

	e := Emitter{
		CellWidth:  cfg.CellWidth,
		CellHeight: cfg.CellHeight,
		Gutter:     cfg.Gutter,
		Columns:    columns,
		Direction:  cfg.Direction,
		Animate:    cfg.Animate,
		Transition: cfg.Transition,
	}

	res := Result{
		Columns:    columns,
		Rows:       rows,
		Width:      e.RowWidth(),
		Height:     e.GridHeight(rows),
		Placements: make(map[string]CardPlacement, len(placements)),
		Order:      make([]string, 0, len(placements)),
		Skipped:    skipped,
	}
	for i, p := range placements {
		res.Placements[p.ID] = CardPlacement{
			Placement: p,
			Index:     work[i].Index,
			Geometry:  e.Emit(p),
		}
		res.Order = append(res.Order, p.ID)
	}
	return res, nil
}

// admit copies the cards that can take part in a pass, stamping each with
// its display index.
func admit(cards []Card, strict bool) ([]Card, []Skipped, error) {
	work := make([]Card, 0, len(cards))
	seen := make(map[string]bool, len(cards))
	var skipped []Skipped

	for i, c := range cards {
		var reason string
		switch {
		case c.ID == "":
			reason = "empty card id"
		case seen[c.ID]:
			reason = "duplicate card id"
		}
		if reason != "" {
			if strict {
				return nil, nil, apperrors.New(apperrors.ErrCodeInvalidCard, "card %d (%q): %s", i, c.ID, reason)
			}
			skipped = append(skipped, Skipped{ID: c.ID, Index: i, Reason: reason})
			continue
		}
		seen[c.ID] = true
		c.Index = i
		c.Footprint = c.Footprint.Normalize()
		work = append(work, c)
	}
	return work, skipped, nil
}
