package deck

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/cardgrid/pkg/grid"
)

// Layout is the serialized outcome of a layout pass, including the inputs
// that produced it.
type Layout struct {
	Deck           string  `json:"deck,omitempty"`
	ContainerWidth float64 `json:"container_width"`
	CellWidth      float64 `json:"cell_width"`
	CellHeight     float64 `json:"cell_height"`
	Gutter         float64 `json:"gutter"`
	Direction      string  `json:"direction"`

	grid.Result

	// Texts carries display text per card for collaborators that label cards.
	Texts map[string]string `json:"texts,omitempty"`
}

// NewLayout wraps a result with the inputs that produced it.
func NewLayout(d Deck, res grid.Result, width float64, cfg grid.Config) Layout {
	dir := cfg.Direction
	if dir == "" {
		dir = grid.LTR
	}
	return Layout{
		Deck:           d.Name,
		ContainerWidth: width,
		CellWidth:      cfg.CellWidth,
		CellHeight:     cfg.CellHeight,
		Gutter:         cfg.Gutter,
		Direction:      string(dir),
		Result:         res,
		Texts:          d.Texts(),
	}
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Columns < 1 {
		return Layout{}, fmt.Errorf("layout must have at least one column")
	}
	if l.Placements == nil {
		l.Placements = map[string]grid.CardPlacement{}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
