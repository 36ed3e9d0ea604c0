package grid

import (
	"strings"
	"time"
)

// Direction is the horizontal layout direction.
type Direction string

// Layout directions.
const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// ParseDirection maps "rtl" (any case) to RTL and everything else to LTR.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(RTL)) {
		return RTL
	}
	return LTR
}

// Mode tells the caller how to apply a [Geometry].
type Mode string

// Geometry application modes.
const (
	// Immediate geometry is assigned directly.
	Immediate Mode = "immediate"
	// Animated geometry is the target of a transition.
	Animated Mode = "animated"
)

// Transition is the easing contract for animated geometry.
type Transition struct {
	Duration time.Duration `json:"duration"`
	Easing   string        `json:"easing"`
}

// DefaultTransition is used when animation is requested without an explicit
// transition.
var DefaultTransition = Transition{Duration: 400 * time.Millisecond, Easing: "ease-in-out"}

// Geometry is a card's pixel box relative to the grid's top-left corner.
type Geometry struct {
	Left       float64     `json:"left"`
	Top        float64     `json:"top"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Mode       Mode        `json:"mode"`
	Transition *Transition `json:"transition,omitempty"`
}

// Emitter converts cell placements into pixel geometry.
type Emitter struct {
	CellWidth  float64
	CellHeight float64
	Gutter     float64
	Columns    int
	Direction  Direction
	// Animate is the caller's capability flag; the emitter never detects it itself.
	Animate    bool
	Transition Transition
}

// span returns the pixel length of n cells of size cell.
func (e Emitter) span(n int, cell float64) float64 {
	if n < 1 {
		return 0
	}
	return float64(n)*cell + float64(n-1)*e.Gutter
}

// RowWidth returns the pixel width of a full row.
func (e Emitter) RowWidth() float64 { return e.span(e.Columns, e.CellWidth) }

// GridHeight returns the pixel height of rows rows.
func (e Emitter) GridHeight(rows int) float64 { return e.span(rows, e.CellHeight) }

// Emit converts p to pixel geometry.
func (e Emitter) Emit(p Placement) Geometry {
	g := Geometry{
		Left:   float64(p.Col) * (e.CellWidth + e.Gutter),
		Top:    float64(p.Row) * (e.CellHeight + e.Gutter),
		Width:  e.span(p.W, e.CellWidth),
		Height: e.span(p.H, e.CellHeight),
		Mode:   Immediate,
	}
	if e.Direction == RTL {
		g.Left = e.RowWidth() - g.Left - g.Width
	}
	if e.Animate {
		t := e.Transition
		if t.Duration <= 0 {
			t.Duration = DefaultTransition.Duration
		}
		if t.Easing == "" {
			t.Easing = DefaultTransition.Easing
		}
		g.Mode = Animated
		g.Transition = &t
	}
	return g
}
