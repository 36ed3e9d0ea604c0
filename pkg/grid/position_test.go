package grid

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestEmitterLTR(t *testing.T) {
	e := Emitter{CellWidth: 100, CellHeight: 80, Gutter: 10, Columns: 3}
	p := Placement{Row: 2, Col: 1, Footprint: Footprint{2, 1}}

	want := Geometry{Left: 110, Top: 180, Width: 210, Height: 80, Mode: Immediate}
	if diff := cmp.Diff(want, e.Emit(p)); diff != "" {
		t.Errorf("Emit mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitterRTL(t *testing.T) {
	e := Emitter{CellWidth: 100, CellHeight: 100, Gutter: 10, Columns: 3, Direction: RTL}

	tests := []struct {
		p        Placement
		wantLeft float64
	}{
		{Placement{Col: 0, Footprint: Footprint{1, 1}}, 220},
		{Placement{Col: 2, Footprint: Footprint{1, 1}}, 0},
		{Placement{Col: 0, Footprint: Footprint{2, 1}}, 110},
		{Placement{Col: 0, Footprint: Footprint{3, 1}}, 0},
	}
	for _, tt := range tests {
		if got := e.Emit(tt.p).Left; got != tt.wantLeft {
			t.Errorf("RTL left for col=%d w=%d = %v, want %v", tt.p.Col, tt.p.W, got, tt.wantLeft)
		}
	}
}

func TestEmitterAnimate(t *testing.T) {
	e := Emitter{CellWidth: 100, CellHeight: 100, Columns: 1, Animate: true}
	g := e.Emit(Placement{Footprint: Footprint{1, 1}})
	if g.Mode != Animated {
		t.Fatalf("Mode = %q, want %q", g.Mode, Animated)
	}
	if g.Transition == nil || *g.Transition != DefaultTransition {
		t.Errorf("Transition = %+v, want default %+v", g.Transition, DefaultTransition)
	}

	e.Transition = Transition{Duration: time.Second, Easing: "linear"}
	g = e.Emit(Placement{Footprint: Footprint{1, 1}})
	if g.Transition.Duration != time.Second || g.Transition.Easing != "linear" {
		t.Errorf("custom transition not used: %+v", g.Transition)
	}

	e.Animate = false
	g = e.Emit(Placement{Footprint: Footprint{1, 1}})
	if g.Mode != Immediate || g.Transition != nil {
		t.Errorf("unanimated geometry = %+v", g)
	}
}

func TestEmitterExtent(t *testing.T) {
	e := Emitter{CellWidth: 100, CellHeight: 50, Gutter: 10, Columns: 4}
	if got := e.RowWidth(); got != 430 {
		t.Errorf("RowWidth() = %v, want 430", got)
	}
	if got := e.GridHeight(3); got != 170 {
		t.Errorf("GridHeight(3) = %v, want 170", got)
	}
	if got := e.GridHeight(0); got != 0 {
		t.Errorf("GridHeight(0) = %v, want 0", got)
	}
}

func TestParseDirection(t *testing.T) {
	tests := map[string]Direction{
		"rtl":   RTL,
		"RTL":   RTL,
		" rtl ": RTL,
		"ltr":   LTR,
		"":      LTR,
		"up":    LTR,
	}
	for in, want := range tests {
		if got := ParseDirection(in); got != want {
			t.Errorf("ParseDirection(%q) = %q, want %q", in, got, want)
		}
	}
}
