// Package pipeline runs card layouts end to end with caching.
//
// It ties the grid core to the deck format and the cache layer, and is
// shared by the CLI and the HTTP API so both apply the same defaults,
// validation, and cache keys.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, d, pipeline.Options{Width: 800})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Layout.Columns)
//
// Compute one layout per column count:
//
//	results, err := runner.ExecuteBreakpoints(ctx, d, opts)
package pipeline

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardgrid/pkg/cache"
	"github.com/matzehuels/cardgrid/pkg/deck"
	apperrors "github.com/matzehuels/cardgrid/pkg/errors"
	"github.com/matzehuels/cardgrid/pkg/grid"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the container width the CLI and API use when a
	// request names none.
	DefaultWidth = 1024.0

	DefaultCellWidth  = grid.DefaultCellWidth
	DefaultCellHeight = grid.DefaultCellHeight
	DefaultGutter     = grid.DefaultGutter

	// DefaultDirection is the default layout direction.
	DefaultDirection = string(grid.LTR)
)

// DefaultTransitionMS is the default animation duration in milliseconds.
var DefaultTransitionMS = int(grid.DefaultTransition.Duration / time.Millisecond)

// DefaultEasing is the default animation easing.
var DefaultEasing = grid.DefaultTransition.Easing

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a layout run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Width      float64 `json:"width,omitempty"`
	CellWidth  float64 `json:"cell_width,omitempty"`
	CellHeight float64 `json:"cell_height,omitempty"`
	Gutter     float64 `json:"gutter,omitempty"`
	MaxColumns int     `json:"max_columns,omitempty"`
	Direction  string  `json:"direction,omitempty"`

	Animate      bool   `json:"animate,omitempty"`
	TransitionMS int    `json:"transition_ms,omitempty"`
	Easing       string `json:"easing,omitempty"`

	// Strict validates the deck and rejects malformed cards instead of
	// skipping them.
	Strict bool `json:"strict,omitempty"`

	// Refresh bypasses cached results. Fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// OnComplete is called with every successful result, cached or not.
	OnComplete func(*Result) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed layout with its inputs.
	Layout deck.Layout

	// DeckHash is the content hash of the deck.
	DeckHash string

	// CacheHit reports whether Layout came from the cache.
	CacheHit bool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Cards      int
	Placed     int
	Skipped    int
	LayoutTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateDirection checks that a direction is "ltr" or "rtl" (any case).
func ValidateDirection(dir string) error {
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case string(grid.LTR), string(grid.RTL):
		return nil
	}
	return apperrors.New(apperrors.ErrCodeInvalidConfig, "invalid direction: %q (must be one of: ltr, rtl)", dir)
}

// ValidateMaxColumns checks that n is 0 (no cap) or a valid column count.
func ValidateMaxColumns(n int) error {
	if n < 0 || n > grid.MaxColumns {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "invalid max_columns: %d (must be 0..%d)", n, grid.MaxColumns)
	}
	return nil
}

// sanitizeWidth maps NaN, infinities and negative widths to 0, the
// narrowest container.
func sanitizeWidth(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

func validateLength(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "invalid %s: %v (must be a non-negative number)", name, v)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"cell_width", o.CellWidth},
		{"cell_height", o.CellHeight},
		{"gutter", o.Gutter},
	} {
		if err := validateLength(f.name, f.v); err != nil {
			return err
		}
	}
	if err := ValidateMaxColumns(o.MaxColumns); err != nil {
		return err
	}
	if o.Direction != "" {
		if err := ValidateDirection(o.Direction); err != nil {
			return err
		}
	}
	if o.TransitionMS < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "invalid transition_ms: %d", o.TransitionMS)
	}

	o.SetDefaults()
	o.validated = true
	return nil
}

// SetDefaults fills zero-valued fields. Width and Gutter have no default
// here since zero is meaningful for both; the CLI and API supply
// DefaultWidth and DefaultGutter. A non-finite or negative width becomes 0.
func (o *Options) SetDefaults() {
	o.Width = sanitizeWidth(o.Width)
	if o.CellWidth == 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.CellHeight == 0 {
		o.CellHeight = DefaultCellHeight
	}
	o.Direction = string(grid.ParseDirection(o.Direction))
	if o.Animate {
		if o.TransitionMS == 0 {
			o.TransitionMS = DefaultTransitionMS
		}
		if o.Easing == "" {
			o.Easing = DefaultEasing
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Clone returns the serializable part of o, ready to be validated again.
// Runtime fields are cleared.
func (o Options) Clone() Options {
	o.Logger = nil
	o.OnComplete = nil
	o.validated = false
	return o
}

// GridConfig converts the options into a grid configuration.
func (o *Options) GridConfig() grid.Config {
	cfg := grid.Config{
		CellWidth:  o.CellWidth,
		CellHeight: o.CellHeight,
		Gutter:     o.Gutter,
		MaxColumns: o.MaxColumns,
		Direction:  grid.ParseDirection(o.Direction),
		Animate:    o.Animate,
		Strict:     o.Strict,
	}
	if o.Animate {
		cfg.Transition = grid.Transition{
			Duration: time.Duration(o.TransitionMS) * time.Millisecond,
			Easing:   o.Easing,
		}
	}
	return cfg
}

// Columns resolves the column count for the configured width.
func (o *Options) Columns() int {
	return grid.ResolveColumns(o.Width, o.CellWidth, o.Gutter, o.MaxColumns)
}

// LayoutKeyOpts returns cache key options for a layout at the given
// column count.
func (o *Options) LayoutKeyOpts(columns int) cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{
		Columns:    columns,
		CellWidth:  o.CellWidth,
		CellHeight: o.CellHeight,
		Gutter:     o.Gutter,
		Direction:  o.Direction,
		Animate:    o.Animate,
		Strict:     o.Strict,
	}
	if o.Animate {
		opts.Transition = (time.Duration(o.TransitionMS) * time.Millisecond).String() + " " + o.Easing
	}
	return opts
}
