package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cardgrid/pkg/cache"
	"github.com/matzehuels/cardgrid/pkg/deck"
	"github.com/matzehuels/cardgrid/pkg/grid"
	"github.com/matzehuels/cardgrid/pkg/observability"
)

// cacheKeyType labels layout entries in cache hooks.
const cacheKeyType = "layout"

// Runner encapsulates layout execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long results stay cached. Zero means cache.LayoutTTL.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute lays out d for opts.Width, reading and filling the cache.
//
// Outside strict mode the deck is taken as-is: unknown size tags count as
// 1×1 and malformed cards are skipped with a warning. In strict mode the
// deck must pass [deck.Deck.Validate].
func (r *Runner) Execute(ctx context.Context, d deck.Deck, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Strict {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}

	deckData, err := deck.MarshalDeck(d)
	if err != nil {
		return nil, fmt.Errorf("serialize deck for cache key: %w", err)
	}
	deckHash := cache.Hash(deckData)
	columns := opts.Columns()
	cacheKey := r.Keyer.LayoutKey(deckHash, opts.LayoutKeyOpts(columns))

	if !opts.Refresh {
		if l, ok := r.cached(ctx, cacheKey); ok {
			l.ContainerWidth = opts.Width
			res := &Result{
				Layout:   l,
				DeckHash: deckHash,
				CacheHit: true,
				Stats: Stats{
					Cards:   len(d.Cards),
					Placed:  len(l.Placements),
					Skipped: len(l.Skipped),
				},
			}
			opts.Logger.Debug("layout cache hit", "columns", columns, "deck", d.Name)
			r.complete(res, opts)
			return res, nil
		}
	}

	cards := d.GridCards()
	cfg := opts.GridConfig()

	observability.Layout().OnLayoutStart(ctx, len(cards), columns)
	start := time.Now()
	gr, err := grid.ComputeLayout(cards, opts.Width, cfg)
	elapsed := time.Since(start)
	observability.Layout().OnLayoutComplete(ctx, gr.Columns, gr.Rows, elapsed, err)
	if err != nil {
		return nil, err
	}

	for _, s := range gr.Skipped {
		opts.Logger.Warn("skipped card", "index", s.Index, "id", s.ID, "reason", s.Reason)
		observability.Layout().OnCardSkipped(ctx, s.ID, s.Reason)
	}

	res := &Result{
		Layout:   deck.NewLayout(d, gr, opts.Width, cfg),
		DeckHash: deckHash,
		Stats: Stats{
			Cards:      len(cards),
			Placed:     len(gr.Placements),
			Skipped:    len(gr.Skipped),
			LayoutTime: elapsed,
		},
	}
	opts.Logger.Debug("computed layout",
		"columns", gr.Columns,
		"rows", gr.Rows,
		"cards", len(gr.Placements),
		"duration", elapsed)

	r.store(ctx, cacheKey, res.Layout, opts.Logger)
	r.complete(res, opts)
	return res, nil
}

// ExecuteBreakpoints computes one layout per reachable column count, using
// each breakpoint's minimum width. Results are ordered by column count.
// The layouts run concurrently, so opts.OnComplete must be safe for
// concurrent use.
func (r *Runner) ExecuteBreakpoints(ctx context.Context, d deck.Deck, opts Options) ([]*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	limit := grid.MaxColumns
	if opts.MaxColumns > 0 {
		limit = opts.MaxColumns
	}
	bps := grid.Breakpoints(opts.CellWidth, opts.Gutter)

	results := make([]*Result, limit)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < limit; i++ {
		o := opts
		o.Width = bps[i]
		g.Go(func() error {
			res, err := r.Execute(ctx, d, o)
			if err != nil {
				return fmt.Errorf("%d columns: %w", i+1, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// cached loads a layout from the cache. Backend and decode failures count
// as misses.
func (r *Runner) cached(ctx context.Context, key string) (deck.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return deck.Layout{}, false
	}
	l, err := deck.UnmarshalLayout(data)
	if err != nil {
		r.Logger.Warn("discarding unreadable cache entry", "err", err)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return deck.Layout{}, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return l, true
}

// store writes l to the cache, retrying transient backend failures.
// Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, key string, l deck.Layout, logger *log.Logger) {
	data, err := deck.MarshalLayout(l)
	if err != nil {
		logger.Warn("serialize layout for cache", "err", err)
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.LayoutTTL
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, ttl)
	})
	if err != nil {
		logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

func (r *Runner) complete(res *Result, opts Options) {
	if opts.OnComplete != nil {
		opts.OnComplete(res)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
