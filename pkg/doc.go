// Package pkg provides the core libraries for cardgrid responsive card layout.
//
// # Overview
//
// Cardgrid arranges a deck of variably sized cards into a grid whose column
// count follows the container width. Wide cards are pulled forward so rows
// fill up, and small cards backfill holes left by tall ones. The pkg
// directory is organized as:
//
//  1. [grid] - Layout algorithms (size classification, breakpoints, reflow,
//     packing, pixel geometry)
//  2. [deck] - Deck and layout files (TOML and JSON)
//  3. [pipeline] - Orchestration (validate, cache, lay out)
//  4. [cache] - Layout caches (file, Redis, MongoDB)
//  5. [observability], [errors], [buildinfo] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	deck.toml / JSON request
//	         ↓
//	    [deck] package (descriptors → cards)
//	         ↓
//	    [grid] package (classify → resolve columns → reorder → pack → emit)
//	         ↓
//	    layout.json / JSON response
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/cardgrid/pkg/grid"
//	)
//
//	cards := []grid.Card{
//	    grid.NewCard("news"),
//	    grid.NewCard("weather", "double-width"),
//	    grid.NewCard("stocks"),
//	}
//	res, err := grid.ComputeLayout(cards, 800, grid.DefaultConfig())
//	for _, id := range res.Order {
//	    g := res.Placements[id].Geometry
//	    fmt.Println(id, g.Left, g.Top, g.Width, g.Height)
//	}
//
// With caching and logging, use the pipeline runner:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, d, pipeline.Options{Width: 800})
//
// [grid]: https://pkg.go.dev/github.com/matzehuels/cardgrid/pkg/grid
// [deck]: https://pkg.go.dev/github.com/matzehuels/cardgrid/pkg/deck
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cardgrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/cardgrid/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/cardgrid/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/cardgrid/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/cardgrid/pkg/buildinfo
package pkg
