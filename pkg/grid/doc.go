// Package grid positions variable-sized cards inside a responsive
// multi-column grid.
//
// # Overview
//
// A layout pass turns an ordered list of [Card] values and a container width
// into pixel offsets. The pass runs in five stages:
//
//  1. [ResolveColumns] picks 1–4 columns from the container width.
//  2. [Classify] maps semantic size tags to a cell [Footprint].
//  3. [Reorder] pulls full-row cards to the front of their row group.
//  4. [Pack] assigns every card a (row, col) cell, first-fit and row-major.
//  5. [Emitter] converts placements into pixel [Geometry].
//
// [ComputeLayout] runs all five stages and returns a [Result].
//
// # Packing
//
// The packer is greedy and online: each card goes to the first cell, scanning
// top-to-bottom and left-to-right, where its whole footprint fits. Rows are
// appended when nothing fits. There is no backtracking, so the packing is
// gap-free and overlap-free but not guaranteed to use the minimum number of
// rows.
//
// Cards wider than the grid are clamped to the column count. Non-positive
// footprints are clamped to 1×1. Neither is an error.
//
// # Statelessness
//
// Every call to [ComputeLayout] allocates its own availability map and
// discards it on return. Two calls with the same inputs return equal results,
// and results may be computed concurrently from different goroutines.
//
// # Example
//
//	cards := []grid.Card{
//	    {ID: "news", Footprint: grid.Classify("double-width")},
//	    {ID: "mail", Footprint: grid.Classify("single")},
//	}
//	res, err := grid.ComputeLayout(cards, 1024, grid.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	for _, id := range res.Order {
//	    p := res.Placements[id]
//	    fmt.Println(id, p.Geometry.Left, p.Geometry.Top)
//	}
package grid
