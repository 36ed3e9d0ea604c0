package grid

import "strings"

// Size tags recognized by [Classify].
const (
	SizeSingle       = "single"
	SizeDoubleWidth  = "double-width"
	SizeDoubleHeight = "double-height"
	SizeTripleWidth  = "triple-width"
	SizeQuadWidth    = "quad-width"
)

// SizeTags lists every recognized size tag.
var SizeTags = []string{SizeSingle, SizeDoubleWidth, SizeDoubleHeight, SizeTripleWidth, SizeQuadWidth}

// Footprint is a card's size in grid cells.
type Footprint struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Unit is the 1×1 footprint.
var Unit = Footprint{W: 1, H: 1}

// Valid reports whether both dimensions are at least one cell.
func (f Footprint) Valid() bool { return f.W >= 1 && f.H >= 1 }

// Normalize clamps non-positive dimensions to 1.
func (f Footprint) Normalize() Footprint {
	if f.W < 1 {
		f.W = 1
	}
	if f.H < 1 {
		f.H = 1
	}
	return f
}

// clamp normalizes f and limits its width to columns.
func (f Footprint) clamp(columns int) Footprint {
	f = f.Normalize()
	if f.W > columns {
		f.W = columns
	}
	return f
}

// Classify maps semantic size tags to a footprint.
//
// Tags combine: "double-width" with "double-height" is 2×2. When several
// width tags are given the widest wins. Unknown tags are ignored, so no tags
// at all yields 1×1. Matching is case-insensitive.
func Classify(tags ...string) Footprint {
	f := Unit
	for _, tag := range tags {
		switch strings.ToLower(strings.TrimSpace(tag)) {
		case SizeDoubleWidth:
			f.W = max(f.W, 2)
		case SizeTripleWidth:
			f.W = max(f.W, 3)
		case SizeQuadWidth:
			f.W = max(f.W, 4)
		case SizeDoubleHeight:
			f.H = 2
		}
	}
	return f
}

// IsSizeTag reports whether tag is one of [SizeTags].
func IsSizeTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range SizeTags {
		if t == tag {
			return true
		}
	}
	return false
}
