// Package deck reads card decks and writes computed layouts.
//
// A deck is the ordered list of card descriptors a page hands to the layout
// engine. Decks are stored as TOML or JSON:
//
//	name = "home"
//
//	[[card]]
//	id   = "news"
//	size = ["double-width"]
//	text = "Headlines"
//
//	[[card]]
//	size = ["double-height"]
//	text = "Photos"
//
// The JSON form uses a "cards" array with the same fields.
//
// Cards without an id get a name-based UUID derived from their position and
// text, so the same deck always yields the same identities.
//
// # Layout Output
//
// [MarshalLayout] and [WriteLayoutFile] serialize a [grid.Result] together
// with the pass inputs as a [Layout] document that rendering collaborators
// consume.
package deck
