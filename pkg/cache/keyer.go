package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// keyVersion is bumped whenever the layout algorithm changes its output for
// the same inputs, invalidating old entries.
const keyVersion = "v1"

// LayoutKeyOpts holds every option that affects a layout result.
//
// Container width is deliberately absent: a result depends on the width only
// through the resolved column count, so resizes within one breakpoint share
// an entry.
type LayoutKeyOpts struct {
	Columns    int     `json:"columns"`
	CellWidth  float64 `json:"cell_width"`
	CellHeight float64 `json:"cell_height"`
	Gutter     float64 `json:"gutter"`
	Direction  string  `json:"direction"`
	Animate    bool    `json:"animate"`
	Transition string  `json:"transition,omitempty"`
	Strict     bool    `json:"strict,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	LayoutKey(deckHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer produces unprefixed, versioned keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:v1:<sha256 of deck hash and options>".
func (DefaultKeyer) LayoutKey(deckHash string, opts LayoutKeyOpts) string {
	data, _ := json.Marshal(struct {
		Deck string        `json:"deck"`
		Opts LayoutKeyOpts `json:"opts"`
	}{deckHash, opts})
	return "layout:" + keyVersion + ":" + Hash(data)
}

// ScopedKeyer prefixes another keyer's keys, so several deployments can
// share one backend without seeing each other's entries.
//
//	staging := NewScopedKeyer(nil, "staging")   // staging:layout:v1:...
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil. A
// prefix without a trailing colon gets one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey returns the inner key with the scope prefix.
func (k *ScopedKeyer) LayoutKey(deckHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(deckHash, opts)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
