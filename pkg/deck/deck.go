package deck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	apperrors "github.com/matzehuels/cardgrid/pkg/errors"
	"github.com/matzehuels/cardgrid/pkg/grid"
)

// Format identifies a deck encoding.
type Format string

// Supported deck encodings.
const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the deck format from a file extension.
func FormatFromPath(path string) (Format, error) {
	if err := apperrors.ValidateDeckFilename(path); err != nil {
		return "", err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON, nil
	}
	return FormatTOML, nil
}

// Descriptor is a card as supplied by the page.
type Descriptor struct {
	ID   string   `json:"id,omitempty" toml:"id,omitempty"`
	Size []string `json:"size,omitempty" toml:"size,omitempty"`
	Text string   `json:"text,omitempty" toml:"text,omitempty"`
}

// Deck is an ordered set of card descriptors.
type Deck struct {
	Name  string       `json:"name,omitempty" toml:"name,omitempty"`
	Cards []Descriptor `json:"cards" toml:"card"`
}

// idNamespace seeds the name-based UUIDs given to cards without an id.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/cardgrid/card"))

// CardID returns the descriptor's id, or a UUID derived from its position
// and text when the id is empty.
func (d Descriptor) CardID(index int) string {
	if d.ID != "" {
		return d.ID
	}
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%d\x00%s", index, d.Text))).String()
}

// GridCards converts the deck into layout cards, classifying each descriptor's
// size tags and filling in missing ids.
func (d Deck) GridCards() []grid.Card {
	cards := make([]grid.Card, len(d.Cards))
	for i, desc := range d.Cards {
		cards[i] = grid.NewCard(desc.CardID(i), desc.Size...)
	}
	return cards
}

// Texts maps card ids to their display text.
func (d Deck) Texts() map[string]string {
	texts := make(map[string]string, len(d.Cards))
	for i, desc := range d.Cards {
		texts[desc.CardID(i)] = desc.Text
	}
	return texts
}

// Validate checks explicit ids and size tags. Unknown size tags are
// rejected here even though the classifier treats them as single cells.
func (d Deck) Validate() error {
	seen := make(map[string]int, len(d.Cards))
	for i, desc := range d.Cards {
		id := desc.CardID(i)
		if err := apperrors.ValidateCardID(id); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidDeck, err, "card %d", i)
		}
		if prev, ok := seen[id]; ok {
			return apperrors.New(apperrors.ErrCodeInvalidDeck, "card %d reuses id %q from card %d", i, id, prev)
		}
		seen[id] = i
		for _, tag := range desc.Size {
			if !grid.IsSizeTag(tag) {
				return apperrors.New(apperrors.ErrCodeInvalidDeck, "card %d (%s): unknown size %q", i, id, tag)
			}
		}
	}
	return nil
}

// MarshalDeck converts a deck to canonical JSON bytes. The output is stable
// for equal decks and is used for content hashing.
func MarshalDeck(d Deck) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDeck(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDeck writes a deck as JSON to an io.Writer.
func WriteDeck(d Deck, w io.Writer) error {
	if d.Cards == nil {
		d.Cards = []Descriptor{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadDeckFile reads a deck file, choosing the decoder from its extension.
func ReadDeckFile(path string) (Deck, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Deck{}, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Deck{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "deck %s", path)
	}
	if err != nil {
		return Deck{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDeck(f, format)
}

// ReadDeck decodes a deck in the given format. Only the encoding is
// checked; card ids and size tags are left to [Deck.Validate], which callers
// run in strict mode.
func ReadDeck(r io.Reader, format Format) (Deck, error) {
	var d Deck
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return Deck{}, apperrors.Wrap(apperrors.ErrCodeInvalidDeck, err, "decode json deck")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&d)
		if err != nil {
			return Deck{}, apperrors.Wrap(apperrors.ErrCodeInvalidDeck, err, "decode toml deck")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Deck{}, apperrors.New(apperrors.ErrCodeInvalidDeck, "unknown deck key %q", undecoded[0].String())
		}
	default:
		return Deck{}, apperrors.New(apperrors.ErrCodeUnsupported, "deck format %q", format)
	}
	return d, nil
}
