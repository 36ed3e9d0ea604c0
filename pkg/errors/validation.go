package errors

import (
	"net/url"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxCardIDLength is the longest card ID accepted from decks and API requests.
const MaxCardIDLength = 128

// ValidateCardID validates a card identity.
//
// IDs are opaque to the layout engine, but they end up as JSON keys and in
// log lines, so the rules are conservative:
//   - No empty IDs
//   - No control characters
//   - No leading or trailing whitespace
//   - Maximum length of MaxCardIDLength bytes
func ValidateCardID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidCard, "card id cannot be empty")
	}
	if len(id) > MaxCardIDLength {
		return New(ErrCodeInvalidCard, "card id too long (max %d characters)", MaxCardIDLength)
	}
	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidCard, "card id %q has surrounding whitespace", id)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCard, "card id contains invalid control characters")
		}
	}
	return nil
}

// deckExtensions are the file extensions deck files may use.
var deckExtensions = map[string]bool{
	".toml": true,
	".json": true,
}

// ValidateDeckFilename checks that a deck file has a supported extension.
func ValidateDeckFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidDeck, "deck filename cannot be empty")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !deckExtensions[ext] {
		return New(ErrCodeInvalidDeck, "unsupported deck format %q (must be .toml or .json)", ext)
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// cacheSchemes are the URL schemes accepted for remote cache backends.
var cacheSchemes = map[string]bool{
	"redis":       true,
	"rediss":      true,
	"mongodb":     true,
	"mongodb+srv": true,
}

// ValidateCacheURL validates a remote cache URL.
// Only redis and mongodb schemes are accepted.
func ValidateCacheURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "cache URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidConfig, err, "invalid cache URL")
	}
	if !cacheSchemes[u.Scheme] {
		return New(ErrCodeInvalidConfig, "unsupported cache URL scheme %q (must be redis or mongodb)", u.Scheme)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidConfig, "cache URL has no host")
	}
	return nil
}
