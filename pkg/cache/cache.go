// Package cache provides translation caching implementations.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found or expired.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a translation in the cache.
	Set(ctx context.Context, key string, value string) error
}

// Key builds the cache key for a translation of text between two languages by one engine.
// The exact text is hashed so keys stay short and carry no user text.
func Key(text, sourceLang, targetLang, engine string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:]) + ":" + sourceLang + ":" + targetLang + ":" + engine
}
