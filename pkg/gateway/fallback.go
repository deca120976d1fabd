package gateway

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FallbackTable maps normalized phrases to their counterpart translation.
// It is consulted only when the provider call fails.
type FallbackTable map[string]string

// DefaultFallback is the built-in degraded-mode phrase list. Lookups ignore
// direction, so a Tamil phrase submitted as English still resolves.
var DefaultFallback = FallbackTable{
	"hello":        "வணக்கம்",
	"thank you":    "நன்றி",
	"how are you":  "எப்படி இருக்கிறீர்கள்",
	"good morning": "காலை வணக்கம்",
	"yes":          "ஆம்",
	"no":           "இல்லை",
	"வணக்கம்":      "hello",
	"நன்றி":        "thank you",
}

// Normalize lower-cases and trims text and composes it to NFC.
func Normalize(text string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(text)))
}

// Lookup returns the mapped phrase for the normalized form of text.
func (t FallbackTable) Lookup(text string) (string, bool) {
	if len(t) == 0 {
		return "", false
	}
	phrase, ok := t[Normalize(text)]
	return phrase, ok
}

// Len returns the number of entries.
func (t FallbackTable) Len() int {
	return len(t)
}
