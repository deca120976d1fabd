package translate

import (
	"context"
	"strings"
)

// Translator defines the interface for machine translation backends.
// The gateway only depends on this capability, so engines (Google, LibreTranslate,
// MyMemory, OpenAI) can be swapped without touching the chat flow.
type Translator interface {
	// Translate translates text from source language to target language.
	// sourceLang and targetLang are ISO 639-1 codes (e.g., "en", "ta").
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)

	// CheckHealth verifies that the translation backend is ready and operational.
	CheckHealth(ctx context.Context) error

	// SupportedLanguages returns the ISO 639-1 codes supported by this backend.
	SupportedLanguages(ctx context.Context) ([]string, error)

	// Name returns the engine name used in logs and metrics labels.
	Name() string
}

// Languages maps display names to the language codes the UI offers.
var Languages = map[string]string{
	"English": "en",
	"Tamil":   "ta",
}

// LanguageMapper handles conversion between the language codes clients send
// and the ISO 639-1 codes backends expect.
type LanguageMapper struct{}

// NewLanguageMapper creates a new language mapper instance.
func NewLanguageMapper() *LanguageMapper {
	return &LanguageMapper{}
}

// ToBackendCode converts a client language code or display name to backend format.
// Examples:
//   - "EN" -> "en"
//   - "ta-IN" -> "ta"
//   - "Tamil" -> "ta"
func (lm *LanguageMapper) ToBackendCode(lang string) string {
	lang = strings.TrimSpace(lang)
	for name, code := range Languages {
		if strings.EqualFold(name, lang) {
			return code
		}
	}

	lang = strings.ToLower(lang)
	if idx := strings.IndexAny(lang, "-_"); idx >= 0 {
		lang = lang[:idx]
	}

	return lang
}

// IsSupported reports whether code is one of the offered languages.
func (lm *LanguageMapper) IsSupported(code string) bool {
	code = lm.ToBackendCode(code)
	for _, c := range Languages {
		if c == code {
			return true
		}
	}
	return false
}
