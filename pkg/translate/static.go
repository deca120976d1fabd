package translate

import (
	"context"
	"strings"
	"sync"
)

// StaticTranslator answers from a fixed phrase list. It is meant for local demos
// and tests; phrases it does not know are reported as provider failures.
type StaticTranslator struct {
	mu      sync.RWMutex
	entries map[string]string
	err     error
	calls   int
}

// NewStaticTranslator creates a translator over entries keyed by exact input text.
func NewStaticTranslator(entries map[string]string) *StaticTranslator {
	copied := make(map[string]string, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return &StaticTranslator{entries: copied}
}

// Name returns the engine name.
func (s *StaticTranslator) Name() string {
	return string(EngineStatic)
}

// FailWith makes every subsequent call return err (nil restores normal behaviour).
func (s *StaticTranslator) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns how many Translate calls were made.
func (s *StaticTranslator) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

// Translate looks text up in the phrase list.
func (s *StaticTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	s.mu.Lock()
	s.calls++
	failure := s.err
	out, ok := s.entries[text]
	if !ok {
		out, ok = s.entries[strings.TrimSpace(text)]
	}
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", providerError(s.Name(), "request abandoned", err)
	}
	if failure != nil {
		return "", providerError(s.Name(), "request failed", failure)
	}
	if !ok {
		return "", providerError(s.Name(), "no entry for input", nil)
	}
	return out, nil
}

// CheckHealth fails only when a failure has been injected.
func (s *StaticTranslator) CheckHealth(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return providerError(s.Name(), "unhealthy", s.err)
	}
	return nil
}

// SupportedLanguages returns the offered languages.
func (s *StaticTranslator) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{Languages["English"], Languages["Tamil"]}, nil
}
