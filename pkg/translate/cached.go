package translate

import (
	"context"

	"github.com/dasmlab/mozhi/pkg/cache"
	"github.com/sirupsen/logrus"
)

// CachedTranslator is a read-through cache in front of another Translator.
// Only non-empty successful translations are stored; failures always reach the provider.
type CachedTranslator struct {
	Translator
	cache  cache.TranslationCache
	logger *logrus.Logger
}

// WithCache wraps t with c. A nil cache returns t unchanged.
func WithCache(t Translator, c cache.TranslationCache, logger *logrus.Logger) Translator {
	if c == nil {
		return t
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &CachedTranslator{Translator: t, cache: c, logger: logger}
}

// Translate implements Translator with caching.
func (c *CachedTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	key := cache.Key(text, sourceLang, targetLang, c.Name())
	if cached, ok := c.cache.Get(ctx, key); ok {
		c.logger.WithFields(logrus.Fields{
			"engine":      c.Name(),
			"source_lang": sourceLang,
			"target_lang": targetLang,
		}).Debug("Translation served from cache")
		return cached, nil
	}

	out, err := c.Translator.Translate(ctx, text, sourceLang, targetLang)
	if err != nil || out == "" {
		return out, err
	}

	if err := c.cache.Set(ctx, key, out); err != nil {
		c.logger.WithError(err).Warn("Failed to store translation in cache")
	}
	return out, nil
}
