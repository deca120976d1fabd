package translate

import (
	"context"
	"sort"
	"time"

	"github.com/bregydoc/gtranslate"
	"github.com/sirupsen/logrus"
)

// GoogleClient implements the Translator interface on the public Google Translate
// endpoint. It needs no credentials, which also means it can be throttled at any time.
type GoogleClient struct {
	tries     int
	logger    *logrus.Logger
	translate func(text string, params gtranslate.TranslationParams) (string, error)
}

// NewGoogleClient creates a Google Translate client. tries <= 0 means a single attempt.
func NewGoogleClient(tries int, logger *logrus.Logger) *GoogleClient {
	if tries <= 0 {
		tries = 1
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &GoogleClient{
		tries:     tries,
		logger:    logger,
		translate: gtranslate.TranslateWithParams,
	}
}

// Name returns the engine name.
func (c *GoogleClient) Name() string {
	return string(EngineGoogle)
}

type googleResult struct {
	text string
	err  error
}

// Translate translates text from source language to target language.
// gtranslate does not take a context, so the call runs in its own goroutine and is
// abandoned (not cancelled) when ctx ends.
func (c *GoogleClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	c.logger.WithFields(logrus.Fields{
		"source_lang": sourceLang,
		"target_lang": targetLang,
		"text_length": len(text),
	}).Debug("Translating text with Google")

	done := make(chan googleResult, 1)
	startTime := time.Now()
	go func() {
		out, err := c.translate(text, gtranslate.TranslationParams{
			From:  sourceLang,
			To:    targetLang,
			Tries: c.tries,
		})
		done <- googleResult{text: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", providerError(c.Name(), "request abandoned", ctx.Err())
	case res := <-done:
		if res.err != nil {
			c.logger.WithError(res.err).Warn("Google translation request failed")
			return "", providerError(c.Name(), "request failed", res.err)
		}
		c.logger.WithFields(logrus.Fields{
			"duration_ms": time.Since(startTime).Milliseconds(),
		}).Debug("Google translation request completed")
		return res.text, nil
	}
}

// CheckHealth translates a short fixed phrase.
func (c *GoogleClient) CheckHealth(ctx context.Context) error {
	_, err := c.Translate(ctx, "hello", Languages["English"], Languages["Tamil"])
	return err
}

// SupportedLanguages returns the languages this service offers; Google covers both.
func (c *GoogleClient) SupportedLanguages(ctx context.Context) ([]string, error) {
	codes := make([]string, 0, len(Languages))
	for _, code := range Languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}
