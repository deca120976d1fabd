// Package gateway mediates between the chat flow and the translation provider.
// It makes a single bounded provider call per request and turns every outcome
// into a tagged Result; provider failures never escape as Go errors.
package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dasmlab/mozhi/pkg/translate"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 15 * time.Second

// Gateway translates text through a provider with an offline fallback.
type Gateway struct {
	translator translate.Translator
	fallback   FallbackTable
	timeout    time.Duration
	logger     *logrus.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTimeout sets the per-call provider timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithFallback replaces the offline phrase table.
func WithFallback(t FallbackTable) Option {
	return func(g *Gateway) {
		g.fallback = t
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a gateway over translator. A nil translator is allowed; every
// call then takes the failure path.
func New(translator translate.Translator, opts ...Option) *Gateway {
	g := &Gateway{
		translator: translator,
		fallback:   DefaultFallback,
		timeout:    DefaultTimeout,
		logger:     logrus.New(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// errNoProvider is reported when the gateway was built without a translator.
var errNoProvider = errors.New("no translation provider configured")

// Engine returns the provider name, or "none".
func (g *Gateway) Engine() string {
	if g.translator == nil {
		return "none"
	}
	return g.translator.Name()
}

// Timeout returns the per-call provider timeout.
func (g *Gateway) Timeout() time.Duration {
	return g.timeout
}

// Translate submits text once to the provider.
func (g *Gateway) Translate(ctx context.Context, text, sourceLang, targetLang string) Result {
	if strings.TrimSpace(text) == "" {
		r := Result{Kind: KindEmptyInput, Input: text}
		recordOutcome(r)
		return r
	}

	start := time.Now()
	out, err := g.call(ctx, text, sourceLang, targetLang)

	fields := logrus.Fields{
		"engine":      g.Engine(),
		"source_lang": sourceLang,
		"target_lang": targetLang,
		"text_length": len(text),
		"duration_ms": time.Since(start).Milliseconds(),
	}

	var r Result
	switch {
	case err != nil:
		r = g.degrade(text, err)
		fields["offline"] = r.Offline
		fields["timeout"] = translate.IsTimeout(err)
		g.logger.WithError(err).WithFields(fields).Warn("Translation provider failed, using degraded mode")
	case out == "":
		r = Result{Kind: KindEmptyResult, Input: text}
		g.logger.WithFields(fields).Warn("Translation provider returned an empty result")
	default:
		r = Result{Kind: KindTranslated, Text: out, Input: text}
		g.logger.WithFields(fields).Debug("Translation completed")
	}

	recordOutcome(r)
	return r
}

func (g *Gateway) call(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if g.translator == nil {
		return "", errNoProvider
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.translator.Translate(callCtx, text, sourceLang, targetLang)
	if errors.Is(err, translate.ErrEmptyResult) {
		return "", nil
	}
	return out, err
}

func (g *Gateway) degrade(text string, err error) Result {
	if phrase, ok := g.fallback.Lookup(text); ok {
		return Result{Kind: KindUnavailable, Text: phrase, Input: text, Offline: true, Err: err}
	}
	return Result{Kind: KindUnavailable, Input: text, Err: err}
}

// IsConfigured reports whether a provider is set and passes its health check
// within the gateway timeout.
func (g *Gateway) IsConfigured(ctx context.Context) bool {
	if g.translator == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.translator.CheckHealth(ctx); err != nil {
		g.logger.WithError(err).WithField("engine", g.Engine()).Warn("Translation provider health check failed")
		return false
	}
	return true
}
