package translate

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	translationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mozhi_provider_requests_total",
			Help: "Total number of translation provider requests",
		},
		[]string{"engine", "status"},
	)

	translationRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mozhi_provider_request_duration_seconds",
			Help:    "Duration of translation provider requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"engine", "status"},
	)

	translationRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mozhi_provider_request_size_bytes",
			Help:    "Size of text sent to the translation provider in bytes",
			Buckets: []float64{16, 64, 256, 1024, 4096, 16384},
		},
		[]string{"engine"},
	)

	translationResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mozhi_provider_response_size_bytes",
			Help:    "Size of text returned by the translation provider in bytes",
			Buckets: []float64{16, 64, 256, 1024, 4096, 16384},
		},
		[]string{"engine"},
	)
)

// Provider request statuses used as metric labels.
const (
	StatusSuccess = "success"
	StatusEmpty   = "empty"
	StatusError   = "error"
	StatusTimeout = "timeout"
)

// InstrumentedTranslator records Prometheus metrics around another Translator.
type InstrumentedTranslator struct {
	Translator
}

// Instrument wraps t so every Translate call is counted and timed.
func Instrument(t Translator) *InstrumentedTranslator {
	return &InstrumentedTranslator{Translator: t}
}

// Translate implements Translator with metrics.
func (i *InstrumentedTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	start := time.Now()
	out, err := i.Translator.Translate(ctx, text, sourceLang, targetLang)
	RecordTranslationRequest(i.Name(), time.Since(start), RequestStatus(out, err), len(text), len(out))
	return out, err
}

// RequestStatus classifies a provider call for metric labels.
func RequestStatus(out string, err error) string {
	switch {
	case err != nil && IsTimeout(err):
		return StatusTimeout
	case err != nil:
		return StatusError
	case out == "":
		return StatusEmpty
	default:
		return StatusSuccess
	}
}

// RecordTranslationRequest records metrics for a translation request.
func RecordTranslationRequest(engine string, duration time.Duration, status string, requestSize, responseSize int) {
	translationRequestsTotal.WithLabelValues(engine, status).Inc()
	translationRequestDuration.WithLabelValues(engine, status).Observe(duration.Seconds())
	translationRequestSize.WithLabelValues(engine).Observe(float64(requestSize))
	if status == StatusSuccess {
		translationResponseSize.WithLabelValues(engine).Observe(float64(responseSize))
	}
}
