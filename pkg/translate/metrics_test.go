package translate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestStatus(t *testing.T) {
	assert.Equal(t, StatusSuccess, RequestStatus("வணக்கம்", nil))
	assert.Equal(t, StatusEmpty, RequestStatus("", nil))
	assert.Equal(t, StatusError, RequestStatus("", errors.New("boom")))
	assert.Equal(t, StatusTimeout, RequestStatus("", fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
}

func TestInstrumentedTranslator_CountsRequests(t *testing.T) {
	static := NewStaticTranslator(map[string]string{"Hello": "வணக்கம்"})
	tr := Instrument(static)

	before := testutil.ToFloat64(translationRequestsTotal.WithLabelValues("static", StatusSuccess))
	beforeErr := testutil.ToFloat64(translationRequestsTotal.WithLabelValues("static", StatusError))

	out, err := tr.Translate(context.Background(), "Hello", "en", "ta")
	require.NoError(t, err)
	assert.Equal(t, "வணக்கம்", out)

	_, err = tr.Translate(context.Background(), "Goodbye", "en", "ta")
	require.Error(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(translationRequestsTotal.WithLabelValues("static", StatusSuccess)))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(translationRequestsTotal.WithLabelValues("static", StatusError)))
	assert.Equal(t, "static", tr.Name())
}

func TestRecordTranslationRequest_Timeout(t *testing.T) {
	before := testutil.ToFloat64(translationRequestsTotal.WithLabelValues("mymemory", StatusTimeout))
	RecordTranslationRequest("mymemory", 15*time.Second, StatusTimeout, 5, 0)
	assert.Equal(t, before+1, testutil.ToFloat64(translationRequestsTotal.WithLabelValues("mymemory", StatusTimeout)))
}
