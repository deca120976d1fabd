package translate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bregydoc/gtranslate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleClient_Translate(t *testing.T) {
	client := NewGoogleClient(0, quietLogger())
	client.translate = func(text string, params gtranslate.TranslationParams) (string, error) {
		assert.Equal(t, "hello", text)
		assert.Equal(t, "en", params.From)
		assert.Equal(t, "ta", params.To)
		assert.Equal(t, 1, params.Tries)
		return "வணக்கம்", nil
	}

	out, err := client.Translate(context.Background(), "hello", "en", "ta")
	require.NoError(t, err)
	assert.Equal(t, "வணக்கம்", out)
}

func TestGoogleClient_Error(t *testing.T) {
	client := NewGoogleClient(1, quietLogger())
	client.translate = func(string, gtranslate.TranslationParams) (string, error) {
		return "", errors.New("429 too many requests")
	}

	_, err := client.Translate(context.Background(), "hello", "en", "ta")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "google", perr.Engine)
	assert.False(t, perr.Timeout())
}

func TestGoogleClient_AbandonsOnDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	client := NewGoogleClient(1, quietLogger())
	client.translate = func(string, gtranslate.TranslationParams) (string, error) {
		<-release
		return "late", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Translate(ctx, "hello", "en", "ta")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.Timeout())
}
