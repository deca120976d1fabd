package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranslator(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantName string
		wantErr  bool
	}{
		{"default is google", Config{}, "google", false},
		{"libretranslate", Config{Engine: EngineLibreTranslate, BaseURL: "http://localhost:5000"}, "libretranslate", false},
		{"mymemory", Config{Engine: EngineMyMemory}, "mymemory", false},
		{"openai with key", Config{Engine: EngineOpenAI, APIKey: "sk-test"}, "openai", false},
		{"openai without key", Config{Engine: EngineOpenAI}, "", true},
		{"static", Config{Engine: EngineStatic}, "static", false},
		{"unknown", Config{Engine: "babelfish"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Logger = quietLogger()
			tr, err := NewTranslator(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, tr.Name())
		})
	}
}

func TestNewTranslator_StaticUsesDemoPhrases(t *testing.T) {
	tr, err := NewTranslator(Config{Engine: EngineStatic, Logger: quietLogger()})
	require.NoError(t, err)

	for in, want := range DemoPhrases {
		got, err := tr.Translate(context.Background(), in, "", "")
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
}

func TestParseEngineType(t *testing.T) {
	e, err := ParseEngineType("")
	require.NoError(t, err)
	assert.Equal(t, EngineGoogle, e)

	e, err = ParseEngineType(" OpenAI ")
	require.NoError(t, err)
	assert.Equal(t, EngineOpenAI, e)

	_, err = ParseEngineType("argos")
	assert.Error(t, err)
}
