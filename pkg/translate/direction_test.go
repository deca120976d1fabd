package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirection_Pair(t *testing.T) {
	src, tgt := EnglishToTamil.Pair()
	assert.Equal(t, "en", src)
	assert.Equal(t, "ta", tgt)

	src, tgt = TamilToEnglish.Pair()
	assert.Equal(t, "ta", src)
	assert.Equal(t, "en", tgt)
}

func TestDirection_Placeholder(t *testing.T) {
	assert.Equal(t, "Type in English...", EnglishToTamil.Placeholder())
	assert.Equal(t, "தமிழில் தட்டச்சு செய்யுங்கள்...", TamilToEnglish.Placeholder())
}

func TestDetectDirection(t *testing.T) {
	assert.Equal(t, TamilToEnglish, DetectDirection("வணக்கம் நண்பரே"))
	assert.Equal(t, EnglishToTamil, DetectDirection("Good morning friend"))
	assert.Equal(t, EnglishToTamil, DirectionAuto.Resolve("Good morning friend"))
	assert.Equal(t, TamilToEnglish, TamilToEnglish.Resolve("hello"))
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"", EnglishToTamil, false},
		{"EN_TO_TA", EnglishToTamil, false},
		{"ta-en", TamilToEnglish, false},
		{"Tamil → English", TamilToEnglish, false},
		{" auto ", DirectionAuto, false},
		{"fr-de", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
