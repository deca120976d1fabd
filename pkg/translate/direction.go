package translate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
)

// Direction selects the language pair for a chat submission.
type Direction string

const (
	// EnglishToTamil translates English input into Tamil.
	EnglishToTamil Direction = "EN_TO_TA"
	// TamilToEnglish translates Tamil input into English.
	TamilToEnglish Direction = "TA_TO_EN"
	// DirectionAuto picks one of the two pairs from the script of the input.
	DirectionAuto Direction = "AUTO"
)

// Pair returns the (source, target) language codes for the direction.
func (d Direction) Pair() (string, string) {
	if d == TamilToEnglish {
		return Languages["Tamil"], Languages["English"]
	}
	return Languages["English"], Languages["Tamil"]
}

// Placeholder is the hint shown in the input box for this direction.
func (d Direction) Placeholder() string {
	if d == TamilToEnglish {
		return "தமிழில் தட்டச்சு செய்யுங்கள்..."
	}
	return "Type in English..."
}

// Label is the human readable name of the direction.
func (d Direction) Label() string {
	switch d {
	case TamilToEnglish:
		return "Tamil → English"
	case DirectionAuto:
		return "Auto detect"
	default:
		return "English → Tamil"
	}
}

// Resolve turns DirectionAuto into a concrete direction for text.
// Text written in Tamil script goes Tamil to English, everything else English to Tamil.
func (d Direction) Resolve(text string) Direction {
	if d != DirectionAuto {
		return d
	}
	return DetectDirection(text)
}

// DetectDirection guesses the direction from the dominant script of text.
func DetectDirection(text string) Direction {
	if whatlanggo.DetectScript(text) == unicode.Tamil {
		return TamilToEnglish
	}
	return EnglishToTamil
}

// ParseDirection accepts the enum names, short pair forms and display labels.
// An empty string yields EnglishToTamil, matching the selector default.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "en_to_ta", "en-ta", "en→ta", "english → tamil", "english->tamil":
		return EnglishToTamil, nil
	case "ta_to_en", "ta-en", "ta→en", "tamil → english", "tamil->english":
		return TamilToEnglish, nil
	case "auto":
		return DirectionAuto, nil
	default:
		return "", fmt.Errorf("unknown direction: %s (supported: en-ta, ta-en, auto)", s)
	}
}

// Directions lists the selectable directions in display order.
func Directions() []Direction {
	return []Direction{EnglishToTamil, TamilToEnglish, DirectionAuto}
}
