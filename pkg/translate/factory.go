package translate

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// EngineType represents the type of translation engine to use.
type EngineType string

const (
	// EngineGoogle uses the public Google Translate endpoint.
	EngineGoogle EngineType = "google"
	// EngineLibreTranslate uses a LibreTranslate server.
	EngineLibreTranslate EngineType = "libretranslate"
	// EngineMyMemory uses the MyMemory REST API.
	EngineMyMemory EngineType = "mymemory"
	// EngineOpenAI uses OpenAI chat completions.
	EngineOpenAI EngineType = "openai"
	// EngineStatic answers from a built-in phrase list.
	EngineStatic EngineType = "static"
)

// Config holds configuration for creating a Translator instance.
type Config struct {
	// Engine specifies which translation engine to use.
	Engine EngineType
	// BaseURL overrides the engine's API base URL (LibreTranslate, MyMemory, OpenAI).
	BaseURL string
	// APIKey is the engine credential (LibreTranslate key, OpenAI key).
	APIKey string
	// Model is the OpenAI model name.
	Model string
	// Email is sent to MyMemory to lift the anonymous quota.
	Email string
	// Tries is the number of attempts the Google client makes internally.
	Tries int
	// Phrases seeds the static engine.
	Phrases map[string]string
	// Logger is the logger instance to use. If nil, a default logger is created.
	Logger *logrus.Logger
}

// NewTranslator creates a new Translator instance based on the configuration.
func NewTranslator(cfg Config) (Translator, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Engine == "" {
		cfg.Engine = EngineGoogle
	}

	cfg.Logger.WithFields(logrus.Fields{
		"engine":   cfg.Engine,
		"base_url": cfg.BaseURL,
	}).Info("Creating translator instance")

	switch cfg.Engine {
	case EngineGoogle:
		return NewGoogleClient(cfg.Tries, cfg.Logger), nil
	case EngineLibreTranslate:
		return NewLibreTranslateClient(cfg.BaseURL, cfg.APIKey, cfg.Logger), nil
	case EngineMyMemory:
		return NewMyMemoryClient(cfg.BaseURL, cfg.Email, cfg.Logger), nil
	case EngineOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai engine requires an API key")
		}
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		}, cfg.Logger), nil
	case EngineStatic:
		phrases := cfg.Phrases
		if phrases == nil {
			phrases = DemoPhrases
		}
		return NewStaticTranslator(phrases), nil
	default:
		cfg.Logger.WithFields(logrus.Fields{
			"engine": cfg.Engine,
		}).Error("Unknown translation engine")
		return nil, fmt.Errorf("unknown translation engine: %s", cfg.Engine)
	}
}

// ParseEngineType parses a string into an EngineType.
func ParseEngineType(s string) (EngineType, error) {
	switch e := EngineType(strings.ToLower(strings.TrimSpace(s))); e {
	case EngineGoogle, EngineLibreTranslate, EngineMyMemory, EngineOpenAI, EngineStatic:
		return e, nil
	case "":
		return EngineGoogle, nil
	default:
		return "", fmt.Errorf("unknown engine type: %s (supported: google, libretranslate, mymemory, openai, static)", s)
	}
}

// DemoPhrases seeds the static engine when no phrase list is configured.
var DemoPhrases = map[string]string{
	"Hello":        "வணக்கம்",
	"Thank you":    "நன்றி",
	"Good night":   "இனிய இரவு",
	"How are you?": "எப்படி இருக்கிறீர்கள்?",
	"வணக்கம்":      "Hello",
	"நன்றி":        "Thank you",
	"இனிய இரவு":    "Good night",
}
