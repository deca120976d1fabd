package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIConfig holds configuration for the OpenAI engine.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string // optional, for compatible gateways
	Temperature float32
}

// OpenAIClient implements the Translator interface with chat completions.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *logrus.Logger
}

// NewOpenAIClient creates a new OpenAI-backed translator.
func NewOpenAIClient(cfg OpenAIConfig, logger *logrus.Logger) *OpenAIClient {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// Name returns the engine name.
func (c *OpenAIClient) Name() string {
	return string(EngineOpenAI)
}

func languageName(code string) string {
	for name, c := range Languages {
		if c == code {
			return name
		}
	}
	return code
}

func (c *OpenAIClient) systemPrompt(sourceLang, targetLang string) string {
	return fmt.Sprintf(`You are a professional %s to %s translator.
Translate the user's message into natural, idiomatic %s.
Reply with the translation only: no quotes, no explanations, no transliteration.
If the message is already in %s, return it unchanged.`,
		languageName(sourceLang), languageName(targetLang), languageName(targetLang), languageName(targetLang))
}

// Translate translates text from source language to target language.
func (c *OpenAIClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	c.logger.WithFields(logrus.Fields{
		"source_lang": sourceLang,
		"target_lang": targetLang,
		"model":       c.model,
		"text_length": len(text),
	}).Debug("Translating text with OpenAI")

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt(sourceLang, targetLang)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		c.logger.WithError(err).Warn("OpenAI request failed")
		return "", providerError(c.Name(), "chat completion failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// CheckHealth lists models, which validates the key without spending tokens.
func (c *OpenAIClient) CheckHealth(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return providerError(c.Name(), "list models", err)
	}
	return nil
}

// SupportedLanguages returns the offered languages.
func (c *OpenAIClient) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{Languages["English"], Languages["Tamil"]}, nil
}
