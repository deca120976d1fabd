package translate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultMyMemoryURL is the public MyMemory API.
	DefaultMyMemoryURL = "https://api.mymemory.translated.net"
	// DefaultMyMemoryTimeout bounds a single HTTP round trip.
	DefaultMyMemoryTimeout = 20 * time.Second
)

// MyMemoryClient implements the Translator interface using the MyMemory REST API.
type MyMemoryClient struct {
	client *resty.Client
	email  string
	logger *logrus.Logger
}

// NewMyMemoryClient creates a MyMemory client. email raises the anonymous daily quota when set.
func NewMyMemoryClient(baseURL, email string, logger *logrus.Logger) *MyMemoryClient {
	if baseURL == "" {
		baseURL = DefaultMyMemoryURL
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &MyMemoryClient{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(DefaultMyMemoryTimeout).
			SetHeader("Accept", "application/json"),
		email:  email,
		logger: logger,
	}
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  int    `json:"responseStatus"`
	ResponseDetails string `json:"responseDetails"`
	QuotaFinished   bool   `json:"quotaFinished"`
}

// Name returns the engine name.
func (c *MyMemoryClient) Name() string {
	return string(EngineMyMemory)
}

// Translate translates text from source language to target language.
func (c *MyMemoryClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	c.logger.WithFields(logrus.Fields{
		"source_lang": sourceLang,
		"target_lang": targetLang,
		"text_length": len(text),
	}).Debug("Translating text with MyMemory")

	params := map[string]string{
		"q":        text,
		"langpair": sourceLang + "|" + targetLang,
	}
	if c.email != "" {
		params["de"] = c.email
	}

	var out myMemoryResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get("/get")
	if err != nil {
		c.logger.WithError(err).Warn("MyMemory request failed")
		return "", providerError(c.Name(), "request failed", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", providerError(c.Name(), fmt.Sprintf("unexpected status %d: %s", resp.StatusCode(), resp.String()), nil)
	}
	if out.QuotaFinished {
		return "", providerError(c.Name(), "daily quota exhausted", nil)
	}
	// MyMemory reports failures in the body with a 200 transport status.
	if out.ResponseStatus != 0 && out.ResponseStatus != http.StatusOK {
		return "", providerError(c.Name(), fmt.Sprintf("status %d: %s", out.ResponseStatus, out.ResponseDetails), nil)
	}

	c.logger.WithFields(logrus.Fields{
		"duration_ms": resp.Time().Milliseconds(),
	}).Debug("MyMemory request completed")

	return out.ResponseData.TranslatedText, nil
}

// CheckHealth translates a short fixed phrase.
func (c *MyMemoryClient) CheckHealth(ctx context.Context) error {
	_, err := c.Translate(ctx, "hello", Languages["English"], Languages["Tamil"])
	return err
}

// SupportedLanguages returns the offered languages; MyMemory accepts any ISO pair.
func (c *MyMemoryClient) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{Languages["English"], Languages["Tamil"]}, nil
}
