package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultLibreTranslateURL is the default base URL for LibreTranslate API.
	DefaultLibreTranslateURL = "http://localhost:5000"
	// DefaultLibreTranslateTimeout bounds a single HTTP round trip. Chat messages are short.
	DefaultLibreTranslateTimeout = 30 * time.Second
)

// LibreTranslateClient implements the Translator interface using LibreTranslate.
// LibreTranslate is a self-hosted, open-source machine translation API.
type LibreTranslateClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewLibreTranslateClient creates a new LibreTranslate client.
// baseURL should point to the LibreTranslate server (default: http://localhost:5000).
func NewLibreTranslateClient(baseURL, apiKey string, logger *logrus.Logger) *LibreTranslateClient {
	if baseURL == "" {
		baseURL = DefaultLibreTranslateURL
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &LibreTranslateClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultLibreTranslateTimeout,
		},
		logger: logger,
	}
}

// translateRequest represents a LibreTranslate API request.
type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

// translateResponse represents a LibreTranslate API response.
type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// languagesResponse represents one entry of the /languages endpoint.
type languagesResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Name returns the engine name.
func (c *LibreTranslateClient) Name() string {
	return string(EngineLibreTranslate)
}

// Translate translates text from source language to target language.
func (c *LibreTranslateClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	c.logger.WithFields(logrus.Fields{
		"source_lang": sourceLang,
		"target_lang": targetLang,
		"text_length": len(text),
	}).Debug("Translating text with LibreTranslate")

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(&translateRequest{
		Q:      text,
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
		APIKey: c.apiKey,
	}); err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := c.baseURL + "/translate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"url": url,
		}).Warn("Translation request failed")
		return "", providerError(c.Name(), "request failed", err)
	}
	defer resp.Body.Close()

	duration := time.Since(startTime)
	c.logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"duration_ms": duration.Milliseconds(),
	}).Debug("Translation request completed")

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(bodyBytes),
		}).Warn("Translation request returned non-OK status")
		return "", providerError(c.Name(), fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(bodyBytes)), nil)
	}

	var ltResp translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&ltResp); err != nil {
		return "", providerError(c.Name(), "decode response", err)
	}

	return ltResp.TranslatedText, nil
}

// CheckHealth verifies that LibreTranslate is ready and operational.
func (c *LibreTranslateClient) CheckHealth(ctx context.Context) error {
	_, err := c.SupportedLanguages(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// SupportedLanguages returns the language codes LibreTranslate reports.
func (c *LibreTranslateClient) SupportedLanguages(ctx context.Context) ([]string, error) {
	url := c.baseURL + "/languages"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create languages request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Debug("Failed to fetch supported languages")
		return nil, providerError(c.Name(), "languages request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, providerError(c.Name(), fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var languages []languagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&languages); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	codes := make([]string, 0, len(languages))
	for _, lang := range languages {
		codes = append(codes, lang.Code)
	}

	c.logger.WithFields(logrus.Fields{
		"count": len(codes),
	}).Debug("Fetched supported languages")

	return codes, nil
}
