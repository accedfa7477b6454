package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"livecap/internal/media"
	"livecap/internal/services"
)

const defaultHTTPTimeout = 10 * time.Second

// Client calls a JSON translation endpoint implementing media.Translator.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option customizes the translation client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewClient constructs a translation client against baseURL.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

type translateRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language,omitempty"`
	TargetLanguage string `json:"target_language"`
}

type translateResponse struct {
	TranslatedText string  `json:"translated_text"`
	Confidence     float64 `json:"confidence"`
	Error          *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Translate converts text into the target language. Failures are wrapped as
// translation-stage errors; the caller decides whether to fall back to the
// untranslated text.
func (c *Client) Translate(ctx context.Context, text, source, target string) (media.Translation, error) {
	var empty media.Translation
	text = strings.TrimSpace(text)
	if text == "" {
		return empty, wrapErr("translate", errors.New("text required"))
	}
	if c.baseURL == "" {
		return empty, wrapErr("translate", errors.New("base url required"))
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return empty, wrapErr("translate", errors.New("target language required"))
	}

	endpoint, err := url.JoinPath(c.baseURL, "/v1/translate")
	if err != nil {
		return empty, wrapErr("build url", err)
	}
	encoded, err := json.Marshal(translateRequest{
		Text:           text,
		SourceLanguage: strings.TrimSpace(source),
		TargetLanguage: target,
	})
	if err != nil {
		return empty, wrapErr("encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return empty, wrapErr("request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, wrapErr("request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, wrapErr("read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return empty, wrapErr("http", fmt.Errorf("%d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var decoded translateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return empty, wrapErr("decode response", err)
	}
	if decoded.Error != nil {
		return empty, wrapErr("api error", errors.New(strings.TrimSpace(decoded.Error.Message)))
	}
	if strings.TrimSpace(decoded.TranslatedText) == "" {
		return empty, wrapErr("decode response", errors.New("empty translation"))
	}
	if decoded.Confidence < 0 {
		decoded.Confidence = 0
	}
	if decoded.Confidence > 1 {
		decoded.Confidence = 1
	}
	return media.Translation{Text: decoded.TranslatedText, Confidence: decoded.Confidence}, nil
}

func wrapErr(op string, err error) error {
	return services.Wrap(services.ErrTranslation, "translation", op, "", err)
}
