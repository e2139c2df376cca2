package openaiimages

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"soul-portrait/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("image client not configured")
	ErrUpstream      = errors.New("image upstream error")
	ErrNoImage       = errors.New("no image generated")
)

const defaultBaseURL = "https://api.openai.com/v1"

// Parámetros fijos de síntesis; el producto siempre pide lo mismo.
const (
	model   = "dall-e-3"
	size    = "1024x1024"
	quality = "standard"
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	Transport http.RoundTripper
}

// Client implementa images.Generator contra la API de imágenes.
type Client struct {
	http       *httpclient.Client
	configured bool
}

func NewClient(cfg Config) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	apiKey := strings.TrimSpace(cfg.APIKey)

	return &Client{
		http: httpclient.New(httpclient.Config{
			BaseURL: base,
			Timeout: cfg.Timeout,
			Headers: map[string]string{
				"Authorization": "Bearer " + apiKey,
			},
			Transport: cfg.Transport,
		}),
		configured: apiKey != "",
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.configured
}

type generateResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Generate pide exactamente una imagen y exige una URL no vacía.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	in := map[string]any{
		"model":   model,
		"prompt":  prompt,
		"size":    size,
		"quality": quality,
		"n":       1,
	}

	var out generateResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, "/images/generations", in, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(out.Data) == 0 || strings.TrimSpace(out.Data[0].URL) == "" {
		return "", ErrNoImage
	}
	return out.Data[0].URL, nil
}
