package openaiassist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"soul-portrait/internal/platform/httpclient"
	"soul-portrait/internal/ports/assistant"
)

var (
	ErrNotConfigured = errors.New("assistant client not configured")
	ErrUpstream      = errors.New("assistant upstream error")
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config del cliente de Assistants.
// APIKey y AssistantID vienen de env en quien lo instancia (main).
type Config struct {
	BaseURL     string
	APIKey      string
	AssistantID string
	Timeout     time.Duration

	// Transport inyectable para tests.
	Transport http.RoundTripper
}

// Client implementa assistant.Runner contra la API de Assistants v2.
// submit = crear thread con el mensaje, start = crear run sobre el
// thread (un retry crea otro run, el thread conserva el input).
type Client struct {
	http        *httpclient.Client
	assistantID string
	configured  bool
}

func NewClient(cfg Config) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	assistantID := strings.TrimSpace(cfg.AssistantID)

	return &Client{
		http: httpclient.New(httpclient.Config{
			BaseURL: base,
			Timeout: cfg.Timeout,
			Headers: map[string]string{
				"Authorization": "Bearer " + apiKey,
				"OpenAI-Beta":   "assistants=v2",
			},
			Transport: cfg.Transport,
		}),
		assistantID: assistantID,
		configured:  apiKey != "" && assistantID != "",
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.configured
}

type threadResponse struct {
	ID string `json:"id"`
}

func (c *Client) SubmitThread(ctx context.Context, message string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	in := map[string]any{
		"messages": []map[string]string{
			{"role": "user", "content": message},
		},
	}

	var out threadResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, "/threads", in, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if strings.TrimSpace(out.ID) == "" {
		return "", fmt.Errorf("%w: thread response missing id", ErrUpstream)
	}
	return out.ID, nil
}

type runResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	LastError *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"last_error"`
}

func (c *Client) StartRun(ctx context.Context, threadID string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	in := map[string]string{"assistant_id": c.assistantID}

	var out runResponse
	path := fmt.Sprintf("/threads/%s/runs", threadID)
	if err := c.http.DoJSON(ctx, http.MethodPost, path, in, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if strings.TrimSpace(out.ID) == "" {
		return "", fmt.Errorf("%w: run response missing id", ErrUpstream)
	}
	return out.ID, nil
}

func (c *Client) PollRun(ctx context.Context, threadID, runID string) (assistant.Run, error) {
	if !c.IsConfigured() {
		return assistant.Run{}, ErrNotConfigured
	}

	var out runResponse
	path := fmt.Sprintf("/threads/%s/runs/%s", threadID, runID)
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return assistant.Run{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	run := assistant.Run{
		ID: out.ID,
		// El status viaja tal cual; el state machine decide qué hacer
		// con valores que no reconoce.
		Status: assistant.RunStatus(out.Status),
	}
	if out.LastError != nil {
		run.LastError = strings.TrimSpace(out.LastError.Code + " " + out.LastError.Message)
	}
	return run, nil
}

type messagesResponse struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text *struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

// LatestMessage trae el mensaje más reciente del thread.
func (c *Client) LatestMessage(ctx context.Context, threadID string) (assistant.Message, error) {
	if !c.IsConfigured() {
		return assistant.Message{}, ErrNotConfigured
	}

	var out messagesResponse
	path := fmt.Sprintf("/threads/%s/messages?order=desc&limit=1", threadID)
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return assistant.Message{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(out.Data) == 0 || len(out.Data[0].Content) == 0 {
		return assistant.Message{}, assistant.ErrNoMessages
	}

	content := out.Data[0].Content[0]
	msg := assistant.Message{Kind: content.Type}
	if content.Type == assistant.MessageKindText && content.Text != nil {
		msg.Text = content.Text.Value
	}
	return msg, nil
}
