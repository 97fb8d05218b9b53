// Package gemini is a minimal REST client for the Gemini generateContent
// and embedContent endpoints. It implements both capability interfaces the
// pipeline needs; calls are single-shot with a client-level timeout and no
// internal retry, so failure policy stays with the caller.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/docsage/docsage/pkg/chat"
	"github.com/docsage/docsage/pkg/genai"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Config configures the Gemini client.
type Config struct {
	APIKey     string
	Model      string // generation model, e.g. "gemini-2.0-flash"
	EmbedModel string // embedding model, e.g. "text-embedding-004"
	BaseURL    string
	Timeout    time.Duration
}

// Client talks to the Gemini REST API.
type Client struct {
	config Config
	client *http.Client
}

// New creates a Gemini client, applying defaults for anything unset.
func New(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("gemini: missing API key")
	}
	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}
	if config.EmbedModel == "" {
		config.EmbedModel = "text-embedding-004"
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate runs a generateContent call over the given history. History order
// is preserved verbatim; roles map 1:1 onto the wire roles.
func (c *Client) Generate(ctx context.Context, history []chat.Turn, systemInstruction string) (string, error) {
	req := generateRequest{
		Contents: make([]content, 0, len(history)),
	}
	if systemInstruction != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: systemInstruction}}}
	}
	for _, turn := range history {
		req.Contents = append(req.Contents, content{
			Role:  string(turn.Role),
			Parts: []part{{Text: turn.Text}},
		})
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.config.BaseURL, c.config.Model)
	var resp generateResponse
	if err := c.postJSON(ctx, "gemini generate", url, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &genai.UpstreamError{Op: "gemini generate", Err: errors.New("no candidates in response")}
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

type embedRequest struct {
	Content content `json:"content"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// Embed returns the dense vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	req := embedRequest{Content: content{Parts: []part{{Text: text}}}}

	url := fmt.Sprintf("%s/models/%s:embedContent", c.config.BaseURL, c.config.EmbedModel)
	var resp embedResponse
	if err := c.postJSON(ctx, "gemini embed", url, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, &genai.UpstreamError{Op: "gemini embed", Err: errors.New("no embedding in response")}
	}
	return resp.Embedding.Values, nil
}

func (c *Client) postJSON(ctx context.Context, op, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return &genai.UpstreamError{Op: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return &genai.UpstreamError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return &genai.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &genai.UpstreamError{Op: op, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &genai.UpstreamError{Op: op, Err: err}
	}
	return nil
}
