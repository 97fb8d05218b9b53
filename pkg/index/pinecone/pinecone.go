// Package pinecone is a minimal REST client for a Pinecone serverless
// index. It covers exactly the two operations the system needs: top-K
// similarity query with text metadata, and vector upsert for ingestion.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/docsage/docsage/pkg/genai"
	"github.com/docsage/docsage/pkg/index"
)

// Config configures the Pinecone client. Host is the index endpoint
// (e.g. "https://my-index-abc123.svc.us-east-1.pinecone.io").
type Config struct {
	Host      string
	APIKey    string
	Namespace string
	Timeout   time.Duration
}

// Client talks to one Pinecone index over its REST API.
type Client struct {
	config Config
	client *http.Client
}

// New creates a Pinecone client.
func New(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	Namespace       string    `json:"namespace,omitempty"`
}

type queryResponse struct {
	Matches []struct {
		Score    float32 `json:"score"`
		Metadata struct {
			Text string `json:"text"`
		} `json:"metadata"`
	} `json:"matches"`
}

// Query returns the topK nearest passages in the order Pinecone ranks them.
func (c *Client) Query(ctx context.Context, vector []float32, topK int) ([]index.Match, error) {
	req := queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
		Namespace:       c.config.Namespace,
	}
	var resp queryResponse
	if err := c.postJSON(ctx, "pinecone query", c.config.Host+"/query", req, &resp); err != nil {
		return nil, err
	}
	matches := make([]index.Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, index.Match{Text: m.Metadata.Text, Score: m.Score})
	}
	return matches, nil
}

type upsertVector struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata"`
}

type upsertRequest struct {
	Vectors   []upsertVector `json:"vectors"`
	Namespace string         `json:"namespace,omitempty"`
}

// Upsert stores passage vectors with their text metadata.
func (c *Client) Upsert(ctx context.Context, items []index.Item) error {
	req := upsertRequest{
		Vectors:   make([]upsertVector, 0, len(items)),
		Namespace: c.config.Namespace,
	}
	for _, item := range items {
		req.Vectors = append(req.Vectors, upsertVector{
			ID:       item.ID,
			Values:   item.Values,
			Metadata: map[string]string{"text": item.Text},
		})
	}
	return c.postJSON(ctx, "pinecone upsert", c.config.Host+"/vectors/upsert", req, nil)
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
	req.Header.Set("Api-Key", c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return &genai.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &genai.UpstreamError{Op: op, Status: resp.StatusCode}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &genai.UpstreamError{Op: op, Err: err}
		}
	}
	return nil
}
