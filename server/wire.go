package server

import (
	"fmt"
	"os"
	"time"

	"github.com/docsage/docsage/pkg/genai/gemini"
	"github.com/docsage/docsage/pkg/index"
	"github.com/docsage/docsage/pkg/index/pinecone"
	"github.com/docsage/docsage/pkg/index/sqlitevec"
)

// NewGeminiClient builds the Gemini client from config, pulling the API
// key from the configured environment variable.
func (c GeminiConfig) NewGeminiClient() (*gemini.Client, error) {
	key := os.Getenv(c.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", c.APIKeyEnv)
	}
	return gemini.New(gemini.Config{
		APIKey:     key,
		Model:      c.Model,
		EmbedModel: c.EmbedModel,
		Timeout:    time.Duration(c.TimeoutSecs) * time.Second,
	})
}

// OpenIndex builds the configured similarity-index backend. The returned
// close function releases backend resources; it may be a no-op.
func (c IndexConfig) OpenIndex() (index.Index, func() error, error) {
	switch c.Backend {
	case "pinecone":
		key := os.Getenv(c.Pinecone.APIKeyEnv)
		if key == "" {
			return nil, nil, fmt.Errorf("missing API key in env %s", c.Pinecone.APIKeyEnv)
		}
		if c.Pinecone.Host == "" {
			return nil, nil, fmt.Errorf("pinecone backend requires index.pinecone.host")
		}
		client := pinecone.New(pinecone.Config{
			Host:      c.Pinecone.Host,
			APIKey:    key,
			Namespace: c.Pinecone.Namespace,
			Timeout:   time.Duration(c.Pinecone.TimeoutSecs) * time.Second,
		})
		return client, func() error { return nil }, nil
	case "sqlite", "":
		store, err := sqlitevec.Open(c.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown index backend %q", c.Backend)
	}
}
