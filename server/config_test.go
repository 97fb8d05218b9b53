package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", config.ListenAddr)
	assert.Equal(t, 2, config.TopK)
	assert.Equal(t, "gemini-2.0-flash", config.Gemini.Model)
	assert.Equal(t, "text-embedding-004", config.Gemini.EmbedModel)
	assert.Equal(t, "sqlite", config.Index.Backend)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsage.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr = ":6061"
top_k = 4

[gemini]
model = "gemini-2.5-flash"

[index]
backend = "pinecone"

[index.pinecone]
host = "https://dsa-abc123.svc.us-east-1.pinecone.io"
namespace = "dsa"
`), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":6061", config.ListenAddr)
	assert.Equal(t, 4, config.TopK)
	assert.Equal(t, "gemini-2.5-flash", config.Gemini.Model)
	// Untouched fields keep their defaults.
	assert.Equal(t, "text-embedding-004", config.Gemini.EmbedModel)
	assert.Equal(t, "pinecone", config.Index.Backend)
	assert.Equal(t, "dsa", config.Index.Pinecone.Namespace)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/does/not/exist.toml")
	assert.Error(t, err)
}

func TestLoadConfigInvalidTopK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsage.toml")
	require.NoError(t, os.WriteFile(path, []byte("top_k = 0\n"), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, config.TopK)
}
