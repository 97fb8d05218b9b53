package server

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the service configuration, loaded from a TOML file with
// environment variables supplying the API keys.
type Config struct {
	// Address to listen on (e.g., ":8080")
	ListenAddr string `toml:"listen_addr"`

	// TopK is how many passages each query retrieves.
	TopK int `toml:"top_k"`

	Gemini GeminiConfig `toml:"gemini"`
	Index  IndexConfig  `toml:"index"`
}

// GeminiConfig selects the generation and embedding models.
type GeminiConfig struct {
	Model       string `toml:"model"`
	EmbedModel  string `toml:"embed_model"`
	APIKeyEnv   string `toml:"api_key_env"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// IndexConfig selects and configures the similarity-index backend.
type IndexConfig struct {
	// Backend is "pinecone" or "sqlite".
	Backend  string         `toml:"backend"`
	Pinecone PineconeConfig `toml:"pinecone"`
	SQLite   SQLiteConfig   `toml:"sqlite"`
}

// PineconeConfig holds the hosted index connection details.
type PineconeConfig struct {
	Host        string `toml:"host"`
	APIKeyEnv   string `toml:"api_key_env"`
	Namespace   string `toml:"namespace"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// SQLiteConfig holds the local index location.
type SQLiteConfig struct {
	Path string `toml:"path"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8080",
		TopK:       2,
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash",
			EmbedModel:  "text-embedding-004",
			APIKeyEnv:   "GEMINI_API_KEY",
			TimeoutSecs: 60,
		},
		Index: IndexConfig{
			Backend: "sqlite",
			Pinecone: PineconeConfig{
				APIKeyEnv:   "PINECONE_API_KEY",
				TimeoutSecs: 15,
			},
			SQLite: SQLiteConfig{
				Path: "docsage.db",
			},
		},
	}
}

// LoadConfig reads a TOML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}
	if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("config file: %w", err)
	}
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if config.TopK < 1 {
		config.TopK = DefaultConfig().TopK
	}
	return config, nil
}
