package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Genius   GeniusConfig   `toml:"genius"`
	SearxNG  SearxNGConfig  `toml:"searxng"`
	Ollama   OllamaConfig   `toml:"ollama"`
	Chroma   ChromaConfig   `toml:"chroma"`
	Database DatabaseConfig `toml:"database"`
	Importer ImporterConfig `toml:"importer"`
}

// GeniusConfig contains Genius API credentials and endpoint settings.
type GeniusConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// SearxNGConfig contains the SearxNG metasearch instance settings.
type SearxNGConfig struct {
	BaseURL string `toml:"base_url"`
}

// OllamaConfig contains the Ollama server and model settings.
type OllamaConfig struct {
	BaseURL     string  `toml:"base_url"`
	ChatModel   string  `toml:"chat_model"`
	EmbedModel  string  `toml:"embed_model"`
	Temperature float64 `toml:"temperature"`
}

// ChromaConfig contains the Chroma vector store settings.
type ChromaConfig struct {
	BaseURL    string `toml:"base_url"`
	Collection string `toml:"collection"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ImporterConfig contains batch import settings.
type ImporterConfig struct {
	ChunkSize int     `toml:"chunk_size"`
	RateLimit float64 `toml:"rate_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
