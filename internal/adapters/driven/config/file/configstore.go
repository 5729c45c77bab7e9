package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/parley-labs/edumap-cli/internal/core/domain"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "edumap.toml"

// Config is the persisted pipeline configuration.
type Config struct {
	// Data is the artifact root directory.
	Data DataConfig `toml:"data"`

	// Parser selects the discourse parser backend.
	Parser ParserConfig `toml:"parser"`

	// Embedding selects the embedder backend and model.
	Embedding EmbeddingConfig `toml:"embedding"`

	// Cluster holds the k-means parameters.
	Cluster ClusterConfig `toml:"cluster"`

	// Attach holds the satellite attachment parameters.
	Attach AttachConfig `toml:"attach"`
}

// DataConfig locates the artifact directory.
type DataConfig struct {
	Dir string `toml:"dir"`
}

// ParserConfig selects the parser backend.
type ParserConfig struct {
	// Backend is the parser to use; "sentencesplit" is the shipped stub.
	Backend string `toml:"backend"`
}

// EmbeddingConfig selects the embedder backend.
type EmbeddingConfig struct {
	// Backend is one of "stub", "ollama", "openai".
	Backend string `toml:"backend"`

	// Model is the embedding model identifier.
	Model string `toml:"model"`

	// BaseURL overrides the backend endpoint.
	BaseURL string `toml:"base_url"`

	// Dimension is the stub backend's vector width.
	Dimension int `toml:"dimension"`
}

// ClusterConfig holds the k-means parameters.
type ClusterConfig struct {
	K    int   `toml:"k"`
	Seed int64 `toml:"seed"`
}

// AttachConfig holds the attachment parameters.
type AttachConfig struct {
	// Metric is "cosine" or "dot".
	Metric string `toml:"metric"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Data:      DataConfig{Dir: "data"},
		Parser:    ParserConfig{Backend: "sentencesplit"},
		Embedding: EmbeddingConfig{Backend: "stub", Model: "stub"},
		Cluster:   ClusterConfig{K: 5, Seed: 13},
		Attach:    AttachConfig{Metric: string(domain.MetricCosine)},
	}
}

// Load reads the configuration from path. An empty path means
// ./edumap.toml. A missing file yields the defaults; a malformed file is
// an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultFileName
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultFileName
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
