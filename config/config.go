// Package config loads application configuration from YAML with sensible
// defaults.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// PathsConfig holds the storage roots. The markdown and vectorstores layouts
// (root/domain/subject) are load-bearing: the directory segments double as
// routing and collection keys.
type PathsConfig struct {
	Knowledgebase string `yaml:"knowledgebase"`
	Markdown      string `yaml:"markdown"`
	Vectorstores  string `yaml:"vectorstores"`
	Registry      string `yaml:"registry"`
}

// ModelsConfig selects the generation and embedding backends.
type ModelsConfig struct {
	Provider  string `yaml:"provider"` // ollama or openai
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Chat      string `yaml:"chat"`
	Embed     string `yaml:"embed"`
	EmbedDim  int    `yaml:"embed_dim"`
}

// RetrievalConfig tunes search and answer composition.
type RetrievalConfig struct {
	TopK      int  `yaml:"top_k"`
	FetchK    int  `yaml:"fetch_k"`
	ContextK  int  `yaml:"context_k"`
	Summarize bool `yaml:"summarize"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Workers int    `yaml:"workers"`
}

// IndexConfig selects the vector index backend.
type IndexConfig struct {
	Backend     string `yaml:"backend"` // sqlite or pgvector
	PostgresDSN string `yaml:"postgres_dsn"`
}

// Config is the root application configuration.
type Config struct {
	Paths     PathsConfig     `yaml:"paths"`
	Models    ModelsConfig    `yaml:"models"`
	Index     IndexConfig     `yaml:"index"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Server    ServerConfig    `yaml:"server"`
}

// Load reads a config from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Paths.Knowledgebase == "" {
		cfg.Paths.Knowledgebase = "data/knowledgebase"
	}
	if cfg.Paths.Markdown == "" {
		cfg.Paths.Markdown = "data/storage/markdown"
	}
	if cfg.Paths.Vectorstores == "" {
		cfg.Paths.Vectorstores = "data/storage/vectorstores"
	}
	if cfg.Paths.Registry == "" {
		cfg.Paths.Registry = "data/registry.db"
	}
	if cfg.Models.Provider == "" {
		cfg.Models.Provider = "ollama"
	}
	if cfg.Models.BaseURL == "" && cfg.Models.Provider == "ollama" {
		cfg.Models.BaseURL = "http://localhost:11434"
	}
	if cfg.Models.APIKeyEnv == "" {
		cfg.Models.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Models.Chat == "" {
		cfg.Models.Chat = "mistral:7b"
	}
	if cfg.Models.Embed == "" {
		cfg.Models.Embed = "qwen3-embedding:4b-q4_K_M"
	}
	if cfg.Models.EmbedDim == 0 {
		cfg.Models.EmbedDim = 1536
	}
	if cfg.Index.Backend == "" {
		cfg.Index.Backend = "sqlite"
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Retrieval.FetchK == 0 {
		cfg.Retrieval.FetchK = 12
	}
	if cfg.Retrieval.ContextK == 0 {
		cfg.Retrieval.ContextK = 8
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Server.Workers == 0 {
		cfg.Server.Workers = 1
	}
}
