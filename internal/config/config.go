// Package config loads the application configuration from a YAML file
// and derives the data-directory layout from it.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// EmbedderConfig configures the Ollama embedding client.
type EmbedderConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// LLMConfig configures the Groq chat-completion client. The API key is
// never stored in the file; APIKeyEnv names the environment variable
// that carries it.
type LLMConfig struct {
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// ChunkerConfig configures how ingested text is split into chunks.
type ChunkerConfig struct {
	MaxWords     int `yaml:"max_words"`
	OverlapWords int `yaml:"overlap_words"`
}

// RetrievalConfig configures nearest-neighbor retrieval.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DataDir   string          `yaml:"data_dir"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	LLM       LLMConfig       `yaml:"llm"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// Load reads a config from path. A missing file yields the defaults; a
// partial file is filled in with them.
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

// LoadDefault tries ./askcorpus.yaml first, then
// ~/.config/askcorpus/config.yaml. If neither exists, it writes the
// defaults to the user path and returns them.
func LoadDefault() (*Config, string, error) {
	cwdPath := "askcorpus.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":8080"},
		DataDir: "data",
		Embedder: EmbedderConfig{
			BaseURL: "http://localhost:11434",
			Model:   "nomic-embed-text",
		},
		LLM: LLMConfig{
			BaseURL:   "https://api.groq.com/openai/v1",
			Model:     "llama-3.3-70b-versatile",
			APIKeyEnv: "GROQ_API_KEY",
		},
		Chunker:   ChunkerConfig{MaxWords: 400, OverlapWords: 80},
		Retrieval: RetrievalConfig{TopK: 5},
	}
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.Embedder.BaseURL == "" {
		cfg.Embedder.BaseURL = def.Embedder.BaseURL
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = def.Embedder.Model
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = def.LLM.BaseURL
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = def.LLM.APIKeyEnv
	}
	if cfg.Chunker.MaxWords == 0 {
		cfg.Chunker.MaxWords = def.Chunker.MaxWords
	}
	if cfg.Chunker.OverlapWords == 0 {
		cfg.Chunker.OverlapWords = def.Chunker.OverlapWords
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = def.Retrieval.TopK
	}
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "askcorpus", "config.yaml"), nil
}

// Data-directory layout. Everything the engine persists lives under
// DataDir; these helpers keep the paths in one place.

// RawPDFsDir holds ingested PDF files.
func (c *Config) RawPDFsDir() string { return filepath.Join(c.DataDir, "raw", "raw_pdfs") }

// RawTextDir mirrors the extracted text of each ingested PDF.
func (c *Config) RawTextDir() string { return filepath.Join(c.DataDir, "raw", "raw_text") }

// RawWebDir caches the readable text of fetched web pages.
func (c *Config) RawWebDir() string { return filepath.Join(c.DataDir, "raw", "raw_web") }

// IndexPath is the SQLite file holding records and vectors.
func (c *Config) IndexPath() string { return filepath.Join(c.DataDir, "vectors", "index.db") }
