package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StorageConfig configures the on-disk knowledge base location.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// AIConfig configures the inference endpoints and models.
type AIConfig struct {
	EmbeddingHost      string `yaml:"embedding_host"`
	ExtractorHost      string `yaml:"extractor_host"`
	EmbeddingModel     string `yaml:"embedding_model"`
	ExtractorModel     string `yaml:"extractor_model"`
	EmbeddingDimension int    `yaml:"embedding_dimension"`
	MaxKeywords        int    `yaml:"max_keywords"`
}

// SearchConfig configures result presentation defaults.
type SearchConfig struct {
	Results int `yaml:"results"`
}

// ReembedConfig configures the batch re-embedding operation.
type ReembedConfig struct {
	BatchSize int `yaml:"batch_size"`
	Workers   int `yaml:"workers"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Storage StorageConfig `yaml:"storage"`
	Chunker ChunkerConfig `yaml:"chunker"`
	AI      AIConfig      `yaml:"ai"`
	Search  SearchConfig  `yaml:"search"`
	Reembed ReembedConfig `yaml:"reembed"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./scholarkb.yaml first, then ~/.config/scholarkb/config.yaml.
// If neither exists, it writes defaults to ~/.config/scholarkb/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "scholarkb.yaml"
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
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "scholarkb", "config.yaml"), nil
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "scholarkb-data")
	}
	return filepath.Join(home, ".local", "share", "scholarkb")
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Storage: StorageConfig{Path: defaultDataPath()},
		Chunker: ChunkerConfig{Size: 500, Overlap: 50},
		AI: AIConfig{
			EmbeddingHost:      "http://localhost:11434",
			ExtractorHost:      "http://localhost:11434",
			EmbeddingModel:     "embeddinggemma",
			ExtractorModel:     "qwen2.5:3b",
			EmbeddingDimension: 768,
			MaxKeywords:        8,
		},
		Search:  SearchConfig{Results: 10},
		Reembed: ReembedConfig{BatchSize: 100, Workers: 0},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	defaults := defaultConfig()

	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaults.Storage.Path
	}
	if cfg.Chunker.Size == 0 {
		cfg.Chunker.Size = defaults.Chunker.Size
	}
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = defaults.AI.EmbeddingHost
	}
	if cfg.AI.ExtractorHost == "" {
		cfg.AI.ExtractorHost = cfg.AI.EmbeddingHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = defaults.AI.EmbeddingModel
	}
	if cfg.AI.ExtractorModel == "" {
		cfg.AI.ExtractorModel = defaults.AI.ExtractorModel
	}
	if cfg.AI.EmbeddingDimension == 0 {
		cfg.AI.EmbeddingDimension = defaults.AI.EmbeddingDimension
	}
	if cfg.AI.MaxKeywords == 0 {
		cfg.AI.MaxKeywords = defaults.AI.MaxKeywords
	}
	if cfg.Search.Results == 0 {
		cfg.Search.Results = defaults.Search.Results
	}
	if cfg.Reembed.BatchSize == 0 {
		cfg.Reembed.BatchSize = defaults.Reembed.BatchSize
	}
}
