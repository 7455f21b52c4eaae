// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AIConfig struct {
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	OpenAIKey       string `yaml:"openai_key"`
	DefaultModel    string `yaml:"default_model"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
}

type ResearchConfig struct {
	ResultsDir    string `yaml:"results_dir"`
	StaticDir     string `yaml:"static_dir"`
	DownloadDir   string `yaml:"download_dir"`
	MaxResults    int    `yaml:"max_results"`     // search hits requested from the index
	MaxDeepPapers int    `yaml:"max_deep_papers"` // hits that get text/image extraction
	MaxPages      int    `yaml:"max_pages"`       // pages of text/images per document
	MinImageBytes int    `yaml:"min_image_bytes"` // smaller embedded images are presumed icons
	ContextChars  int    `yaml:"context_chars"`   // per-paper text budget in the prompt
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	AI       AIConfig       `yaml:"ai"`
	Research ResearchConfig `yaml:"research"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gemini-2.0-flash"
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 4096
	}
	if cfg.Research.ResultsDir == "" {
		cfg.Research.ResultsDir = "results"
	}
	if cfg.Research.StaticDir == "" {
		cfg.Research.StaticDir = "static"
	}
	if cfg.Research.DownloadDir == "" {
		cfg.Research.DownloadDir = "downloaded_papers"
	}
	if cfg.Research.MaxResults <= 0 {
		cfg.Research.MaxResults = 10
	}
	if cfg.Research.MaxDeepPapers <= 0 {
		cfg.Research.MaxDeepPapers = 5
	}
	if cfg.Research.MaxPages <= 0 {
		cfg.Research.MaxPages = 5
	}
	if cfg.Research.MinImageBytes <= 0 {
		cfg.Research.MinImageBytes = 1000
	}
	if cfg.Research.ContextChars <= 0 {
		cfg.Research.ContextChars = 1000
	}

	// Minimal validation
	if cfg.AI.GeminiKey == "" && cfg.AI.OpenAIKey == "" {
		return nil, errors.New("ai.gemini_key or ai.openai_key is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
