package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultModel         = "qwen2.5:7b"
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultProjectsRoot  = "projects"
	DefaultConfigPath    = ".aurax/config.json"
	DefaultLogFile       = ".aurax/aurax.log"
)

// Config is the single process-wide configuration value. It is built once by
// Load and handed to component constructors; nothing reads the environment
// after that.
type Config struct {
	// Generation service
	OllamaBaseURL       string  `json:"ollama_base_url"`
	Model               string  `json:"model"`
	TimeoutSeconds      int     `json:"timeout_seconds"`       // per-attempt deadline
	MaxRetries          int     `json:"max_retries"`           // retries after the first attempt
	RetryBackoffSeconds float64 `json:"retry_backoff_seconds"` // doubled on each retry, 0 disables
	KeepAlive           string  `json:"keep_alive"`

	// Sampling
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumCtx      int     `json:"num_ctx"`

	// Execution
	ExecTimeoutSeconds int    `json:"exec_timeout_seconds"`
	MaxOutputBytes     int    `json:"max_output_bytes"`
	PythonPath         string `json:"python_path"`

	// Filesystem and logging
	ProjectsRoot string `json:"projects_root"`
	LogFile      string `json:"log_file"`
	JSONLogs     bool   `json:"json_logs"`

	// Warnings collected while loading; not persisted.
	Warnings []string `json:"-"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		OllamaBaseURL:       DefaultOllamaBaseURL,
		Model:               DefaultModel,
		TimeoutSeconds:      240,
		MaxRetries:          2,
		RetryBackoffSeconds: 1.5,
		KeepAlive:           "30m",
		Temperature:         0.1,
		TopP:                0.85,
		NumCtx:              3072,
		ExecTimeoutSeconds:  45,
		MaxOutputBytes:      64 * 1024,
		ProjectsRoot:        DefaultProjectsRoot,
		LogFile:             DefaultLogFile,
	}
}

// Load builds the configuration from defaults, the optional JSON file at path
// and the AURAX_* environment. A missing file is not an error; a file that
// exists but cannot be parsed is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	// Unmarshal over the defaults so fields absent from the file keep them.
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration as indented JSON, creating parent directories.
func (cfg *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RequestTimeout is the per-attempt deadline for generation calls.
func (cfg *Config) RequestTimeout() time.Duration {
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

// RetryBackoff is the base sleep between generation attempts.
func (cfg *Config) RetryBackoff() time.Duration {
	return time.Duration(cfg.RetryBackoffSeconds * float64(time.Second))
}

// ExecTimeout is the wall-clock limit for one run of the generated entry file.
func (cfg *Config) ExecTimeout() time.Duration {
	return time.Duration(cfg.ExecTimeoutSeconds) * time.Second
}

// KeepAliveDuration parses KeepAlive, returning 0 when it is unset or invalid.
func (cfg *Config) KeepAliveDuration() time.Duration {
	if cfg.KeepAlive == "" {
		return 0
	}
	d, err := time.ParseDuration(cfg.KeepAlive)
	if err != nil {
		return 0
	}
	return d
}
