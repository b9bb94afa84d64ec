package config

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	maxRetriesLimit = 10
	minOutputBytes  = 1024
)

func validBaseURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ValidationResult contains the result of a configuration validation
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
}

// IsValid returns true if there are no errors
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ErrorMessages returns all error messages as a slice
func (r *ValidationResult) ErrorMessages() []string {
	messages := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		messages[i] = err.Error()
	}
	return messages
}

// CombinedError returns all errors as a single error
func (r *ValidationResult) CombinedError() error {
	if len(r.Errors) == 0 {
		return nil
	}

	messages := r.ErrorMessages()
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(messages, "\n"))
}

func (r *ValidationResult) add(field, message string) {
	r.Errors = append(r.Errors, *NewValidationError(field, message))
}

// ValidateAll checks every field and collects all problems.
func (cfg *Config) ValidateAll() *ValidationResult {
	result := &ValidationResult{Warnings: append([]string(nil), cfg.Warnings...)}

	if !validBaseURL(cfg.OllamaBaseURL) {
		result.add("ollama_base_url", fmt.Sprintf("must be an http(s) URL, got %q", cfg.OllamaBaseURL))
	}
	if strings.TrimSpace(cfg.Model) == "" {
		result.add("model", "cannot be empty")
	}
	if cfg.TimeoutSeconds < 1 {
		result.add("timeout_seconds", "must be at least 1")
	}
	if cfg.MaxRetries < 0 || cfg.MaxRetries > maxRetriesLimit {
		result.add("max_retries", fmt.Sprintf("must be between 0 and %d", maxRetriesLimit))
	}
	if cfg.RetryBackoffSeconds < 0 {
		result.add("retry_backoff_seconds", "cannot be negative")
	}
	if cfg.Temperature < 0.0 || cfg.Temperature > 2.0 {
		result.add("temperature", "must be between 0.0 and 2.0")
	}
	if cfg.TopP < 0.0 || cfg.TopP > 1.0 {
		result.add("top_p", "must be between 0.0 and 1.0")
	}
	if cfg.ExecTimeoutSeconds < 1 {
		result.add("exec_timeout_seconds", "must be at least 1")
	}
	if cfg.MaxOutputBytes < minOutputBytes {
		result.add("max_output_bytes", fmt.Sprintf("must be at least %d", minOutputBytes))
	}
	if strings.TrimSpace(cfg.ProjectsRoot) == "" {
		result.add("projects_root", "cannot be empty")
	}

	if cfg.Temperature > 1.5 {
		result.Warnings = append(result.Warnings, "High temperature (>1.5) may lead to unpredictable outputs")
	}
	if cfg.KeepAlive != "" && cfg.KeepAliveDuration() == 0 && cfg.KeepAlive != "0" && cfg.KeepAlive != "0s" {
		result.Warnings = append(result.Warnings, fmt.Sprintf("keep_alive %q is not a duration and will be ignored", cfg.KeepAlive))
	}

	return result
}

// Validate returns the combined validation error, or nil.
func (cfg *Config) Validate() error {
	return cfg.ValidateAll().CombinedError()
}
