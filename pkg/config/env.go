package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment variables recognized by ApplyEnv.
const (
	EnvBaseURL        = "AURAX_OLLAMA_BASE_URL"
	EnvModel          = "AURAX_OLLAMA_MODEL"
	EnvTimeout        = "AURAX_OLLAMA_TIMEOUT_SECONDS"
	EnvMaxRetries     = "AURAX_OLLAMA_MAX_RETRIES"
	EnvRetryBackoff   = "AURAX_OLLAMA_RETRY_BACKOFF_SECONDS"
	EnvKeepAlive      = "AURAX_OLLAMA_KEEP_ALIVE"
	EnvExecTimeout    = "AURAX_EXEC_TIMEOUT_SECONDS"
	EnvMaxOutputBytes = "AURAX_MAX_OUTPUT_BYTES"
	EnvProjectsRoot   = "AURAX_PROJECTS_ROOT"
	EnvPython         = "AURAX_PYTHON"
	EnvLogFile        = "AURAX_LOG_FILE"
	EnvJSONLogs       = "AURAX_JSON_LOGS"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from the environment. Values that fail to parse
// or are out of range leave the current value in place and add a warning.
func (cfg *Config) ApplyEnv(lookup LookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	// num accepts integers in [min, max]; max <= 0 means unbounded.
	num := func(key string, dst *int, min, max int) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		switch {
		case err != nil || n < min:
			cfg.warnf("ignoring %s=%q: expected an integer >= %d", key, v, min)
		case max > 0 && n > max:
			cfg.warnf("ignoring %s=%q: expected an integer between %d and %d", key, v, min, max)
		default:
			*dst = n
		}
	}

	if v, ok := lookup(EnvBaseURL); ok && strings.TrimSpace(v) != "" {
		if u := strings.TrimRight(strings.TrimSpace(v), "/"); validBaseURL(u) {
			cfg.OllamaBaseURL = u
		} else {
			cfg.warnf("ignoring %s=%q: expected an http(s) URL", EnvBaseURL, v)
		}
	}
	cfg.OllamaBaseURL = strings.TrimRight(cfg.OllamaBaseURL, "/")
	str(EnvModel, &cfg.Model)
	num(EnvTimeout, &cfg.TimeoutSeconds, 1, 0)
	num(EnvMaxRetries, &cfg.MaxRetries, 0, maxRetriesLimit)
	if v, ok := lookup(EnvRetryBackoff); ok && strings.TrimSpace(v) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || f < 0 {
			cfg.warnf("ignoring %s=%q: expected a non-negative number", EnvRetryBackoff, v)
		} else {
			cfg.RetryBackoffSeconds = f
		}
	}
	str(EnvKeepAlive, &cfg.KeepAlive)
	num(EnvExecTimeout, &cfg.ExecTimeoutSeconds, 1, 0)
	num(EnvMaxOutputBytes, &cfg.MaxOutputBytes, minOutputBytes, 0)
	str(EnvProjectsRoot, &cfg.ProjectsRoot)
	str(EnvPython, &cfg.PythonPath)
	str(EnvLogFile, &cfg.LogFile)
	if v, ok := lookup(EnvJSONLogs); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			cfg.JSONLogs = true
		case "", "0", "false", "no", "off":
			cfg.JSONLogs = false
		default:
			cfg.warnf("ignoring %s=%q: expected a boolean", EnvJSONLogs, v)
		}
	}
}

func (cfg *Config) warnf(format string, args ...interface{}) {
	cfg.Warnings = append(cfg.Warnings, fmt.Sprintf(format, args...))
}
