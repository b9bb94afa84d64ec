// Package llm is the generation client: it sends a prompt to an Ollama
// compatible server and returns the raw reply text, applying the per-attempt
// timeout and retry policy from config.Config.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/Saikiran1923/Aura-x/pkg/config"
	"github.com/Saikiran1923/Aura-x/pkg/utils"
	ollama "github.com/ollama/ollama/api"
)

// Generator is the capability the pipeline needs from a text-generation
// service.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Options tunes a single Generate call. Zero values fall back to the client
// defaults.
type Options struct {
	Timeout     time.Duration // per-attempt deadline
	MaxRetries  *int          // retries after the first attempt
	Temperature float64
	TopP        float64
	NumCtx      int
	NumPredict  int
}

// Retries is a helper for Options.MaxRetries.
func Retries(n int) *int {
	return &n
}

// ollamaAPI is the part of *ollama.Client used here.
type ollamaAPI interface {
	Generate(ctx context.Context, req *ollama.GenerateRequest, fn ollama.GenerateResponseFunc) error
	List(ctx context.Context) (*ollama.ListResponse, error)
}

// Client is a stateless generation client; it is safe to share.
type Client struct {
	api        ollamaAPI
	httpClient *http.Client
	model      string
	keepAlive  time.Duration
	timeout    time.Duration
	maxRetries int
	backoff    utils.Backoff
	defaults   Options
	logger     *utils.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used to reach the server.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithLogger sets the logger.
func WithLogger(logger *utils.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient builds a client for cfg.OllamaBaseURL.
func NewClient(cfg *config.Config, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.OllamaBaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url %q: %w", cfg.OllamaBaseURL, err)
	}

	c := &Client{
		httpClient: &http.Client{},
		model:      strings.TrimPrefix(cfg.Model, "ollama:"),
		keepAlive:  cfg.KeepAliveDuration(),
		timeout:    cfg.RequestTimeout(),
		maxRetries: cfg.MaxRetries,
		backoff:    utils.NewBackoff(cfg.RetryBackoff()),
		defaults: Options{
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			NumCtx:      cfg.NumCtx,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient = withStatusTransport(c.httpClient)
	if c.api == nil {
		c.api = ollama.NewClient(base, c.httpClient)
	}
	return c, nil
}

// Model returns the model identifier sent with each request.
func (c *Client) Model() string {
	return c.model
}

// Generate sends prompt and returns the trimmed reply. Transient failures are
// retried; the final error is an *Error of kind ErrGenerationUnavailable or
// ErrGenerationMalformed.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	timeout := c.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	retries := c.maxRetries
	if opts.MaxRetries != nil && *opts.MaxRetries >= 0 {
		retries = *opts.MaxRetries
	}
	req := c.buildRequest(prompt, opts)

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			if err := c.backoff.Wait(ctx, attempt); err != nil {
				return "", &Error{Kind: ErrGenerationUnavailable, Attempts: attempt, Err: err}
			}
		}

		start := time.Now()
		reply, err := c.attempt(ctx, req, timeout)
		if err == nil {
			c.logger.Logf("generation ok: model=%s attempt=%d duration=%s bytes=%d", c.model, attempt+1, time.Since(start).Round(time.Millisecond), len(reply))
			if strings.TrimSpace(reply) == "" {
				return "", &Error{Kind: ErrGenerationMalformed, Attempts: attempt + 1, Err: errors.New("empty response")}
			}
			return strings.TrimSpace(reply), nil
		}

		if ctx.Err() != nil {
			// The caller gave up; do not spend more attempts.
			return "", &Error{Kind: ErrGenerationUnavailable, Attempts: attempt + 1, Err: ctx.Err()}
		}
		lastErr = err
		if isMalformed(err) {
			return "", &Error{Kind: ErrGenerationMalformed, Attempts: attempt + 1, Err: err}
		}
		if !isTransient(err) {
			return "", &Error{Kind: ErrGenerationUnavailable, Attempts: attempt + 1, Err: err}
		}
		c.logger.Logf("generation attempt %d/%d failed: %v", attempt+1, retries+1, err)
	}

	if errors.Is(lastErr, context.DeadlineExceeded) {
		lastErr = fmt.Errorf("request timed out after %s (raise %s if needed): %w", timeout, config.EnvTimeout, lastErr)
	}
	return "", &Error{Kind: ErrGenerationUnavailable, Attempts: retries + 1, Err: lastErr}
}

// attempt performs one bounded request. The attempt context is cancelled on
// return, which closes the underlying connection if the reply never came.
func (c *Client) attempt(ctx context.Context, req *ollama.GenerateRequest, timeout time.Duration) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reply strings.Builder
	err := c.api.Generate(attemptCtx, req, func(res ollama.GenerateResponse) error {
		reply.WriteString(res.Response)
		return nil
	})
	if err != nil {
		if attemptCtx.Err() != nil && ctx.Err() == nil {
			err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		return "", classify(err)
	}
	return reply.String(), nil
}

func (c *Client) buildRequest(prompt string, opts Options) *ollama.GenerateRequest {
	stream := false
	options := map[string]interface{}{
		"temperature": pickFloat(opts.Temperature, c.defaults.Temperature),
		"top_p":       pickFloat(opts.TopP, c.defaults.TopP),
		"num_thread":  max(1, runtime.NumCPU()-1),
	}
	if numCtx := pickInt(opts.NumCtx, c.defaults.NumCtx); numCtx > 0 {
		options["num_ctx"] = numCtx
	}
	if opts.NumPredict > 0 {
		options["num_predict"] = opts.NumPredict
	}

	req := &ollama.GenerateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  &stream,
		Options: options,
	}
	if c.keepAlive > 0 {
		req.KeepAlive = &ollama.Duration{Duration: c.keepAlive}
	}
	return req
}

// CheckServer verifies the server answers a model listing.
func (c *Client) CheckServer(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := c.api.List(ctx); err != nil {
		return &Error{Kind: ErrGenerationUnavailable, Attempts: 1, Err: err}
	}
	return nil
}

// CheckModel reports whether name is installed on the server, along with the
// names that are.
func (c *Client) CheckModel(ctx context.Context, name string) (bool, []string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	listResp, err := c.api.List(ctx)
	if err != nil {
		return false, nil, &Error{Kind: ErrGenerationUnavailable, Attempts: 1, Err: err}
	}

	name = strings.TrimPrefix(name, "ollama:")
	available := make([]string, 0, len(listResp.Models))
	found := false
	for _, m := range listResp.Models {
		available = append(available, m.Name)
		if m.Name == name || m.Model == name {
			found = true
		}
	}
	return found, available, nil
}

func pickFloat(v, fallback float64) float64 {
	if v != 0 {
		return v
	}
	return fallback
}

func pickInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}
