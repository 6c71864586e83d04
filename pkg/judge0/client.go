// Package judge0 is a thin protocol client for an external Judge0-style
// code execution service. It only queues runs and fetches verdicts by
// token; polling cadence is the caller's responsibility.
package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://ce.judge0.com"

// Client submits runs to the judge and retrieves their results.
type Client interface {
	// CreateRun queues a run and returns its opaque token. The judge
	// does not execute inline; the token must be polled.
	CreateRun(ctx context.Context, req RunRequest) (string, error)
	// FetchResult returns the current status for a token. It does not
	// block until the run is terminal.
	FetchResult(ctx context.Context, token string) (Result, error)
}

// APIError is a non-2xx response from the judge. Server-side failures are
// retryable; client errors are not, since resending a malformed request
// cannot succeed.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("judge0: http %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the failure is worth another attempt.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// Config holds connection settings for the judge.
type Config struct {
	BaseURL string
	// APIKey and APIHost enable the RapidAPI header pair. They are
	// ignored for public judge0.com instances, which reject them.
	APIKey  string
	APIHost string
	// CreateRetries bounds CreateRun attempts; defaults to 3 with a
	// linearly increasing backoff of attempt x RetryBackoff.
	CreateRetries int
	RetryBackoff  time.Duration
	HTTPClient    *http.Client
	// Sleep is injected by tests to skip real backoff delays.
	Sleep func(ctx context.Context, d time.Duration) error
}

type client struct {
	cfg    Config
	http   *http.Client
	sleep  func(ctx context.Context, d time.Duration) error
	logger zerolog.Logger
}

// New constructs a judge client.
func New(cfg Config, logger zerolog.Logger) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if !strings.HasPrefix(cfg.BaseURL, "http") {
		cfg.BaseURL = "https://" + cfg.BaseURL
	}
	if cfg.CreateRetries <= 0 {
		cfg.CreateRetries = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		}
	}

	return &client{
		cfg:    cfg,
		http:   httpClient,
		sleep:  sleep,
		logger: logger.With().Str("component", "judge0_client").Logger(),
	}
}

func (c *client) CreateRun(ctx context.Context, req RunRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode run request: %w", err)
	}

	url := fmt.Sprintf("%s/submissions?base64_encoded=false&wait=false", c.cfg.BaseURL)

	var lastErr error
	for attempt := 1; attempt <= c.cfg.CreateRetries; attempt++ {
		if attempt > 1 {
			c.logger.Warn().Int("attempt", attempt).Err(lastErr).Msg("retrying run creation")
			if err := c.sleep(ctx, time.Duration(attempt)*c.cfg.RetryBackoff); err != nil {
				return "", err
			}
		}

		token, err := c.createRunOnce(ctx, url, body)
		if err == nil {
			return token, nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("create run failed after %d attempts: %w", c.cfg.CreateRetries, lastErr)
}

func (c *client) createRunOnce(ctx context.Context, url string, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("judge0: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode run token: %w", err)
	}
	if payload.Token == "" {
		return "", fmt.Errorf("judge0: empty run token")
	}
	return payload.Token, nil
}

func (c *client) FetchResult(ctx context.Context, token string) (Result, error) {
	url := fmt.Sprintf(
		"%s/submissions/%s?base64_encoded=false&fields=stdout,stderr,status,message,compile_output,time,memory",
		c.cfg.BaseURL, token,
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, err
	}
	c.setAuthHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("judge0: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, &APIError{StatusCode: resp.StatusCode, Body: readBody(resp.Body)}
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode run result: %w", err)
	}
	return result, nil
}

// setAuthHeaders attaches the RapidAPI header pair unless the target is a
// public judge0.com instance, which rejects them.
func (c *client) setAuthHeaders(req *http.Request) {
	if c.cfg.APIKey == "" {
		return
	}
	isPublic := strings.Contains(c.cfg.BaseURL, "judge0.com") && !strings.Contains(c.cfg.BaseURL, "rapidapi")
	if isPublic {
		return
	}
	req.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
	if c.cfg.APIHost != "" {
		req.Header.Set("X-RapidAPI-Host", c.cfg.APIHost)
	}
}

func readBody(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 4096))
	return strings.TrimSpace(string(data))
}
