package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"

	"github.com/lmeyers/treatybot/internal/log"
)

// RetryConfig configures retry behavior for completion calls.
type RetryConfig struct {
	MaxRetries      int           // Maximum number of retry attempts
	InitialInterval time.Duration // Initial backoff interval
	MaxInterval     time.Duration // Maximum backoff interval
}

// DefaultRetryConfig returns sensible defaults for LLM API calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

// retryablePatterns groups error substrings by category, matched
// case-insensitively against err.Error().
//
// NOTE: string matching because Genkit and provider SDKs expose no typed
// errors for transient failures. Re-evaluate when that changes.
var retryablePatterns = [][]string{
	{"rate limit", "quota exceeded", "429"},      // rate limiting
	{"500", "502", "503", "504", "unavailable"},  // transient server errors
	{"connection reset", "timeout", "temporary"}, // network errors
}

// retryableError reports whether err is transient and worth retrying.
func retryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	for _, group := range retryablePatterns {
		if containsAny(errStr, group...) {
			return true
		}
	}
	return false
}

func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// generateWithRetry runs fn with exponential backoff on transient errors.
func generateWithRetry(
	ctx context.Context,
	cfg RetryConfig,
	logger log.Logger,
	fn func(context.Context) (*ai.ModelResponse, error),
) (*ai.ModelResponse, error) {
	var lastErr error
	delay := cfg.InitialInterval
	start := time.Now()

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		resp, err := fn(ctx)
		if err == nil {
			logger.Debug("completion succeeded",
				"attempts", attempt+1,
				"elapsed", time.Since(start))
			return resp, nil
		}

		lastErr = err

		if !retryableError(err) {
			return nil, fmt.Errorf("generate: %w", err)
		}

		if attempt == cfg.MaxRetries {
			break
		}

		logger.Debug("retrying after error",
			"attempt", attempt+1,
			"delay", delay,
			"elapsed", time.Since(start),
			"error", err)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context canceled during retry: %w", ctx.Err())
		case <-time.After(delay):
			delay = min(delay*2, cfg.MaxInterval)
		}
	}

	return nil, fmt.Errorf("generate after %d retries (elapsed: %v): %w",
		cfg.MaxRetries, time.Since(start), lastErr)
}
