package fetcher

import (
	"log/slog"
	"time"

	"resty.dev/v3"
)

const (
	// Default retry configuration
	defaultRetryCount       = 3
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second

	// Yahoo rejects requests without a browser-like agent.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// ClientOptions tunes the HTTP client shared by providers.
type ClientOptions struct {
	Timeout       time.Duration
	RetryCount    int
	RetryWaitTime time.Duration
	Logger        *slog.Logger
}

// NewHTTPClient creates a new HTTP client with retry logic and exponential backoff
func NewHTTPClient(baseURL string, opts ClientOptions) *resty.Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	retryCount := opts.RetryCount
	if retryCount < 0 {
		retryCount = 0
	}
	waitTime := opts.RetryWaitTime
	if waitTime <= 0 {
		waitTime = defaultRetryWaitTime
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", defaultUserAgent).
		SetRetryCount(retryCount).
		SetRetryWaitTime(waitTime).
		SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook(logger))

	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return client
}

// DefaultClientOptions returns the retry policy used in production.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout:       30 * time.Second,
		RetryCount:    defaultRetryCount,
		RetryWaitTime: defaultRetryWaitTime,
	}
}

// retryCondition determines whether a request should be retried based on the response and error
func retryCondition(r *resty.Response, err error) bool {
	// Retry on network errors
	if err != nil {
		return true
	}

	switch code := r.StatusCode(); {
	case code >= 500:
		return true
	case code == 429, code == 408:
		return true
	default:
		// 404 means an unknown symbol; asking again will not help
		return false
	}
}

// retryHook logs retry attempts
func retryHook(logger *slog.Logger) func(*resty.Response, error) {
	return func(r *resty.Response, err error) {
		if err != nil {
			logger.Debug("retrying request due to error",
				"url", r.Request.URL,
				"attempt", r.Request.Attempt,
				"error", err.Error())
			return
		}

		logger.Debug("retrying request due to status code",
			"url", r.Request.URL,
			"attempt", r.Request.Attempt,
			"status_code", r.StatusCode())
	}
}
