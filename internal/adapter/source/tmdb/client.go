package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mmcdole/movietracker/internal/domain"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	DefaultLanguage     = "en-US"
	DefaultWebBaseURL   = "https://www.themoviedb.org"

	defaultTimeout = 15 * time.Second
	defaultRPS     = 20
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
)

// Options tunes a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL      string
	ImageBaseURL string
	Language     string
	Timeout      time.Duration
	RPS          float64
	RetryDelay   time.Duration
	HTTPClient   *http.Client
}

// Client implements domain.CatalogClient for the TMDB v3 API
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	language     string
	retryDelay   time.Duration
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       *slog.Logger
}

var _ domain.CatalogClient = (*Client)(nil)

// NewClient creates a new TMDB API client
func NewClient(apiKey string, opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = DefaultImageBaseURL
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RPS <= 0 {
		opts.RPS = defaultRPS
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = baseRetryDelay
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		imageBaseURL: opts.ImageBaseURL,
		apiKey:       apiKey,
		language:     opts.Language,
		retryDelay:   opts.RetryDelay,
		httpClient:   httpClient,
		limiter:      rate.NewLimiter(rate.Limit(opts.RPS), 1),
		logger:       logger,
	}
}

// statusError is a non-retryable HTTP failure other than 401/404
type statusError struct {
	Status  int
	Message string
}

func (e *statusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status code: %d", e.Status)
	}
	return fmt.Sprintf("unexpected status code: %d (%s)", e.Status, e.Message)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}

// doRequest performs an authenticated GET against the TMDB API.
// Includes retry logic with exponential backoff for 5xx and 429 responses.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	// Logged URLs never carry the key
	logURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())
	query.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Wait before retry (exponential backoff)
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "url", logURL)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		c.logger.Debug("tmdb request", "url", logURL, "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("tmdb request failed", "error", err, "url", logURL)
			return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, domain.ErrAuthFailed
		case resp.StatusCode == http.StatusNotFound:
			return nil, domain.ErrItemNotFound
		case retryable(resp.StatusCode):
			lastErr = &statusError{Status: resp.StatusCode, Message: errorMessage(body)}
			c.logger.Warn("tmdb server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"path", path,
			)
			continue
		default:
			c.logger.Error("tmdb request error", "status", resp.StatusCode, "body", string(body))
			return nil, &statusError{Status: resp.StatusCode, Message: errorMessage(body)}
		}
	}

	c.logger.Error("tmdb request failed after retries", "error", lastErr, "url", logURL)
	return nil, lastErr
}

func errorMessage(body []byte) string {
	var e ErrorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.StatusMessage
}

func (c *Client) getResults(ctx context.Context, path string, query url.Values) ([]domain.RawItem, error) {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var resp ResultsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return MapResults(resp.Results, c.imageBaseURL), nil
}

// Trending returns one page of today's trending movies and series
func (c *Client) Trending(ctx context.Context, page int) ([]domain.RawItem, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	return c.getResults(ctx, "/trending/all/day", query)
}

// Search runs a multi search (movies, series, people) for term
func (c *Client) Search(ctx context.Context, term string, page int) ([]domain.RawItem, error) {
	query := url.Values{}
	query.Set("query", term)
	query.Set("page", strconv.Itoa(page))
	query.Set("language", c.language)
	return c.getResults(ctx, "/search/multi", query)
}

// Movie returns detailed metadata for a movie
func (c *Client) Movie(ctx context.Context, id int64) (*domain.Details, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var resp MovieResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return MapMovie(resp, c.imageBaseURL), nil
}

// TVShow returns detailed metadata for a series
func (c *Client) TVShow(ctx context.Context, id int64) (*domain.Details, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/tv/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var resp TVShowResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return MapTVShow(resp, c.imageBaseURL), nil
}
