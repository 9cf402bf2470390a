package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/timetable-viewer/internal/metrics"
)

// CSRFCookieName is the cookie the backend stores its CSRF token in.
const CSRFCookieName = "csrftoken"

var ErrNotFound = errors.New("not found")

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return "HTTP error " + strconv.Itoa(e.StatusCode)
}

// Client talks to the schedule backend. Requests are neither retried nor
// coalesced.
type Client struct {
	logger     *slog.Logger
	baseURL    *url.URL
	httpClient *http.Client
}

func NewClient(logger *slog.Logger, baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q: scheme and host are required", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &Client{
		logger:  logger,
		baseURL: u,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}, nil
}

func (c *Client) BlockTimetable(ctx context.Context, blockID int) (*BlockTimetable, error) {
	response := &BlockTimetable{}
	if err := c.getJSON(ctx, "block_timetable", fmt.Sprintf("api/block/%d/timetable/", blockID), response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) Program(ctx context.Context, programID int) (*ProgramData, error) {
	response := &ProgramData{}
	if err := c.getJSON(ctx, "program", fmt.Sprintf("api/program/%d/", programID), response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) Rankings(ctx context.Context) ([]Ranking, error) {
	response := &RankingsResponse{}
	if err := c.getJSON(ctx, "rankings", "api/rankings/", response); err != nil {
		return nil, err
	}
	return response.Rankings, nil
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	response := &Stats{}
	if err := c.getJSON(ctx, "stats", "api/stats/", response); err != nil {
		return nil, err
	}
	return response, nil
}

// Generate asks the backend to generate the schedule.
func (c *Client) Generate(ctx context.Context) (*ActionResult, error) {
	return c.Post(ctx, "api/generate/", nil)
}

// Rank asks the backend to rank all blocks.
func (c *Client) Rank(ctx context.Context) (*ActionResult, error) {
	return c.Post(ctx, "api/rank/", nil)
}

// Post sends data as JSON to path with the backend's CSRF token and the
// XMLHttpRequest marker header, and decodes the action result.
func (c *Client) Post(ctx context.Context, path string, data any) (*ActionResult, error) {
	if data == nil {
		data = struct{}{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode body: %w", err)
	}

	token, err := c.csrfToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("csrf token: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-CSRFToken", token)
	request.Header.Set("X-Requested-With", "XMLHttpRequest")
	// Same-origin check of the backend for HTTPS.
	request.Header.Set("Referer", c.baseURL.String())

	result := &ActionResult{}
	if err := c.do(request, path, result); err != nil {
		return nil, err
	}
	return result, nil
}

// csrfToken returns the CSRF cookie value, fetching the backend root once
// to obtain it if the jar has none.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	if token, ok := c.cookie(CSRFCookieName); ok {
		return token, nil
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	_, _ = io.Copy(io.Discard, response.Body)
	response.Body.Close()

	token, _ := c.cookie(CSRFCookieName)
	if token == "" {
		c.logger.Warn("backend did not set a csrf cookie", "url", c.baseURL.String())
	}
	return token, nil
}

func (c *Client) cookie(name string) (string, bool) {
	for _, cookie := range c.httpClient.Jar.Cookies(c.baseURL) {
		if cookie.Name == name {
			return cookie.Value, true
		}
	}
	return "", false
}

func (c *Client) getJSON(ctx context.Context, endpoint string, path string, v any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	err = c.do(request, endpoint, v)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return err
}

func (c *Client) do(request *http.Request, endpoint string, v any) error {
	c.logger.Debug("backend request", "method", request.Method, "url", request.URL.String())

	start := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		metrics.TrackBackendRequest(endpoint, 0, time.Since(start))
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer response.Body.Close()
	metrics.TrackBackendRequest(endpoint, response.StatusCode, time.Since(start))

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return &StatusError{StatusCode: response.StatusCode}
	}

	if err := json.NewDecoder(response.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) resolve(path string) string {
	return c.baseURL.ResolveReference(&url.URL{Path: path}).String()
}
