// Package httpapi talks to the article REST API. Every request carries a
// fresh X-Request-ID and runs through a circuit breaker so a dead server
// fails fast instead of stalling each call for the full timeout.
package httpapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/alexjbarnes/inventory-sync/internal/errors"
	"github.com/alexjbarnes/inventory-sync/internal/models"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"
)

// TransientError wraps an error that is likely temporary and safe to retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err (or any error in its chain) is a
// TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

const (
	// maxRedirects is the maximum number of HTTP redirects to follow
	// before giving up, matching the default net/http limit.
	maxRedirects = 10

	// maxAPIResponseBytes caps response body reads.
	maxAPIResponseBytes = 4 * 1024 * 1024

	// breakerFailures is the number of consecutive transient failures
	// that opens the circuit.
	breakerFailures = 5

	// breakerCooldown is how long the circuit stays open before a single
	// trial request is let through.
	breakerCooldown = 30 * time.Second

	defaultTimeout      = 10 * time.Second
	defaultProbeTimeout = 3 * time.Second
)

// Options configures a Client.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	ProbeTimeout time.Duration
	InsecureTLS  bool

	// HTTPClient replaces the default client. Timeout and InsecureTLS
	// are ignored when it is set.
	HTTPClient *http.Client
}

// Client is the REST client for the article collection.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	probeTimeout time.Duration
	breaker      *gobreaker.CircuitBreaker
	logger       *slog.Logger
}

// sameHostRedirectPolicy follows redirects only when the target host
// matches the original request host.
func sameHostRedirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errors.New("stopped after 10 redirects")
	}

	if len(via) > 0 {
		origHost := via[0].URL.Host
		if req.URL.Host != origHost {
			return fmt.Errorf("redirect to different host blocked: %s -> %s", origHost, req.URL.Host)
		}
	}

	return nil
}

// NewClient creates an API client for the collection at opts.BaseURL.
func NewClient(opts Options, logger *slog.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}

		httpClient = &http.Client{
			Timeout:       timeout,
			CheckRedirect: sameHostRedirectPolicy,
		}

		if opts.InsecureTLS {
			transport := http.DefaultTransport.(*http.Transport).Clone()
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed dev servers
			httpClient.Transport = transport
		}
	}

	probe := opts.ProbeTimeout
	if probe <= 0 {
		probe = defaultProbeTimeout
	}

	c := &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		probeTimeout: probe,
		logger:       logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "article-api",
		MaxRequests: 1,
		Timeout:     breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("api: circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
		// Only transport trouble counts against the circuit. A 4xx is a
		// healthy server saying no.
		IsSuccessful: func(err error) bool {
			return err == nil || !IsTransient(err)
		},
	})

	return c
}

// BaseURL returns the collection URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type response struct {
	status int
	body   []byte
}

// do sends one request and returns the status and body. A non-nil error
// means no usable response was received.
func (c *Client) do(ctx context.Context, method, url string, payload []byte) (int, []byte, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.send(ctx, method, url, payload)
	})

	if r, ok := result.(*response); ok && r != nil {
		return r.status, r.body, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return 0, nil, &TransientError{Err: fmt.Errorf("%w: %s %s", apperrors.ErrCircuitOpen, method, url)}
	}

	return 0, nil, err
}

func (c *Client) send(ctx context.Context, method, url string, payload []byte) (*response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", apperrors.ErrAPIRequest, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network errors (timeouts, connection refused, DNS failures)
		// are transient by nature.
		return nil, &TransientError{Err: fmt.Errorf("%w: %s %s: %v", apperrors.ErrAPIRequest, method, url, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIResponseBytes))
	if err != nil {
		return nil, &TransientError{Err: fmt.Errorf("%w: reading response from %s: %v", apperrors.ErrAPIRequest, url, err)}
	}

	c.logger.Debug("api: request",
		slog.String("method", method),
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", requestID),
	)

	r := &response{status: resp.StatusCode, body: respBody}
	if isTransientStatus(resp.StatusCode) {
		return r, &TransientError{Err: fmt.Errorf("%s %s returned status %d", method, url, resp.StatusCode)}
	}

	return r, nil
}

func (c *Client) itemURL(id int) string {
	return c.baseURL + "/" + strconv.Itoa(id)
}

// List fetches the whole collection.
func (c *Client) List(ctx context.Context) ([]models.Article, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}

	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: listing articles returned %d: %s", apperrors.ErrAPIResponse, status, ErrorDetail(body))
	}

	var dtos []articleDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("%w: decoding article list: %v", apperrors.ErrAPIResponse, err)
	}

	articles := make([]models.Article, 0, len(dtos))
	for _, d := range dtos {
		a, err := d.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: article %d: %v", apperrors.ErrAPIResponse, d.ID, err)
		}

		articles = append(articles, a)
	}

	return articles, nil
}

// Get fetches a single article.
func (c *Client) Get(ctx context.Context, id int) (models.Article, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.itemURL(id), nil)
	if err != nil {
		return models.Article{}, fmt.Errorf("fetching article %d: %w", id, err)
	}

	switch {
	case status == http.StatusNotFound:
		return models.Article{}, fmt.Errorf("fetching article %d: %w", id, apperrors.ErrNotFound)
	case status != http.StatusOK:
		return models.Article{}, fmt.Errorf("%w: fetching article %d returned %d: %s", apperrors.ErrAPIResponse, id, status, ErrorDetail(body))
	}

	var d articleDTO
	if err := json.Unmarshal(body, &d); err != nil {
		return models.Article{}, fmt.Errorf("%w: decoding article %d: %v", apperrors.ErrAPIResponse, id, err)
	}

	return d.toModel()
}

// Ping reports whether the collection endpoint answers 200 within the
// probe timeout. It bypasses the circuit breaker so it can detect
// recovery while the circuit is open.
func (c *Client) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	r, err := c.send(ctx, http.MethodGet, c.baseURL, nil)
	if r == nil {
		c.logger.Debug("api: probe failed", slog.String("error", err.Error()))
		return false
	}

	return r.status == http.StatusOK
}

// Create posts a new article. The id is left for the server to assign.
func (c *Client) Create(ctx context.Context, a models.Article) (int, []byte, error) {
	d := fromModel(a)
	d.ID = 0

	payload, err := json.Marshal(d)
	if err != nil {
		return 0, nil, fmt.Errorf("marshalling article: %w", err)
	}

	return c.do(ctx, http.MethodPost, c.baseURL, payload)
}

// Update replaces the article with the given id.
func (c *Client) Update(ctx context.Context, id int, a models.Article) (int, []byte, error) {
	payload, err := json.Marshal(fromModel(a))
	if err != nil {
		return 0, nil, fmt.Errorf("marshalling article: %w", err)
	}

	return c.do(ctx, http.MethodPut, c.itemURL(id), payload)
}

// Delete removes the article with the given id.
func (c *Client) Delete(ctx context.Context, id int) (int, []byte, error) {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil)
}

// ErrorDetail extracts a readable message from an error body. JSON
// problem responses yield their message field, anything else is
// returned sanitized.
func ErrorDetail(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, key := range []string{"message", "title", "error", "detail"} {
			if v := gjson.GetBytes(body, key); v.Type == gjson.String && v.Str != "" {
				return sanitizeResponseBody([]byte(v.Str))
			}
		}
	}

	return sanitizeResponseBody(body)
}

// sanitizeResponseBody truncates and sanitizes a response body for
// inclusion in error messages. Limits to 256 bytes and replaces
// non-printable characters to prevent log injection.
func sanitizeResponseBody(body []byte) string {
	const maxLen = 256
	if len(body) > maxLen {
		body = body[:maxLen]
	}

	var clean []byte

	for len(body) > 0 {
		r, size := utf8.DecodeRune(body)
		if r == utf8.RuneError && size <= 1 {
			clean = append(clean, '?')
			body = body[1:]

			continue
		}

		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			clean = append(clean, '?')
		} else {
			clean = append(clean, body[:size]...)
		}

		body = body[size:]
	}

	return string(clean)
}

// isTransientStatus returns true for HTTP status codes that indicate a
// temporary server-side problem worth retrying.
func isTransientStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}

	return false
}
