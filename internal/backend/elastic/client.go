package elastic

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/etp-go/internal/core/query"
)

// Defaults.
const (
	DefaultTimeout = 30 * time.Second

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 1 << 20
	// maxErrorBody caps the body kept on an Error.
	maxErrorBody = 512
)

// Config configures a Client.
type Config struct {
	// URL is the full count endpoint, e.g. https://es:9200/logs-*/_count.
	URL string

	// Authorization is sent verbatim as the Authorization header when set.
	Authorization string

	// Timeout bounds a single request. Zero means DefaultTimeout.
	Timeout time.Duration

	// RequestsPerSecond limits outgoing requests across all callers.
	// Zero disables limiting.
	RequestsPerSecond float64

	// UserAgent is sent as the User-Agent header when set.
	UserAgent string

	// TLS overrides the transport's TLS settings for https URLs.
	TLS *tls.Config

	// HTTPClient overrides the HTTP client (tests).
	HTTPClient *http.Client
}

// Client sends count queries to the backend. It is safe for concurrent use.
type Client struct {
	url           string
	authorization string
	userAgent     string
	httpClient    *http.Client
	limiter       *rate.Limiter
}

type countResponse struct {
	Count *uint64 `json:"count"`
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("elastic: url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
		if cfg.TLS != nil {
			transport := http.DefaultTransport.(*http.Transport).Clone()
			transport.TLSClientConfig = cfg.TLS
			hc.Transport = transport
		}
	}

	c := &Client{
		url:           cfg.URL,
		authorization: cfg.Authorization,
		userAgent:     cfg.UserAgent,
		httpClient:    hc,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c, nil
}

// Count sends doc and returns the number of matching documents.
//
// Failures are returned as *Error, classified as KindTransport or
// KindUnexpectedResponse.
func (c *Client) Count(ctx context.Context, doc *query.Document) (uint64, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("elastic: encode query: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, &Error{Kind: KindTransport, Cause: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("elastic: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.authorization != "" {
		req.Header.Set("Authorization", c.authorization)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &Error{Kind: KindTransport, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, &Error{Kind: KindTransport, Status: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &Error{
			Kind:   KindUnexpectedResponse,
			Status: resp.StatusCode,
			Body:   truncate(raw, maxErrorBody),
		}
	}

	var out countResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, &Error{
			Kind:   KindUnexpectedResponse,
			Status: resp.StatusCode,
			Body:   truncate(raw, maxErrorBody),
			Cause:  err,
		}
	}
	if out.Count == nil {
		return 0, &Error{
			Kind:   KindUnexpectedResponse,
			Status: resp.StatusCode,
			Body:   truncate(raw, maxErrorBody),
			Cause:  errors.New("missing count field"),
		}
	}
	return *out.Count, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
