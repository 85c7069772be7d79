// Package apiclient wraps HTTP calls to the remote storefront API.
//
// Every status in [200,500) is returned as a normal *Response; callers must
// branch on StatusCode for 3xx and 4xx. Only statuses >= 500 and transport
// failures are returned as errors. The client never retries.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const RequestIDHeader = "X-Request-ID"

type Options struct {
	Timeout        time.Duration
	CircuitBreaker bool
	Transport      http.RoundTripper
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*Response]
}

func New(baseURL string, opts Options) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(base),
			// 3xx harus sampai ke pemanggil, katalog menganggap 302 sebagai sukses
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	if opts.CircuitBreaker {
		c.breaker = gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
			Name:    "storefront-api",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("APIClient: circuit breaker %s changed from %s to %s", name, from, to)
			},
		})
	}
	return c
}

type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        io.Reader
	ContentType string
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) DecodeJSON(v interface{}) error {
	if len(r.Body) == 0 {
		return errors.New("empty response body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// StatusError is returned for statuses >= 500. The response is kept so callers
// can still read an error payload.
type StatusError struct {
	Method   string
	Path     string
	Response *Response
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("storefront api %s %s returned status %d", e.Method, e.Path, e.Response.StatusCode)
	if detail := ErrorMessage(e.Response, ""); detail != "" {
		msg = fmt.Sprintf("%s - %s", msg, detail)
	}
	return msg
}

func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	if c.breaker == nil {
		return c.do(ctx, r)
	}
	resp, err := c.breaker.Execute(func() (*Response, error) {
		return c.do(ctx, r)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("storefront api unavailable: %w", err)
	}
	return resp, err
}

func (c *Client) do(ctx context.Context, r Request) (*Response, error) {
	reqURL := c.BaseURL + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		reqURL += "?" + r.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, reqURL, r.Body)
	if err != nil {
		logger.Error("APIClient.Do: NewRequest failed", err)
		return nil, fmt.Errorf("failed to create request %s %s: %w", r.Method, r.Path, err)
	}
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Error(fmt.Sprintf("APIClient.Do: %s %s failed", r.Method, r.Path), err)
		return nil, fmt.Errorf("failed to call storefront api %s %s: %w", r.Method, r.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error(fmt.Sprintf("APIClient.Do: reading body of %s %s failed", r.Method, r.Path), err)
		return nil, fmt.Errorf("failed to read response of %s %s: %w", r.Method, r.Path, err)
	}

	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &StatusError{Method: r.Method, Path: r.Path, Response: out}
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

func (c *Client) Post(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Query: query})
}

func (c *Client) Put(ctx context.Context, path string, query url.Values, body io.Reader, contentType string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Query: query, Body: body, ContentType: contentType})
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// ErrorMessage extracts a human readable error from an API response body.
// JSON {"error": ...} wins over {"message": ...}; a plain-text body is used
// as is. fallback is returned when nothing usable is present.
func ErrorMessage(resp *Response, fallback string) string {
	if resp == nil || len(resp.Body) == 0 {
		return fallback
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
		return fallback
	}
	text := strings.TrimSpace(string(resp.Body))
	if text == "" || strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") || strings.HasPrefix(text, "<") {
		return fallback
	}
	return text
}

// FailureMessage picks the message for a failed call: the error payload of a
// >=500 response, the error text of a transport failure, or the payload of a
// non-2xx response.
func FailureMessage(resp *Response, err error, fallback string) string {
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			return ErrorMessage(se.Response, fallback)
		}
		return fallback
	}
	return ErrorMessage(resp, fallback)
}
