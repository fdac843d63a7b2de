// Package directory is the HTTP client of the remote pet-care backend that
// owns pets, staff accounts, orders, and payments.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Apurer/petcare-booking/internal/shared/apperr"
)

// DefaultTimeout bounds one round trip to the backend.
const DefaultTimeout = 10 * time.Second

// Client talks JSON to the backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	loc     *time.Location
}

type Option func(*Client)

// WithHTTPClient replaces the transport, e.g. for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLocation sets the zone the backend's zone-less timestamps are read in.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// NewClient instantiates the backend client with sane defaults.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("directory base URL is required")
	}
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse directory base URL: %w", err)
	}
	c := &Client{
		baseURL: parsed,
		http:    &http.Client{Timeout: DefaultTimeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		loc:     time.Local,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Location is the zone timestamps are exchanged in.
func (c *Client) Location() *time.Location {
	return c.loc
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend answered %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: backend answered %d: %s", e.Op, e.Status, e.Message)
}

// Is maps the status code onto the apperr taxonomy.
func (e *APIError) Is(target error) bool {
	switch target {
	case apperr.ErrNotFound:
		return e.Status == http.StatusNotFound
	case apperr.ErrConflict:
		return e.Status == http.StatusConflict
	case apperr.ErrValidation:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	case apperr.ErrTransientRemote:
		return e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
	}
	return false
}

type errorBody struct {
	Message string `json:"message"`
	Title   string `json:"title"`
	Detail  string `json:"detail"`
}

type listEnvelope[T any] struct {
	Items []T `json:"items"`
}

// endpoint joins an already escaped path and query onto the base URL.
func (c *Client) endpoint(path string, query ...string) string {
	target := strings.TrimSuffix(c.baseURL.String(), "/") + path
	if len(query) > 0 {
		target += "?" + strings.Join(query, "&")
	}
	return target
}

func queryParam(name string, value any) (string, error) {
	return runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
}

func pathParam(name string, value any) (string, error) {
	return runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, value)
}

// do sends body as JSON and decodes a 2xx answer into out.
func (c *Client) do(ctx context.Context, op, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
		return apperr.Remote(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperr.Remote(op, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Op: op, Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, msg := range []string{body.Message, body.Detail, body.Title} {
			if msg = strings.TrimSpace(msg); msg != "" {
				return msg
			}
		}
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
