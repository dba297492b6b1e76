package storeapi

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

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"
)

var ErrAuthRequired = errors.New("authentication required")

type Config struct {
	APIURL  string
	Timeout time.Duration
}

// TokenSource returns the persisted bearer token, or "" when there is none.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	client *http.Client
	config Config
	tokens TokenSource
}

func NewClient(cfg Config, tokens TokenSource) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &Client{
		client: &http.Client{
			Transport: &HeaderTransport{Base: http.DefaultTransport},
			Timeout:   cfg.Timeout,
		},
		config: cfg,
		tokens: tokens,
	}
}

// HeaderTransport stamps every outgoing request with a request id and
// the accepted encodings.
type HeaderTransport struct {
	Base http.RoundTripper
}

func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")
	return t.Base.RoundTrip(req)
}

// Do sends body (if any) as JSON to endpoint and decodes the answer into out.
// With authRequired and no stored token it fails with ErrAuthRequired
// before touching the network. An empty success body leaves out untouched.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any, authRequired bool, out any) error {
	var token string
	if authRequired {
		if c.tokens != nil {
			t, err := c.tokens.Token(ctx)
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
			token = t
		}
		if token == "" {
			return ErrAuthRequired
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.APIURL+endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, endpoint, err)
	}
	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newErrorResponse(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

func newErrorResponse(status int, data []byte) *ErrorResponse {
	apiErr := &ErrorResponse{Status: status}
	_ = json.Unmarshal(data, apiErr)
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("API Error: %d %s", status, http.StatusText(status))
	}
	return apiErr
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}
