package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxBody caps how much of a response the client will read.
const maxBody = 1 << 20

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithAPIKey sends key as X-API-Key on every request.
func WithAPIKey(key string) Option {
	return func(cl *Client) {
		cl.apiKey = strings.TrimSpace(key)
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("baseURL must not be empty")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	cl := &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(cl)
	}
	return cl, nil
}

// Hello fetches the plain-text greeting.
func (c *Client) Hello(ctx context.Context) (string, error) {
	resp, err := c.get(ctx, "/hello", "text/plain")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("read /hello: %w", err)
	}
	return string(b), nil
}

// Greeting fetches the JSON form of the greeting.
func (c *Client) Greeting(ctx context.Context) (Greeting, error) {
	var out Greeting
	if err := c.getJSON(ctx, "/hello", &out); err != nil {
		return Greeting{}, err
	}
	return out, nil
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	if err := c.getJSON(ctx, "/healthz", &out); err != nil {
		return Health{}, err
	}
	return out, nil
}

func (c *Client) Version(ctx context.Context) (VersionInfo, error) {
	var out VersionInfo
	if err := c.getJSON(ctx, "/version", &out); err != nil {
		return VersionInfo{}, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.get(ctx, path, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// get performs the request and returns the response only on a 2xx status.
func (c *Client) get(ctx context.Context, path, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		var eb ErrorBody
		if json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&eb) == nil && eb.Error != "" {
			return nil, fmt.Errorf("http %s %s: status %d: %s", http.MethodGet, path, resp.StatusCode, eb.Error)
		}
		return nil, fmt.Errorf("http %s %s: status %d", http.MethodGet, path, resp.StatusCode)
	}
	return resp, nil
}
