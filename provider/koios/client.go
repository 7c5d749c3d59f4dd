// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package koios implements the chain collaborators on top of the Koios REST
// API.
package koios

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/blinklabs-io/spend-showcase/ledger"
)

const (
	DefaultTimeout = 30 * time.Second

	contentTypeJson = "application/json"
	contentTypeCbor = "application/cbor"
)

// BaseURL returns the public Koios endpoint for a network
func BaseURL(network ledger.Network) (string, error) {
	switch network.Name {
	case ledger.NetworkMainnet.Name:
		return "https://api.koios.rest/api/v1", nil
	case ledger.NetworkPreprod.Name:
		return "https://preprod.koios.rest/api/v1", nil
	case ledger.NetworkPreview.Name:
		return "https://preview.koios.rest/api/v1", nil
	}
	return "", fmt.Errorf("%w: %s", ledger.ErrUnknownNetwork, network.Name)
}

// APIError is returned for non-2xx responses
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("koios %s: status %d: %s", e.Path, e.StatusCode, e.Message)
}

// Client is a Koios REST client
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

type ClientOptionFunc func(*Client)

// WithBaseURL overrides the endpoint, for private instances and tests
func WithBaseURL(baseURL string) ClientOptionFunc {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithToken sets the bearer token sent with every request
func WithToken(token string) ClientOptionFunc {
	return func(c *Client) {
		c.token = token
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOptionFunc {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTimeout(timeout time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient returns a client for the network, with the public endpoint
// unless WithBaseURL is given
func NewClient(network ledger.Network, opts ...ClientOptionFunc) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		baseURL, err := BaseURL(network)
		if err != nil {
			return nil, err
		}
		c.baseURL = baseURL
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "koios")
	return c, nil
}

// Close releases idle connections
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) postJson(ctx context.Context, path string, req any, resp any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, contentTypeJson, body, resp)
}

func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	contentType string,
	body []byte,
	resp any,
) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", contentTypeJson)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("koios %s: %w", path, err)
	}
	defer httpResp.Body.Close()
	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug(
		"koios request",
		"method", method,
		"path", path,
		"status", httpResp.StatusCode,
		"duration", time.Since(start),
	)
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return &APIError{
			StatusCode: httpResp.StatusCode,
			Path:       path,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}
	if resp == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, resp); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
