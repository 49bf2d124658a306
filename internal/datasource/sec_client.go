package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"insider-momentum/internal/types"
)

// Auth modes for the filings API.
const (
	AuthHeader = "header"
	AuthToken  = "token"
)

// MaxSearchSize is the largest page the filings API returns.
const MaxSearchSize = 50

// SECClient handles sec-api.io search endpoints
type SECClient struct {
	baseURL    string
	apiKey     string
	authMode   string
	httpClient *http.Client
	headers    map[string]string
}

// NewSECClient creates a filings API client. authMode is AuthHeader or AuthToken.
func NewSECClient(baseURL, apiKey, authMode string, timeout time.Duration) *SECClient {
	if baseURL == "" {
		baseURL = "https://api.sec-api.io"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SECClient{
		baseURL:  baseURL,
		apiKey:   apiKey,
		authMode: authMode,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
	}
}

// Search posts a descending search to the form's endpoint and returns the body.
func (c *SECClient) Search(ctx context.Context, form types.FilingForm, query string, size int) ([]byte, error) {
	body, err := json.Marshal(types.NewSearchRequest(form, query, ClampSize(size)))
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + form.Path()
	if c.authMode == AuthToken {
		endpoint += "?token=" + url.QueryEscape(c.apiKey)
	}

	data, err := c.makeRequest(ctx, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", form, err)
	}
	return data, nil
}

func (c *SECClient) makeRequest(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if c.authMode != AuthToken {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPError(resp.StatusCode, string(data))
	}
	return data, nil
}

// ClampSize bounds a requested page size to 1..MaxSearchSize.
func ClampSize(size int) int {
	if size < 1 {
		return 1
	}
	if size > MaxSearchSize {
		return MaxSearchSize
	}
	return size
}
