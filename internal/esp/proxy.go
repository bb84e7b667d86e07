// Package esp proxies campaign operations to the external email service
// provider backend. The proxy adds authentication and error translation
// but never retries; transient backend failures surface to the caller.
package esp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ignite/campaign-studio/internal/pkg/apperr"
)

// HTTPDoer lets tests swap the transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the ESP backend proxy client.
type Client struct {
	baseURL    string
	token      string
	provider   string
	httpClient HTTPDoer

	configOnce sync.Once
	configErr  error
}

// NewClient creates an ESP proxy client for a provider.
func NewClient(baseURL, token, provider string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		provider:   provider,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetHTTPClient overrides the HTTP client, used in tests.
func (c *Client) SetHTTPClient(client HTTPDoer) {
	c.httpClient = client
}

// checkConfig validates the client configuration once, before the first
// network call. The result is cached for the lifetime of the client.
func (c *Client) checkConfig() error {
	c.configOnce.Do(func() {
		if c.baseURL == "" {
			c.configErr = apperr.New(apperr.KindConfiguration, "ESP base URL is not configured")
			return
		}
		if c.token == "" {
			c.configErr = apperr.New(apperr.KindConfiguration, "ESP API token is not configured")
		}
	})
	return c.configErr
}

// PublishCampaign forwards a campaign payload to the backend for
// dispatch. A 204 response yields a nil result.
func (c *Client) PublishCampaign(ctx context.Context, payload any) (json.RawMessage, error) {
	path := fmt.Sprintf("/integrations/%s/campaigns", c.provider)
	return c.doRequest(ctx, http.MethodPost, path, nil, payload)
}

// FetchMetrics retrieves delivery statistics for a set of newsletters.
func (c *Client) FetchMetrics(ctx context.Context, payload any) (json.RawMessage, error) {
	path := fmt.Sprintf("/integrations/%s/metrics", c.provider)
	return c.doRequest(ctx, http.MethodPost, path, nil, payload)
}

// PushScheduled asks the backend to release campaigns whose send time has
// arrived.
func (c *Client) PushScheduled(ctx context.Context) (json.RawMessage, error) {
	path := fmt.Sprintf("/integrations/%s/push-scheduled", c.provider)
	return c.doRequest(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	if err := c.checkConfig(); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "ESP request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to read ESP response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.Backend(resp.StatusCode, string(data))
	}
	if resp.StatusCode == http.StatusNoContent || len(data) == 0 {
		return nil, nil
	}
	return json.RawMessage(data), nil
}
