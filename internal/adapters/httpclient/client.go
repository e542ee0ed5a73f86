// Package httpclient implements the narrow ports.Http capability the core
// depends on for every outbound call to UIDAI, an Account Aggregator, a GSP
// or a BBPS endpoint.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/novascore/credit-engine/internal/domain"
	"github.com/novascore/credit-engine/internal/ports"
)

// Client wraps a net/http.Client with the timeout/degrade discipline the core expects.
type Client struct {
	inner *http.Client
}

func New(defaultTimeout time.Duration) *Client {
	return &Client{inner: &http.Client{Timeout: defaultTimeout}}
}

func (c *Client) Post(ctx context.Context, url string, headers map[string]string, body []byte) (ports.HTTPResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ports.HTTPResponse{}, err
	}
	return c.do(req, headers)
}

func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (ports.HTTPResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.HTTPResponse{}, err
	}
	return c.do(req, headers)
}

func (c *Client) do(req *http.Request, headers map[string]string) (ports.HTTPResponse, error) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.inner.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ports.HTTPResponse{}, domain.ErrUpstreamTimeout
		}
		return ports.HTTPResponse{}, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.HTTPResponse{}, err
	}
	return ports.HTTPResponse{StatusCode: resp.StatusCode, Body: data}, nil
}
