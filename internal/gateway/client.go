package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/park285/cheese-fics/pkg/ficsdto"
)

// Client calls a running gateway. Reads are retried on transport errors and
// 5xx answers; sends are not.
type Client struct {
	baseURL string
	http    *fasthttp.Client

	defaultTimeout time.Duration
	retryMax       int
}

type ClientOption func(*Client)

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.defaultTimeout = d }
}

func WithRetry(max int) ClientOption {
	return func(c *Client) { c.retryMax = max }
}

// WithHTTPClient swaps the underlying fasthttp client, e.g. to dial an
// in-memory listener.
func WithHTTPClient(h *fasthttp.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 16},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Status(ctx context.Context) (*ficsdto.Status, error) {
	var st ficsdto.Status
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/status", nil, &st, true); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) Games(ctx context.Context) ([]ficsdto.GameSummary, error) {
	var out []ficsdto.GameSummary
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/games", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Game(ctx context.Context, id string) (*ficsdto.GameDetail, error) {
	var out ficsdto.GameDetail
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/games/"+id, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Send(ctx context.Context, command string) error {
	return c.doJSON(ctx, fasthttp.MethodPost, "/send", ficsdto.SendRequest{Command: command}, nil, false)
}

func (c *Client) Tell(ctx context.Context, handle, text string) error {
	return c.doJSON(ctx, fasthttp.MethodPost, "/send", ficsdto.SendRequest{Tell: handle, Text: text}, nil, false)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, retry bool) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	attempts := 1
	if retry && c.retryMax > 1 {
		attempts = c.retryMax
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx)); err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
		} else if status := resp.StatusCode(); status < 200 || status >= 300 {
			lastErr = decodeError(status, resp.Body())
			if !shouldRetryStatus(status) {
				return lastErr
			}
		} else {
			if out != nil {
				if err := json.Unmarshal(resp.Body(), out); err != nil {
					return fmt.Errorf("decode response: %w", err)
				}
			}
			return nil
		}
		if attempt == attempts {
			break
		}
		if err := sleepWithContext(ctx, backoffDuration(attempt)); err != nil {
			return lastErr
		}
	}
	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return lastErr
}

func decodeError(status int, body []byte) error {
	var e ficsdto.Error
	if err := json.Unmarshal(body, &e); err == nil && (e.Code != "" || e.Message != "") {
		return fmt.Errorf("gateway status=%d: %w", status, e)
	}
	return fmt.Errorf("gateway status=%d body=%s", status, truncate(string(body), 512))
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	attempt = max(1, min(attempt, 6))
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
