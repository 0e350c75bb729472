package chitchats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hishamalhadi/chitchats-mcp/internal/version"
)

const (
	apiPrefix        = "/api/v1"
	maxResponseBytes = 4 * 1024 * 1024
	maxErrorBytes    = 64 * 1024
)

// Client issues calls against one Chit Chats account. Its fields are fixed
// at construction and a Client is safe for concurrent use. The client never
// retries and sets no timeout of its own; cancellation belongs to the
// caller's context.
type Client struct {
	host     string
	clientID string
	token    string
	hc       *http.Client
}

// New builds a client for the given base host, account client id and access
// token. Credentials may be blank: the public tracking path works without
// them, and authenticated calls fail closed instead of sending an
// unauthenticated request.
func New(host, clientID, token string) *Client {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		host = "https://chitchats.com"
	}
	return &Client{
		host:     host,
		clientID: strings.TrimSpace(clientID),
		token:    strings.TrimSpace(token),
		hc:       &http.Client{},
	}
}

// Do performs an authenticated call. path is relative to the account scope
// /api/v1/clients/{client_id} and already carries any query string. A
// non-nil body is serialized as JSON. On a 2xx response the body is decoded
// into out when out is non-nil; 204 responses never touch out.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) Result {
	if c.clientID == "" || c.token == "" {
		return Result{
			Kind:    KindTransportFailure,
			Message: "missing Chit Chats credentials: set CHITCHATS_CLIENT_ID and CHITCHATS_ACCESS_TOKEN",
		}
	}
	target := fmt.Sprintf("%s%s/clients/%s%s", c.host, apiPrefix, url.PathEscape(c.clientID), path)
	return c.call(ctx, method, target, body, out, true)
}

// Track performs the unauthenticated public tracking lookup for a shipment.
// Same normalization rules as Do, no Authorization header, no account scope
// in the path.
func (c *Client) Track(ctx context.Context, shipmentID string, out any) Result {
	target := fmt.Sprintf("%s%s/shipments/%s/tracking", c.host, apiPrefix, url.PathEscape(shipmentID))
	return c.call(ctx, http.MethodGet, target, nil, out, false)
}

func (c *Client) call(ctx context.Context, method, target string, body, out any, authed bool) Result {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return transportFailure(fmt.Errorf("encode request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return transportFailure(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "chitchats-mcp/"+version.Version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return transportFailure(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return Result{
			Kind:       KindRateLimited,
			Status:     resp.StatusCode,
			RetryAfter: retryAfterSeconds(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode == http.StatusNoContent:
		return Result{Kind: KindEmptySuccess, Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return Result{Kind: KindAPIError, Status: resp.StatusCode, Message: errorMessage(resp)}
	}

	if out != nil {
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return transportFailure(fmt.Errorf("read response body: %w", err))
		}
		if err := json.Unmarshal(data, out); err != nil {
			return transportFailure(fmt.Errorf("parse response body: %w", err))
		}
	}
	return Result{Kind: KindSuccess, Status: resp.StatusCode}
}

// errorMessage digs the most specific message out of an error response:
// the error field, then message, then a plain HTTP status fallback.
func errorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
	if err == nil && len(bytes.TrimSpace(data)) > 0 {
		var parsed struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &parsed) == nil {
			if msg := strings.TrimSpace(parsed.Error); msg != "" {
				return msg
			}
			if msg := strings.TrimSpace(parsed.Message); msg != "" {
				return msg
			}
		}
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

func retryAfterSeconds(header string) *int {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return nil
	}
	return &secs
}
