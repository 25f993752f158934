package stereotype

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Expand resolves and flattens a property bag's links without materializing
// any template. The service reports an upstream link fetch timeout as a 400
// whose body carries a socket-timeout signature; that one condition is
// retried while the configured retry budget lasts, since the failure is
// transient and the operation has no side effects.
func (c *Client) Expand(ctx context.Context, payload PropertyBag) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return c.expand(ctx, body, c.retries)
}

func (c *Client) expand(ctx context.Context, body []byte, budget int) (string, error) {
	resp, err := c.do(ctx, apiRequest{
		Op:          "expand",
		Method:      http.MethodPost,
		Path:        expandPath,
		Headers:     http.Header{"Content-Type": []string{"application/json"}},
		Body:        bytes.NewReader(body),
		LinkHeaders: true,
	})
	if err != nil {
		var apiErr *APIError
		if budget > 0 && errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest && isLinkTimeout(apiErr) {
			return c.expand(ctx, body, budget-1)
		}
		return "", err
	}
	return string(resp.Body), nil
}

// isLinkTimeout matches the body signature the service emits when an
// upstream link fetch timed out at the socket level.
func isLinkTimeout(apiErr *APIError) bool {
	msg := strings.ToLower(apiErr.Name + " " + apiErr.Message)
	return strings.Contains(msg, "socket timeout") ||
		strings.Contains(msg, "socket hang up") ||
		strings.Contains(msg, "etimedout")
}

// Livecheck reports whether the service answers its health endpoint with
// HTTP 200. Any other status or a transport failure is an error.
func (c *Client) Livecheck(ctx context.Context) (bool, error) {
	resp, err := c.do(ctx, apiRequest{
		Op:     "livecheck",
		Method: http.MethodGet,
		Path:   livecheckPath,
	})
	if err != nil {
		return false, err
	}
	if resp.StatusCode != http.StatusOK {
		return false, &APIError{StatusCode: resp.StatusCode, Message: "unexpected livecheck status"}
	}
	return true, nil
}

// GetSwagger fetches the service's API descriptor.
func (c *Client) GetSwagger(ctx context.Context, skipCache bool) (json.RawMessage, error) {
	resp, err := c.do(ctx, apiRequest{
		Op:      "getSwagger",
		Method:  http.MethodGet,
		Path:    swaggerPath,
		Query:   cacheBust(nil, skipCache),
		Headers: http.Header{"Accept": []string{"application/json"}},
	})
	if err != nil {
		return nil, err
	}
	var doc json.RawMessage
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		return nil, fmt.Errorf("expected JSON descriptor: %w", err)
	}
	return doc, nil
}
