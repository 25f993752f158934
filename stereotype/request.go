package stereotype

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"

	"github.com/carlmjohnson/versioninfo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// apiRequest is one outbound call to the service. Operations construct one,
// layer on their headers, and hand it to Client.do.
type apiRequest struct {
	// Op names the operation for the trace span.
	Op string

	Method string
	Path   string

	// Optional query parameters (field may be nil). Encoded as provided.
	Query url.Values

	// Optional request-level headers. Only the first value is sent per key
	// ("Set" behavior). These clobber client-level link headers.
	Headers http.Header

	// Optional request body (may be nil). When provided, a Content-Type
	// header should be set.
	Body io.Reader

	// LinkHeaders attaches the client's configured crawler headers. Only
	// write, materialize, and expand calls set this.
	LinkHeaders bool
}

// apiResponse is a fully-drained response: the body has been read and the
// connection released before it is returned to the operation.
type apiResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Location returns the response Location header, or "".
func (r *apiResponse) Location() string {
	return r.Header.Get("Location")
}

func (r *apiRequest) httpRequest(ctx context.Context, baseURL, token string, linkHeaders http.Header) (*http.Request, error) {
	u := baseURL + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, r.Method, u, r.Body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("User-Agent", "go-stereotype/"+versioninfo.Short())

	// client-level link headers first...
	if r.LinkHeaders {
		for k := range linkHeaders {
			httpReq.Header.Set(k, linkHeaders.Get(k))
		}
	}

	// ... then request-specific take priority (overwrite)
	for k := range r.Headers {
		httpReq.Header.Set(k, r.Headers.Get(k))
	}

	return httpReq, nil
}

// do sends the request and drains the response. Any non-2xx status is turned
// into an *APIError; transport failures surface as-is. The configured
// deadline bounds the whole exchange, including transport retries.
func (c *Client) do(ctx context.Context, req apiRequest) (*apiResponse, error) {
	ctx, span := c.tracer.Start(ctx, "stereotype."+req.Op)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.path", req.Path),
	)

	if c.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.deadline)
		defer cancel()
	}

	httpReq, err := req.httpRequest(ctx, c.baseURL, c.token, c.linkHeaders)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	httpClient := c.writeClient
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		httpClient = c.readClient
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := errorFromResponse(resp.StatusCode, body)
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, apiErr.Error())
		return nil, apiErr
	}

	return &apiResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// cacheBust appends a random query parameter so intermediary caches treat
// the request as unique. Purely cosmetic server-side.
func cacheBust(q url.Values, skipCache bool) url.Values {
	if !skipCache {
		return q
	}
	if q == nil {
		q = make(url.Values)
	}
	q.Set("skip_cache", strconv.FormatInt(rand.Int63(), 10))
	return q
}
