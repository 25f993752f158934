package stereotype

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/cimpress-mcp/go-stereotype/util"
)

// Curie is a compact prefix mapping used to abbreviate link-relation names.
// Entry order is preserved when the curie header is synthesized.
type Curie struct {
	Prefix      string
	Replacement string
}

// LinkConfig holds the optional link-crawler headers attached to write,
// materialize, and expand requests. The zero value attaches nothing.
type LinkConfig struct {
	// Blacklist and Whitelist filter which link relations the service
	// crawls while resolving a property bag.
	Blacklist []string
	Whitelist []string

	// AcceptPreference hints the preferred representation of crawled links.
	AcceptPreference string

	// Accept is sent as the Accept header on materialize requests.
	Accept string

	// Curies are joined as "prefix;replacement" pairs, comma-separated, in
	// entry order. RawCuries, when non-empty, is sent verbatim instead and
	// fully overrides Curies.
	Curies    []Curie
	RawCuries string

	// MaxDepth bounds link crawling; zero means server default.
	MaxDepth int

	// SoftErrors asks the service to tolerate individual link failures.
	SoftErrors bool

	// LinkTimeout is the per-link timeout; zero means server default.
	LinkTimeout time.Duration
}

// Config controls a Client. The zero value is usable; every field falls back
// to a stated default.
type Config struct {
	// BaseURL is the service endpoint root. Defaults to DefaultBaseURL.
	// A trailing slash is trimmed.
	BaseURL string

	// HTTPClient overrides the transport for all requests. When set,
	// Timeout and Retries are not applied; the caller owns transport
	// policy. Mainly useful for tests.
	HTTPClient *http.Client

	// Timeout is the per-response wait budget. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Deadline is the absolute budget for a whole call including retries.
	// Defaults to DefaultDeadline.
	Deadline time.Duration

	// Retries is the transport retry count for idempotent calls. Zero
	// means DefaultRetries; set to a negative value to disable retries.
	Retries int

	// BinaryResponse requests materialization bodies as opaque octet
	// streams rather than text.
	BinaryResponse bool

	// Tracer receives a span per operation. Defaults to an OTEL tracer,
	// which is a no-op unless an SDK is installed.
	Tracer trace.Tracer

	// Links configures the optional crawler headers. Fixed at
	// construction; there are no post-construction setters, so a Client
	// is safe for concurrent use.
	Links LinkConfig
}

// Client is a handle to the template service. Construct with NewClient;
// all methods are safe for concurrent use.
type Client struct {
	token       string
	baseURL     string
	deadline    time.Duration
	binary      bool
	retries     int
	tracer      trace.Tracer
	linkHeaders http.Header

	// idempotent reads go through the retrying client; writes are sent
	// at most once
	readClient  *http.Client
	writeClient *http.Client
}

// NewClient builds a Client for the given bearer token. Any scheme prefix on
// the token ("Bearer xyz") is stripped up to the first space; the remainder
// is sent as the credential on every request.
func NewClient(token string, cfg Config) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("access token is required")
	}
	if i := strings.IndexByte(token, ' '); i >= 0 {
		token = token[i+1:]
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	deadline := cfg.Deadline
	if deadline == 0 {
		deadline = DefaultDeadline
	}
	retries := cfg.Retries
	if retries == 0 {
		retries = DefaultRetries
	} else if retries < 0 {
		retries = 0
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer("stereotype")
	}

	readClient := cfg.HTTPClient
	writeClient := cfg.HTTPClient
	if cfg.HTTPClient == nil {
		readClient = util.RetryingHTTPClient(retries, timeout)
		writeClient = util.PlainHTTPClient(timeout)
	}

	return &Client{
		token:       token,
		baseURL:     baseURL,
		deadline:    deadline,
		binary:      cfg.BinaryResponse,
		retries:     retries,
		tracer:      tracer,
		linkHeaders: encodeLinkHeaders(cfg.Links),
		readClient:  readClient,
		writeClient: writeClient,
	}, nil
}

// BaseURL returns the configured endpoint root, without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// encodeCurieHeader synthesizes the curie header value from ordered entries,
// joining "prefix;replacement" pairs with commas. A raw value overrides the
// entries wholly rather than merging.
func encodeCurieHeader(curies []Curie, raw string) string {
	if raw != "" {
		return raw
	}
	parts := make([]string, 0, len(curies))
	for _, cu := range curies {
		parts = append(parts, cu.Prefix+";"+cu.Replacement)
	}
	return strings.Join(parts, ",")
}

func encodeLinkHeaders(links LinkConfig) http.Header {
	hdr := make(http.Header)
	if len(links.Blacklist) > 0 {
		hdr.Set(HeaderRelBlacklist, strings.Join(links.Blacklist, ","))
	}
	if len(links.Whitelist) > 0 {
		hdr.Set(HeaderRelWhitelist, strings.Join(links.Whitelist, ","))
	}
	if links.AcceptPreference != "" {
		hdr.Set(HeaderAcceptPreference, links.AcceptPreference)
	}
	if links.Accept != "" {
		hdr.Set("Accept", links.Accept)
	}
	if v := encodeCurieHeader(links.Curies, links.RawCuries); v != "" {
		hdr.Set(HeaderRelCuries, v)
	}
	if links.MaxDepth > 0 {
		hdr.Set(HeaderMaxDepth, strconv.Itoa(links.MaxDepth))
	}
	if links.SoftErrors {
		hdr.Set(HeaderSoftErrors, "true")
	}
	if links.LinkTimeout > 0 {
		hdr.Set(HeaderLinkTimeout, strconv.FormatInt(links.LinkTimeout.Milliseconds(), 10))
	}
	return hdr
}
