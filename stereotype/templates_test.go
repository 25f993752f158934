package stereotype

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

func templateHandler(t *testing.T, requests *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/v1/templates":
			switch r.Method {
			case http.MethodGet:
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode([]map[string]any{
					{"templateId": "foo", "canCopy": true, "canEdit": false},
					{"templateId": "bar", "canCopy": false, "canEdit": true},
				})
			case http.MethodPost:
				w.Header().Set("Location", "/v1/templates/generated-id")
				w.WriteHeader(http.StatusCreated)
				fmt.Fprintln(w, `{"templateId":"generated-id"}`)
			default:
				http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			}
		case "/v1/templates/foo":
			switch r.Method {
			case http.MethodGet:
				if r.Header.Get("Accept") == "application/json" {
					w.Header().Set("Content-Type", "application/json")
					json.NewEncoder(w).Encode(map[string]any{
						"contentType": "text/mustache",
						"isPublic":    true,
						"name":        "greeting",
					})
				} else {
					fmt.Fprint(w, "Hello {{name}}!")
				}
			case http.MethodPut:
				if r.Header.Get(HeaderTemplatePublic) != "true" {
					http.Error(w, "Bad Request", http.StatusBadRequest)
					return
				}
				w.Header().Set("Location", "/v1/templates/foo")
				w.WriteHeader(http.StatusCreated)
			case http.MethodDelete:
				w.WriteHeader(http.StatusNoContent)
			default:
				http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			}
		default:
			http.NotFound(w, r)
		}
	}
}

func newTestClient(t *testing.T, srv *httptest.Server, cfg Config) *Client {
	t.Helper()
	cfg.BaseURL = srv.URL
	cfg.HTTPClient = srv.Client()
	c, err := NewClient("token", cfg)
	require.NoError(t, err)
	return c
}

func TestListTemplates(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	var requests atomic.Int64
	srv := httptest.NewServer(templateHandler(t, &requests))
	defer srv.Close()
	c := newTestClient(t, srv, Config{})

	out, err := c.ListTemplates(ctx, true, false)
	require.NoError(err)
	require.Len(out, 2)
	assert.Equal("foo", out[0].TemplateID)
	assert.True(out[0].CanCopy)
	assert.False(out[0].CanEdit)
	assert.Equal("bar", out[1].TemplateID)
}

func TestGetTemplate(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	var requests atomic.Int64
	srv := httptest.NewServer(templateHandler(t, &requests))
	defer srv.Close()
	c := newTestClient(t, srv, Config{})

	tmpl, err := c.GetTemplate(ctx, "foo", false)
	require.NoError(err)
	assert.Equal(TemplateID("foo"), tmpl.ID)
	assert.Equal("text/mustache", tmpl.ContentType)
	assert.Equal("Hello {{name}}!", string(tmpl.Body))
	assert.True(tmpl.Public)
	assert.Equal("greeting", tmpl.Name)
	// metadata and body are fetched separately
	assert.Equal(int64(2), requests.Load())

	// empty id fails locally, shaped like a server 404
	_, err = c.GetTemplate(ctx, "", false)
	var apiErr *APIError
	require.ErrorAs(err, &apiErr)
	assert.Equal(http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(int64(2), requests.Load())

	_, err = c.GetTemplate(ctx, "missing", false)
	require.ErrorAs(err, &apiErr)
	assert.Equal(http.StatusNotFound, apiErr.StatusCode)
}

func TestPutTemplate(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	var requests atomic.Int64
	srv := httptest.NewServer(templateHandler(t, &requests))
	defer srv.Close()
	c := newTestClient(t, srv, Config{})

	ref, err := c.PutTemplate(ctx, "foo", Template{
		ContentType: "text/mustache",
		Body:        []byte("body"),
		Public:      true,
	})
	require.NoError(err)
	assert.Equal(http.StatusCreated, ref.Status)
	assert.Equal(TemplateID("foo"), ref.ID)

	// unsupported content type rejects before any request goes out
	before := requests.Load()
	_, err = c.PutTemplate(ctx, "foo", Template{ContentType: "text/plain", Body: []byte("body")})
	var ctErr *UnsupportedContentTypeError
	require.ErrorAs(err, &ctErr)
	assert.Equal("text/plain", ctErr.ContentType)
	assert.Equal(before, requests.Load())
}

func TestCreateTemplate(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	var requests atomic.Int64
	srv := httptest.NewServer(templateHandler(t, &requests))
	defer srv.Close()
	c := newTestClient(t, srv, Config{})

	ref, err := c.CreateTemplate(ctx, Template{
		ContentType: "text/dust;postprocessors=mjml",
		Body:        []byte("body"),
	})
	require.NoError(err)
	assert.Equal(http.StatusCreated, ref.Status)
	assert.Equal(TemplateID("generated-id"), ref.ID)
	assert.NotEmpty(ref.Raw)

	before := requests.Load()
	_, err = c.CreateTemplate(ctx, Template{ContentType: "text/dust;postprocessors=sass", Body: []byte("body")})
	assert.Error(err)
	assert.Equal(before, requests.Load())
}

func TestDeleteTemplate(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	var requests atomic.Int64
	srv := httptest.NewServer(templateHandler(t, &requests))
	defer srv.Close()
	c := newTestClient(t, srv, Config{})

	status, err := c.DeleteTemplate(ctx, "foo")
	require.NoError(err)
	assert.Equal(http.StatusNoContent, status)

	_, err = c.DeleteTemplate(ctx, "missing")
	assert.Error(err)
}

func TestWriteRequestsCarryLinkHeaders(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	var got recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = recordedRequest{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()}
		w.Header().Set("Location", "/v1/templates/foo")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{
		Links: LinkConfig{
			Blacklist: []string{"self"},
			Curies:    []Curie{{"a", "x"}, {"b", "y"}},
			RawCuries: "z;override",
			MaxDepth:  2,
		},
	})

	_, err := c.PutTemplate(ctx, "foo", Template{ContentType: "text/mustache", Body: []byte("body")})
	require.NoError(err)
	assert.Equal("self", got.Header.Get(HeaderRelBlacklist))
	assert.Equal("z;override", got.Header.Get(HeaderRelCuries))
	assert.Equal("2", got.Header.Get(HeaderMaxDepth))
	assert.Equal("false", got.Header.Get(HeaderTemplatePublic))
	assert.Equal("text/mustache", got.Header.Get("Content-Type"))
	assert.Equal("Bearer token", got.Header.Get("Authorization"))
}
