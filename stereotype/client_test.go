package stereotype

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCurieHeader(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("", encodeCurieHeader(nil, ""))
	assert.Equal("a;x", encodeCurieHeader([]Curie{{"a", "x"}}, ""))
	assert.Equal("a;x,b;y", encodeCurieHeader([]Curie{{"a", "x"}, {"b", "y"}}, ""))

	// an explicit raw value overrides the entries wholly, no merging
	assert.Equal("raw;override", encodeCurieHeader([]Curie{{"a", "x"}, {"b", "y"}}, "raw;override"))
}

func TestNewClientTokenNormalization(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	for _, tc := range []struct {
		token string
		want  string
	}{
		{"abc123", "Bearer abc123"},
		{"Bearer abc123", "Bearer abc123"},
		{"DPoP xyz789", "Bearer xyz789"},
	} {
		c, err := NewClient(tc.token, Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
		require.NoError(err)
		ok, err := c.Livecheck(ctx)
		require.NoError(err)
		assert.True(ok)
		assert.Equal(tc.want, gotAuth)
	}

	_, err := NewClient("", Config{})
	assert.Error(err)
}

func TestNewClientDefaults(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	c, err := NewClient("token", Config{})
	require.NoError(err)
	assert.Equal(DefaultBaseURL, c.BaseURL())
	assert.Equal(DefaultDeadline, c.deadline)
	assert.Equal(DefaultRetries, c.retries)

	c, err = NewClient("token", Config{BaseURL: "https://svc.example/", Retries: -1, Deadline: time.Second})
	require.NoError(err)
	assert.Equal("https://svc.example", c.BaseURL())
	assert.Equal(0, c.retries)
	assert.Equal(time.Second, c.deadline)
}

func TestEncodeLinkHeaders(t *testing.T) {
	assert := assert.New(t)

	hdr := encodeLinkHeaders(LinkConfig{})
	assert.Empty(hdr)

	hdr = encodeLinkHeaders(LinkConfig{
		Blacklist:        []string{"self", "parent"},
		Whitelist:        []string{"child"},
		AcceptPreference: "text/html",
		Curies:           []Curie{{"a", "x"}, {"b", "y"}},
		MaxDepth:         4,
		SoftErrors:       true,
		LinkTimeout:      1500 * time.Millisecond,
	})
	assert.Equal("self,parent", hdr.Get(HeaderRelBlacklist))
	assert.Equal("child", hdr.Get(HeaderRelWhitelist))
	assert.Equal("text/html", hdr.Get(HeaderAcceptPreference))
	assert.Equal("a;x,b;y", hdr.Get(HeaderRelCuries))
	assert.Equal("4", hdr.Get(HeaderMaxDepth))
	assert.Equal("true", hdr.Get(HeaderSoftErrors))
	assert.Equal("1500", hdr.Get(HeaderLinkTimeout))
}

func TestParsePublicFlag(t *testing.T) {
	assert := assert.New(t)

	assert.True(ParsePublicFlag(true))
	assert.True(ParsePublicFlag("true"))
	assert.True(ParsePublicFlag("True"))
	assert.False(ParsePublicFlag(nil))
	assert.False(ParsePublicFlag(false))
	assert.False(ParsePublicFlag("false"))
	assert.False(ParsePublicFlag("False"))
	assert.False(ParsePublicFlag(1))
}
