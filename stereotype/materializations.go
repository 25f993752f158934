package stereotype

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// PropertyBag is the arbitrary JSON object supplying substitution values and
// links for a template.
type PropertyBag = map[string]any

// MaterializeOptions selects the shape of a Materialize result.
type MaterializeOptions struct {
	// ReturnID resolves the call to just the materialization id from the
	// Location header, without the body.
	ReturnID bool

	// Async sends "Prefer: respond-async"; the service then answers 202
	// with a Location to poll instead of a body.
	Async bool
}

// Materialization is the outcome of populating a template with a property
// bag. Exactly one of ID, Location, or Body is populated, per the options
// and the response status: ID when the caller asked for it, Location on an
// async 202, Body otherwise.
type Materialization struct {
	Status   int
	ID       string
	Location string
	Body     []byte
}

// Text returns the materialized body as a string.
func (m *Materialization) Text() string {
	return string(m.Body)
}

// DirectMaterialization is the result of materializing an inline template.
type DirectMaterialization struct {
	Status int             `json:"status"`
	Result json.RawMessage `json:"result"`
}

// Materialize populates the stored template with the given property bag.
func (c *Client) Materialize(ctx context.Context, id TemplateID, payload PropertyBag, opts MaterializeOptions) (*Materialization, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	if opts.Async {
		hdr.Set("Prefer", "respond-async")
	}
	if c.binary {
		hdr.Set("Accept", "application/octet-stream")
	}
	resp, err := c.do(ctx, apiRequest{
		Op:          "materialize",
		Method:      http.MethodPost,
		Path:        templatesPath + "/" + string(id) + "/materializations",
		Headers:     hdr,
		Body:        bytes.NewReader(body),
		LinkHeaders: true,
	})
	if err != nil {
		return nil, err
	}

	m := &Materialization{Status: resp.StatusCode}
	switch {
	case resp.StatusCode == http.StatusAccepted:
		// async accepted: hand back the poll location, not the body
		m.Location = resp.Location()
	case opts.ReturnID:
		m.ID = materializationIDFromLocation(resp.Location())
	default:
		m.Body = resp.Body
	}
	return m, nil
}

// MaterializeDirect populates an inline template, without storing it first.
// The template body travels base64-encoded inside the JSON request. The
// content type is validated locally before any request is sent.
func (c *Client) MaterializeDirect(ctx context.Context, tmpl []byte, contentType string, payload PropertyBag) (*DirectMaterialization, error) {
	if err := checkContentType(contentType); err != nil {
		return nil, err
	}
	body, err := json.Marshal(map[string]any{
		"template": map[string]string{
			"body":        base64.StdEncoding.EncodeToString(tmpl),
			"contentType": contentType,
		},
		"templatePayload": payload,
	})
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, apiRequest{
		Op:          "materializeDirect",
		Method:      http.MethodPost,
		Path:        materializationsPath,
		Headers:     http.Header{"Content-Type": []string{"application/json"}},
		Body:        bytes.NewReader(body),
		LinkHeaders: true,
	})
	if err != nil {
		return nil, err
	}
	var out DirectMaterialization
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("decoding materialization result: %w", err)
	}
	return &out, nil
}

// GetMaterialization fetches the body of a previously-produced (typically
// async) materialization.
func (c *Client) GetMaterialization(ctx context.Context, id string, skipCache bool) ([]byte, error) {
	hdr := make(http.Header)
	if c.binary {
		hdr.Set("Accept", "application/octet-stream")
	}
	resp, err := c.do(ctx, apiRequest{
		Op:      "getMaterialization",
		Method:  http.MethodGet,
		Path:    materializationsPath + "/" + id,
		Query:   cacheBust(nil, skipCache),
		Headers: hdr,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// materializationIDFromLocation strips the known path prefix from a
// materialization Location header.
func materializationIDFromLocation(location string) string {
	return strings.TrimPrefix(location, materializationsPath+"/")
}
