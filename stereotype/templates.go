package stereotype

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"
	"golang.org/x/sync/errgroup"
)

// Template is a stored text asset: an opaque body plus the content type
// naming its templating dialect and optional post-processing pipeline.
type Template struct {
	ID          TemplateID
	ContentType string
	Body        []byte
	Public      bool
	Name        string
	Description string
}

// TemplateSummary is one entry of a template listing.
type TemplateSummary struct {
	TemplateID string `json:"templateId"`
	CanCopy    bool   `json:"canCopy"`
	CanEdit    bool   `json:"canEdit"`
}

// TemplateRef describes a created or updated template: the id the server
// assigned (derived from the Location header) plus the raw response
// document.
type TemplateRef struct {
	ID     TemplateID
	Status int
	Raw    json.RawMessage
}

type listTemplatesQuery struct {
	Public bool `url:"public"`
}

// ListTemplates fetches the template listing. With publicOnly set, only
// templates marked public are returned.
func (c *Client) ListTemplates(ctx context.Context, publicOnly, skipCache bool) ([]TemplateSummary, error) {
	q, err := query.Values(listTemplatesQuery{Public: publicOnly})
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, apiRequest{
		Op:      "listTemplates",
		Method:  http.MethodGet,
		Path:    templatesPath,
		Query:   cacheBust(q, skipCache),
		Headers: http.Header{"Accept": []string{"application/json"}},
	})
	if err != nil {
		return nil, err
	}
	var out []TemplateSummary
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("decoding template listing: %w", err)
	}
	return out, nil
}

// GetTemplate fetches a template's metadata and raw body in two parallel
// sub-requests and merges them. An empty id fails locally with a 404-shaped
// error, mirroring what the server would return for a missing resource.
func (c *Client) GetTemplate(ctx context.Context, id TemplateID, skipCache bool) (*Template, error) {
	if id == "" {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "empty template id"}
	}
	p := templatesPath + "/" + string(id)

	var metaDoc struct {
		ContentType string `json:"contentType"`
		IsPublic    bool   `json:"isPublic"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	var body []byte

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := c.do(ctx, apiRequest{
			Op:      "getTemplateMetadata",
			Method:  http.MethodGet,
			Path:    p,
			Query:   cacheBust(nil, skipCache),
			Headers: http.Header{"Accept": []string{"application/json"}},
		})
		if err != nil {
			return err
		}
		if err := json.Unmarshal(resp.Body, &metaDoc); err != nil {
			return fmt.Errorf("decoding template metadata: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		resp, err := c.do(ctx, apiRequest{
			Op:     "getTemplateBody",
			Method: http.MethodGet,
			Path:   p,
			Query:  cacheBust(nil, skipCache),
		})
		if err != nil {
			return err
		}
		body = resp.Body
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Template{
		ID:          id,
		ContentType: metaDoc.ContentType,
		Body:        body,
		Public:      metaDoc.IsPublic,
		Name:        metaDoc.Name,
		Description: metaDoc.Description,
	}, nil
}

// CreateTemplate stores a new template and lets the server pick its id. The
// content type is validated locally before any request is sent.
func (c *Client) CreateTemplate(ctx context.Context, t Template) (*TemplateRef, error) {
	if err := checkContentType(t.ContentType); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, apiRequest{
		Op:          "createTemplate",
		Method:      http.MethodPost,
		Path:        templatesPath,
		Headers:     templateHeaders(t),
		Body:        bytes.NewReader(t.Body),
		LinkHeaders: true,
	})
	if err != nil {
		return nil, err
	}
	return templateRefFromResponse(resp), nil
}

// PutTemplate stores or replaces the template with the given id. The content
// type is validated locally before any request is sent.
func (c *Client) PutTemplate(ctx context.Context, id TemplateID, t Template) (*TemplateRef, error) {
	if err := checkContentType(t.ContentType); err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, apiRequest{
		Op:          "putTemplate",
		Method:      http.MethodPut,
		Path:        templatesPath + "/" + string(id),
		Headers:     templateHeaders(t),
		Body:        bytes.NewReader(t.Body),
		LinkHeaders: true,
	})
	if err != nil {
		return nil, err
	}
	ref := templateRefFromResponse(resp)
	if ref.ID == "" {
		ref.ID = id
	}
	return ref, nil
}

// DeleteTemplate removes the template and returns the HTTP status code.
func (c *Client) DeleteTemplate(ctx context.Context, id TemplateID) (int, error) {
	resp, err := c.do(ctx, apiRequest{
		Op:     "deleteTemplate",
		Method: http.MethodDelete,
		Path:   templatesPath + "/" + string(id),
	})
	if err != nil {
		return 0, err
	}
	return resp.StatusCode, nil
}

// ParsePublicFlag coerces the loosely-typed public flag accepted by earlier
// service clients: bool true and the case-insensitive string "true" are
// public, everything else (including nil) is private.
func ParsePublicFlag(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return strings.EqualFold(x, "true")
	default:
		return false
	}
}

func templateHeaders(t Template) http.Header {
	hdr := make(http.Header)
	hdr.Set("Content-Type", t.ContentType)
	hdr.Set(HeaderTemplatePublic, boolString(t.Public))
	if t.Name != "" {
		hdr.Set(HeaderTemplateName, t.Name)
	}
	if t.Description != "" {
		hdr.Set(HeaderTemplateDescription, t.Description)
	}
	return hdr
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func templateRefFromResponse(resp *apiResponse) *TemplateRef {
	ref := &TemplateRef{Status: resp.StatusCode}
	if loc := resp.Location(); loc != "" {
		ref.ID = TemplateID(strings.TrimPrefix(loc, templatesPath+"/"))
	}
	if len(resp.Body) > 0 {
		ref.Raw = json.RawMessage(resp.Body)
	}
	return ref
}
