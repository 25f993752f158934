package stereotype

import (
	"fmt"
	"net/url"
	"path"
)

// TemplateID is the canonical identifier for a template resource. Historical
// service clients accepted either a bare id or a full template URL
// interchangeably; here the id is the one identifier type, and
// TemplateIDFromURL is the explicit conversion.
type TemplateID string

func (id TemplateID) String() string {
	return string(id)
}

// TemplateIDFromURL extracts the template id from a full template URL. The
// URL's last path segment, appended back onto the client's templates path,
// must reconstruct the given URL exactly; a mismatch is a local validation
// error and no request is sent. This keeps a crafted URL from redirecting a
// call to a foreign origin.
func (c *Client) TemplateIDFromURL(rawURL string) (TemplateID, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid template URL: %w", err)
	}
	seg := path.Base(u.Path)
	if seg == "." || seg == "/" || seg == "" {
		return "", fmt.Errorf("template URL has no id segment: %s", rawURL)
	}
	if c.baseURL+templatesPath+"/"+seg != rawURL {
		return "", fmt.Errorf("template URL does not match service endpoint: %s", rawURL)
	}
	return TemplateID(seg), nil
}

// TemplateURL is the inverse conversion, for callers that need the canonical
// resource URL of an id.
func (c *Client) TemplateURL(id TemplateID) string {
	return c.baseURL + templatesPath + "/" + string(id)
}
