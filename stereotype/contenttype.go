package stereotype

import "strings"

// Template dialects the service can materialize. Parameters (postprocessors,
// version tags) are allowed on top of any of these base types.
var supportedContentTypes = map[string]bool{
	"text/dust":                  true,
	"text/mustache":              true,
	"text/handlebars":            true,
	"text/x-handlebars-template": true,
	"text/x-edie":                true,
	"text/x-edie-html":           true,
}

// Post-processing pipeline stages the service knows how to run.
var supportedPostProcessors = map[string]bool{
	"mjml":  true,
	"juice": true,
}

// SupportedContentType reports whether the service can handle the given
// Content-Type value. The base media type must be a known template dialect;
// if a "postprocessors" parameter is present, every comma-separated token in
// it (case-insensitive, trimmed) must be a known post-processor. A single
// unknown token invalidates the whole value.
//
// The postprocessors parameter is a bare comma-separated list, which a
// strict media-type parser would truncate at the first comma, so the value
// is split by hand.
func SupportedContentType(value string) bool {
	parts := strings.Split(value, ";")
	base := strings.ToLower(strings.TrimSpace(parts[0]))
	if !supportedContentTypes[base] {
		return false
	}
	for _, param := range parts[1:] {
		key, val, ok := strings.Cut(param, "=")
		if !ok || strings.ToLower(strings.TrimSpace(key)) != "postprocessors" {
			continue
		}
		for _, tok := range strings.Split(val, ",") {
			if !supportedPostProcessors[strings.ToLower(strings.TrimSpace(tok))] {
				return false
			}
		}
	}
	return true
}

func checkContentType(value string) error {
	if !SupportedContentType(value) {
		return &UnsupportedContentTypeError{ContentType: value}
	}
	return nil
}

// UnsupportedContentTypeError is returned before any network call when a
// create/put/materialize-direct request names a content type the service
// does not handle.
type UnsupportedContentTypeError struct {
	ContentType string
}

func (e *UnsupportedContentTypeError) Error() string {
	return "unsupported content type: " + e.ContentType
}
