// Package stereotype is a client library for the Stereotype
// template-materialization HTTP service.
//
// The client composes authenticated REST requests for template CRUD,
// materialization, property-bag expansion, and service health, and parses
// responses into plain structs. It holds no cache and no copy of server
// state; every call is a fresh request/response round trip, so a single
// Client may be shared freely across goroutines.
package stereotype

import "time"

const (
	// DefaultBaseURL is the production service endpoint.
	DefaultBaseURL = "https://stereotype.trdlnk.cimpress.io"

	// DefaultTimeout is the per-response wait budget.
	DefaultTimeout = 5 * time.Second

	// DefaultDeadline is the absolute budget for a whole call, including
	// transport-level retries.
	DefaultDeadline = 60 * time.Second

	// DefaultRetries is the transport retry count for idempotent calls.
	DefaultRetries = 3
)

// Service paths. Template and materialization resources live under the
// versioned prefix; livecheck and the swagger descriptor do not.
const (
	templatesPath        = "/v1/templates"
	materializationsPath = "/v1/materializations"
	expandPath           = "/v1/expand"
	livecheckPath        = "/livecheck"
	swaggerPath          = "/swagger.json"
)

// Request headers understood by the service.
const (
	HeaderTemplatePublic      = "x-cimpress-template-public"
	HeaderTemplateName        = "x-cimpress-template-name"
	HeaderTemplateDescription = "x-cimpress-template-description"
	HeaderRelBlacklist        = "x-cimpress-rel-blacklist"
	HeaderRelWhitelist        = "x-cimpress-rel-whitelist"
	HeaderAcceptPreference    = "x-cimpress-accept-preference"
	HeaderRelCuries           = "x-cimpress-rel-curies"
	HeaderMaxDepth            = "x-cimpress-max-depth"
	HeaderSoftErrors          = "x-cimpress-crawler-soft-errors"
	HeaderLinkTimeout         = "x-cimpress-link-timeout"
)
