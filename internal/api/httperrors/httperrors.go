package httperrors

import (
	"fmt"
	"net/http"
)

// Well-known public error types, stable identifiers a client may switch on.
const (
	TypeGeneric              = "generic"
	TypeToolNotFound         = "tool_not_found"
	TypeValidation           = "validation_error"
	TypeNetworkNotConfigured = "network_not_configured"
	TypeNoIdentityAvailable  = "no_identity_available"
	TypeSubmissionFailed     = "submission_failed"
)

// HTTPError is the public error payload, RFC 7807 shaped.
type HTTPError struct {
	Code   int    `json:"status"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTPError %d (%s): %s", e.Code, e.Type, e.Title)
}

// NewHTTPError creates a public error with the given status, type identifier
// and human-readable title.
func NewHTTPError(code int, errorType string, title string) *HTTPError {
	return &HTTPError{Code: code, Type: errorType, Title: title}
}

// WithDetail attaches a detail message and returns a copy, leaving predefined
// errors untouched.
func (e *HTTPError) WithDetail(detail string) *HTTPError {
	out := *e
	out.Detail = detail
	return &out
}

var (
	ErrNotFoundTool             = NewHTTPError(http.StatusNotFound, TypeToolNotFound, "Tool does not exist.")
	ErrBadRequestValidation     = NewHTTPError(http.StatusBadRequest, TypeValidation, "Invalid tool arguments.")
	ErrBadRequestNetworkUnknown = NewHTTPError(http.StatusBadRequest, TypeNetworkNotConfigured, "Requested network is not configured.")
	ErrBadRequestNoIdentity     = NewHTTPError(http.StatusBadRequest, TypeNoIdentityAvailable, "No signing identity available.")
	ErrBadGatewaySubmission     = NewHTTPError(http.StatusBadGateway, TypeSubmissionFailed, "Node rejected the transaction.")
)
