// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Input errors
	CodeInvalidComplaintID Code = "INVALID_COMPLAINT_ID"
	CodeInvalidStatus      Code = "INVALID_STATUS"
	CodeTitleRequired      Code = "TITLE_REQUIRED"
	CodePhotoInvalid       Code = "PHOTO_INVALID"
	CodeInvalidFilter      Code = "INVALID_FILTER"

	// Lookup errors
	CodeComplaintNotFound Code = "COMPLAINT_NOT_FOUND"

	// Upstream errors
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
	CodeUpstreamRejected    Code = "UPSTREAM_REJECTED"

	// Admin errors
	CodeAdminUnauthorized Code = "ADMIN_UNAUTHORIZED"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case "":
		return http.StatusOK
	case CodeInvalidComplaintID,
		CodeInvalidStatus,
		CodeTitleRequired,
		CodePhotoInvalid,
		CodeInvalidFilter:
		return http.StatusBadRequest
	case CodeComplaintNotFound:
		return http.StatusNotFound
	case CodeAdminUnauthorized:
		return http.StatusUnauthorized
	case CodeUpstreamUnavailable, CodeUpstreamRejected:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// MessageKey returns the i18n catalog key for the code.
func (c Code) MessageKey() string {
	if c == "" {
		return ""
	}
	return messageKey(c)
}
