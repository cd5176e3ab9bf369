// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case. Generic codes mirror HTTP status semantics;
// the upstream_* codes tell the admin UI that the catalogue API, not this
// service, failed.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeBadFilter        = "bad_filter"
	ErrCodeValidation       = "validation_failed"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Upstream catalogue API failures:
	ErrCodeUpstream            = "upstream_error"
	ErrCodeUpstreamUnavailable = "upstream_unavailable"
	ErrCodeUpstreamTimeout     = "upstream_timeout"
	ErrCodeUnresolvedReference = "unresolved_reference"

	// Domain-specific:
	ErrCodeDeleteFailed = "delete_failed"
)
