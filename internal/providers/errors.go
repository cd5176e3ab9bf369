// Package providers converts upstream wire records into hydrated domain
// objects and performs create, update and delete calls against the
// catalogue API.
//
// This file centralizes the error values returned by providers so callers
// can branch on them with errors.Is. Transport failures are propagated
// unchanged and match transport.ErrTransport.
package providers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tbourn/catalogue-admin/internal/resolver"
	"github.com/tbourn/catalogue-admin/internal/transport"
)

var (
	// ErrNotFound indicates that a requested id (record, status code or
	// user) has no upstream counterpart. It aliases resolver.ErrNotFound so
	// batch and single lookups fail the same way.
	ErrNotFound = resolver.ErrNotFound

	// ErrInvalidArgument is returned, before any request is made, when a
	// call lacks its identifying field.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrValidation is returned, before any request is made, when a
	// user-editable payload violates a required or format constraint.
	ErrValidation = errors.New("validation failed")
)

// missingID builds the error for an absent or non-positive id.
func missingID(op, kind string) error {
	return fmt.Errorf("%w: %s %s requires an id", ErrInvalidArgument, op, kind)
}

// notFoundOr maps an upstream 404 on an item endpoint to ErrNotFound and
// leaves every other error untouched.
func notFoundOr(err error, kind string, id int) error {
	if transport.StatusCode(err) == http.StatusNotFound {
		return fmt.Errorf("%w: %s %d: %w", ErrNotFound, kind, id, err)
	}
	return err
}
