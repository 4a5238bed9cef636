package domain

import "errors"

var (
	// ErrInvalidQueryParameters means the request parameters cannot select a query.
	ErrInvalidQueryParameters = errors.New("query parameters are invalid")
	// ErrInvalidQuery means the service rejected the normalised query itself.
	ErrInvalidQuery = errors.New("query is invalid")
	// ErrInvalidRequest means a request body failed validation.
	ErrInvalidRequest = errors.New("request is invalid")
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	// ErrTransientStoreFailure wraps persistence failures the caller may retry.
	ErrTransientStoreFailure = errors.New("store temporarily unavailable")
	// ErrConstraintViolation means a write would break a counter or ledger invariant.
	ErrConstraintViolation = errors.New("constraint violation")
)
