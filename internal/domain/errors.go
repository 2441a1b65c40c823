package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuery        = errors.New("invalid query")
	ErrUpstreamUnavailable = errors.New("supplier: unreachable")
	ErrUpstreamParse       = errors.New("supplier: unparseable response")
)

// UpstreamError is a non-2xx answer from the supplier. Body is the raw text.
type UpstreamError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("supplier: status %d %s", e.Status, e.StatusText)
}
