package quote

import (
	"errors"
	"fmt"

	"homeclean/internal/domain"
)

var (
	ErrQuoteNotFound = errors.New("quote not found")
	ErrNotAuthorized = errors.New("not authorized for this quote")
	ErrForbidden     = errors.New("forbidden")
)

// InvalidStateError rejects an operation that is only valid for drafts.
// Carries the actual status so callers see what the quote already is.
type InvalidStateError struct {
	Current domain.QuoteStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("quote already %s", e.Current)
}

// ValidationError names the field that blocks submission.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
