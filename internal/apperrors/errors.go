package apperrors

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultExcerptLength bounds how much upstream error text is surfaced to a user.
const DefaultExcerptLength = 100

// Kind is the closed set of failure categories the dialogue layer knows how to render.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidURL
	KindNotFound
	KindRateLimited
	KindPrivateContent
	KindProvider
	KindExtractionFailed
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindValidation:
		return "validation"
	case KindInvalidURL:
		return "invalid_url"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindPrivateContent:
		return "private_content"
	case KindProvider:
		return "provider"
	case KindExtractionFailed:
		return "extraction_failed"
	default:
		return "unknown"
	}
}

// ErrValidation represents malformed user input. It is never fatal to a conversation.
type ErrValidation struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrValidation) Is(target error) bool {
	_, ok := target.(*ErrValidation)
	return ok
}

// NewValidationError creates a new ErrValidation.
func NewValidationError(field, reason string) *ErrValidation {
	return &ErrValidation{Field: field, Reason: reason}
}

// ErrInvalidURL is returned when a social source URL does not match the recognised grammar.
type ErrInvalidURL struct {
	URL string
}

// Error implements the error interface.
func (e *ErrInvalidURL) Error() string {
	return fmt.Sprintf("unrecognised URL: %q", e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrInvalidURL) Is(target error) bool {
	_, ok := target.(*ErrInvalidURL)
	return ok
}

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// ErrRateLimited is returned when an upstream throttles our requests.
type ErrRateLimited struct {
	Source string
}

// Error implements the error interface.
func (e *ErrRateLimited) Error() string {
	return fmt.Sprintf("%s is rate limiting requests", e.Source)
}

// Is allows for error checking with errors.Is().
func (e *ErrRateLimited) Is(target error) bool {
	_, ok := target.(*ErrRateLimited)
	return ok
}

// ErrPrivateContent is returned when the source explicitly refuses access without a login.
type ErrPrivateContent struct {
	Owner string
}

// Error implements the error interface.
func (e *ErrPrivateContent) Error() string {
	if e.Owner == "" {
		return "content is private and requires login"
	}
	return fmt.Sprintf("content of @%s is private and requires login", e.Owner)
}

// Is allows for error checking with errors.Is().
func (e *ErrPrivateContent) Is(target error) bool {
	_, ok := target.(*ErrPrivateContent)
	return ok
}

// ErrProvider wraps a transport failure or a non-success response from the catalog provider.
type ErrProvider struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *ErrProvider) Error() string {
	var b strings.Builder
	b.WriteString("provider error")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the underlying transport error.
func (e *ErrProvider) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrProvider) Is(target error) bool {
	_, ok := target.(*ErrProvider)
	return ok
}

// NewProviderError builds an ErrProvider whose message is bounded to DefaultExcerptLength.
func NewProviderError(statusCode int, upstream string, err error) *ErrProvider {
	return &ErrProvider{
		StatusCode: statusCode,
		Message:    Excerpt(upstream, DefaultExcerptLength),
		Err:        err,
	}
}

// ErrExtractionFailed is returned when every extraction strategy came up empty.
type ErrExtractionFailed struct {
	URL    string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ErrExtractionFailed) Error() string {
	msg := fmt.Sprintf("extraction failed for %s", e.URL)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the last strategy error.
func (e *ErrExtractionFailed) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrExtractionFailed) Is(target error) bool {
	_, ok := target.(*ErrExtractionFailed)
	return ok
}

// ErrInternal marks an unexpected failure, such as a recovered panic.
type ErrInternal struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ErrInternal) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("internal error in %s", e.Op)
	}
	return fmt.Sprintf("internal error in %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ErrInternal) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrInternal) Is(target error) bool {
	_, ok := target.(*ErrInternal)
	return ok
}

// KindOf classifies an error chain. The most specific user-facing category wins;
// anything unrecognised is KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, &ErrValidation{}):
		return KindValidation
	case errors.Is(err, &ErrInvalidURL{}):
		return KindInvalidURL
	case errors.Is(err, &ErrPrivateContent{}):
		return KindPrivateContent
	case errors.Is(err, &ErrRateLimited{}):
		return KindRateLimited
	case errors.Is(err, &ErrNotFound{}):
		return KindNotFound
	case errors.Is(err, &ErrExtractionFailed{}):
		return KindExtractionFailed
	case errors.Is(err, &ErrProvider{}):
		return KindProvider
	default:
		return KindInternal
	}
}

// Excerpt truncates s to at most n runes, appending an ellipsis when it was cut.
func Excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
