package docfill

import (
	"errors"
	"fmt"
)

// ErrEmptyPDF is returned when the source PDF is zero bytes.
var ErrEmptyPDF = errors.New("pdf content is empty")

// ErrEmptyTemplate is returned when the template is zero bytes.
var ErrEmptyTemplate = errors.New("template content is empty")

// ErrNotPDF is returned when the source bytes do not sniff as a PDF.
var ErrNotPDF = errors.New("content is not a pdf")

// ErrModelMissing is returned when no model is specified for extraction.
var ErrModelMissing = errors.New("model not specified")

// InputError reports a missing or unreadable input. No processing is
// attempted once one is raised.
type InputError struct {
	Input string // "pdf" or "template"
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %s: %v", e.Input, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// ServiceError reports a failure at the extraction boundary: the service was
// unreachable, rate-limited, or returned a malformed payload. Retryable
// distinguishes transient failures from permanent ones. A field the service
// simply could not find is not an error at all; it is an absent FieldMap
// entry.
type ServiceError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("extraction service: %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a ServiceError marked transient.
func IsRetryable(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Retryable
}
