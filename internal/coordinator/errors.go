// Error taxonomy for the coordinator graph. Every failure here is recovered
// at the node that hit it: the turn still funnels into the response node and
// the user still gets a reply.

package coordinator

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ParseError means a generation call returned content that does not match
// the expected structured shape (malformed JSON, schema violation).
type ParseError struct {
	Node   string // node that attempted the parse
	Detail string // what failed (schema errors, decode error text)
	Raw    string // offending model output, truncated for logs
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: output parse failed: %s", e.Node, e.Detail)
}

// NewParseError builds a ParseError, truncating the raw output.
func NewParseError(node, detail, raw string) *ParseError {
	if len(raw) > 500 {
		raw = raw[:500] + "..."
	}
	return &ParseError{Node: node, Detail: detail, Raw: raw}
}

// IsParseError checks whether err is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// GenerationError means the text-generation call itself failed.
type GenerationError struct {
	Node string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: generation failed: %v", e.Node, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// RetryClass indicates whether a provider error is worth retrying. The core
// never retries (one call, one result); the class is metadata for callers
// that wrap Generate with their own policy.
type RetryClass string

const (
	RetryClassRetryable    RetryClass = "retryable"
	RetryClassMaybe        RetryClass = "maybe"
	RetryClassNonRetryable RetryClass = "non_retryable"
)

// ProviderError wraps a provider failure with classification metadata.
type ProviderError struct {
	Err         error
	Class       RetryClass
	HTTPStatus  int
	RetryAfter  string
	IsRateLimit bool
	IsAuth      bool
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("provider error: %s", e.Class)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ClassifyProviderError classifies an error from a generation backend.
func ClassifyProviderError(err error) RetryClass {
	if err == nil {
		return RetryClassNonRetryable
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Class
	}

	errStr := strings.ToLower(err.Error())

	// Rate limits and server errors are worth retrying.
	if strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") {
		return RetryClassRetryable
	}
	if strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "bad gateway") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "gateway timeout") {
		return RetryClassRetryable
	}
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "temporary failure") {
		return RetryClassRetryable
	}

	if strings.Contains(errStr, "deadline exceeded") {
		return RetryClassMaybe
	}
	if strings.Contains(errStr, "context length") ||
		strings.Contains(errStr, "token limit") ||
		strings.Contains(errStr, "maximum context length") {
		return RetryClassMaybe
	}

	// Auth, bad requests, quota and safety refusals are deterministic.
	return RetryClassNonRetryable
}

// WrapProviderError attaches classification metadata to a provider error.
func WrapProviderError(err error, httpStatus int, retryAfter string) error {
	if err == nil {
		return nil
	}
	return &ProviderError{
		Err:         err,
		Class:       ClassifyProviderError(err),
		HTTPStatus:  httpStatus,
		RetryAfter:  retryAfter,
		IsRateLimit: httpStatus == http.StatusTooManyRequests,
		IsAuth:      httpStatus == http.StatusUnauthorized || httpStatus == http.StatusForbidden,
	}
}
