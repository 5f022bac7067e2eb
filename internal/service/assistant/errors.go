package assistant

import (
	"errors"
	"fmt"
)

// Kind classifies why a chat or summarize request failed.
type Kind string

const (
	KindInvalidRequest         Kind = "invalid_request"
	KindNotFoundOrExpired      Kind = "not_found_or_expired"
	KindExtractionInsufficient Kind = "extraction_insufficient"
	KindUpstreamUnavailable    Kind = "upstream_unavailable"
	KindUpstreamError          Kind = "upstream_error"
	KindInternal               Kind = "internal"
)

const (
	msgInvalidUploadID    = "Invalid uploadId."
	msgUploadIDRequired   = "uploadId is required"
	msgEmptyMessage       = "Message cannot be empty"
	msgUploadNotFound     = "Upload not found or expired. Please upload the PDF again."
	msgNotEnoughText      = "Could not extract enough text from the PDF. It might be scanned or image-only; try a text-based PDF."
	msgProcessingFailed   = "Failed to process PDF."
	msgDefaultUnavailable = "completion provider is not configured"
)

// Error is the single typed reason a request failed. Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err, KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsClientError reports whether err is something the caller can fix.
func IsClientError(err error) bool {
	switch KindOf(err) {
	case KindInvalidRequest, KindNotFoundOrExpired, KindExtractionInsufficient:
		return true
	}
	return false
}
