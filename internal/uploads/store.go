// Package uploads holds PDFs between the upload request and the summarize
// request that consumes them. Every backend gives at-most-one-use semantics:
// Take claims the record, so a second Take of the same id reports ErrNotFound.
package uploads

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxUploadBytes = 10 << 20 // 10 MB
	PDFContentType = "application/pdf"
)

var (
	ErrInvalidContentType = errors.New("only PDF files are allowed")
	ErrTooLarge           = errors.New("pdf is too large")
	ErrInvalidID          = errors.New("invalid upload id")
	ErrNotFound           = errors.New("upload not found or expired")
)

// Store is the holding area for uploaded PDFs.
type Store interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	Take(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// Sweeper is implemented by stores that need an external expiry pass.
type Sweeper interface {
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

// ids are used to build file paths and keys, so only the uuid shape is allowed
var idPattern = regexp.MustCompile(`^[a-fA-F0-9-]{36}$`)

// ValidID reports whether id has the fixed 36 character hex-and-hyphen shape.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

func newID() string {
	return uuid.NewString()
}

func checkUpload(data []byte, contentType string) error {
	if !isPDF(contentType) {
		return ErrInvalidContentType
	}
	if len(data) > MaxUploadBytes {
		return ErrTooLarge
	}
	return nil
}

func isPDF(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), PDFContentType)
}
