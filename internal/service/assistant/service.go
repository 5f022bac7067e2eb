package assistant

import (
	"errors"

	"github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"

	"pdfchat/internal/service/ai"
	"pdfchat/internal/uploads"
)

// MinExtractedTextLength is the shortest trimmed text worth summarizing.
// Anything shorter is assumed to come from a scanned or image-only PDF.
const MinExtractedTextLength = 10

// Options tunes a Service.
type Options struct {
	// MissingCredential is reported when no completer is configured,
	// e.g. "GROQ_API_KEY is not set".
	MissingCredential string
	Logger            zerolog.Logger
}

// Service runs the plain chat and PDF summarization pipelines.
type Service struct {
	store     uploads.Store
	parser    parser.Parser
	completer ai.Completer
	opts      Options
}

// NewService builds a Service. completer may be nil when the provider credential
// is missing; every chat-capable call then fails with KindUpstreamUnavailable.
func NewService(store uploads.Store, p parser.Parser, completer ai.Completer, opts Options) (*Service, error) {
	if store == nil {
		return nil, errors.New("upload store required")
	}
	if p == nil {
		return nil, errors.New("document parser required")
	}
	if opts.MissingCredential == "" {
		opts.MissingCredential = msgDefaultUnavailable
	}
	return &Service{
		store:     store,
		parser:    p,
		completer: completer,
		opts:      opts,
	}, nil
}

// Ready returns the KindUpstreamUnavailable error when no completer is configured.
func (s *Service) Ready() error {
	if s.completer == nil {
		return newError(KindUpstreamUnavailable, s.opts.MissingCredential, ai.ErrMissingCredential)
	}
	return nil
}
