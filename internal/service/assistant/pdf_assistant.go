package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"pdfchat/internal/extract"
	"pdfchat/internal/uploads"
)

// SummarizeUpload claims the upload, extracts its text and asks the provider for a summary.
// The upload is deleted once it has been read, whatever happens afterwards.
func (s *Service) SummarizeUpload(ctx context.Context, uploadID, instruction string) (reply string, err error) {
	if err := s.Ready(); err != nil {
		return "", err
	}
	if uploadID == "" {
		return "", newError(KindInvalidRequest, msgUploadIDRequired, nil)
	}
	if !uploads.ValidID(uploadID) {
		return "", newError(KindInvalidRequest, msgInvalidUploadID, uploads.ErrInvalidID)
	}

	ctx = context.WithoutCancel(ctx)
	data, err := s.store.Take(ctx, uploadID)
	if err != nil {
		if errors.Is(err, uploads.ErrNotFound) {
			return "", newError(KindNotFoundOrExpired, msgUploadNotFound, err)
		}
		if errors.Is(err, uploads.ErrInvalidID) {
			return "", newError(KindInvalidRequest, msgInvalidUploadID, err)
		}
		return "", newError(KindInternal, msgProcessingFailed, err)
	}
	defer s.cleanup(ctx, uploadID)
	defer func() {
		if r := recover(); r != nil {
			reply, err = "", newError(KindInternal, msgProcessingFailed, fmt.Errorf("summarize %s: panic: %v", uploadID, r))
		}
	}()

	text, err := extract.Text(ctx, s.parser, uploadID+".pdf", data)
	if err != nil {
		s.opts.Logger.Debug().Err(err).Str("upload_id", uploadID).Msg("pdf extraction failed")
		return "", newError(KindExtractionInsufficient, msgNotEnoughText, err)
	}
	return s.SummarizeText(ctx, text, instruction)
}

// SummarizeText summarizes already extracted document text.
func (s *Service) SummarizeText(ctx context.Context, text, instruction string) (string, error) {
	if err := s.Ready(); err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinExtractedTextLength {
		return "", newError(KindExtractionInsufficient, msgNotEnoughText, nil)
	}
	return s.complete(ctx, summarySystemPrompt, summaryPrompt(instruction, text))
}

func (s *Service) cleanup(ctx context.Context, uploadID string) {
	if err := s.store.Delete(ctx, uploadID); err != nil {
		s.opts.Logger.Debug().Err(err).Str("upload_id", uploadID).Msg("delete upload")
	}
}
