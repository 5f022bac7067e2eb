package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pdfchat/internal/service/assistant"
	"pdfchat/internal/uploads"
)

const (
	errNoFile         = "No PDF file provided"
	errNotPDF         = "Only PDF files are allowed"
	errTooLarge       = "PDF is too large. Maximum size is 10 MB."
	errInternal       = "Internal server error"
	errInvalidRequest = "Invalid request"

	// room for multipart boundaries and part headers on top of the file itself
	multipartOverhead = 1 << 20
)

// Handler wires HTTP routes to the assistant service and the upload store.
type Handler struct {
	assistant *assistant.Service
	uploads   uploads.Store
	logger    zerolog.Logger
}

// NewHandler constructs a Handler instance.
func NewHandler(service *assistant.Service, store uploads.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		assistant: service,
		uploads:   store,
		logger:    logger,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.healthz)

	chat := router.Group("/chat")
	chat.POST("", h.chat)
	chat.POST("/summarize-pdf", h.summarizePDF)

	api := router.Group("/api")
	api.POST("/upload-pdf", h.uploadPDF)
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type chatRequest struct {
	Message *string `json:"message"`
}

func (h *Handler) chat(c *gin.Context) {
	if err := h.assistant.Ready(); err != nil {
		h.writeError(c, err)
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequest})
		return
	}
	reply, err := h.assistant.Chat(context.WithoutCancel(c.Request.Context()), deref(req.Message))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

type summarizeRequest struct {
	UploadID *string `json:"uploadId"`
	Message  *string `json:"message"`
}

func (h *Handler) summarizePDF(c *gin.Context) {
	if err := h.assistant.Ready(); err != nil {
		h.writeError(c, err)
		return
	}
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidRequest})
		return
	}
	reply, err := h.assistant.SummarizeUpload(context.WithoutCancel(c.Request.Context()), deref(req.UploadID), deref(req.Message))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *Handler) uploadPDF(c *gin.Context) {
	limit := int64(uploads.MaxUploadBytes + multipartOverhead)
	if c.Request.ContentLength > limit {
		c.JSON(http.StatusBadRequest, gin.H{"error": errTooLarge})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	file, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errNoFile})
		return
	}
	if file.Size > uploads.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": errTooLarge})
		return
	}
	f, err := file.Open()
	if err != nil {
		h.logger.Error().Err(err).Msg("open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternal})
		return
	}
	data, err := io.ReadAll(io.LimitReader(f, uploads.MaxUploadBytes+1))
	_ = f.Close()
	if err != nil {
		h.logger.Error().Err(err).Msg("read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternal})
		return
	}

	id, err := h.uploads.Put(c.Request.Context(), data, file.Header.Get("Content-Type"))
	switch {
	case errors.Is(err, uploads.ErrInvalidContentType):
		c.JSON(http.StatusBadRequest, gin.H{"error": errNotPDF})
	case errors.Is(err, uploads.ErrTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": errTooLarge})
	case err != nil:
		h.logger.Error().Err(err).Msg("store upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternal})
	default:
		c.JSON(http.StatusOK, gin.H{"uploadId": id})
	}
}

// writeError maps a service error to its HTTP status and client-safe message.
func (h *Handler) writeError(c *gin.Context, err error) {
	var e *assistant.Error
	if !errors.As(err, &e) {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternal})
		return
	}
	status := statusFor(e.Kind)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	msg := e.Message
	if status == http.StatusInternalServerError {
		msg = errInternal
	}
	c.JSON(status, gin.H{"error": msg})
}

func statusFor(kind assistant.Kind) int {
	switch kind {
	case assistant.KindInvalidRequest, assistant.KindNotFoundOrExpired, assistant.KindExtractionInsufficient:
		return http.StatusBadRequest
	case assistant.KindUpstreamUnavailable, assistant.KindUpstreamError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
