package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"github.com/rs/zerolog"

	"pdfchat/internal/logging"
)

// NewRouter builds the gin engine for h and wraps it with CORS for the browser UI.
func NewRouter(h *Handler, logger zerolog.Logger) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), logging.Middleware(logger))
	h.RegisterRoutes(router)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	return cors(router)
}
