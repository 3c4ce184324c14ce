package referral

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/shahmarket/market-api/internal/middleware"
	"github.com/shahmarket/market-api/internal/pkg/response"
)

// Handler handles referral HTTP endpoints
type Handler struct {
	service *Service
}

// NewHandler creates referral handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns referral routes (all authenticated)
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.Summary)

	return r
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	summary, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load referral summary")
		response.InternalError(w)
		return
	}

	response.OK(w, summary)
}
