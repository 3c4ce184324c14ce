package dispute

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shahmarket/market-api/internal/domain/order"
	"github.com/shahmarket/market-api/internal/middleware"
	"github.com/shahmarket/market-api/internal/pkg/response"
	"github.com/shahmarket/market-api/internal/pkg/validator"
)

// Handler handles dispute HTTP endpoints
type Handler struct {
	service *Service
}

// NewHandler creates dispute handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns dispute routes (all authenticated)
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Open)
	r.Get("/", h.ListMine)
	r.Get("/{id}", h.Get)

	return r
}

type openDisputeRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
	Reason  string `json:"reason" validate:"required,min=10,max=2000"`
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	buyerID := middleware.GetUserID(r.Context())

	var req openDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	orderID, _ := uuid.Parse(req.OrderID)
	d, err := h.service.Open(r.Context(), buyerID, orderID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, order.ErrNotParticipant):
			response.Forbidden(w, "You are not the buyer of this order")
		case errors.Is(err, order.ErrInvalidStatus):
			response.Conflict(w, "Only delivered orders can be disputed")
		case errors.Is(err, ErrDisputeExists):
			response.Conflict(w, "This order already has a dispute")
		default:
			log.Error().Err(err).Msg("Failed to open dispute")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, d)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	isAdmin := middleware.GetRole(r.Context()) == "admin"

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid dispute ID")
		return
	}

	d, err := h.service.Get(r.Context(), userID, isAdmin, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrDisputeNotFound):
			response.NotFound(w, "Dispute not found")
		case errors.Is(err, order.ErrNotParticipant):
			response.Forbidden(w, "You are not a participant of this dispute")
		default:
			log.Error().Err(err).Msg("Failed to get dispute")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, d)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	page, limit := pagination(r)

	items, total, err := h.service.ListMine(r.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list disputes")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, items, response.Meta{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: (total + limit - 1) / limit,
	})
}

func pagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
