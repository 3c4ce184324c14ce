package review

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

// Handler handles review HTTP endpoints
type Handler struct {
	service *Service
}

// NewHandler creates review handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns review routes. Listing is public, writing needs auth.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/product/{productID}", h.ListByProduct)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
	})

	return r
}

type createReviewRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	buyerID := middleware.GetUserID(r.Context())

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	orderID, _ := uuid.Parse(req.OrderID)
	rev, err := h.service.Create(r.Context(), buyerID, orderID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, order.ErrNotParticipant):
			response.Forbidden(w, "You are not the buyer of this order")
		case errors.Is(err, order.ErrInvalidStatus):
			response.Conflict(w, "Only completed orders can be reviewed")
		case errors.Is(err, ErrAlreadyReviewed):
			response.Conflict(w, "This order has already been reviewed")
		default:
			log.Error().Err(err).Msg("Failed to create review")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, rev)
}

func (h *Handler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		response.BadRequest(w, "Invalid product ID")
		return
	}

	page, limit := pagination(r)
	items, total, err := h.service.ListByProduct(r.Context(), productID, limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list reviews")
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
