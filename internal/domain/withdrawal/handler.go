package withdrawal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/shahmarket/market-api/internal/domain/wallet"
	"github.com/shahmarket/market-api/internal/middleware"
	"github.com/shahmarket/market-api/internal/pkg/response"
	"github.com/shahmarket/market-api/internal/pkg/validator"
)

// Handler handles withdrawal HTTP endpoints
type Handler struct {
	service *Service
}

// NewHandler creates withdrawal handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns withdrawal routes (all authenticated)
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Request)
	r.Get("/", h.ListMine)

	return r
}

type withdrawalRequest struct {
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod  string          `json:"payment_method" validate:"required,payment_method"`
	PaymentDetails string          `json:"payment_details" validate:"required,min=3,max=1000"`
}

func (h *Handler) Request(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req withdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	wd, err := h.service.Request(r.Context(), userID, req.Amount, req.PaymentMethod, req.PaymentDetails)
	if err != nil {
		switch {
		case errors.Is(err, ErrBelowMinimum):
			response.BadRequest(w, "Amount is below the minimum withdrawal")
		case errors.Is(err, ErrAboveMaximum):
			response.BadRequest(w, "Amount is above the maximum withdrawal")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			response.BadRequest(w, "Insufficient balance")
		case errors.Is(err, wallet.ErrWalletNotFound):
			response.NotFound(w, "Wallet not found")
		default:
			log.Error().Err(err).Msg("Failed to request withdrawal")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, wd)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	page, limit := pagination(r)

	items, total, err := h.service.ListMine(r.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list withdrawals")
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
