package wallet

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/shahmarket/market-api/internal/middleware"
	"github.com/shahmarket/market-api/internal/pkg/response"
	"github.com/shahmarket/market-api/internal/pkg/validator"
)

// Handler handles wallet HTTP endpoints
type Handler struct {
	service *Service
}

// NewHandler creates wallet handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns wallet routes (all authenticated)
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.Get)
	r.Post("/deposit", h.Deposit)
	r.Get("/transactions", h.Transactions)

	return r
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	wallet, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			response.NotFound(w, "Wallet not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get wallet")
		response.InternalError(w)
		return
	}

	response.OK(w, wallet)
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	txn, err := h.service.Deposit(r.Context(), userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, "Amount must be greater than zero")
		case errors.Is(err, ErrWalletNotFound):
			response.NotFound(w, "Wallet not found")
		default:
			log.Error().Err(err).Msg("Failed to process deposit")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, txn)
}

func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	page, limit := pagination(r)
	txType := r.URL.Query().Get("type")

	items, total, err := h.service.Transactions(r.Context(), userID, txType, limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list transactions")
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
