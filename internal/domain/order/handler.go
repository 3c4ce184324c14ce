package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shahmarket/market-api/internal/domain/product"
	"github.com/shahmarket/market-api/internal/domain/wallet"
	"github.com/shahmarket/market-api/internal/middleware"
	"github.com/shahmarket/market-api/internal/pkg/response"
	"github.com/shahmarket/market-api/internal/pkg/validator"
)

// Handler handles order HTTP endpoints
type Handler struct {
	service *Service
}

// NewHandler creates order handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns order routes (all authenticated)
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Get("/purchases", h.ListPurchases)
	r.Get("/sales", h.ListSales)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/deliver", h.Deliver)
	r.Post("/{id}/confirm", h.ConfirmReceipt)

	return r
}

type createOrderRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	buyerID := middleware.GetUserID(r.Context())

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	productID, _ := uuid.Parse(req.ProductID)
	o, err := h.service.Create(r.Context(), buyerID, productID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrProductNotFound):
			response.NotFound(w, "Product not found")
		case errors.Is(err, product.ErrProductUnavailable):
			response.BadRequest(w, "Product is not available")
		case errors.Is(err, product.ErrInsufficientInventory):
			response.BadRequest(w, "Not enough inventory")
		case errors.Is(err, ErrOwnProduct):
			response.BadRequest(w, "You cannot order your own product")
		case errors.Is(err, ErrInvalidQuantity):
			response.BadRequest(w, "Quantity must be greater than zero")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			response.BadRequest(w, "Insufficient balance")
		case errors.Is(err, wallet.ErrWalletNotFound):
			response.NotFound(w, "Wallet not found")
		default:
			log.Error().Err(err).Msg("Failed to create order")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, o)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	o, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, ErrNotParticipant):
			response.Forbidden(w, "You are not a participant of this order")
		default:
			log.Error().Err(err).Msg("Failed to get order")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, o)
}

func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	page, limit := pagination(r)

	items, total, err := h.service.ListPurchases(r.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list purchases")
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

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	page, limit := pagination(r)

	items, total, err := h.service.ListSales(r.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list sales")
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

type deliverRequest struct {
	DeliveryData string `json:"delivery_data" validate:"required,min=1,max=10000"`
}

func (h *Handler) Deliver(w http.ResponseWriter, r *http.Request) {
	sellerID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	var req deliverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	o, err := h.service.Deliver(r.Context(), sellerID, id, req.DeliveryData)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, ErrNotParticipant):
			response.Forbidden(w, "You are not the seller of this order")
		case errors.Is(err, ErrInvalidStatus):
			response.Conflict(w, "Order cannot be delivered in its current status")
		default:
			log.Error().Err(err).Msg("Failed to deliver order")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, o)
}

func (h *Handler) ConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	buyerID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	o, err := h.service.ConfirmReceipt(r.Context(), buyerID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, ErrNotParticipant):
			response.Forbidden(w, "You are not the buyer of this order")
		case errors.Is(err, ErrInvalidStatus):
			response.Conflict(w, "Order must be delivered before confirming receipt")
		case errors.Is(err, ErrAlreadyReleased):
			response.Conflict(w, "Escrow has already been released")
		default:
			log.Error().Err(err).Msg("Failed to confirm receipt")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, o)
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
