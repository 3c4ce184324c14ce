package product

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/shahmarket/market-api/internal/domain/user"
	"github.com/shahmarket/market-api/internal/middleware"
	"github.com/shahmarket/market-api/internal/pkg/response"
	"github.com/shahmarket/market-api/internal/pkg/validator"
)

// Handler handles product HTTP endpoints
type Handler struct {
	service *Service
}

// NewHandler creates product handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns storefront and seller product routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireSeller())
		r.Post("/", h.Create)
		r.Get("/mine", h.ListMine)
		r.Put("/{id}", h.Update)
	})

	return r
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	var categoryID uuid.UUID
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid category ID")
			return
		}
		categoryID = id
	}

	items, total, err := h.service.List(r.Context(), categoryID, r.URL.Query().Get("search"), limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products")
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

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid product ID")
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			response.NotFound(w, "Product not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get product")
		response.InternalError(w)
		return
	}

	response.OK(w, p)
}

type productRequest struct {
	CategoryID    string          `json:"category_id" validate:"required,uuid"`
	Name          string          `json:"name" validate:"required,min=3,max=200"`
	Description   string          `json:"description" validate:"required,min=10,max=5000"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	InventoryType string          `json:"inventory_type" validate:"inventory_type"`
	Quantity      int64           `json:"quantity" validate:"gte=0"`
	IsActive      *bool           `json:"is_active"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID := middleware.GetUserID(r.Context())

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}
	if req.Price.LessThanOrEqual(decimal.Zero) {
		response.BadRequest(w, "Price must be greater than zero")
		return
	}

	categoryID, _ := uuid.Parse(req.CategoryID)
	p, err := h.service.Create(r.Context(), sellerID, CreateInput{
		CategoryID:    categoryID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		InventoryType: InventoryType(req.InventoryType),
		Quantity:      req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSellerNotApproved):
			response.Forbidden(w, "Seller account is not approved")
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, "User not found")
		default:
			log.Error().Err(err).Msg("Failed to create product")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sellerID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid product ID")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}
	if req.Price.LessThanOrEqual(decimal.Zero) {
		response.BadRequest(w, "Price must be greater than zero")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	categoryID, _ := uuid.Parse(req.CategoryID)
	p, err := h.service.Update(r.Context(), sellerID, id, UpdateInput{
		CategoryID:    categoryID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		InventoryType: InventoryType(req.InventoryType),
		Quantity:      req.Quantity,
		IsActive:      isActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			response.NotFound(w, "Product not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "You do not own this product")
		default:
			log.Error().Err(err).Msg("Failed to update product")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, p)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	sellerID := middleware.GetUserID(r.Context())
	page, limit := pagination(r)

	items, total, err := h.service.ListMine(r.Context(), sellerID, limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list seller products")
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
