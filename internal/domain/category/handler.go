package category

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shahmarket/market-api/internal/pkg/response"
	"github.com/shahmarket/market-api/internal/pkg/validator"
)

// Handler handles category HTTP endpoints
type Handler struct {
	repo Repository
}

// NewHandler creates category handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes returns public category routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	return r
}

// AdminRoutes returns category management routes
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context(), true)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list categories")
		response.InternalError(w)
		return
	}
	response.OK(w, items)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			response.NotFound(w, "Category not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get category")
		response.InternalError(w)
		return
	}
	response.OK(w, c)
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	c := &Category{
		ID:       uuid.New(),
		Name:     req.Name,
		Slug:     slugify(req.Name),
		IsActive: true,
	}
	if err := h.repo.Create(r.Context(), c); err != nil {
		if errors.Is(err, ErrCategoryExists) {
			response.Conflict(w, "Category already exists")
			return
		}
		log.Error().Err(err).Msg("Failed to create category")
		response.InternalError(w)
		return
	}

	response.Created(w, c)
}

type updateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	IsActive *bool  `json:"is_active"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	c, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			response.NotFound(w, "Category not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get category")
		response.InternalError(w)
		return
	}

	c.Name = req.Name
	c.Slug = slugify(req.Name)
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := h.repo.Update(r.Context(), c); err != nil {
		switch {
		case errors.Is(err, ErrCategoryNotFound):
			response.NotFound(w, "Category not found")
		case errors.Is(err, ErrCategoryExists):
			response.Conflict(w, "Category already exists")
		default:
			log.Error().Err(err).Msg("Failed to update category")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			response.NotFound(w, "Category not found")
			return
		}
		log.Error().Err(err).Msg("Failed to delete category")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"message": "Category deleted"})
}

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
