package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/shahmarket/market-api/internal/domain/dispute"
	"github.com/shahmarket/market-api/internal/domain/product"
	"github.com/shahmarket/market-api/internal/domain/user"
	"github.com/shahmarket/market-api/internal/domain/wallet"
	"github.com/shahmarket/market-api/internal/domain/withdrawal"
	"github.com/shahmarket/market-api/internal/middleware"
	"github.com/shahmarket/market-api/internal/pkg/response"
	"github.com/shahmarket/market-api/internal/pkg/validator"
)

// Handler handles admin HTTP endpoints. All routes are mounted behind
// the admin role check.
type Handler struct {
	service     *Service
	products    *product.Service
	withdrawals *withdrawal.Service
	disputes    *dispute.Service
	wallets     *wallet.Service
}

// NewHandler creates admin handler
func NewHandler(service *Service, products *product.Service, withdrawals *withdrawal.Service, disputes *dispute.Service, wallets *wallet.Service) *Handler {
	return &Handler{
		service:     service,
		products:    products,
		withdrawals: withdrawals,
		disputes:    disputes,
		wallets:     wallets,
	}
}

// Routes returns admin routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, categoryRoutes chi.Router) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireAdmin())

	r.Get("/dashboard", h.Dashboard)

	r.Get("/users", h.ListUsers)
	r.Post("/users/{id}/freeze", h.FreezeUser)
	r.Post("/users/{id}/unfreeze", h.UnfreezeUser)

	r.Get("/sellers/pending", h.PendingSellers)
	r.Post("/sellers/{id}/approve", h.ApproveSeller)
	r.Post("/sellers/{id}/reject", h.RejectSeller)

	r.Get("/products/pending", h.PendingProducts)
	r.Post("/products/{id}/approve", h.ApproveProduct)
	r.Post("/products/{id}/reject", h.RejectProduct)

	r.Get("/withdrawals/pending", h.PendingWithdrawals)
	r.Post("/withdrawals/{id}/approve", h.ApproveWithdrawal)
	r.Post("/withdrawals/{id}/reject", h.RejectWithdrawal)

	r.Get("/disputes", h.OpenDisputes)
	r.Post("/disputes/{id}/resolve", h.ResolveDispute)

	r.Get("/transactions", h.Transactions)
	r.Get("/wallets/totals", h.WalletTotals)

	r.Get("/settings", h.Settings)
	r.Put("/settings", h.UpdateSettings)
	r.Get("/logs", h.Logs)

	r.Mount("/categories", categoryRoutes)

	return r
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to build dashboard")
		response.InternalError(w)
		return
	}
	response.OK(w, d)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	items, total, err := h.service.ListUsers(r.Context(),
		r.URL.Query().Get("role"),
		r.URL.Query().Get("status"),
		limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		response.InternalError(w)
		return
	}

	views := make([]interface{}, 0, len(items))
	for _, u := range items {
		views = append(views, userView(u))
	}

	response.WithMeta(w, views, response.Meta{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: (total + limit - 1) / limit,
	})
}

type reasonRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

func (h *Handler) FreezeUser(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	if err := h.service.FreezeUser(r.Context(), adminID, userID, req.Reason); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		log.Error().Err(err).Msg("Failed to freeze user")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"message": "User frozen"})
}

func (h *Handler) UnfreezeUser(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.UnfreezeUser(r.Context(), adminID, userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		log.Error().Err(err).Msg("Failed to unfreeze user")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"message": "User unfrozen"})
}

func (h *Handler) PendingSellers(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.PendingSellers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list pending sellers")
		response.InternalError(w)
		return
	}

	views := make([]interface{}, 0, len(items))
	for _, u := range items {
		views = append(views, userView(u))
	}
	response.OK(w, views)
}

func (h *Handler) ApproveSeller(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.ApproveSeller(r.Context(), adminID, userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		log.Error().Err(err).Msg("Failed to approve seller")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"message": "Seller approved"})
}

func (h *Handler) RejectSeller(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	if err := h.service.RejectSeller(r.Context(), adminID, userID, req.Reason); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		log.Error().Err(err).Msg("Failed to reject seller")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"message": "Seller rejected"})
}

func (h *Handler) PendingProducts(w http.ResponseWriter, r *http.Request) {
	items, err := h.products.ListPending(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list pending products")
		response.InternalError(w)
		return
	}
	response.OK(w, items)
}

func (h *Handler) ApproveProduct(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid product ID")
		return
	}

	if err := h.products.Approve(r.Context(), adminID, productID); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			response.NotFound(w, "Product not found")
			return
		}
		log.Error().Err(err).Msg("Failed to approve product")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"message": "Product approved"})
}

func (h *Handler) RejectProduct(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid product ID")
		return
	}

	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	if err := h.products.Reject(r.Context(), adminID, productID, req.Reason); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			response.NotFound(w, "Product not found")
			return
		}
		log.Error().Err(err).Msg("Failed to reject product")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"message": "Product rejected"})
}

func (h *Handler) PendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	items, total, err := h.withdrawals.ListPending(r.Context(), limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list pending withdrawals")
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

func (h *Handler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid withdrawal ID")
		return
	}

	wd, err := h.withdrawals.Approve(r.Context(), adminID, id)
	if err != nil {
		switch {
		case errors.Is(err, withdrawal.ErrWithdrawalNotFound):
			response.NotFound(w, "Withdrawal not found")
		case errors.Is(err, withdrawal.ErrNotPending):
			response.Conflict(w, "Withdrawal has already been processed")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			response.Conflict(w, "Wallet pending balance does not cover this withdrawal")
		default:
			log.Error().Err(err).Msg("Failed to approve withdrawal")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, wd)
}

func (h *Handler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid withdrawal ID")
		return
	}

	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	wd, err := h.withdrawals.Reject(r.Context(), adminID, id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, withdrawal.ErrWithdrawalNotFound):
			response.NotFound(w, "Withdrawal not found")
		case errors.Is(err, withdrawal.ErrNotPending):
			response.Conflict(w, "Withdrawal has already been processed")
		default:
			log.Error().Err(err).Msg("Failed to reject withdrawal")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, wd)
}

func (h *Handler) OpenDisputes(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	items, total, err := h.disputes.ListOpen(r.Context(), limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list open disputes")
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

type resolveDisputeRequest struct {
	Resolution string `json:"resolution" validate:"required,resolution"`
	AdminNotes string `json:"admin_notes" validate:"max=2000"`
}

func (h *Handler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid dispute ID")
		return
	}

	var req resolveDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	d, err := h.disputes.Resolve(r.Context(), adminID, id, dispute.Resolution(req.Resolution), req.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, dispute.ErrDisputeNotFound):
			response.NotFound(w, "Dispute not found")
		case errors.Is(err, dispute.ErrNotOpen):
			response.Conflict(w, "Dispute has already been resolved")
		case errors.Is(err, dispute.ErrInvalidResolution):
			response.BadRequest(w, "Invalid resolution")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			response.Conflict(w, "Escrow balances do not cover this dispute")
		default:
			log.Error().Err(err).Msg("Failed to resolve dispute")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, d)
}

func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	items, total, err := h.wallets.AllTransactions(r.Context(), r.URL.Query().Get("type"), limit, (page-1)*limit)
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

func (h *Handler) WalletTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.wallets.PlatformTotals(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load wallet totals")
		response.InternalError(w)
		return
	}
	response.OK(w, totals)
}

func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Settings(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load settings")
		response.InternalError(w)
		return
	}
	response.OK(w, items)
}

type updateSettingsRequest struct {
	Settings map[string]string `json:"settings" validate:"required,min=1"`
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())

	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	for key, value := range req.Settings {
		if err := h.service.UpdateSetting(r.Context(), adminID, key, value); err != nil {
			log.Error().Err(err).Str("key", key).Msg("Failed to update setting")
			response.InternalError(w)
			return
		}
	}

	response.OK(w, map[string]string{"message": "Settings updated"})
}

func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	items, total, err := h.service.Logs(r.Context(), limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list admin logs")
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

// userView hides the password hash from admin listings
func userView(u *user.User) map[string]interface{} {
	return map[string]interface{}{
		"id":             u.ID,
		"user_code":      u.UserCode,
		"full_name":      u.FullName,
		"email":          u.Email,
		"role":           u.Role,
		"account_status": u.AccountStatus,
		"referral_code":  u.ReferralCode,
		"seller_status":  u.SellerStatus.String,
		"created_at":     u.CreatedAt,
	}
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
