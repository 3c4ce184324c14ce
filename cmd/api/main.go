package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shahmarket/market-api/internal/config"
	"github.com/shahmarket/market-api/internal/domain/admin"
	"github.com/shahmarket/market-api/internal/domain/auth"
	"github.com/shahmarket/market-api/internal/domain/category"
	"github.com/shahmarket/market-api/internal/domain/dispute"
	"github.com/shahmarket/market-api/internal/domain/notification"
	"github.com/shahmarket/market-api/internal/domain/order"
	"github.com/shahmarket/market-api/internal/domain/product"
	"github.com/shahmarket/market-api/internal/domain/referral"
	"github.com/shahmarket/market-api/internal/domain/review"
	"github.com/shahmarket/market-api/internal/domain/user"
	"github.com/shahmarket/market-api/internal/domain/wallet"
	"github.com/shahmarket/market-api/internal/domain/withdrawal"
	"github.com/shahmarket/market-api/internal/middleware"
	"github.com/shahmarket/market-api/internal/pkg/database"
	"github.com/shahmarket/market-api/internal/pkg/jwt"
	"github.com/shahmarket/market-api/internal/pkg/response"
)

// notifierAdapter lets domain services depend on a narrow Notify
// method instead of the notification package.
type notifierAdapter struct {
	svc *notification.Service
}

func (a notifierAdapter) Notify(ctx context.Context, userID uuid.UUID, kind, title, message, link string) {
	a.svc.Notify(ctx, userID, notification.Type(kind), title, message, link)
}

func main() {
	cfg := config.Load()

	setupLogger(cfg)

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, rate limiting disabled")
		redisClient = nil
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTTTL)

	// Repositories
	userRepo := user.NewRepository(db)
	walletRepo := wallet.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	categoryRepo := category.NewRepository(db)
	productRepo := product.NewRepository(db)
	orderRepo := order.NewRepository(db)
	withdrawalRepo := withdrawal.NewRepository(db)
	disputeRepo := dispute.NewRepository(db)
	referralRepo := referral.NewRepository(db)
	reviewRepo := review.NewRepository(db)
	adminRepo := admin.NewRepository(db)

	// Services
	hub := notification.NewHub()
	notificationService := notification.NewService(notificationRepo, hub)
	notifier := notifierAdapter{svc: notificationService}

	adminService := admin.NewService(adminRepo, userRepo, productRepo, orderRepo, walletRepo, disputeRepo, notifier)

	walletService := wallet.NewService(db, walletRepo)
	productService := product.NewService(productRepo, userRepo, notifier, adminService)
	referralService := referral.NewService(db, referralRepo, userRepo, walletRepo,
		referral.Policy{CommissionPercent: cfg.Ledger.ReferralCommissionPercent}, notifier)
	orderService := order.NewService(db, orderRepo, walletRepo, productRepo,
		order.Policy{PlatformFeePercent: cfg.Ledger.PlatformFeePercent}, notifier, referralService)
	withdrawalService := withdrawal.NewService(db, withdrawalRepo, walletRepo,
		withdrawal.Policy{Min: cfg.Ledger.MinWithdrawal, Max: cfg.Ledger.MaxWithdrawal}, notifier, adminService)
	disputeService := dispute.NewService(db, disputeRepo, orderRepo, walletRepo, userRepo, notifier, adminService)
	reviewService := review.NewService(db, reviewRepo, orderRepo, productRepo)
	authService := auth.NewService(userRepo, walletService, referralService, jwtService)

	// Handlers
	authHandler := auth.NewHandler(authService)
	walletHandler := wallet.NewHandler(walletService)
	categoryHandler := category.NewHandler(categoryRepo)
	productHandler := product.NewHandler(productService)
	orderHandler := order.NewHandler(orderService)
	withdrawalHandler := withdrawal.NewHandler(withdrawalService)
	disputeHandler := dispute.NewHandler(disputeService)
	referralHandler := referral.NewHandler(referralService)
	reviewHandler := review.NewHandler(reviewService)
	notificationHandler := notification.NewHandler(notificationService, hub)
	adminHandler := admin.NewHandler(adminService, productService, withdrawalService, disputeService, walletService)

	authMiddleware := middleware.Auth(jwtService)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(redisClient, cfg.RateLimitPerMinute))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/wallet", walletHandler.Routes(authMiddleware))
		r.Mount("/categories", categoryHandler.Routes())
		r.Mount("/products", productHandler.Routes(authMiddleware))
		r.Mount("/orders", orderHandler.Routes(authMiddleware))
		r.Mount("/withdrawals", withdrawalHandler.Routes(authMiddleware))
		r.Mount("/disputes", disputeHandler.Routes(authMiddleware))
		r.Mount("/referrals", referralHandler.Routes(authMiddleware))
		r.Mount("/reviews", reviewHandler.Routes(authMiddleware))
		r.Mount("/notifications", notificationHandler.Routes(authMiddleware))
		r.Mount("/admin", adminHandler.Routes(authMiddleware, categoryHandler.AdminRoutes()))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}

	log.Info().Msg("Server stopped")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
