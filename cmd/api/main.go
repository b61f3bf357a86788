package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wishlist-backend/config"
	"wishlist-backend/internal/delivery/http/middleware"
	v1 "wishlist-backend/internal/delivery/http/v1"
	"wishlist-backend/internal/domain"
	"wishlist-backend/internal/infrastructure/cache"
	"wishlist-backend/internal/infrastructure/cart"
	"wishlist-backend/internal/repository/memory"
	"wishlist-backend/internal/repository/postgres"
	redisrepo "wishlist-backend/internal/repository/redis"
	"wishlist-backend/internal/usecase"
	"wishlist-backend/pkg/logger"
	"wishlist-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Database
	pgxPool, err := postgres.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Successfully connected to PostgreSQL")

	// Repositories
	userRepo := postgres.NewUserRepository(pgxPool)
	wishlistRepo := postgres.NewWishlistRepository(pgxPool)
	productRepo := postgres.NewProductRepository(pgxPool)

	// Guest wishlists live in Redis so they survive restarts and expire on
	// their own. Without Redis the in-process store covers single-instance
	// deployments.
	var guestRepo domain.GuestWishlistRepository
	if cfg.RedisAddr != "" {
		redisClient, err := redisrepo.NewClient(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		guestRepo = redisrepo.NewGuestRepository(redisClient)
		log.Info().Str("addr", cfg.RedisAddr).Msg("Guest wishlists backed by Redis")
	} else {
		guestRepo = memory.NewGuestRepository()
		log.Warn().Msg("Guest wishlists backed by the in-process store")
	}

	// Initialize Cache (In-Memory)
	// Default expiration 30m, cleanup every 60m
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// Cart collaborator
	cartClient := cart.NewClient(cfg.CartServiceURL, cfg.CartPageURL, cfg.CartRequestTimeout)

	// Set up Router
	mux := http.NewServeMux()

	// --- Modules Initialization ---

	// Wishlist Module
	wishlistUC := usecase.NewWishlistUsecase(
		wishlistRepo,
		guestRepo,
		productRepo,
		cartClient,
		memCache,
		cfg.Wishlist,
		cfg.CacheProductTTL,
	)
	wishlistHandler := v1.NewWishlistHandler(wishlistUC, cfg.JWTSecret, cfg.NonceTTL)

	// Auth Module
	authUC := usecase.NewAuthUsecase(userRepo, cfg.AccessTokenExpiry)
	authHandler := v1.NewAuthHandler(authUC, wishlistUC)

	// Every wishlist route resolves an identity first; mutation endpoints
	// additionally check their nonce inside the handler.
	withIdentity := func(h http.HandlerFunc) http.Handler {
		return middleware.Identity(h)
	}

	// Wishlist
	mux.Handle("GET /api/v1/wishlist/session", withIdentity(wishlistHandler.GetSession))
	mux.Handle("GET /api/v1/wishlist", withIdentity(wishlistHandler.GetWishlist))
	mux.Handle("POST /api/v1/wishlist/update", withIdentity(wishlistHandler.UpdateWishlist))
	mux.Handle("POST /api/v1/wishlist/cart", withIdentity(wishlistHandler.AddToCart))
	mux.Handle("POST /api/v1/wishlist/remove", withIdentity(wishlistHandler.RemoveProduct))

	// No-JS fallback
	mux.Handle("GET /add-to-wishlist", withIdentity(wishlistHandler.AddToWishlistFallback))

	// Auth
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/v1/auth/me", middleware.AuthMiddleware(http.HandlerFunc(authHandler.Me)))

	// Metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok", "db": "connected"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Initialize Rate Limiter with lifecycle management
	// 50 req/s, burst 100, cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		50,            // requests per second
		100,           // burst
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	pgxPool.Close()

	log.Info().Msg("Server exited properly")
}
