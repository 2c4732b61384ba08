package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"wahret-zmen/internal/cart"
	"wahret-zmen/internal/config"
	"wahret-zmen/internal/database"
	custommiddleware "wahret-zmen/internal/middleware"
	"wahret-zmen/internal/repository"
	"wahret-zmen/internal/service"
	"wahret-zmen/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config  *config.Config
	logger  *zap.Logger
	db      database.Service
	redis   *redis.Client
	catalog service.CatalogService
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env != "production"))

	router.Get("/health", healthHandler(db, redisClient))

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.DB())
	orderRepo := repository.NewOrderRepository(db.DB())
	cartRepo := repository.NewCartRepository(redisClient, cfg.Cart.TTL)
	statsRepo := repository.NewStatsRepository(db.DB())

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, logger.Named("catalog"), service.PagingOptions{
		PageSize:      cfg.Catalog.PageSize,
		PageStep:      cfg.Catalog.PageStep,
		LoadMorePause: cfg.Catalog.LoadMorePause,
	}, cfg.Catalog.CacheTTL, cfg.Catalog.RefetchDebounce)
	productService := service.NewProductService(productRepo, catalogService, logger)
	cartService := service.NewCartService(cartRepo, catalogService, cart.MergePolicy{CapAtStock: cfg.Cart.CapAtStock}, logger.Named("cart"))
	orderService := service.NewOrderService(orderRepo, cartRepo, logger)
	dashboardService := service.NewDashboardService(statsRepo, logger)
	authService := service.NewAuthService(cfg.Admin.Username, cfg.Admin.PasswordHash, cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessExpiry)*time.Minute)

	// Auth and rate limiting
	adminMiddleware := []func(http.Handler) http.Handler{
		custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger),
		custommiddleware.RequireAdmin(logger),
	}
	limiter := func(prefix string) func(http.Handler) http.Handler {
		return custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit:" + prefix,
		}, logger)
	}

	// Register routes
	transport.NewProductHandler(catalogService, productService, logger).RegisterRoutes(router, adminMiddleware...)
	transport.NewCartHandler(cartService, logger).RegisterRoutes(router)
	transport.NewOrderHandler(orderService, logger).RegisterRoutes(router, limiter("checkout"), adminMiddleware...)
	transport.NewAdminHandler(authService, dashboardService, logger).RegisterRoutes(router, limiter("login"), adminMiddleware...)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:  cfg,
		logger:  logger,
		db:      db,
		redis:   redisClient,
		catalog: catalogService,
	}
}

func healthHandler(db database.Service, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{"status": "ok"}
		code := http.StatusOK

		dbHealth := db.Health(r.Context())
		status["database"] = dbHealth
		if dbHealth["status"] != "up" {
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}

		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			status["redis"] = map[string]string{"status": "down", "error": err.Error()}
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			status["redis"] = map[string]string{"status": "up"}
		}

		custommiddleware.RespondWithJSON(w, code, status)
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	s.catalog.Close()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
