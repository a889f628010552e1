package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/companyportal/backend/internal/auth"
	"github.com/companyportal/backend/internal/background"
	"github.com/companyportal/backend/internal/cache"
	"github.com/companyportal/backend/internal/clients/firebase"
	"github.com/companyportal/backend/internal/config"
	"github.com/companyportal/backend/internal/database"
	"github.com/companyportal/backend/internal/handlers"
	middlewareCustom "github.com/companyportal/backend/internal/middleware"
	"github.com/companyportal/backend/internal/repositories"
	"github.com/companyportal/backend/internal/routes"
	"github.com/companyportal/backend/internal/services"
	"github.com/companyportal/backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Apply pending migrations before opening the pool
	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := database.Migrate(migrateCtx, cfg.Database.DSN()); err != nil {
		migrateCancel()
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	migrateCancel()

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize redis staging store
	redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer redisClient.Close()
	store := cache.NewRedisStore(redisClient)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)

	// Initialize cleanup manager
	cleanupManager := background.NewCleanupManager(otpRepo, logger, cfg.Auth.CleanupInterval)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)

	// AWS SES mailer
	mailer, err := services.NewAWSSESMailer(cfg.Email.Region, cfg.Email.FromAddress, logger)
	if err != nil {
		logger.Error("failed to initialize mailer", slog.Any("error", err))
		os.Exit(1)
	}

	// External collaborators
	firebaseClient := firebase.New(cfg.Firebase.APIKey)
	uploader, err := storage.NewCloudinaryUploader(cfg.Cloudinary.URL)
	if err != nil {
		logger.Error("failed to initialize image store", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	otpService := services.NewOTPService(otpRepo, mailer, logger, cfg.Auth.OTPExpiry)
	registrationService := services.NewRegistrationService(userRepo, otpService, store, firebaseClient, tokenManager, logger)
	authService := services.NewAuthService(userRepo, otpService, tokenManager, logger, cfg.Auth.EagerLoginSession)
	userService := services.NewUserService(userRepo, logger)
	companyService := services.NewCompanyService(companyRepo, uploader, logger)

	// Initialize handlers
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(userService)
	companyHandler := handlers.NewCompanyHandler(companyService)

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, registrationHandler, authHandler, accountHandler, companyHandler, tokenManager)

	// Health check with database and cache
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")

		if err := db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","cache":"down"}`))
			return
		}

		stats := db.Stats()
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","database":"up","cache":"up","db_conns":{"total":%d,"idle":%d}}`,
			stats.TotalConns(), stats.IdleConns())
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
