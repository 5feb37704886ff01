package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"art-marketplace/config"
	"art-marketplace/internal/adapter/gateway/paystack"
	httpHandler "art-marketplace/internal/adapter/http/handler"
	"art-marketplace/internal/adapter/http/middleware"
	pgStorage "art-marketplace/internal/adapter/storage/postgres"
	redisStorage "art-marketplace/internal/adapter/storage/redis"
	"art-marketplace/internal/core/ports"
	"art-marketplace/internal/service"
	"art-marketplace/pkg/logger"
	"art-marketplace/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load(os.Getenv("ART_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Service: "api", Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Bool("mock_gateway", cfg.Paystack.UseMock).
		Msg("Starting art marketplace API")

	ctx := context.Background()

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Metrics
	var (
		m        *metrics.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
		gatherer = reg
	} else {
		m = metrics.New(nil)
	}

	// Repositories
	userRepo := pgStorage.NewUserRepo(pool)
	artworkRepo := pgStorage.NewArtworkRepo(pool)
	walletRepo := pgStorage.NewWalletRepo(pool)
	walletTxRepo := pgStorage.NewWalletTransactionRepo(pool)
	orderRepo := pgStorage.NewOrderRepo(pool)
	cartRepo := pgStorage.NewCartRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Redis stores
	emailQueue := redisStorage.NewEmailQueue(rdb, cfg.Mail.QueueKey)
	marker := redisStorage.NewNotificationMarker(rdb, cfg.Notify.MarkerTTL)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Payment gateway
	var gateway ports.PaymentGateway
	if cfg.Paystack.UseMock {
		gateway = paystack.NewMockGateway(fmt.Sprintf("http://%s", cfg.Server.Addr()))
		log.Warn().Msg("Using mock payment gateway")
	} else {
		gateway = paystack.NewClient(paystack.Config{
			SecretKey:   cfg.Paystack.SecretKey,
			BaseURL:     cfg.Paystack.BaseURL,
			CallbackURL: cfg.Paystack.CallbackURL,
			Timeout:     cfg.Paystack.Timeout,
		}, nil, log)
	}

	// Core services
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService(service.Argon2Params{
		Time:      cfg.Password.Time,
		MemoryKiB: cfg.Password.MemoryKiB,
		Threads:   cfg.Password.Threads,
		KeyLength: cfg.Password.KeyLength,
	})
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Business services
	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc, log)
	artworkSvc := service.NewArtworkService(artworkRepo, log)
	cartSvc := service.NewCartService(cartRepo, artworkRepo, log)
	walletSvc := service.NewWalletService(walletRepo, walletTxRepo, transactor, m, log)
	orderSvc := service.NewOrderService(orderRepo, artworkRepo, transactor, m, log)
	notifier := service.NewNotificationService(emailQueue, m, log)
	checkoutSvc := service.NewCheckoutService(service.CheckoutDeps{
		Carts:      cartRepo,
		Orders:     orderRepo,
		Artworks:   artworkRepo,
		Users:      userRepo,
		Gateway:    gateway,
		Notifier:   notifier,
		Marker:     marker,
		Transactor: transactor,
		Metrics:    m,
	}, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	if cfg.Server.Mode == gin.ReleaseMode || cfg.Server.Mode == gin.TestMode {
		gin.SetMode(cfg.Server.Mode)
	}

	webhookSecret := cfg.Paystack.SecretKey
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		ArtworkSvc:     artworkSvc,
		CartSvc:        cartSvc,
		CheckoutSvc:    checkoutSvc,
		OrderSvc:       orderSvc,
		WalletSvc:      walletSvc,
		TokenSvc:       tokenSvc,
		SigSvc:         sigSvc,
		WebhookSecret:  webhookSecret,
		RateLimitStore: rateLimitStore,
		RateLimits:     rateLimitRules(cfg.RateLimit),
		HealthCheckers: []ports.HealthChecker{
			pgStorage.NewHealthCheck(pool),
			redisStorage.NewHealthCheck(rdb),
		},
		AuditSvc:     auditSvc,
		Metrics:      m,
		Gatherer:     gatherer,
		MetricsPath:  cfg.Metrics.Path,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	auditSvc.Wait(shutdownCtx)

	log.Info().Msg("Server exited")
}

func rateLimitRules(cfg config.RateLimitConfig) map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		httpHandler.GroupAuth:    {Limit: cfg.AuthLimit, Window: cfg.Window},
		httpHandler.GroupAPI:     {Limit: cfg.APILimit, Window: cfg.Window},
		httpHandler.GroupWebhook: {Limit: cfg.WebhookLimit, Window: cfg.Window},
	}
}
