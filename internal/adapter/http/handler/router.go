package handler

import (
	"net/http"

	"art-marketplace/internal/adapter/http/middleware"
	redisStore "art-marketplace/internal/adapter/storage/redis"
	"art-marketplace/internal/core/domain"
	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc     ports.AuthService
	ArtworkSvc  ports.ArtworkService
	CartSvc     ports.CartService
	CheckoutSvc ports.CheckoutService
	OrderSvc    ports.OrderService
	WalletSvc   ports.WalletService
	TokenSvc    ports.TokenService
	SigSvc      ports.SignatureService

	// WebhookSecret keys the Paystack webhook signature.
	WebhookSecret string

	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	RateLimits     map[string]middleware.RateLimitRule
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled

	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer // nil = no /metrics endpoint
	MetricsPath string

	MaxBodyBytes int64
	Logger       zerolog.Logger
}

// Rate limit groups.
const (
	GroupAuth    = "auth"
	GroupAPI     = "api"
	GroupWebhook = "webhook"
)

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	if deps.MaxBodyBytes > 0 {
		r.Use(middleware.MaxBodySize(deps.MaxBodyBytes))
	}
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.Gatherer != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	rl := func(group string) gin.HandlerFunc {
		rule, ok := deps.RateLimits[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc)
	buyer := middleware.RequireRole(domain.RoleBuyer)
	artist := middleware.RequireRole(domain.RoleArtist)

	authH := NewAuthHandler(deps.AuthSvc)
	artworkH := NewArtworkHandler(deps.ArtworkSvc)
	cartH := NewCartHandler(deps.CartSvc)
	checkoutH := NewCheckoutHandler(deps.CheckoutSvc, deps.Logger)
	orderH := NewOrderHandler(deps.OrderSvc)
	walletH := NewWalletHandler(deps.WalletSvc)

	v1 := r.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth", rl(GroupAuth))
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
	}
	v1.GET("/artworks/:id", rl(GroupAPI), artworkH.Get)

	webhooks := v1.Group("/webhooks", rl(GroupWebhook))
	{
		webhooks.POST("/paystack", middleware.PaystackSignature(deps.SigSvc, deps.WebhookSecret), checkoutH.Webhook)
	}

	// --- JWT-authenticated routes ---
	api := v1.Group("", jwtAuth, rl(GroupAPI))

	api.POST("/artworks", artist, artworkH.Create)

	cart := api.Group("/cart", buyer)
	{
		cart.POST("/items", cartH.AddItem)
		cart.GET("/:id", cartH.Get)
		cart.DELETE("/:id", cartH.Delete)
	}

	checkout := api.Group("/checkout", buyer)
	{
		checkout.POST("", checkoutH.Create)
		checkout.GET("/verify/:reference", checkoutH.Verify)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", buyer, orderH.Create)
		orders.GET("", buyer, orderH.ListMine)
		orders.POST("/:id/ship", artist, orderH.Ship)
		orders.POST("/:id/confirm", buyer, orderH.Confirm)
	}

	artistGroup := api.Group("/artist", artist)
	{
		artistGroup.GET("/orders", orderH.ListForArtist)
		artistGroup.GET("/earnings", orderH.Earnings)
	}

	wallet := api.Group("/wallet")
	{
		wallet.POST("", walletH.Create)
		wallet.GET("", walletH.Get)
		wallet.POST("/deposit", walletH.Deposit)
		wallet.POST("/withdraw", walletH.Withdraw)
		wallet.POST("/transfer", walletH.Transfer)
		wallet.GET("/transactions", walletH.ListTransactions)
		wallet.GET("/transactions/:id", walletH.GetTransaction)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error_code": "SYS_404", "message": "Route not found"})
	})

	return r
}
