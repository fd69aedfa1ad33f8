package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memoriascard/backend/internal/interfaces/http/handler"
	"github.com/memoriascard/backend/internal/interfaces/http/middleware"
)

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Catalog *handler.CatalogHandler
	Memory  *handler.MemoryHandler
	Card    *handler.CardHandler
	Draft   *handler.DraftHandler
	Payment *handler.PaymentHandler
	Webhook *handler.StripeWebhookHandler
	System  *handler.SystemHandler
}

// Options configures authentication and the optional routes
type Options struct {
	JWT middleware.JWTMiddlewareConfig
	// PaymentLimiter throttles the payment functions; nil disables it
	PaymentLimiter *middleware.RateLimiter
	// Metrics serves /metrics when set
	Metrics http.Handler
}

// RegisterRoutes installs every route on engine. Global middleware
// (request id, logging, CORS) is expected to be on the engine already.
func RegisterRoutes(engine *gin.Engine, h Handlers, opts Options) {
	engine.GET("/health", h.System.Health)
	if opts.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	paymentGuard := []gin.HandlerFunc{}
	if opts.PaymentLimiter != nil {
		paymentGuard = append(paymentGuard, middleware.RateLimit(opts.PaymentLimiter))
	}

	// Payment functions keep their own path and {error} contract
	functions := engine.Group("/functions/v1")
	functions.Use(middleware.JWTAuthMiddlewareWithConfig(opts.JWT))
	functions.Use(paymentGuard...)
	functions.POST("/create-payment", h.Payment.CreatePayment)
	functions.POST("/verify-payment", h.Payment.VerifyPayment)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(opts.JWT))

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", h.Auth.Register)
	authRoutes.POST("/login", h.Auth.Login)
	authRoutes.POST("/refresh", h.Auth.RefreshToken)
	authRoutes.POST("/logout", h.Auth.Logout)

	profileRoutes := NewDomainGroup("profile", "/profile")
	profileRoutes.GET("", h.Profile.Get)
	profileRoutes.PUT("", h.Profile.Update)

	catalogRoutes := NewDomainGroup("catalog", "/catalog")
	catalogRoutes.GET("/themes", h.Catalog.ListThemes)
	catalogRoutes.GET("/emojis", h.Catalog.ListEmojis)

	// Public card page; a token, when present, lets the owner preview
	memoryRoutes := NewDomainGroup("memory", "/memory")
	memoryRoutes.Use(middleware.OptionalJWTAuthMiddleware(opts.JWT))
	memoryRoutes.GET("/:id", h.Memory.View)

	cardRoutes := NewDomainGroup("cards", "/cards")
	cardRoutes.GET("", middleware.OptionalJWTAuthMiddleware(opts.JWT), h.Card.List)
	cardRoutes.POST("", h.Card.Create)
	cardRoutes.POST("/photos", h.Card.UploadPhoto)
	cardRoutes.GET("/:id", h.Card.GetByID)
	cardRoutes.PUT("/:id", h.Card.Update)
	cardRoutes.DELETE("/:id", h.Card.Delete)

	draftRoutes := NewDomainGroup("drafts", "/drafts")
	draftRoutes.GET("", h.Draft.List)
	draftRoutes.DELETE("", h.Draft.Clear)
	draftRoutes.GET("/usage", h.Draft.Usage)
	draftRoutes.GET("/:id", h.Draft.GetByID)
	draftRoutes.PUT("/:id", h.Draft.Save)
	draftRoutes.DELETE("/:id", h.Draft.Delete)
	draftRoutes.POST("/:id/publish", h.Draft.Publish)

	paymentRoutes := NewDomainGroup("payments", "/payments")
	paymentRoutes.GET("", h.Payment.History)
	paymentRoutes.POST("/return", append(paymentGuard, h.Payment.Return)...)

	webhookRoutes := NewDomainGroup("webhooks", "/webhooks")
	webhookRoutes.POST("/stripe", h.Webhook.HandleStripeWebhook)

	systemRoutes := NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", h.System.GetSystemInfo)

	r.Register(authRoutes).
		Register(profileRoutes).
		Register(catalogRoutes).
		Register(memoryRoutes).
		Register(cardRoutes).
		Register(draftRoutes).
		Register(paymentRoutes).
		Register(webhookRoutes).
		Register(systemRoutes)

	r.Setup()
}
