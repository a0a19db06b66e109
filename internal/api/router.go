package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/farmlink/marketplace-api/docs"
	"github.com/farmlink/marketplace-api/internal/api/handler"
	"github.com/farmlink/marketplace-api/internal/api/middleware"
	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
	"github.com/farmlink/marketplace-api/internal/core/service"
	"github.com/farmlink/marketplace-api/internal/infrastructure/config"
	mongodb "github.com/farmlink/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/farmlink/marketplace-api/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with all routes registered. The audit
// recorder is owned by the caller so its worker lifecycle outlives any
// single request.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit ports.AuditRecorder, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.IsDevelopment())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	listingRepo := mongodb.NewListingRepository(db)
	cache := redisdb.NewCatalogueCache(rdb)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, log)
	userService := service.NewUserService(userRepo, audit, cfg.AllowRejectedReapproval, log)
	listingService := service.NewListingService(listingRepo, cache, audit, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	// Identity resolution is global: a bad or missing token just means an
	// anonymous actor. All deny decisions happen in the policy downstream.
	e.Use(middleware.Identity(authService))

	// --- User routes ---
	users := e.Group("/users")
	users.POST("", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.GET("", userHandler.ListAll)
	users.GET("/admin/pending", userHandler.ListPending)
	users.PUT("/admin/approve/:id", userHandler.Approve)
	users.PUT("/admin/reject/:id", userHandler.Reject)
	users.GET("/:id", userHandler.Get)
	users.DELETE("/:id", userHandler.Delete)

	// --- Listing routes, one group per kind ---
	registerListingRoutes(e.Group("/gallery"), domain.KindGallery, listingService)
	registerListingRoutes(e.Group("/offers"), domain.KindOffer, listingService)

	// --- Probes, metrics, docs ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}

// registerListingRoutes mounts the shared moderation surface for one kind.
// Static segments are registered before the parameterized :id route.
func registerListingRoutes(g *echo.Group, kind domain.Kind, listings ports.ListingService) {
	h := handler.NewListingHandler(kind, listings)

	g.POST("", h.Create)
	g.GET("/approved", h.ListApproved)
	g.GET("/category/:category", h.ListApprovedByCategory)
	g.GET("/my-items", h.ListMine)
	g.GET("/pending", h.ListPending)
	g.GET("/admin/all", h.ListAll)
	g.PUT("/update/:id", h.Update)
	g.PUT("/approve/:id", h.Approve)
	g.DELETE("/delete/:id", h.Delete)
	g.GET("/:id", h.Get)
}
