package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/reclaimhq/lostfound-system/docs"
	"github.com/reclaimhq/lostfound-system/internal/api/handler"
	"github.com/reclaimhq/lostfound-system/internal/api/middleware"
	"github.com/reclaimhq/lostfound-system/internal/core/ports"
	"github.com/reclaimhq/lostfound-system/internal/infrastructure/storage"
)

// Dependencies carries everything the router wires into handlers. Mongo and
// Redis are nil with the memory backend; the readiness probe and the token
// revocation check degrade accordingly.
type Dependencies struct {
	Items         ports.ItemService
	Notifications ports.NotificationService
	Auth          ports.AuthService
	Revoker       middleware.TokenRevoker
	Uploads       *storage.LocalStore
	JWTSecret     string
	Mongo         *mongo.Database
	Redis         *redis.Client
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("lostfound"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	itemHandler := handler.NewItemHandler(deps.Items)
	notificationHandler := handler.NewNotificationHandler(deps.Notifications)
	authRequired := middleware.Auth(deps.JWTSecret, deps.Revoker)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authRequired)

	// --- Item routes ---
	e.GET("/v1/items", itemHandler.List)
	e.GET("/v1/items/mine", itemHandler.ListMine, authRequired)
	e.GET("/v1/items/:id", itemHandler.Get)
	e.POST("/v1/items", itemHandler.Create, authRequired)
	e.PATCH("/v1/items/:id", itemHandler.Update, authRequired)
	e.DELETE("/v1/items/:id", itemHandler.Delete, authRequired)

	// --- Notification routes ---
	e.GET("/v1/notifications", notificationHandler.List, authRequired)
	e.GET("/v1/notifications/unread_count", notificationHandler.UnreadCount, authRequired)
	e.POST("/v1/notifications/:id/read", notificationHandler.MarkRead, authRequired)

	// --- Uploads ---
	if deps.Uploads != nil {
		uploadHandler := handler.NewUploadHandler(deps.Uploads)
		e.POST("/v1/uploads", uploadHandler.Upload, authRequired)
		e.Static("/uploads", deps.Uploads.Dir())
	}

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
