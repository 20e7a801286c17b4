package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/photo"
	photoHttp "github.com/nekogravitycat/shareit-backend/internal/photo/http"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/logger"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
	"github.com/nekogravitycat/shareit-backend/internal/user"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	// TrustedProxies is a comma-separated CIDR list; forwarding headers from anyone else are ignored.
	TrustedProxies string
	Logger         *logrus.Logger
	// ErrorMapper renders service errors for this router; nil uses a lenient mapper.
	ErrorMapper *response.ErrorMapper

	// RateLimit is applied to every route when set.
	RateLimit  gin.HandlerFunc
	JWTManager *auth.JWTManager

	UserService    user.Service
	ItemService    item.Service
	BookingService booking.Service
	CommentService comment.Service
	PhotoService   photo.Service
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Identity) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	r := gin.New()

	// ClientIP keys the rate limiter, so X-Forwarded-For is only read from configured proxies.
	if err := r.SetTrustedProxies(splitList(cfg.TrustedProxies)); err != nil {
		cfg.Logger.WithError(err).Warn("invalid TRUSTED_PROXIES, trusting none")
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middleware:
	// - RequestLogger: one structured log entry per request, tagged with a request id.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logger.RequestLogger(cfg.Logger), gin.Recovery())

	if cfg.ErrorMapper == nil {
		cfg.ErrorMapper = &response.ErrorMapper{Logger: cfg.Logger}
	}
	r.Use(cfg.ErrorMapper.Middleware())

	// Configure CORS (Cross-Origin Resource Sharing).
	// cors rejects an empty origin list, so a production deployment without PROD_ORIGINS serves same-origin only.
	if origins := allowedOrigins(cfg); len(origins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = origins
		config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
		config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", auth.UserIDHeader, logger.RequestIDHeader}
		config.ExposeHeaders = []string{logger.RequestIDHeader}
		r.Use(cors.New(config))
	}

	if cfg.RateLimit != nil {
		r.Use(cfg.RateLimit)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// identity: resolves the caller from a bearer token or the user id header.
	identity := auth.Identity(cfg.JWTManager)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService)
	itemHandler := itemHttp.NewHandler(cfg.ItemService, cfg.BookingService, cfg.CommentService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	photoHandler := photoHttp.NewHandler(cfg.PhotoService, cfg.Logger)

	root := r.Group("")
	{
		userHttp.RegisterRoutes(root, userHandler)
		itemHttp.RegisterRoutes(root, itemHandler, identity)
		photoHttp.RegisterRoutes(root, photoHandler, identity)
		bookingHttp.RegisterRoutes(root, bookingHandler, identity)
	}

	return r
}

func allowedOrigins(cfg Config) []string {
	if !cfg.IsProduction {
		return []string{"http://localhost:3000", "http://localhost:8081"}
	}

	return splitList(cfg.ProdOrigins)
}

// splitList splits a comma-separated setting, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
