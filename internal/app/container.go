package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/shareit-backend/internal/api"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/config"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/photo"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/events"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/ratelimit"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/storage"
	"github.com/nekogravitycat/shareit-backend/internal/store/memory"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	// StorageDriver selects the entity store; DBPool is required for config.DriverPostgres.
	StorageDriver string
	DBPool        *pgxpool.Pool

	JWTSecret string
	JWTTTL    time.Duration

	Logger    *logrus.Logger
	Clock     clock.Clock
	Publisher events.Publisher

	// TrustedProxies lists proxy CIDRs whose forwarding headers are honoured; empty trusts none.
	TrustedProxies string
	// RateLimit enables per-client limiting (e.g. "100-M"); RedisClient shares counters across instances.
	RateLimit   string
	RedisClient *redis.Client

	Storage        storage.Storage
	UploadMaxBytes int64

	RejectOverlap   bool
	StrictForbidden bool
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager

	UserService    user.Service
	ItemService    item.Service
	BookingService booking.Service
	CommentService comment.Service
	PhotoService   photo.Service
}

type repositories struct {
	users    user.Repository
	items    item.Repository
	bookings booking.Repository
	comments comment.Repository
	photos   photo.Repository
}

func newRepositories(cfg Config) (repositories, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		store := memory.NewWithClock(cfg.Clock)
		return repositories{
			users:    store.Users(),
			items:    store.Items(),
			bookings: store.Bookings(),
			comments: store.Comments(),
			photos:   store.Photos(),
		}, nil
	case config.DriverPostgres, "":
		if cfg.DBPool == nil {
			return repositories{}, errors.New("postgres storage requires a database pool")
		}
		return repositories{
			users:    user.NewPgxRepository(cfg.DBPool),
			items:    item.NewPgxRepository(cfg.DBPool),
			bookings: booking.NewPgxRepository(cfg.DBPool),
			comments: comment.NewPgxRepository(cfg.DBPool),
			photos:   photo.NewRepository(cfg.DBPool),
		}, nil
	default:
		return repositories{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.Nop{}
	}
	if cfg.Storage == nil {
		return nil, errors.New("photo storage is required")
	}

	errorMapper := &response.ErrorMapper{
		StrictForbidden: cfg.StrictForbidden,
		Logger:          cfg.Logger,
	}

	repos, err := newRepositories(cfg)
	if err != nil {
		return nil, err
	}

	// Init Components
	var jwtManager *auth.JWTManager
	if cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	}

	// User Module
	userService := user.NewService(repos.users)

	// Item Module
	itemService := item.NewService(repos.items, userService)

	// Booking Module
	bookingService := booking.NewService(repos.bookings, userService, itemService, booking.Config{
		Clock:         cfg.Clock,
		Publisher:     cfg.Publisher,
		Logger:        cfg.Logger,
		RejectOverlap: cfg.RejectOverlap,
	})

	// Comment Module
	commentService := comment.NewService(repos.comments, itemService, userService, bookingService, cfg.Clock)

	// Photo Module
	photoService := photo.NewService(repos.photos, itemService, cfg.Storage, photo.Config{
		MaxSizeBytes: cfg.UploadMaxBytes,
		Clock:        cfg.Clock,
		Logger:       cfg.Logger,
	})

	// Rate limiting
	var rateLimit gin.HandlerFunc
	if cfg.RateLimit != "" {
		store, err := ratelimit.NewStore(cfg.RedisClient)
		if err != nil {
			return nil, err
		}
		rateLimit, err = ratelimit.Middleware(store, cfg.RateLimit)
		if err != nil {
			return nil, err
		}
	}

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Logger:         cfg.Logger,
		ErrorMapper:    errorMapper,
		RateLimit:      rateLimit,
		JWTManager:     jwtManager,
		UserService:    userService,
		ItemService:    itemService,
		BookingService: bookingService,
		CommentService: commentService,
		PhotoService:   photoService,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:         router,
		JWTManager:     jwtManager,
		UserService:    userService,
		ItemService:    itemService,
		BookingService: bookingService,
		CommentService: commentService,
		PhotoService:   photoService,
	}, nil
}
