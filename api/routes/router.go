// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"skybook/internal/analytics"
	"skybook/internal/auth"
	"skybook/internal/bookings"
	"skybook/internal/flights"
	"skybook/internal/seats"
	"skybook/internal/shared/config"
	"skybook/internal/shared/database"
	"skybook/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	notifier bookings.Notifier

	// Shared services for cross-package injection
	cacheService   cache.Service
	flightService  flights.Service
	bookingService bookings.Service
}

// NewRouter creates a new router instance. The notifier may be nil when the
// notification pipeline is unavailable; bookings then skip publishing.
func NewRouter(cfg *config.Config, db *database.DB, notifier bookings.Notifier) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
	}
}

// BookingService exposes the booking service for background jobs
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

// FlightService exposes the flight service for background jobs
func (r *Router) FlightService() flights.Service {
	return r.flightService
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Shared cache service backed by Redis
	if r.db.Redis != nil {
		r.cacheService = cache.NewService(r.db.Redis)
	}

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Setup auth routes
		r.setupAuthRoutes(api)

		// Setup flight routes (must be before booking routes for dependency injection)
		r.setupFlightRoutes(api)

		// Setup booking routes
		r.setupBookingRoutes(api)

		// Setup seat routes (depends on flight and booking services)
		r.setupSeatRoutes(api)

		// Setup admin analytics routes
		r.setupAnalyticsRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "skybook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "skybook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	// Initialize auth dependencies
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	// Setup auth routes
	authRouter.SetupRoutes(rg)
}

// setupFlightRoutes configures flight management routes
func (r *Router) setupFlightRoutes(rg *gin.RouterGroup) {
	// Initialize flight dependencies
	flightRepo := flights.NewRepository(r.db.GetPostgreSQL())
	flightService := flights.NewService(flightRepo)

	if r.cacheService != nil {
		flightService.SetCacheService(r.cacheService)
	}

	// Store flight service for dependency injection
	r.flightService = flightService

	flightController := flights.NewController(flightService)

	// Setup flight routes
	flights.SetupFlightRoutes(rg, flightController)
}

// setupBookingRoutes configures the booking ledger routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	// Initialize booking dependencies
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, r.flightService, r.config.Booking.MaxSeatsPerBooking)

	if r.cacheService != nil {
		bookingService.SetCacheService(r.cacheService)
	}
	if r.notifier != nil {
		bookingService.SetNotifier(r.notifier)
	}

	// Store booking service for dependency injection
	r.bookingService = bookingService

	bookingController := bookings.NewController(bookingService)

	// Setup booking routes
	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupSeatRoutes configures seat map and seat hold routes
func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	atomicOps := seats.NewAtomicRedisOperations(r.db.GetRedisClient())

	seatService := seats.NewService(
		r.flightService,
		r.bookingService,
		atomicOps,
		r.cacheService,
		r.config.Redis.SeatHoldTTL,
	)

	seatController := seats.NewController(seatService)

	// Setup seat routes
	seats.SetupSeatRoutes(rg, seatController)
}

// setupAnalyticsRoutes configures admin analytics routes
func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analyticsRepo := analytics.NewRepository(r.db.GetPostgreSQL())
	analyticsService := analytics.NewService(analyticsRepo)

	if r.cacheService != nil {
		analyticsService.SetCacheService(r.cacheService)
	}

	analyticsController := analytics.NewController(analyticsService)

	// Setup analytics routes
	analytics.SetupAnalyticsRoutes(rg, analyticsController)
}
