package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"busreserve/internal/handler"
	"busreserve/internal/middleware"
	"busreserve/internal/redis"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler    *handler.TripHandler
	BookingHandler *handler.BookingHandler
	ResponseStore  redis.ResponseStoreInterface // nil disables idempotent replay
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(cors.New(corsConfig()))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
		router.Use(middleware.NoticeServerErrors())
	}

	router.Use(middleware.IdempotencyMiddleware(deps.ResponseStore))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Trip routes.
		trips := v1.Group("/trips")
		{
			trips.GET("", deps.TripHandler.GetAll)
			trips.POST("", deps.TripHandler.Create)
			trips.GET("/search", deps.TripHandler.Search)
			trips.GET("/:position", deps.TripHandler.GetReservation)
			trips.GET("/:position/bookings", deps.BookingHandler.ListForTrip)
			trips.POST("/:position/bookings", deps.BookingHandler.BookSeats)
			trips.POST("/:position/bookings/validate", deps.BookingHandler.ValidateSeats)
		}

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
			bookings.GET("/:id/ticket", deps.BookingHandler.GetTicket)
		}
	}

	return router
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Idempotency-Key")
	cfg.ExposeHeaders = []string{"Idempotent-Replayed"}
	return cfg
}
