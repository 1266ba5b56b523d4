package flights

import (
	"skybook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupFlightRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can search and view flights
	publicFlights := router.Group("/flights")
	{
		publicFlights.GET("", controller.SearchFlights)       // GET /api/v1/flights?from&to&date
		publicFlights.GET("/:flightId", controller.GetFlight) // GET /api/v1/flights/:flightId
	}

	// Admin routes - flight management
	adminFlights := router.Group("/admin/flights")
	adminFlights.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminFlights.POST("", controller.CreateFlight)             // POST /api/v1/admin/flights
		adminFlights.PUT("/:flightId", controller.UpdateFlight)    // PUT /api/v1/admin/flights/:flightId
		adminFlights.DELETE("/:flightId", controller.DeleteFlight) // DELETE /api/v1/admin/flights/:flightId

		// Admin can also browse with the same filters
		adminFlights.GET("", controller.SearchFlights)
		adminFlights.GET("/:flightId", controller.GetFlight)
	}
}
