package seats

import (
	"skybook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - seat availability is visible without an account
	publicSeats := router.Group("/flights/:flightId")
	{
		publicSeats.GET("/seats", controller.GetSeatMap)               // GET /api/v1/flights/:flightId/seats
		publicSeats.GET("/seats/reserved", controller.GetReservedSeats) // GET /api/v1/flights/:flightId/seats/reserved
	}

	// Authenticated routes - advisory holds during seat selection
	holds := router.Group("/seats")
	holds.Use(middleware.JWTAuth())
	{
		holds.POST("/hold", controller.HoldSeats)              // POST /api/v1/seats/hold
		holds.DELETE("/hold/:holdId", controller.ReleaseHold)  // DELETE /api/v1/seats/hold/:holdId
	}
}
