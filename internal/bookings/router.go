package bookings

import (
	"skybook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller Controller) {
	// User routes - authenticated users manage their own bookings
	userBookings := router.Group("/bookings")
	userBookings.Use(middleware.JWTAuth())
	{
		userBookings.POST("", controller.CreateBooking)                     // POST /api/v1/bookings
		userBookings.GET("", controller.GetMyBookings)                      // GET /api/v1/bookings
		userBookings.GET("/:bookingId", controller.GetBooking)              // GET /api/v1/bookings/:bookingId
		userBookings.PUT("/:bookingId/cancel", controller.CancelBooking)    // PUT /api/v1/bookings/:bookingId/cancel
	}

	// Admin routes - back-office booking management
	adminBookings := router.Group("/admin/bookings")
	adminBookings.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminBookings.GET("", controller.GetAllBookings)                        // GET /api/v1/admin/bookings
		adminBookings.GET("/:bookingId", controller.GetBooking)                 // GET /api/v1/admin/bookings/:bookingId
		adminBookings.PUT("/:bookingId/status", controller.UpdateBookingStatus) // PUT /api/v1/admin/bookings/:bookingId/status
		adminBookings.DELETE("/:bookingId", controller.DeleteBooking)           // DELETE /api/v1/admin/bookings/:bookingId
	}
}
