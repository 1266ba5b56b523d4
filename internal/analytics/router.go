package analytics

import (
	"skybook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(router *gin.RouterGroup, controller Controller) {
	// Admin-only back-office analytics
	adminAnalytics := router.Group("/admin/analytics")
	adminAnalytics.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminAnalytics.GET("", controller.GetDashboardAnalytics)              // GET /api/v1/admin/analytics
		adminAnalytics.GET("/revenue/monthly", controller.GetMonthlyRevenue) // GET /api/v1/admin/analytics/revenue/monthly?months=12
	}
}
