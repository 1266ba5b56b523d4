package analytics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"skybook/internal/shared/utils/response"
)

// Controller defines the analytics controller interface
type Controller interface {
	GetDashboardAnalytics(c *gin.Context)
	GetMonthlyRevenue(c *gin.Context)
}

type controller struct {
	service Service
}

// NewController creates a new analytics controller instance
func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetDashboardAnalytics(c *gin.Context) {
	dashboard, err := ctrl.service.GetDashboardAnalytics(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Dashboard analytics retrieved successfully", dashboard, nil)
}

func (ctrl *controller) GetMonthlyRevenue(c *gin.Context) {
	months := 12
	if monthsStr := c.Query("months"); monthsStr != "" {
		parsed, err := strconv.Atoi(monthsStr)
		if err != nil || parsed < 1 || parsed > 36 {
			response.RespondJSON(c, "error", http.StatusBadRequest, "months must be between 1 and 36", nil, nil)
			return
		}
		months = parsed
	}

	monthly, err := ctrl.service.GetMonthlyRevenue(c.Request.Context(), months)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Monthly revenue retrieved successfully", monthly, nil)
}
