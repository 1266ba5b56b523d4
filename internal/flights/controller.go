package flights

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"skybook/internal/shared/utils/response"
)

type Controller interface {
	CreateFlight(c *gin.Context)
	GetFlight(c *gin.Context)
	UpdateFlight(c *gin.Context)
	DeleteFlight(c *gin.Context)
	SearchFlights(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateFlight(c *gin.Context) {
	var req CreateFlightRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FormatValidationErrors(err))
		return
	}

	adminID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, nil)
		return
	}

	adminUUID, err := uuid.Parse(adminID.(string))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Invalid admin ID format", nil, nil)
		return
	}

	flight, err := ctrl.service.CreateFlight(adminUUID, req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Flight created successfully", flight, nil)
}

func (ctrl *controller) GetFlight(c *gin.Context) {
	flightID, err := uuid.Parse(c.Param("flightId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid flight ID", nil, err.Error())
		return
	}

	flight, err := ctrl.service.GetFlightByID(flightID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrFlightNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Flight retrieved successfully", flight, nil)
}

func (ctrl *controller) UpdateFlight(c *gin.Context) {
	flightID, err := uuid.Parse(c.Param("flightId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid flight ID", nil, err.Error())
		return
	}

	var req UpdateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FormatValidationErrors(err))
		return
	}

	adminID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, nil)
		return
	}

	adminUUID, err := uuid.Parse(adminID.(string))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Invalid admin ID format", nil, nil)
		return
	}

	flight, err := ctrl.service.UpdateFlight(flightID, adminUUID, req)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrFlightNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Flight updated successfully", flight, nil)
}

func (ctrl *controller) DeleteFlight(c *gin.Context) {
	flightID, err := uuid.Parse(c.Param("flightId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid flight ID", nil, err.Error())
		return
	}

	adminID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, nil)
		return
	}

	adminUUID, err := uuid.Parse(adminID.(string))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Invalid admin ID format", nil, nil)
		return
	}

	if err := ctrl.service.DeleteFlight(flightID, adminUUID); err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrFlightNotFound) {
			statusCode = http.StatusNotFound
		}
		if errors.Is(err, ErrFlightHasActiveBookings) {
			statusCode = http.StatusConflict
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Flight deleted successfully", nil, nil)
}

func (ctrl *controller) SearchFlights(c *gin.Context) {
	var query FlightListQuery

	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.FormatValidationErrors(err))
		return
	}

	flights, err := ctrl.service.SearchFlights(query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Flights retrieved successfully", flights, nil)
}
