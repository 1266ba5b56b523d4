package seats

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"skybook/internal/shared/utils/response"
)

type Controller interface {
	GetSeatMap(c *gin.Context)
	GetReservedSeats(c *gin.Context)
	HoldSeats(c *gin.Context)
	ReleaseHold(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetSeatMap(c *gin.Context) {
	flightID, err := uuid.Parse(c.Param("flightId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid flight ID", nil, err.Error())
		return
	}

	seatMap, err := ctrl.service.GetSeatMap(c.Request.Context(), flightID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrFlightNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat map retrieved successfully", seatMap, nil)
}

func (ctrl *controller) GetReservedSeats(c *gin.Context) {
	flightID, err := uuid.Parse(c.Param("flightId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid flight ID", nil, err.Error())
		return
	}

	reserved, err := ctrl.service.GetReservedSeats(c.Request.Context(), flightID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrFlightNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Reserved seats retrieved successfully",
		map[string]interface{}{"flight_id": flightID.String(), "reserved_seats": reserved}, nil)
}

func (ctrl *controller) HoldSeats(c *gin.Context) {
	var req HoldSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FormatValidationErrors(err))
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Invalid user ID format", nil, nil)
		return
	}

	hold, err := ctrl.service.HoldSeats(c.Request.Context(), userUUID, req)
	if err != nil {
		var conflictErr *HoldConflictError
		switch {
		case errors.As(err, &conflictErr):
			response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil,
				map[string]interface{}{"conflicting_seat": conflictErr.Seat})
		case errors.Is(err, ErrFlightNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
		case errors.Is(err, ErrInvalidSeat):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Seats held successfully", hold, nil)
}

func (ctrl *controller) ReleaseHold(c *gin.Context) {
	holdID := c.Param("holdId")
	if holdID == "" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Hold ID is required", nil, nil)
		return
	}

	if err := ctrl.service.ReleaseHold(c.Request.Context(), holdID); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Hold released successfully", nil, nil)
}
