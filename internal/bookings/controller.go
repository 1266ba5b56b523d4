package bookings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"skybook/internal/shared/utils/response"
	"skybook/internal/users"
)

type Controller interface {
	CreateBooking(c *gin.Context)
	GetBooking(c *gin.Context)
	GetMyBookings(c *gin.Context)
	CancelBooking(c *gin.Context)

	// Admin handlers
	GetAllBookings(c *gin.Context)
	UpdateBookingStatus(c *gin.Context)
	DeleteBooking(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// requester pulls the authenticated identity out of the gin context
func requester(c *gin.Context) (uuid.UUID, string, bool, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, "", false, false
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		return uuid.Nil, "", false, false
	}

	email := ""
	if v, ok := c.Get("user_email"); ok {
		email, _ = v.(string)
	}

	isAdmin := false
	if role, ok := c.Get("user_role"); ok {
		isAdmin = role.(string) == string(users.RoleAdmin)
	}

	return userUUID, email, isAdmin, true
}

func (ctrl *controller) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FormatValidationErrors(err))
		return
	}

	userID, email, _, ok := requester(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.CreateBooking(c.Request.Context(), userID, email, req)
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

// respondBookingError maps ledger errors onto HTTP status codes: 409 for seat
// conflicts (with the conflicting seats in the payload), 400 for capacity and
// validation failures, 404 for a missing flight.
func (ctrl *controller) respondBookingError(c *gin.Context, err error) {
	var conflictErr *SeatConflictError
	if errors.As(err, &conflictErr) {
		response.RespondJSON(c, "error", http.StatusConflict, "Selected seats are no longer available", nil,
			map[string]interface{}{"conflicting_seats": conflictErr.ConflictingSeats})
		return
	}

	var capacityErr *CapacityError
	if errors.As(err, &capacityErr) {
		response.RespondJSON(c, "error", http.StatusBadRequest, capacityErr.Error(), nil,
			map[string]interface{}{"available_seats": capacityErr.Available})
		return
	}

	switch {
	case errors.Is(err, ErrFlightNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrBookingNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrNotBookingOwner):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidTransition):
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
	case errors.Is(err, ErrFlightNotBookable),
		errors.Is(err, ErrNoSeatsSelected),
		errors.Is(err, ErrDuplicateSeats),
		errors.Is(err, ErrPassengerSeatCount),
		errors.Is(err, ErrTooManySeats):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
	}
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	userID, _, isAdmin, ok := requester(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), bookingID, userID, isAdmin)
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

func (ctrl *controller) GetMyBookings(c *gin.Context) {
	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.FormatValidationErrors(err))
		return
	}

	userID, _, _, ok := requester(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	bookings, err := ctrl.service.GetUserBookings(c.Request.Context(), userID, query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}

func (ctrl *controller) CancelBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	userID, _, isAdmin, ok := requester(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.CancelBooking(c.Request.Context(), bookingID, userID, isAdmin)
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

func (ctrl *controller) GetAllBookings(c *gin.Context) {
	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, response.FormatValidationErrors(err))
		return
	}

	bookings, err := ctrl.service.GetAllBookings(c.Request.Context(), query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}

func (ctrl *controller) UpdateBookingStatus(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, response.FormatValidationErrors(err))
		return
	}

	booking, err := ctrl.service.UpdateBookingStatus(c.Request.Context(), bookingID, Status(req.Status))
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking status updated successfully", booking, nil)
}

func (ctrl *controller) DeleteBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	if err := ctrl.service.DeleteBooking(c.Request.Context(), bookingID); err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking deleted successfully", nil, nil)
}
