package bookings

// PassengerRequest carries one passenger's details at checkout
type PassengerRequest struct {
	Name           string `json:"name" binding:"required,min=2,max=255"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"omitempty,max=30"`
	SeatAssignment string `json:"seat_assignment" binding:"omitempty,max=5"`
}

// CreateBookingRequest represents the checkout payload. The total price and
// booking reference are computed server-side.
type CreateBookingRequest struct {
	FlightID      string             `json:"flight_id" binding:"required,uuid"`
	SelectedSeats []string           `json:"selected_seats" binding:"required,min=1,dive,min=2,max=5"`
	Passengers    []PassengerRequest `json:"passengers" binding:"required,min=1,dive"`
}

// UpdateBookingStatusRequest represents an admin status change
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
}

// BookingListQuery represents booking list filters
type BookingListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
	FlightID string `form:"flight_id" binding:"omitempty,uuid"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}
