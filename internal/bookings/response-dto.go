package bookings

import (
	"time"
)

// PassengerInfo represents passenger details in responses
type PassengerInfo struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	SeatAssignment string `json:"seat_assignment,omitempty"`
}

// FlightInfo is a compact flight summary embedded in booking responses
type FlightInfo struct {
	ID            string  `json:"id"`
	FlightNumber  string  `json:"flight_number"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureDate string  `json:"departure_date"`
	DepartureTime string  `json:"departure_time"`
	Price         float64 `json:"price"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID            string          `json:"id"`
	BookingRef    string          `json:"booking_ref"`
	UserID        string          `json:"user_id"`
	FlightID      string          `json:"flight_id"`
	SelectedSeats []string        `json:"selected_seats"`
	Passengers    []PassengerInfo `json:"passengers"`
	TotalSeats    int             `json:"total_seats"`
	TotalPrice    float64         `json:"total_price"`
	Status        Status          `json:"status"`
	Flight        *FlightInfo     `json:"flight,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
}

// PaginatedBookings represents a paginated booking list
type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ToResponse converts a Booking to its API representation
func (b *Booking) ToResponse() BookingResponse {
	passengers := make([]PassengerInfo, len(b.Passengers))
	for i, p := range b.Passengers {
		passengers[i] = PassengerInfo{
			Name:           p.Name,
			Email:          p.Email,
			Phone:          p.Phone,
			SeatAssignment: p.SeatAssignment,
		}
	}

	resp := BookingResponse{
		ID:            b.ID.String(),
		BookingRef:    b.BookingRef,
		UserID:        b.UserID.String(),
		FlightID:      b.FlightID.String(),
		SelectedSeats: b.SeatNumbers(),
		Passengers:    passengers,
		TotalSeats:    b.TotalSeats,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		CancelledAt:   b.CancelledAt,
	}

	if b.Flight != nil {
		resp.Flight = &FlightInfo{
			ID:            b.Flight.ID.String(),
			FlightNumber:  b.Flight.FlightNumber,
			Origin:        b.Flight.Origin,
			Destination:   b.Flight.Destination,
			DepartureDate: b.Flight.DepartureDate.Format("2006-01-02"),
			DepartureTime: b.Flight.DepartureTime,
			Price:         b.Flight.Price,
		}
	}

	return resp
}
