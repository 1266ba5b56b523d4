package seats

import (
	"time"
)

// Seat availability states as rendered in the seat map
const (
	SeatStateAvailable = "AVAILABLE"
	SeatStateReserved  = "RESERVED"
	SeatStateHeld      = "HELD"
)

// SeatInfo is one seat in the rendered seat map
type SeatInfo struct {
	SeatNumber string `json:"seat_number"`
	State      string `json:"state"`
}

// SeatMapResponse describes the full cabin for a flight: every designator
// with its current state, plus the flat lists the booking flow consumes.
type SeatMapResponse struct {
	FlightID       string     `json:"flight_id"`
	TotalCapacity  int        `json:"total_capacity"`
	Columns        string     `json:"columns"`
	Seats          []SeatInfo `json:"seats"`
	ReservedSeats  []string   `json:"reserved_seats"`
	HeldSeats      []string   `json:"held_seats"`
	AvailableSeats []string   `json:"available_seats"`
	GeneratedAt    time.Time  `json:"generated_at"`
}

// HoldSeatsRequest asks for a short-lived advisory hold during seat selection.
// Holds reduce checkout-time conflicts but are not required for correctness;
// the booking transaction is the authority.
type HoldSeatsRequest struct {
	FlightID string   `json:"flight_id" binding:"required,uuid"`
	Seats    []string `json:"seats" binding:"required,min=1,dive,min=2,max=5"`
}

// HoldResponse returns the hold handle and its expiry
type HoldResponse struct {
	HoldID    string    `json:"hold_id"`
	FlightID  string    `json:"flight_id"`
	Seats     []string  `json:"seats"`
	ExpiresAt time.Time `json:"expires_at"`
}
