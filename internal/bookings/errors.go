package bookings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrFlightNotFound     = errors.New("flight not found")
	ErrFlightNotBookable  = errors.New("flight is not available for booking")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
	ErrNotBookingOwner    = errors.New("booking belongs to another user")
	ErrNoSeatsSelected    = errors.New("at least one seat must be selected")
	ErrDuplicateSeats     = errors.New("selected seats contain duplicates")
	ErrPassengerSeatCount = errors.New("passenger count must equal selected seat count")
	ErrTooManySeats       = errors.New("too many seats requested in a single booking")
)

// SeatConflictError carries the seats already held by other bookings so the
// caller can re-display seat selection.
type SeatConflictError struct {
	ConflictingSeats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already booked: %s", strings.Join(e.ConflictingSeats, ", "))
}

// CapacityError signals that the request would push the flight past its
// total capacity.
type CapacityError struct {
	Available int
	Requested int
}

func (e *CapacityError) Error() string {
	if e.Available <= 0 {
		return "flight is fully booked"
	}
	return fmt.Sprintf("insufficient capacity: only %d seats available, requested %d", e.Available, e.Requested)
}
