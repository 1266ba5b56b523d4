package bookings

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are allowed.
// Cancellation is terminal with respect to seat holding: a cancelled
// booking can never be re-confirmed.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// HoldsSeats reports whether a booking in this status counts against the
// flight's reserved set and booked counter.
func (s Status) HoldsSeats() bool {
	return s != StatusCancelled
}

// CanTransitionTo validates a status change against the booking state machine:
//
//	PENDING --> CONFIRMED --> COMPLETED
//	   |            |
//	   v            v
//	CANCELLED    CANCELLED
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return false
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}
