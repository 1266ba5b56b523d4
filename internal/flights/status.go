package flights

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
	FlightStatusCompleted FlightStatus = "COMPLETED"
)

func (s FlightStatus) IsValid() bool {
	switch s {
	case FlightStatusScheduled, FlightStatusCancelled, FlightStatusCompleted:
		return true
	default:
		return false
	}
}

// CanBeBooked returns true if new bookings may be created against the flight
func (s FlightStatus) CanBeBooked() bool {
	return s == FlightStatusScheduled
}

// CanBeUpdated returns true if the flight may still be modified by an admin
func (s FlightStatus) CanBeUpdated() bool {
	return s == FlightStatusScheduled
}
