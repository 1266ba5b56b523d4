package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// A seat can only be held by one active booking per flight. Cancelled
	// bookings release their seats, so the unique index only covers active rows.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_active_seat_per_flight
		ON booking_seats (flight_id, seat_number)
		WHERE active;
	`).Error
	if err != nil {
		return err
	}

	// Index for seat availability lookups by flight
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_booking_seats_flight_id
		ON booking_seats (flight_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for listing a user's bookings newest first
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_user_created
		ON bookings (user_id, created_at DESC);
	`).Error
	if err != nil {
		return err
	}

	// Index for flight search by route and date
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_flights_route_date
		ON flights (origin, destination, departure_date);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
