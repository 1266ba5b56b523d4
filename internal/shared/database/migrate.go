package database

import (
	"skybook/internal/bookings"
	"skybook/internal/flights"
	"skybook/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&flights.Flight{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
		&bookings.Passenger{},
	)
}
