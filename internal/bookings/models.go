package bookings

import (
	"time"

	"skybook/internal/flights"
	"skybook/internal/users"

	"github.com/google/uuid"
)

// Booking defines the main booking structure
type Booking struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingRef  string     `gorm:"uniqueIndex;not null;size:20" json:"booking_ref"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	FlightID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"flight_id"`
	TotalSeats  int        `gorm:"not null;check:total_seats > 0" json:"total_seats"`
	TotalPrice  float64    `gorm:"not null" json:"total_price"`
	Status      Status     `gorm:"type:varchar(20);default:'CONFIRMED'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	// Relationships
	Seats      []BookingSeat   `json:"seats,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
	Passengers []Passenger     `json:"passengers,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
	User       *users.User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Flight     *flights.Flight `json:"flight,omitempty" gorm:"foreignKey:FlightID"`
}

// BookingSeat is one claimed seat on a flight. FlightID is denormalized from
// the parent booking so the partial unique index (flight_id, seat_number)
// WHERE active can enforce seat disjointness at the storage level.
type BookingSeat struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	FlightID   uuid.UUID `gorm:"type:uuid;index;not null" json:"flight_id"`
	SeatNumber string    `gorm:"not null;size:5" json:"seat_number"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// Passenger is embedded in a booking and has no independent lifecycle.
type Passenger struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID      uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	Name           string    `gorm:"not null;size:255" json:"name"`
	Email          string    `gorm:"not null;size:255" json:"email"`
	Phone          string    `gorm:"size:30" json:"phone,omitempty"`
	SeatAssignment string    `gorm:"size:5" json:"seat_assignment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for BookingSeat
func (BookingSeat) TableName() string {
	return "booking_seats"
}

// TableName sets the table name for Passenger
func (Passenger) TableName() string {
	return "passengers"
}

// Helper methods for booking management

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// SeatNumbers returns the designators of the booking's seats in stored order.
func (b *Booking) SeatNumbers() []string {
	seats := make([]string, len(b.Seats))
	for i, seat := range b.Seats {
		seats[i] = seat.SeatNumber
	}
	return seats
}

func (b *Booking) Cancel() {
	b.Status = StatusCancelled
	now := time.Now()
	b.CancelledAt = &now
	b.UpdatedAt = now
	for i := range b.Seats {
		b.Seats[i].Active = false
	}
}
