package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skybook/internal/flights"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Core booking operations
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBookingByIDWithRelations(ctx context.Context, id uuid.UUID) (*Booking, error)

	// Concurrency-safe ledger operations. The conflict check, the booking
	// insert and the counter update happen inside one transaction holding a
	// row lock on the flight, so concurrent requests on the same flight
	// serialize against each other.
	CreateBookingWithSeatCheck(ctx context.Context, booking *Booking) error
	CancelBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status Status) (*Booking, error)

	// Seat reads
	GetReservedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error)

	// Listing
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)

	// Reconciliation
	CompleteBookingsForDepartedFlights(ctx context.Context, now time.Time) (int64, error)

	// Admin removal
	DeleteBooking(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Preload("Passengers").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetBookingByIDWithRelations(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Preload("Passengers").
		Preload("User").
		Preload("Flight").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// lockedFlight is the minimal projection read under FOR UPDATE
type lockedFlight struct {
	ID            uuid.UUID `gorm:"column:id"`
	TotalCapacity int       `gorm:"column:total_capacity"`
	BookedCount   int       `gorm:"column:booked_count"`
	Status        string    `gorm:"column:status"`
}

// flightForUpdate scopes the FOR UPDATE flight read that serializes every
// writer to a flight's seat state.
func flightForUpdate(tx *gorm.DB, flightID uuid.UUID) *gorm.DB {
	return tx.Table("flights").
		Select("id, total_capacity, booked_count, status").
		Where("id = ?", flightID).
		Clauses(clause.Locking{Strength: "UPDATE"})
}

// bookingForUpdate scopes the FOR UPDATE booking read for status mutations.
func bookingForUpdate(tx *gorm.DB, id uuid.UUID) *gorm.DB {
	return tx.Preload("Seats").Preload("Passengers").
		Where("id = ?", id).
		Clauses(clause.Locking{Strength: "UPDATE"})
}

const ledgerTxAttempts = 3

// runLedgerTx runs fn in a transaction, retrying a bounded number of times
// when postgres aborts it with a serialization failure or deadlock. Any
// other error surfaces immediately; the rollback guarantees no partial
// mutation either way.
func (r *repository) runLedgerTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < ledgerTxAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(fn)
		if err == nil || !isRetryableTxError(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}
	return err
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 serialization_failure, 40P01 deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// CreateBookingWithSeatCheck creates a booking atomically with seat-conflict
// and capacity validation.
func (r *repository) CreateBookingWithSeatCheck(ctx context.Context, booking *Booking) error {
	return r.runLedgerTx(ctx, func(tx *gorm.DB) error {
		// 1. Lock the flight row. Every writer to this flight's seat state
		// takes the same lock, which serializes concurrent attempts.
		var flight lockedFlight
		err := flightForUpdate(tx, booking.FlightID).First(&flight).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFlightNotFound
			}
			return fmt.Errorf("failed to lock flight: %w", err)
		}

		// 2. Check the flight accepts bookings
		if flights.FlightStatus(flight.Status) != flights.FlightStatusScheduled {
			return ErrFlightNotBookable
		}

		// 3. Seat-conflict check against the reserved set, under the lock
		requested := make([]string, len(booking.Seats))
		for i, seat := range booking.Seats {
			requested[i] = seat.SeatNumber
		}

		var conflicting []string
		err = tx.Table("booking_seats").
			Where("flight_id = ? AND active AND seat_number IN ?", booking.FlightID, requested).
			Pluck("seat_number", &conflicting).Error
		if err != nil {
			return fmt.Errorf("failed to check reserved seats: %w", err)
		}
		if len(conflicting) > 0 {
			return &SeatConflictError{ConflictingSeats: conflicting}
		}

		// 4. Capacity check. Redundant when seat sets are disjoint and the
		// counter is consistent, but protects against data drift.
		newBookedCount := flight.BookedCount + len(requested)
		if newBookedCount > flight.TotalCapacity {
			return &CapacityError{
				Available: flight.TotalCapacity - flight.BookedCount,
				Requested: len(requested),
			}
		}

		// 5. Create the booking with its seats and passengers
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		// 6. Update the flight's booked count
		err = tx.Model(&flights.Flight{}).
			Where("id = ?", booking.FlightID).
			Update("booked_count", newBookedCount).Error
		if err != nil {
			return fmt.Errorf("failed to update flight booked count: %w", err)
		}

		return nil
	})
}

// CancelBooking sets the booking to CANCELLED, releases its seats and
// decrements the flight counter. Cancelling an already-cancelled booking is
// a no-op and returns the booking unchanged.
func (r *repository) CancelBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var result *Booking

	err := r.runLedgerTx(ctx, func(tx *gorm.DB) error {
		var booking Booking
		err := bookingForUpdate(tx, id).First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if booking.IsCancelled() {
			result = &booking
			return nil
		}

		// Lock the flight before touching its counter
		var flight lockedFlight
		err = flightForUpdate(tx, booking.FlightID).First(&flight).Error
		if err != nil {
			return fmt.Errorf("failed to lock flight: %w", err)
		}

		now := time.Now()
		err = tx.Model(&Booking{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":       StatusCancelled,
				"cancelled_at": now,
				"updated_at":   now,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}

		// Release the seats back into the available pool
		err = tx.Model(&BookingSeat{}).
			Where("booking_id = ?", id).
			Update("active", false).Error
		if err != nil {
			return fmt.Errorf("failed to release seats: %w", err)
		}

		newBookedCount := flight.BookedCount - len(booking.Seats)
		if newBookedCount < 0 {
			newBookedCount = 0
		}
		err = tx.Model(&flights.Flight{}).
			Where("id = ?", booking.FlightID).
			Update("booked_count", newBookedCount).Error
		if err != nil {
			return fmt.Errorf("failed to update flight booked count: %w", err)
		}

		booking.Cancel()
		result = &booking
		return nil
	})

	return result, err
}

// UpdateBookingStatus applies a seat-neutral status change (PENDING to
// CONFIRMED, CONFIRMED to COMPLETED). Transitions into CANCELLED must go
// through CancelBooking so seats are freed.
func (r *repository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status Status) (*Booking, error) {
	var result *Booking

	err := r.runLedgerTx(ctx, func(tx *gorm.DB) error {
		var booking Booking
		err := bookingForUpdate(tx, id).First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if !booking.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, status)
		}

		err = tx.Model(&Booking{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": time.Now(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}

		booking.Status = status
		result = &booking
		return nil
	})

	return result, err
}

func (r *repository) GetReservedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error) {
	var seats []string
	err := r.db.WithContext(ctx).
		Table("booking_seats").
		Where("flight_id = ? AND active", flightID).
		Order("seat_number ASC").
		Pluck("seat_number", &seats).Error
	return seats, err
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ?", userID)

	baseQuery = r.applyFilters(baseQuery, query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Seats").
		Preload("Passengers").
		Preload("Flight").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

func (r *repository) GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Booking{})
	baseQuery = r.applyFilters(baseQuery, query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Seats").
		Preload("Passengers").
		Preload("User").
		Preload("Flight").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

// CompleteBookingsForDepartedFlights promotes confirmed bookings whose flight
// has already departed to COMPLETED. Returns the number of bookings updated.
func (r *repository) CompleteBookingsForDepartedFlights(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("status = ?", StatusConfirmed).
		Where("flight_id IN (?)", r.db.Table("flights").
			Select("id").
			Where("departure_date < ?", now)).
		Updates(map[string]interface{}{
			"status":     StatusCompleted,
			"updated_at": now,
		})

	return result.RowsAffected, result.Error
}

// DeleteBooking removes a booking row. Callers must cancel it first so the
// flight counters stay consistent; seats and passengers cascade.
func (r *repository) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", id).Delete(&BookingSeat{}).Error; err != nil {
			return fmt.Errorf("failed to delete booking seats: %w", err)
		}
		if err := tx.Where("booking_id = ?", id).Delete(&Passenger{}).Error; err != nil {
			return fmt.Errorf("failed to delete passengers: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&Booking{}).Error; err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}
		return nil
	})
}

// applyFilters applies query filters to the GORM query
func (r *repository) applyFilters(query *gorm.DB, filters BookingListQuery) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if filters.FlightID != "" {
		if flightID, err := uuid.Parse(filters.FlightID); err == nil {
			query = query.Where("flight_id = ?", flightID)
		}
	}

	if filters.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", filters.DateFrom); err == nil {
			query = query.Where("created_at >= ?", dateFrom)
		}
	}

	if filters.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", filters.DateTo); err == nil {
			// Include the entire day
			dateTo = dateTo.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			query = query.Where("created_at <= ?", dateTo)
		}
	}

	return query
}
