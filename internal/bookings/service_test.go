package bookings_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"skybook/internal/bookings"
	"skybook/internal/flights"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore holds flights and bookings in memory. A single mutex plays the
// role of the database row lock, so concurrent booking attempts serialize the
// same way they do against PostgreSQL.
type fakeStore struct {
	mu       sync.Mutex
	flights  map[uuid.UUID]*flights.Flight
	bookings map[uuid.UUID]*bookings.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		flights:  make(map[uuid.UUID]*flights.Flight),
		bookings: make(map[uuid.UUID]*bookings.Booking),
	}
}

func (s *fakeStore) addFlight(capacity int, price float64, status flights.FlightStatus) *flights.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()

	flight := &flights.Flight{
		ID:            uuid.New(),
		FlightNumber:  "SB101",
		Origin:        "New York (JFK)",
		Destination:   "London (LHR)",
		DepartureDate: time.Now().AddDate(0, 0, 7),
		DepartureTime: "08:30",
		ArrivalTime:   "20:45",
		Price:         price,
		TotalCapacity: capacity,
		Status:        status,
	}
	s.flights[flight.ID] = flight
	return flight
}

type fakeFlightReader struct {
	store *fakeStore
}

func (r *fakeFlightReader) GetFlight(id uuid.UUID) (*flights.Flight, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	flight, ok := r.store.flights[id]
	if !ok {
		return nil, flights.ErrFlightNotFound
	}
	copied := *flight
	return &copied, nil
}

type fakeRepository struct {
	store *fakeStore
}

func (r *fakeRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*bookings.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeRepository) GetBookingByIDWithRelations(ctx context.Context, id uuid.UUID) (*bookings.Booking, error) {
	return r.GetBookingByID(ctx, id)
}

func (r *fakeRepository) CreateBookingWithSeatCheck(ctx context.Context, booking *bookings.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	flight, ok := r.store.flights[booking.FlightID]
	if !ok {
		return bookings.ErrFlightNotFound
	}
	if flight.Status != flights.FlightStatusScheduled {
		return bookings.ErrFlightNotBookable
	}

	reserved := make(map[string]bool)
	for _, existing := range r.store.bookings {
		if existing.FlightID != booking.FlightID {
			continue
		}
		for _, seat := range existing.Seats {
			if seat.Active {
				reserved[seat.SeatNumber] = true
			}
		}
	}

	var conflicting []string
	for _, seat := range booking.Seats {
		if reserved[seat.SeatNumber] {
			conflicting = append(conflicting, seat.SeatNumber)
		}
	}
	if len(conflicting) > 0 {
		return &bookings.SeatConflictError{ConflictingSeats: conflicting}
	}

	newBookedCount := flight.BookedCount + len(booking.Seats)
	if newBookedCount > flight.TotalCapacity {
		return &bookings.CapacityError{
			Available: flight.TotalCapacity - flight.BookedCount,
			Requested: len(booking.Seats),
		}
	}

	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	for i := range booking.Seats {
		booking.Seats[i].ID = uuid.New()
		booking.Seats[i].BookingID = booking.ID
	}
	for i := range booking.Passengers {
		booking.Passengers[i].ID = uuid.New()
		booking.Passengers[i].BookingID = booking.ID
	}

	stored := *booking
	r.store.bookings[booking.ID] = &stored
	flight.BookedCount = newBookedCount
	return nil
}

func (r *fakeRepository) CancelBooking(ctx context.Context, id uuid.UUID) (*bookings.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}

	if booking.IsCancelled() {
		copied := *booking
		return &copied, nil
	}

	flight := r.store.flights[booking.FlightID]
	booking.Cancel()
	if flight != nil {
		flight.BookedCount -= len(booking.Seats)
		if flight.BookedCount < 0 {
			flight.BookedCount = 0
		}
	}

	copied := *booking
	return &copied, nil
}

func (r *fakeRepository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status bookings.Status) (*bookings.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}

	if !booking.Status.CanTransitionTo(status) {
		return nil, bookings.ErrInvalidTransition
	}

	booking.Status = status
	booking.UpdatedAt = time.Now()

	copied := *booking
	return &copied, nil
}

func (r *fakeRepository) GetReservedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var seats []string
	for _, booking := range r.store.bookings {
		if booking.FlightID != flightID {
			continue
		}
		for _, seat := range booking.Seats {
			if seat.Active {
				seats = append(seats, seat.SeatNumber)
			}
		}
	}
	sort.Strings(seats)
	return seats, nil
}

func (r *fakeRepository) GetUserBookings(ctx context.Context, userID uuid.UUID, query bookings.BookingListQuery) ([]bookings.Booking, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []bookings.Booking
	for _, booking := range r.store.bookings {
		if booking.UserID == userID {
			result = append(result, *booking)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeRepository) GetAllBookings(ctx context.Context, query bookings.BookingListQuery) ([]bookings.Booking, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []bookings.Booking
	for _, booking := range r.store.bookings {
		result = append(result, *booking)
	}
	return result, int64(len(result)), nil
}

func (r *fakeRepository) CompleteBookingsForDepartedFlights(ctx context.Context, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var count int64
	for _, booking := range r.store.bookings {
		if booking.Status != bookings.StatusConfirmed {
			continue
		}
		flight := r.store.flights[booking.FlightID]
		if flight == nil {
			continue
		}
		if flight.DepartureDate.Before(now) {
			booking.Status = bookings.StatusCompleted
			booking.UpdatedAt = now
			count++
		}
	}
	return count, nil
}

func (r *fakeRepository) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.bookings, id)
	return nil
}

// recordingNotifier captures notification calls for assertions
type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []string
	cancelled []string
}

func (n *recordingNotifier) NotifyBookingConfirmed(ctx context.Context, email, bookingRef, flightNumber string, seats []string, totalPrice float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, bookingRef)
}

func (n *recordingNotifier) NotifyBookingCancelled(ctx context.Context, email, bookingRef, flightNumber string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, bookingRef)
}

func newTestService(store *fakeStore, maxSeats int) bookings.Service {
	return bookings.NewService(&fakeRepository{store: store}, &fakeFlightReader{store: store}, maxSeats)
}

func checkoutRequest(flightID uuid.UUID, seats ...string) bookings.CreateBookingRequest {
	passengers := make([]bookings.PassengerRequest, len(seats))
	for i, seat := range seats {
		passengers[i] = bookings.PassengerRequest{
			Name:           "Passenger " + seat,
			Email:          "passenger@example.com",
			SeatAssignment: seat,
		}
	}
	return bookings.CreateBookingRequest{
		FlightID:      flightID.String(),
		SelectedSeats: seats,
		Passengers:    passengers,
	}
}

func TestCreateBooking_Success(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(30, 100.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 9)

	userID := uuid.New()
	resp, err := svc.CreateBooking(context.Background(), userID, "user@example.com", checkoutRequest(flight.ID, "1A", "1B"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.BookingRef, "SKY-"), "booking ref %q should carry the SKY- prefix", resp.BookingRef)
	assert.Equal(t, string(bookings.StatusConfirmed), string(resp.Status))
	assert.Equal(t, 2, resp.TotalSeats)
	assert.Equal(t, 200.0, resp.TotalPrice)
	assert.ElementsMatch(t, []string{"1A", "1B"}, resp.SelectedSeats)

	reader := &fakeFlightReader{store: store}
	updated, err := reader.GetFlight(flight.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.BookedCount)
}

func TestCreateBooking_NormalizesSeatDesignators(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(30, 100.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 9)

	req := checkoutRequest(flight.ID, " 2c ", "2D")
	resp, err := svc.CreateBooking(context.Background(), uuid.New(), "user@example.com", req)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2C", "2D"}, resp.SelectedSeats)
}

func TestCreateBooking_SeatConflict(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(30, 100.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 9)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), "first@example.com", checkoutRequest(flight.ID, "1A", "1B"))
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), uuid.New(), "second@example.com", checkoutRequest(flight.ID, "1B", "1C"))
	require.Error(t, err)

	var conflict *bookings.SeatConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []string{"1B"}, conflict.ConflictingSeats)

	// The failed attempt must not move the counter
	reader := &fakeFlightReader{store: store}
	updated, _ := reader.GetFlight(flight.ID)
	assert.Equal(t, 2, updated.BookedCount)
}

func TestCreateBooking_CapacityExceeded(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(3, 50.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 9)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), "first@example.com", checkoutRequest(flight.ID, "1A", "1B"))
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), uuid.New(), "second@example.com", checkoutRequest(flight.ID, "1C", "1D"))
	require.Error(t, err)

	var capacity *bookings.CapacityError
	require.True(t, errors.As(err, &capacity))
	assert.Equal(t, 1, capacity.Available)
	assert.Equal(t, 2, capacity.Requested)
}

func TestCreateBooking_PassengerSeatCountMismatch(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(30, 100.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 9)

	req := checkoutRequest(flight.ID, "1A", "1B")
	req.Passengers = req.Passengers[:1]

	_, err := svc.CreateBooking(context.Background(), uuid.New(), "user@example.com", req)
	assert.ErrorIs(t, err, bookings.ErrPassengerSeatCount)
}

func TestCreateBooking_DuplicateSeats(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(30, 100.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 9)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), "user@example.com", checkoutRequest(flight.ID, "1A", "1a"))
	assert.ErrorIs(t, err, bookings.ErrDuplicateSeats)
}

func TestCreateBooking_TooManySeats(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(30, 100.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 2)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), "user@example.com", checkoutRequest(flight.ID, "1A", "1B", "1C"))
	assert.ErrorIs(t, err, bookings.ErrTooManySeats)
}

func TestCreateBooking_FlightNotBookable(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(30, 100.0, flights.FlightStatusCancelled)
	svc := newTestService(store, 9)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), "user@example.com", checkoutRequest(flight.ID, "1A"))
	assert.ErrorIs(t, err, bookings.ErrFlightNotBookable)
}

func TestCreateBooking_SeatOutsideCabin(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(6, 100.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 9)

	// Capacity 6 means one row: 1A-1F. Row 2 does not exist.
	_, err := svc.CreateBooking(context.Background(), uuid.New(), "user@example.com", checkoutRequest(flight.ID, "2A"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestCreateBooking_FlightNotFound(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, 9)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), "user@example.com", checkoutRequest(uuid.New(), "1A"))
	assert.ErrorIs(t, err, bookings.ErrFlightNotFound)
}

func TestConcurrentBooking_SameSeat_ExactlyOneSucceeds(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(30, 100.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 9)

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = svc.CreateBooking(context.Background(), uuid.New(), "racer@example.com", checkoutRequest(flight.ID, "5F"))
		}(i)
	}
	wg.Wait()

	successes := 0
	conflicts := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var conflict *bookings.SeatConflictError
		if errors.As(err, &conflict) {
			conflicts++
		}
	}

	assert.Equal(t, 1, successes, "exactly one attempt should win the seat")
	assert.Equal(t, attempts-1, conflicts, "every other attempt should see a seat conflict")

	reader := &fakeFlightReader{store: store}
	updated, _ := reader.GetFlight(flight.ID)
	assert.Equal(t, 1, updated.BookedCount)
}

func TestCancelBooking_ReleasesSeatsAndIsIdempotent(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(30, 100.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 9)

	userID := uuid.New()
	created, err := svc.CreateBooking(context.Background(), userID, "user@example.com", checkoutRequest(flight.ID, "1A", "1B"))
	require.NoError(t, err)

	bookingID := uuid.MustParse(created.ID)

	first, err := svc.CancelBooking(context.Background(), bookingID, userID, false)
	require.NoError(t, err)
	assert.Equal(t, string(bookings.StatusCancelled), string(first.Status))

	reader := &fakeFlightReader{store: store}
	updated, _ := reader.GetFlight(flight.ID)
	assert.Equal(t, 0, updated.BookedCount)

	// Cancelling again must not decrement the counter a second time
	second, err := svc.CancelBooking(context.Background(), bookingID, userID, false)
	require.NoError(t, err)
	assert.Equal(t, string(bookings.StatusCancelled), string(second.Status))

	updated, _ = reader.GetFlight(flight.ID)
	assert.Equal(t, 0, updated.BookedCount)

	// Released seats are bookable again
	_, err = svc.CreateBooking(context.Background(), uuid.New(), "next@example.com", checkoutRequest(flight.ID, "1A"))
	assert.NoError(t, err)
}

func TestCancelBooking_NotOwner(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(30, 100.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 9)

	owner := uuid.New()
	created, err := svc.CreateBooking(context.Background(), owner, "owner@example.com", checkoutRequest(flight.ID, "1A"))
	require.NoError(t, err)

	_, err = svc.CancelBooking(context.Background(), uuid.MustParse(created.ID), uuid.New(), false)
	assert.ErrorIs(t, err, bookings.ErrNotBookingOwner)

	// An admin can cancel on the user's behalf
	_, err = svc.CancelBooking(context.Background(), uuid.MustParse(created.ID), uuid.New(), true)
	assert.NoError(t, err)
}

func TestUpdateBookingStatus_Transitions(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(30, 100.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 9)

	created, err := svc.CreateBooking(context.Background(), uuid.New(), "user@example.com", checkoutRequest(flight.ID, "1A"))
	require.NoError(t, err)
	bookingID := uuid.MustParse(created.ID)

	// CONFIRMED -> COMPLETED is legal
	completed, err := svc.UpdateBookingStatus(context.Background(), bookingID, bookings.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, string(bookings.StatusCompleted), string(completed.Status))

	// COMPLETED is terminal
	_, err = svc.UpdateBookingStatus(context.Background(), bookingID, bookings.StatusConfirmed)
	assert.Error(t, err)
}

func TestUpdateBookingStatus_CancelRoutesThroughSeatRelease(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(30, 100.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 9)

	created, err := svc.CreateBooking(context.Background(), uuid.New(), "user@example.com", checkoutRequest(flight.ID, "3A", "3B"))
	require.NoError(t, err)

	_, err = svc.UpdateBookingStatus(context.Background(), uuid.MustParse(created.ID), bookings.StatusCancelled)
	require.NoError(t, err)

	reader := &fakeFlightReader{store: store}
	updated, _ := reader.GetFlight(flight.ID)
	assert.Equal(t, 0, updated.BookedCount, "cancellation via status update must free the seats")

	reserved, err := svc.GetReservedSeats(context.Background(), flight.ID)
	require.NoError(t, err)
	assert.Empty(t, reserved)
}

func TestCompleteDepartedBookings(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(30, 100.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 9)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), "user@example.com", checkoutRequest(flight.ID, "1A"))
	require.NoError(t, err)

	// Flight still in the future: nothing to reconcile
	count, err := svc.CompleteDepartedBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Move the flight into the past
	store.mu.Lock()
	store.flights[flight.ID].DepartureDate = time.Now().AddDate(0, 0, -1)
	store.mu.Unlock()

	count, err = svc.CompleteDepartedBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateBooking_NotifiesOnConfirmAndCancel(t *testing.T) {
	store := newFakeStore()
	flight := store.addFlight(30, 100.0, flights.FlightStatusScheduled)
	svc := newTestService(store, 9)

	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)

	userID := uuid.New()
	created, err := svc.CreateBooking(context.Background(), userID, "user@example.com", checkoutRequest(flight.ID, "1A"))
	require.NoError(t, err)
	require.Len(t, notifier.confirmed, 1)
	assert.Equal(t, created.BookingRef, notifier.confirmed[0])

	_, err = svc.CancelBooking(context.Background(), uuid.MustParse(created.ID), userID, false)
	require.NoError(t, err)
	require.Len(t, notifier.cancelled, 1)
	assert.Equal(t, created.BookingRef, notifier.cancelled[0])

	// Idempotent re-cancel must not notify twice
	_, err = svc.CancelBooking(context.Background(), uuid.MustParse(created.ID), userID, false)
	require.NoError(t, err)
	assert.Len(t, notifier.cancelled, 1)
}
