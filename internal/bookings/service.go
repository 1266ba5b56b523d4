package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"skybook/internal/flights"
	"skybook/internal/shared/constants"
	"skybook/pkg/cache"
	"skybook/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FlightReader is the slice of the flights service the ledger needs
type FlightReader interface {
	GetFlight(id uuid.UUID) (*flights.Flight, error)
}

// Notifier publishes booking lifecycle events to the notification pipeline.
// Implementations must not block the request path.
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, email, bookingRef, flightNumber string, seats []string, totalPrice float64)
	NotifyBookingCancelled(ctx context.Context, email, bookingRef, flightNumber string)
}

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetNotifier(notifier Notifier)

	CreateBooking(ctx context.Context, userID uuid.UUID, userEmail string, req CreateBookingRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, isAdmin bool) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	GetAllBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error)
	CancelBooking(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, isAdmin bool) (*BookingResponse, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, newStatus Status) (*BookingResponse, error)
	DeleteBooking(ctx context.Context, id uuid.UUID) error

	GetReservedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error)
	CompleteDepartedBookings(ctx context.Context) (int64, error)
}

type service struct {
	repo         Repository
	flightReader FlightReader
	cacheService cache.Service
	notifier     Notifier
	maxSeats     int
	log          *logger.Logger
}

func NewService(repo Repository, flightReader FlightReader, maxSeatsPerBooking int) Service {
	if maxSeatsPerBooking <= 0 {
		maxSeatsPerBooking = 9
	}
	return &service{
		repo:         repo,
		flightReader: flightReader,
		maxSeats:     maxSeatsPerBooking,
		log:          logger.GetDefault(),
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

func (s *service) invalidateBookingCaches(ctx context.Context, flightID uuid.UUID) {
	if s.cacheService == nil {
		return
	}

	patterns := []string{
		constants.PATTERN_INVALIDATE_BOOKINGS,
		constants.PATTERN_INVALIDATE_FLIGHTS_ALL,
		constants.PATTERN_INVALIDATE_ANALYTICS,
		constants.BuildFlightSeatMapKey(flightID.String()),
	}
	for _, pattern := range patterns {
		if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
			s.log.DebugWithContext(ctx, "failed to invalidate booking cache", map[string]interface{}{"pattern": pattern, "error": err.Error()})
		}
	}
}

// CreateBooking validates the checkout request, then delegates the
// conflict-checked insert to the repository's transactional path. The booking
// reference and total price are always computed server-side.
func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, userEmail string, req CreateBookingRequest) (*BookingResponse, error) {
	flightID, err := uuid.Parse(req.FlightID)
	if err != nil {
		return nil, fmt.Errorf("invalid flight ID: %w", err)
	}

	if len(req.SelectedSeats) == 0 {
		return nil, ErrNoSeatsSelected
	}
	if len(req.SelectedSeats) > s.maxSeats {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManySeats, s.maxSeats)
	}
	if len(req.Passengers) != len(req.SelectedSeats) {
		return nil, ErrPassengerSeatCount
	}

	// Normalize and reject duplicates
	seen := make(map[string]bool, len(req.SelectedSeats))
	selectedSeats := make([]string, len(req.SelectedSeats))
	for i, seat := range req.SelectedSeats {
		normalized := flights.NormalizeSeat(seat)
		if seen[normalized] {
			return nil, ErrDuplicateSeats
		}
		seen[normalized] = true
		selectedSeats[i] = normalized
	}

	flight, err := s.flightReader.GetFlight(flightID)
	if err != nil {
		if errors.Is(err, flights.ErrFlightNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}

	if !flight.Status.CanBeBooked() {
		return nil, ErrFlightNotBookable
	}

	// Every designator must address a real seat in this cabin
	for _, seat := range selectedSeats {
		if !flights.IsValidSeat(seat, flight.TotalCapacity) {
			return nil, fmt.Errorf("seat %s does not exist on this flight", seat)
		}
	}

	// Seat assignments, when present, must come from the selected set
	for _, p := range req.Passengers {
		if p.SeatAssignment != "" && !seen[flights.NormalizeSeat(p.SeatAssignment)] {
			return nil, fmt.Errorf("seat assignment %s is not among the selected seats", p.SeatAssignment)
		}
	}

	booking := &Booking{
		BookingRef: generateBookingReference(),
		UserID:     userID,
		FlightID:   flightID,
		TotalSeats: len(selectedSeats),
		TotalPrice: flight.Price * float64(len(selectedSeats)),
		Status:     StatusConfirmed,
	}

	booking.Seats = make([]BookingSeat, len(selectedSeats))
	for i, seat := range selectedSeats {
		booking.Seats[i] = BookingSeat{
			FlightID:   flightID,
			SeatNumber: seat,
			Active:     true,
		}
	}

	booking.Passengers = make([]Passenger, len(req.Passengers))
	for i, p := range req.Passengers {
		seatAssignment := p.SeatAssignment
		if seatAssignment != "" {
			seatAssignment = flights.NormalizeSeat(seatAssignment)
		}
		booking.Passengers[i] = Passenger{
			Name:           p.Name,
			Email:          p.Email,
			Phone:          p.Phone,
			SeatAssignment: seatAssignment,
		}
	}

	if err := s.repo.CreateBookingWithSeatCheck(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateBookingCaches(ctx, flightID)
	s.log.LogBookingCreated(ctx, booking.BookingRef, flightID.String(), userID.String())

	if s.notifier != nil {
		s.notifier.NotifyBookingConfirmed(ctx, userEmail, booking.BookingRef, flight.FlightNumber, selectedSeats, booking.TotalPrice)
	}

	response := booking.ToResponse()
	return &response, nil
}

func (s *service) GetBooking(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, isAdmin bool) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByIDWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	if !isAdmin && booking.UserID != requesterID {
		return nil, ErrNotBookingOwner
	}

	response := booking.ToResponse()
	return &response, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	bookings, totalCount, err := s.repo.GetUserBookings(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get user bookings: %w", err)
	}

	return s.paginate(bookings, totalCount, query), nil
}

func (s *service) GetAllBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error) {
	bookings, totalCount, err := s.repo.GetAllBookings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	return s.paginate(bookings, totalCount, query), nil
}

func (s *service) paginate(bookings []Booking, totalCount int64, query BookingListQuery) *PaginatedBookings {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	responses := make([]BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = booking.ToResponse()
	}

	return &PaginatedBookings{
		Bookings:   responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}
}

// CancelBooking is idempotent: cancelling an already-cancelled booking
// returns the booking unchanged without touching flight counters.
func (s *service) CancelBooking(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, isAdmin bool) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByIDWithRelations(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	if !isAdmin && booking.UserID != requesterID {
		return nil, ErrNotBookingOwner
	}

	wasCancelled := booking.IsCancelled()

	cancelled, err := s.repo.CancelBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !wasCancelled {
		s.invalidateBookingCaches(ctx, cancelled.FlightID)
		s.log.LogBookingCancelled(ctx, cancelled.BookingRef, cancelled.FlightID.String(), cancelled.UserID.String())

		if s.notifier != nil {
			flightNumber := ""
			if flight, ferr := s.flightReader.GetFlight(cancelled.FlightID); ferr == nil {
				flightNumber = flight.FlightNumber
			}
			email := ""
			if booking.User != nil {
				email = booking.User.Email
			}
			s.notifier.NotifyBookingCancelled(ctx, email, cancelled.BookingRef, flightNumber)
		}
	}

	response := cancelled.ToResponse()
	return &response, nil
}

// UpdateBookingStatus applies the admin state machine. Cancellation routes
// through the seat-releasing path; other legal transitions leave seats alone.
func (s *service) UpdateBookingStatus(ctx context.Context, id uuid.UUID, newStatus Status) (*BookingResponse, error) {
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %s", ErrInvalidTransition, newStatus)
	}

	if newStatus == StatusCancelled {
		booking, err := s.repo.GetBookingByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrBookingNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBookingNotFound
			}
			return nil, fmt.Errorf("failed to get booking: %w", err)
		}
		if !booking.Status.CanTransitionTo(StatusCancelled) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}
		return s.CancelBooking(ctx, id, booking.UserID, true)
	}

	booking, err := s.repo.UpdateBookingStatus(ctx, id, newStatus)
	if err != nil {
		return nil, err
	}

	s.invalidateBookingCaches(ctx, booking.FlightID)

	response := booking.ToResponse()
	return &response, nil
}

// DeleteBooking removes a booking entirely. An active booking is cancelled
// first so its seats are freed and the flight counter stays consistent.
func (s *service) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to get booking: %w", err)
	}

	if !booking.IsCancelled() {
		if _, err := s.repo.CancelBooking(ctx, id); err != nil {
			return fmt.Errorf("failed to cancel booking before deletion: %w", err)
		}
	}

	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return err
	}

	s.invalidateBookingCaches(ctx, booking.FlightID)
	return nil
}

func (s *service) GetReservedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error) {
	return s.repo.GetReservedSeats(ctx, flightID)
}

func (s *service) CompleteDepartedBookings(ctx context.Context) (int64, error) {
	count, err := s.repo.CompleteBookingsForDepartedFlights(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to complete departed bookings: %w", err)
	}

	if count > 0 {
		if s.cacheService != nil {
			if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_BOOKINGS); err == nil {
				_ = s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_ANALYTICS)
			}
		}
		s.log.InfoWithContext(ctx, "completed bookings for departed flights", map[string]interface{}{"count": count})
	}

	return count, nil
}

const bookingRefLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generateBookingReference builds a display code like SKY-20260901-QKZMWA.
// Uniqueness is enforced by the unique index on booking_ref; the random
// suffix makes collisions vanishingly unlikely in the first place.
func generateBookingReference() string {
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingRefLetters))))
		if err != nil {
			// crypto/rand should not fail; fall back to a fixed letter
			suffix[i] = 'X'
			continue
		}
		suffix[i] = bookingRefLetters[n.Int64()]
	}
	return fmt.Sprintf("SKY-%s-%s", time.Now().UTC().Format("20060102"), string(suffix))
}
