package seats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skybook/internal/flights"
	"skybook/internal/shared/constants"
	"skybook/pkg/cache"
	"skybook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrFlightNotFound = errors.New("flight not found")
	ErrInvalidSeat    = errors.New("invalid seat designator")
)

// HoldConflictError reports a hold attempt on a seat someone else holds
type HoldConflictError struct {
	Seat string
}

func (e *HoldConflictError) Error() string {
	return fmt.Sprintf("seat %s is currently held by another user", e.Seat)
}

// ReservedSeatReader is the slice of the booking ledger the seat map needs
type ReservedSeatReader interface {
	GetReservedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error)
}

// FlightReader resolves flights for seat map derivation
type FlightReader interface {
	GetFlight(id uuid.UUID) (*flights.Flight, error)
}

type Service interface {
	GetSeatMap(ctx context.Context, flightID uuid.UUID) (*SeatMapResponse, error)
	GetReservedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error)
	GetAvailableSeats(ctx context.Context, flightID uuid.UUID) ([]string, error)

	HoldSeats(ctx context.Context, userID uuid.UUID, req HoldSeatsRequest) (*HoldResponse, error)
	ReleaseHold(ctx context.Context, holdID string) error
}

type service struct {
	flightReader   FlightReader
	reservedReader ReservedSeatReader
	atomicOps      *AtomicRedisOperations
	cacheService   cache.Service
	holdTTL        time.Duration
	log            *logger.Logger
}

func NewService(flightReader FlightReader, reservedReader ReservedSeatReader, atomicOps *AtomicRedisOperations, cacheService cache.Service, holdTTL time.Duration) Service {
	if holdTTL <= 0 {
		holdTTL = 10 * time.Minute
	}
	return &service{
		flightReader:   flightReader,
		reservedReader: reservedReader,
		atomicOps:      atomicOps,
		cacheService:   cacheService,
		holdTTL:        holdTTL,
		log:            logger.GetDefault(),
	}
}

// GetSeatMap derives the cabin layout from the flight's capacity and marks
// each designator as reserved, held or available. Reserved comes from the
// ledger; held comes from advisory Redis holds.
func (s *service) GetSeatMap(ctx context.Context, flightID uuid.UUID) (*SeatMapResponse, error) {
	cacheKey := constants.BuildFlightSeatMapKey(flightID.String())
	if s.cacheService != nil {
		var cached SeatMapResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	flight, err := s.flightReader.GetFlight(flightID)
	if err != nil {
		if errors.Is(err, flights.ErrFlightNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}

	allSeats := flights.SeatDesignators(flight.TotalCapacity)

	reserved, err := s.reservedReader.GetReservedSeats(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reserved seats: %w", err)
	}
	reservedSet := toSet(reserved)

	var held []string
	if s.atomicOps != nil {
		// Holds are advisory; a Redis failure degrades the map, not the request
		held, err = s.atomicOps.HeldSeats(ctx, flightID.String(), allSeats)
		if err != nil {
			s.log.DebugWithContext(ctx, "failed to read seat holds", map[string]interface{}{"flight_id": flightID.String(), "error": err.Error()})
			held = nil
		}
	}
	heldSet := toSet(held)

	seats := make([]SeatInfo, len(allSeats))
	var available []string
	for i, seat := range allSeats {
		state := SeatStateAvailable
		switch {
		case reservedSet[seat]:
			state = SeatStateReserved
		case heldSet[seat]:
			state = SeatStateHeld
		default:
			available = append(available, seat)
		}
		seats[i] = SeatInfo{SeatNumber: seat, State: state}
	}

	result := &SeatMapResponse{
		FlightID:       flightID.String(),
		TotalCapacity:  flight.TotalCapacity,
		Columns:        flights.SeatColumns,
		Seats:          seats,
		ReservedSeats:  reserved,
		HeldSeats:      held,
		AvailableSeats: available,
		GeneratedAt:    time.Now().UTC(),
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, result, constants.TTL_FLIGHT_SEATMAP); err != nil {
			s.log.DebugWithContext(ctx, "failed to cache seat map", map[string]interface{}{"key": cacheKey, "error": err.Error()})
		}
	}

	return result, nil
}

func (s *service) GetReservedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error) {
	if _, err := s.flightReader.GetFlight(flightID); err != nil {
		if errors.Is(err, flights.ErrFlightNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}
	return s.reservedReader.GetReservedSeats(ctx, flightID)
}

// GetAvailableSeats is the full seat-designator space minus the reserved set
func (s *service) GetAvailableSeats(ctx context.Context, flightID uuid.UUID) ([]string, error) {
	flight, err := s.flightReader.GetFlight(flightID)
	if err != nil {
		if errors.Is(err, flights.ErrFlightNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}

	reserved, err := s.reservedReader.GetReservedSeats(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reserved seats: %w", err)
	}
	reservedSet := toSet(reserved)

	var available []string
	for _, seat := range flights.SeatDesignators(flight.TotalCapacity) {
		if !reservedSet[seat] {
			available = append(available, seat)
		}
	}
	return available, nil
}

func (s *service) HoldSeats(ctx context.Context, userID uuid.UUID, req HoldSeatsRequest) (*HoldResponse, error) {
	flightID, err := uuid.Parse(req.FlightID)
	if err != nil {
		return nil, fmt.Errorf("invalid flight ID: %w", err)
	}

	flight, err := s.flightReader.GetFlight(flightID)
	if err != nil {
		if errors.Is(err, flights.ErrFlightNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}

	seatNumbers := make([]string, len(req.Seats))
	for i, seat := range req.Seats {
		normalized := flights.NormalizeSeat(seat)
		if !flights.IsValidSeat(normalized, flight.TotalCapacity) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSeat, seat)
		}
		seatNumbers[i] = normalized
	}

	// Reject seats already taken by a confirmed booking before going to Redis
	reserved, err := s.reservedReader.GetReservedSeats(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reserved seats: %w", err)
	}
	reservedSet := toSet(reserved)
	for _, seat := range seatNumbers {
		if reservedSet[seat] {
			return nil, &HoldConflictError{Seat: seat}
		}
	}

	holdID := uuid.New().String()
	if err := s.atomicOps.AtomicHoldSeats(ctx, flightID.String(), userID.String(), holdID, seatNumbers, s.holdTTL); err != nil {
		return nil, err
	}

	return &HoldResponse{
		HoldID:    holdID,
		FlightID:  flightID.String(),
		Seats:     seatNumbers,
		ExpiresAt: time.Now().UTC().Add(s.holdTTL),
	}, nil
}

func (s *service) ReleaseHold(ctx context.Context, holdID string) error {
	_, err := s.atomicOps.AtomicReleaseHold(ctx, holdID)
	return err
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
