package flights

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"skybook/internal/shared/constants"
	"skybook/pkg/cache"
	"skybook/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrFlightNotFound          = errors.New("flight not found")
	ErrInvalidDepartureDate    = errors.New("departure date must be in the future")
	ErrCapacityBelowBooked     = errors.New("capacity cannot be reduced below the current booked count")
	ErrFlightHasActiveBookings = errors.New("flight has active bookings")
	ErrFlightNotUpdatable      = errors.New("flight can no longer be updated")
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	CreateFlight(adminID uuid.UUID, req CreateFlightRequest) (*FlightResponse, error)
	GetFlightByID(id uuid.UUID) (*FlightResponse, error)
	SearchFlights(query FlightListQuery) (*PaginatedFlights, error)
	UpdateFlight(id uuid.UUID, adminID uuid.UUID, req UpdateFlightRequest) (*FlightResponse, error)
	DeleteFlight(id uuid.UUID, adminID uuid.UUID) error

	// Consumed by the bookings and seats packages
	GetFlight(id uuid.UUID) (*Flight, error)

	// Consumed by the reconciliation job
	CompleteDepartedFlights(now time.Time) (int, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	log          *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		s.log.DebugWithContext(ctx, "failed to cache flight data", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return fmt.Errorf("cache service not available")
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) invalidateFlightCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}

	patterns := []string{
		constants.PATTERN_INVALIDATE_FLIGHTS_ALL,
		constants.PATTERN_INVALIDATE_SEATMAPS,
	}
	for _, pattern := range patterns {
		if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
			s.log.DebugWithContext(ctx, "failed to invalidate flight cache", map[string]interface{}{"pattern": pattern, "error": err.Error()})
		}
	}
}

func (s *service) CreateFlight(adminID uuid.UUID, req CreateFlightRequest) (*FlightResponse, error) {
	departureDate, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		return nil, fmt.Errorf("invalid departure date: %w", err)
	}

	if departureDate.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil, ErrInvalidDepartureDate
	}

	if err := validateTimeOfDay(req.DepartureTime); err != nil {
		return nil, err
	}
	if err := validateTimeOfDay(req.ArrivalTime); err != nil {
		return nil, err
	}

	flight := &Flight{
		FlightNumber:  req.FlightNumber,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: departureDate,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Duration:      req.Duration,
		Price:         req.Price,
		TotalCapacity: req.TotalCapacity,
		Status:        FlightStatusScheduled,
		CreatedBy:     adminID,
	}

	if err := s.repo.Create(flight); err != nil {
		return nil, fmt.Errorf("failed to create flight: %w", err)
	}

	ctx := context.Background()
	s.invalidateFlightCache(ctx)
	s.log.LogFlightCreated(ctx, flight.ID.String(), flight.FlightNumber)

	response := flight.ToResponse()
	return &response, nil
}

func (s *service) GetFlightByID(id uuid.UUID) (*FlightResponse, error) {
	ctx := context.Background()
	cacheKey := constants.BuildFlightDetailKey(id.String())

	var cachedFlight FlightResponse
	if err := s.getCache(ctx, cacheKey, &cachedFlight); err == nil {
		return &cachedFlight, nil
	}

	flight, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}

	response := flight.ToResponse()
	s.setCache(ctx, cacheKey, response, constants.TTL_FLIGHT_DETAIL)

	return &response, nil
}

func (s *service) GetFlight(id uuid.UUID) (*Flight, error) {
	flight, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}
	return flight, nil
}

// CompleteDepartedFlights moves scheduled flights whose departure date has
// passed to COMPLETED. Returns the number of flights updated.
func (s *service) CompleteDepartedFlights(now time.Time) (int, error) {
	departed, err := s.repo.GetDepartedScheduled(now)
	if err != nil {
		return 0, fmt.Errorf("failed to list departed flights: %w", err)
	}

	completed := 0
	for _, flight := range departed {
		_, err := s.repo.Update(flight.ID, map[string]interface{}{
			"status":     FlightStatusCompleted,
			"updated_at": now,
		})
		if err != nil {
			return completed, fmt.Errorf("failed to complete flight %s: %w", flight.FlightNumber, err)
		}
		completed++
	}

	if completed > 0 {
		s.invalidateFlightCache(context.Background())
	}
	return completed, nil
}

func (s *service) SearchFlights(query FlightListQuery) (*PaginatedFlights, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	ctx := context.Background()
	cacheKey := constants.BuildFlightSearchKey(query.From, query.To, query.Date, query.Page, query.Limit)

	var cachedResult PaginatedFlights
	if err := s.getCache(ctx, cacheKey, &cachedResult); err == nil {
		return &cachedResult, nil
	}

	flights, totalCount, err := s.repo.GetAll(query)
	if err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}

	flightResponses := make([]FlightResponse, len(flights))
	for i, flight := range flights {
		flightResponses[i] = flight.ToResponse()
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(query.Limit)))

	result := &PaginatedFlights{
		Flights:    flightResponses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}

	s.setCache(ctx, cacheKey, result, constants.TTL_FLIGHT_SEARCH)

	return result, nil
}

func (s *service) UpdateFlight(id uuid.UUID, adminID uuid.UUID, req UpdateFlightRequest) (*FlightResponse, error) {
	currentFlight, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}

	if !currentFlight.Status.CanBeUpdated() {
		return nil, ErrFlightNotUpdatable
	}

	updates := make(map[string]interface{})

	if req.FlightNumber != nil {
		updates["flight_number"] = *req.FlightNumber
	}
	if req.Origin != nil {
		updates["origin"] = *req.Origin
	}
	if req.Destination != nil {
		updates["destination"] = *req.Destination
	}
	if req.DepartureDate != nil {
		departureDate, err := time.Parse("2006-01-02", *req.DepartureDate)
		if err != nil {
			return nil, fmt.Errorf("invalid departure date: %w", err)
		}
		if departureDate.Before(time.Now().Truncate(24 * time.Hour)) {
			return nil, ErrInvalidDepartureDate
		}
		updates["departure_date"] = departureDate
	}
	if req.DepartureTime != nil {
		if err := validateTimeOfDay(*req.DepartureTime); err != nil {
			return nil, err
		}
		updates["departure_time"] = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		if err := validateTimeOfDay(*req.ArrivalTime); err != nil {
			return nil, err
		}
		updates["arrival_time"] = *req.ArrivalTime
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.TotalCapacity != nil {
		// Shrinking the cabin below the booked count would break the
		// capacity bound for existing bookings.
		if *req.TotalCapacity < currentFlight.BookedCount {
			return nil, ErrCapacityBelowBooked
		}
		updates["total_capacity"] = *req.TotalCapacity
	}
	if req.Status != nil {
		status := FlightStatus(*req.Status)
		if !status.IsValid() {
			return nil, errors.New("invalid flight status")
		}
		updates["status"] = status
	}

	updates["updated_at"] = time.Now()
	updates["updated_by"] = adminID

	updatedFlight, err := s.repo.Update(id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update flight: %w", err)
	}

	s.invalidateFlightCache(context.Background())

	response := updatedFlight.ToResponse()
	return &response, nil
}

func (s *service) DeleteFlight(id uuid.UUID, adminID uuid.UUID) error {
	_, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFlightNotFound
		}
		return fmt.Errorf("failed to get flight: %w", err)
	}

	activeBookings, err := s.repo.CountActiveBookings(id)
	if err != nil {
		return fmt.Errorf("failed to check flight bookings: %w", err)
	}
	if activeBookings > 0 {
		return ErrFlightHasActiveBookings
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete flight: %w", err)
	}

	s.invalidateFlightCache(context.Background())

	return nil
}

func validateTimeOfDay(value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return fmt.Errorf("invalid time of day %q, expected HH:MM", value)
	}
	return nil
}
