package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"skybook/internal/shared/constants"
	"skybook/pkg/cache"
	"skybook/pkg/logger"
)

const (
	topRoutesLimit  = 10
	topFlightsLimit = 10
)

// Service defines the analytics service interface
type Service interface {
	SetCacheService(cacheService cache.Service)

	GetDashboardAnalytics(ctx context.Context) (*DashboardAnalytics, error)
	GetMonthlyRevenue(ctx context.Context, months int) ([]MonthlyRevenue, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	log          *logger.Logger
}

// NewService creates a new analytics service instance
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

func (s *service) GetDashboardAnalytics(ctx context.Context) (*DashboardAnalytics, error) {
	cacheKey := constants.CACHE_KEY_ANALYTICS_DASHBOARD

	if s.cacheService != nil {
		var cached DashboardAnalytics
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	overview, err := s.repo.GetOverviewMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get overview metrics: %w", err)
	}

	monthly, err := s.GetMonthlyRevenue(ctx, 12)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly revenue: %w", err)
	}

	topRoutes, err := s.repo.GetTopRoutes(topRoutesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top routes: %w", err)
	}

	topFlights, err := s.repo.GetTopFlights(topFlightsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top flights: %w", err)
	}

	flightsByStatus, err := s.repo.GetFlightsByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to get flights by status: %w", err)
	}

	bookingsByStatus, err := s.repo.GetBookingsByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by status: %w", err)
	}

	dashboard := &DashboardAnalytics{
		Overview:         *overview,
		RevenueByMonth:   monthly,
		TopRoutes:        topRoutes,
		TopFlights:       topFlights,
		FlightsByStatus:  flightsByStatus,
		BookingsByStatus: bookingsByStatus,
		GeneratedAt:      time.Now().UTC(),
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, dashboard, constants.TTL_ANALYTICS_DASHBOARD); err != nil {
			s.log.DebugWithContext(ctx, "failed to cache dashboard analytics", map[string]interface{}{"error": err.Error()})
		}
	}

	return dashboard, nil
}

func (s *service) GetMonthlyRevenue(ctx context.Context, months int) ([]MonthlyRevenue, error) {
	if months <= 0 {
		months = 12
	}

	cacheKey := fmt.Sprintf("%s:months:%d", constants.CACHE_KEY_ANALYTICS_MONTHLY, months)
	if s.cacheService != nil {
		var cached []MonthlyRevenue
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	since := time.Now().UTC().AddDate(0, -months, 0)
	records, err := s.repo.GetRevenueRecords(since)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue records: %w", err)
	}

	monthly := BucketMonthlyRevenue(records)

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, monthly, constants.TTL_ANALYTICS_MONTHLY); err != nil {
			s.log.DebugWithContext(ctx, "failed to cache monthly revenue", map[string]interface{}{"error": err.Error()})
		}
	}

	return monthly, nil
}

// BucketMonthlyRevenue groups revenue records into calendar-month buckets,
// keyed YYYY-MM in UTC, ordered oldest first.
func BucketMonthlyRevenue(records []RevenueRecord) []MonthlyRevenue {
	buckets := make(map[string]*MonthlyRevenue)
	for _, rec := range records {
		month := rec.CreatedAt.UTC().Format("2006-01")
		bucket, ok := buckets[month]
		if !ok {
			bucket = &MonthlyRevenue{Month: month}
			buckets[month] = bucket
		}
		bucket.Revenue += rec.TotalPrice
		bucket.Bookings++
		bucket.SeatsSold += rec.TotalSeats
	}

	monthly := make([]MonthlyRevenue, 0, len(buckets))
	for _, bucket := range buckets {
		monthly = append(monthly, *bucket)
	}
	sort.Slice(monthly, func(i, j int) bool {
		return monthly[i].Month < monthly[j].Month
	})
	return monthly
}
