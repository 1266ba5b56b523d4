package analytics

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Statuses that count toward revenue. Cancelled bookings release their seats
// and never contribute.
var revenueStatuses = []string{"CONFIRMED", "COMPLETED"}

// Repository defines the analytics repository interface
type Repository interface {
	GetOverviewMetrics() (*OverviewMetrics, error)
	GetRevenueRecords(since time.Time) ([]RevenueRecord, error)
	GetTopRoutes(limit int) ([]RoutePerformance, error)
	GetTopFlights(limit int) ([]FlightPerformance, error)
	GetFlightsByStatus() (map[string]int, error)
	GetBookingsByStatus() (map[string]int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new analytics repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOverviewMetrics() (*OverviewMetrics, error) {
	var metrics OverviewMetrics

	var totalFlights int64
	if err := r.db.Table("flights").Count(&totalFlights).Error; err != nil {
		return nil, fmt.Errorf("failed to count flights: %w", err)
	}
	metrics.TotalFlights = int(totalFlights)

	var scheduledFlights int64
	err := r.db.Table("flights").
		Where("status = ?", "SCHEDULED").
		Count(&scheduledFlights).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count scheduled flights: %w", err)
	}
	metrics.ScheduledFlights = int(scheduledFlights)

	var totalBookings, cancelledBookings, completedBookings int64
	if err := r.db.Table("bookings").Count(&totalBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	metrics.TotalBookings = int(totalBookings)

	err = r.db.Table("bookings").
		Where("status = ?", "CANCELLED").
		Count(&cancelledBookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count cancelled bookings: %w", err)
	}
	metrics.CancelledBookings = int(cancelledBookings)

	err = r.db.Table("bookings").
		Where("status = ?", "COMPLETED").
		Count(&completedBookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count completed bookings: %w", err)
	}
	metrics.CompletedBookings = int(completedBookings)
	metrics.ActiveBookings = int(totalBookings - cancelledBookings)

	err = r.db.Table("bookings").
		Where("status IN ?", revenueStatuses).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&metrics.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to calculate total revenue: %w", err)
	}

	var totalSeatsSold int64
	err = r.db.Table("bookings").
		Where("status IN ?", revenueStatuses).
		Select("COALESCE(SUM(total_seats), 0)").
		Scan(&totalSeatsSold).Error
	if err != nil {
		return nil, fmt.Errorf("failed to calculate seats sold: %w", err)
	}
	metrics.TotalSeatsSold = int(totalSeatsSold)

	var totalUsers int64
	if err := r.db.Table("users").Count(&totalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	metrics.TotalUsers = int(totalUsers)

	if totalBookings > 0 {
		metrics.CancellationRate = float64(cancelledBookings) / float64(totalBookings) * 100
	}

	var avgBookingSize float64
	err = r.db.Table("bookings").
		Where("status IN ?", revenueStatuses).
		Select("COALESCE(AVG(total_seats), 0)").
		Scan(&avgBookingSize).Error
	if err == nil {
		metrics.AverageBookingSize = avgBookingSize
	}

	return &metrics, nil
}

func (r *repository) GetRevenueRecords(since time.Time) ([]RevenueRecord, error) {
	var records []RevenueRecord

	err := r.db.Table("bookings").
		Select("created_at, total_price, total_seats").
		Where("status IN ? AND created_at >= ?", revenueStatuses, since).
		Order("created_at").
		Scan(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue records: %w", err)
	}

	return records, nil
}

func (r *repository) GetTopRoutes(limit int) ([]RoutePerformance, error) {
	var routes []RoutePerformance

	err := r.db.Raw(`
		SELECT
			f.origin,
			f.destination,
			COUNT(DISTINCT f.id) as flight_count,
			COUNT(b.id) as booking_count,
			COALESCE(SUM(b.total_seats), 0) as seats_sold,
			COALESCE(SUM(b.total_price), 0) as revenue
		FROM flights f
		LEFT JOIN bookings b ON f.id = b.flight_id AND b.status IN ('CONFIRMED', 'COMPLETED')
		GROUP BY f.origin, f.destination
		ORDER BY revenue DESC, booking_count DESC
		LIMIT ?
	`, limit).Scan(&routes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top routes: %w", err)
	}

	return routes, nil
}

func (r *repository) GetTopFlights(limit int) ([]FlightPerformance, error) {
	var flights []FlightPerformance

	err := r.db.Raw(`
		SELECT
			f.id as flight_id,
			f.flight_number,
			f.origin,
			f.destination,
			TO_CHAR(f.departure_date, 'YYYY-MM-DD') as departure_date,
			COUNT(b.id) as booking_count,
			COALESCE(SUM(b.total_seats), 0) as seats_sold,
			COALESCE(SUM(b.total_price), 0) as revenue,
			CASE WHEN f.total_capacity > 0
				THEN COALESCE(SUM(b.total_seats), 0)::float / f.total_capacity * 100
				ELSE 0
			END as utilization
		FROM flights f
		LEFT JOIN bookings b ON f.id = b.flight_id AND b.status IN ('CONFIRMED', 'COMPLETED')
		GROUP BY f.id, f.flight_number, f.origin, f.destination, f.departure_date, f.total_capacity
		ORDER BY seats_sold DESC, revenue DESC
		LIMIT ?
	`, limit).Scan(&flights).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top flights: %w", err)
	}

	return flights, nil
}

func (r *repository) GetFlightsByStatus() (map[string]int, error) {
	return r.countByStatus("flights")
}

func (r *repository) GetBookingsByStatus() (map[string]int, error) {
	return r.countByStatus("bookings")
}

func (r *repository) countByStatus(table string) (map[string]int, error) {
	var rows []struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
	}

	err := r.db.Table(table).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count %s by status: %w", table, err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
