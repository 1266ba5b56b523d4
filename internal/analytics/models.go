package analytics

import (
	"time"
)

// DashboardAnalytics is the admin back-office overview
type DashboardAnalytics struct {
	Overview         OverviewMetrics    `json:"overview"`
	RevenueByMonth   []MonthlyRevenue   `json:"revenue_by_month"`
	TopRoutes        []RoutePerformance `json:"top_routes"`
	TopFlights       []FlightPerformance `json:"top_flights"`
	FlightsByStatus  map[string]int     `json:"flights_by_status"`
	BookingsByStatus map[string]int     `json:"bookings_by_status"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

type OverviewMetrics struct {
	TotalFlights       int     `json:"total_flights"`
	ScheduledFlights   int     `json:"scheduled_flights"`
	TotalBookings      int     `json:"total_bookings"`
	ActiveBookings     int     `json:"active_bookings"`
	CancelledBookings  int     `json:"cancelled_bookings"`
	CompletedBookings  int     `json:"completed_bookings"`
	TotalSeatsSold     int     `json:"total_seats_sold"`
	TotalRevenue       float64 `json:"total_revenue"`
	TotalUsers         int     `json:"total_users"`
	CancellationRate   float64 `json:"cancellation_rate"`
	AverageBookingSize float64 `json:"average_booking_size"`
}

// MonthlyRevenue is one calendar-month revenue bucket. Only bookings that
// still hold seats (confirmed or completed) contribute.
type MonthlyRevenue struct {
	Month     string  `json:"month"` // YYYY-MM
	Revenue   float64 `json:"revenue"`
	Bookings  int     `json:"bookings"`
	SeatsSold int     `json:"seats_sold"`
}

type RoutePerformance struct {
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	FlightCount  int     `json:"flight_count"`
	BookingCount int     `json:"booking_count"`
	SeatsSold    int     `json:"seats_sold"`
	Revenue      float64 `json:"revenue"`
}

type FlightPerformance struct {
	FlightID      string  `json:"flight_id"`
	FlightNumber  string  `json:"flight_number"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureDate string  `json:"departure_date"`
	BookingCount  int     `json:"booking_count"`
	SeatsSold     int     `json:"seats_sold"`
	Revenue       float64 `json:"revenue"`
	Utilization   float64 `json:"utilization"`
}

// RevenueRecord is a single revenue-bearing booking as read from the ledger.
// Monthly bucketing happens in the service layer.
type RevenueRecord struct {
	CreatedAt  time.Time `json:"created_at"`
	TotalPrice float64   `json:"total_price"`
	TotalSeats int       `json:"total_seats"`
}
