package flights

import (
	"time"

	"github.com/google/uuid"
)

type Flight struct {
	ID            uuid.UUID    `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	FlightNumber  string       `json:"flight_number" gorm:"not null;size:10;uniqueIndex:idx_flight_number_date"`
	Origin        string       `json:"origin" gorm:"not null;size:100"`
	Destination   string       `json:"destination" gorm:"not null;size:100"`
	DepartureDate time.Time    `json:"departure_date" gorm:"not null;type:date;uniqueIndex:idx_flight_number_date"`
	DepartureTime string       `json:"departure_time" gorm:"not null;size:5"` // "HH:MM" local
	ArrivalTime   string       `json:"arrival_time" gorm:"not null;size:5"`
	Duration      string       `json:"duration" gorm:"size:20"`
	Price         float64      `json:"price" gorm:"not null;check:price > 0"`
	TotalCapacity int          `json:"total_capacity" gorm:"not null;check:total_capacity > 0"`
	BookedCount   int          `json:"booked_count" gorm:"default:0;check:booked_count >= 0"`
	Status        FlightStatus `json:"status" gorm:"type:varchar(20);default:'SCHEDULED'"`

	CreatedBy uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	UpdatedBy *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

type FlightResponse struct {
	ID             string       `json:"id"`
	FlightNumber   string       `json:"flight_number"`
	Origin         string       `json:"origin"`
	Destination    string       `json:"destination"`
	DepartureDate  string       `json:"departure_date"`
	DepartureTime  string       `json:"departure_time"`
	ArrivalTime    string       `json:"arrival_time"`
	Duration       string       `json:"duration"`
	Price          float64      `json:"price"`
	TotalCapacity  int          `json:"total_capacity"`
	BookedCount    int          `json:"booked_count"`
	AvailableSeats int          `json:"available_seats"`
	Status         FlightStatus `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type CreateFlightRequest struct {
	FlightNumber  string  `json:"flight_number" binding:"required,min=2,max=10"`
	Origin        string  `json:"origin" binding:"required,min=3,max=100"`
	Destination   string  `json:"destination" binding:"required,min=3,max=100"`
	DepartureDate string  `json:"departure_date" binding:"required"` // "2006-01-02"
	DepartureTime string  `json:"departure_time" binding:"required,len=5"`
	ArrivalTime   string  `json:"arrival_time" binding:"required,len=5"`
	Duration      string  `json:"duration" binding:"omitempty,max=20"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	TotalCapacity int     `json:"total_capacity" binding:"required,min=1,max=1000"`
}

type UpdateFlightRequest struct {
	FlightNumber  *string  `json:"flight_number" binding:"omitempty,min=2,max=10"`
	Origin        *string  `json:"origin" binding:"omitempty,min=3,max=100"`
	Destination   *string  `json:"destination" binding:"omitempty,min=3,max=100"`
	DepartureDate *string  `json:"departure_date"`
	DepartureTime *string  `json:"departure_time" binding:"omitempty,len=5"`
	ArrivalTime   *string  `json:"arrival_time" binding:"omitempty,len=5"`
	Duration      *string  `json:"duration" binding:"omitempty,max=20"`
	Price         *float64 `json:"price" binding:"omitempty,gt=0"`
	TotalCapacity *int     `json:"total_capacity" binding:"omitempty,min=1,max=1000"`
	Status        *string  `json:"status" binding:"omitempty,oneof=SCHEDULED CANCELLED COMPLETED"`
}

type FlightListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	From   string `form:"from"`
	To     string `form:"to"`
	Date   string `form:"date"` // "2006-01-02"
	Status string `form:"status" binding:"omitempty,oneof=SCHEDULED CANCELLED COMPLETED"`
}

type PaginatedFlights struct {
	Flights    []FlightResponse `json:"flights"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// Helper method to convert Flight to FlightResponse
func (f *Flight) ToResponse() FlightResponse {
	available := f.TotalCapacity - f.BookedCount
	if available < 0 {
		available = 0
	}

	return FlightResponse{
		ID:             f.ID.String(),
		FlightNumber:   f.FlightNumber,
		Origin:         f.Origin,
		Destination:    f.Destination,
		DepartureDate:  f.DepartureDate.Format("2006-01-02"),
		DepartureTime:  f.DepartureTime,
		ArrivalTime:    f.ArrivalTime,
		Duration:       f.Duration,
		Price:          f.Price,
		TotalCapacity:  f.TotalCapacity,
		BookedCount:    f.BookedCount,
		AvailableSeats: available,
		Status:         f.Status,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// DepartureAt combines the departure date and local time-of-day into a
// single timestamp used by the completion job.
func (f *Flight) DepartureAt() time.Time {
	t, err := time.Parse("15:04", f.DepartureTime)
	if err != nil {
		return f.DepartureDate
	}
	return time.Date(
		f.DepartureDate.Year(), f.DepartureDate.Month(), f.DepartureDate.Day(),
		t.Hour(), t.Minute(), 0, 0, time.UTC,
	)
}

// TableName specifies the table name for GORM
func (Flight) TableName() string {
	return "flights"
}
