package flights

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(flight *Flight) error
	GetByID(id uuid.UUID) (*Flight, error)
	Update(id uuid.UUID, updates map[string]interface{}) (*Flight, error)
	Delete(id uuid.UUID) error
	GetAll(query FlightListQuery) ([]Flight, int64, error)
	CountActiveBookings(flightID uuid.UUID) (int64, error)
	GetDepartedScheduled(now time.Time) ([]Flight, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(flight *Flight) error {
	return r.db.Create(flight).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Flight, error) {
	var flight Flight
	err := r.db.Where("id = ?", id).First(&flight).Error
	if err != nil {
		return nil, err
	}
	return &flight, nil
}

func (r *repository) Update(id uuid.UUID, updates map[string]interface{}) (*Flight, error) {
	var flight Flight

	if err := r.db.Where("id = ?", id).First(&flight).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&flight).Updates(updates).Error; err != nil {
		return nil, err
	}

	// Return updated flight
	if err := r.db.Where("id = ?", id).First(&flight).Error; err != nil {
		return nil, err
	}

	return &flight, nil
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&Flight{}).Error
}

func (r *repository) GetAll(query FlightListQuery) ([]Flight, int64, error) {
	var flights []Flight
	var totalCount int64

	db := r.db.Model(&Flight{})

	// Apply filters
	if query.From != "" {
		db = db.Where("LOWER(origin) LIKE ?", "%"+strings.ToLower(query.From)+"%")
	}

	if query.To != "" {
		db = db.Where("LOWER(destination) LIKE ?", "%"+strings.ToLower(query.To)+"%")
	}

	if query.Date != "" {
		if date, err := time.Parse("2006-01-02", query.Date); err == nil {
			db = db.Where("departure_date = ?", date)
		}
	}

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	// Count total records
	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	offset := (query.Page - 1) * query.Limit

	err := db.Order("departure_date ASC, departure_time ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&flights).Error

	return flights, totalCount, err
}

// CountActiveBookings counts non-cancelled bookings referencing the flight.
// Queried through the raw table name to keep the package dependency one-way.
func (r *repository) CountActiveBookings(flightID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Table("bookings").
		Where("flight_id = ? AND status != ?", flightID, "CANCELLED").
		Count(&count).Error
	return count, err
}

// GetDepartedScheduled returns scheduled flights whose departure date is in
// the past. Consumed by the reconciliation job via CompleteDepartedFlights.
func (r *repository) GetDepartedScheduled(now time.Time) ([]Flight, error) {
	var flights []Flight
	err := r.db.Where("status = ? AND departure_date < ?", FlightStatusScheduled, now).
		Find(&flights).Error
	return flights, err
}
