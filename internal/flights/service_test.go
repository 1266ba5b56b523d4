package flights_test

import (
	"testing"
	"time"

	"skybook/internal/flights"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeFlightRepo struct {
	flights map[uuid.UUID]*flights.Flight
}

func newFakeFlightRepo(seed ...*flights.Flight) *fakeFlightRepo {
	repo := &fakeFlightRepo{flights: make(map[uuid.UUID]*flights.Flight)}
	for _, flight := range seed {
		repo.flights[flight.ID] = flight
	}
	return repo
}

func (r *fakeFlightRepo) Create(flight *flights.Flight) error {
	if flight.ID == uuid.Nil {
		flight.ID = uuid.New()
	}
	r.flights[flight.ID] = flight
	return nil
}

func (r *fakeFlightRepo) GetByID(id uuid.UUID) (*flights.Flight, error) {
	flight, ok := r.flights[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return flight, nil
}

func (r *fakeFlightRepo) Update(id uuid.UUID, updates map[string]interface{}) (*flights.Flight, error) {
	flight, ok := r.flights[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"]; ok {
		flight.Status = status.(flights.FlightStatus)
	}
	if updatedAt, ok := updates["updated_at"]; ok {
		flight.UpdatedAt = updatedAt.(time.Time)
	}
	return flight, nil
}

func (r *fakeFlightRepo) Delete(id uuid.UUID) error {
	delete(r.flights, id)
	return nil
}

func (r *fakeFlightRepo) GetAll(query flights.FlightListQuery) ([]flights.Flight, int64, error) {
	return nil, 0, nil
}

func (r *fakeFlightRepo) CountActiveBookings(flightID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *fakeFlightRepo) GetDepartedScheduled(now time.Time) ([]flights.Flight, error) {
	var departed []flights.Flight
	for _, flight := range r.flights {
		if flight.Status == flights.FlightStatusScheduled && flight.DepartureDate.Before(now) {
			departed = append(departed, *flight)
		}
	}
	return departed, nil
}

func testFlight(number string, departure time.Time, status flights.FlightStatus) *flights.Flight {
	return &flights.Flight{
		ID:            uuid.New(),
		FlightNumber:  number,
		Origin:        "LHR",
		Destination:   "JFK",
		DepartureDate: departure,
		DepartureTime: "08:30",
		ArrivalTime:   "11:45",
		Price:         120.0,
		TotalCapacity: 60,
		Status:        status,
		CreatedBy:     uuid.New(),
	}
}

func TestCompleteDepartedFlights(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	departed := testFlight("SB101", now.AddDate(0, 0, -2), flights.FlightStatusScheduled)
	upcoming := testFlight("SB205", now.AddDate(0, 0, 5), flights.FlightStatusScheduled)
	alreadyDone := testFlight("SB330", now.AddDate(0, 0, -9), flights.FlightStatusCompleted)

	repo := newFakeFlightRepo(departed, upcoming, alreadyDone)
	svc := flights.NewService(repo)

	completed, err := svc.CompleteDepartedFlights(now)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	assert.Equal(t, flights.FlightStatusCompleted, departed.Status)
	assert.Equal(t, now, departed.UpdatedAt)
	assert.Equal(t, flights.FlightStatusScheduled, upcoming.Status)

	// A second pass finds nothing left to settle
	completed, err = svc.CompleteDepartedFlights(now)
	require.NoError(t, err)
	assert.Equal(t, 0, completed)
}
