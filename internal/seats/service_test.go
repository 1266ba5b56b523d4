package seats_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"skybook/internal/flights"
	"skybook/internal/seats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFlightReader struct {
	flights map[uuid.UUID]*flights.Flight
}

func (r *stubFlightReader) GetFlight(id uuid.UUID) (*flights.Flight, error) {
	flight, ok := r.flights[id]
	if !ok {
		return nil, flights.ErrFlightNotFound
	}
	return flight, nil
}

type stubReservedReader struct {
	reserved map[uuid.UUID][]string
}

func (r *stubReservedReader) GetReservedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error) {
	return r.reserved[flightID], nil
}

func newSeatTestService(capacity int, reserved []string) (seats.Service, uuid.UUID) {
	flightID := uuid.New()
	flightReader := &stubFlightReader{
		flights: map[uuid.UUID]*flights.Flight{
			flightID: {
				ID:            flightID,
				FlightNumber:  "SB205",
				TotalCapacity: capacity,
				Status:        flights.FlightStatusScheduled,
			},
		},
	}
	reservedReader := &stubReservedReader{
		reserved: map[uuid.UUID][]string{flightID: reserved},
	}

	// No Redis in unit tests: holds degrade gracefully, seat map still works
	svc := seats.NewService(flightReader, reservedReader, nil, nil, 10*time.Minute)
	return svc, flightID
}

func TestGetSeatMap_MarksReservedAndAvailable(t *testing.T) {
	svc, flightID := newSeatTestService(12, []string{"1A", "2C"})

	seatMap, err := svc.GetSeatMap(context.Background(), flightID)
	require.NoError(t, err)

	assert.Equal(t, flightID.String(), seatMap.FlightID)
	assert.Equal(t, 12, seatMap.TotalCapacity)
	assert.Len(t, seatMap.Seats, 12)
	assert.ElementsMatch(t, []string{"1A", "2C"}, seatMap.ReservedSeats)
	assert.Len(t, seatMap.AvailableSeats, 10)
	assert.NotContains(t, seatMap.AvailableSeats, "1A")
	assert.NotContains(t, seatMap.AvailableSeats, "2C")

	states := make(map[string]string, len(seatMap.Seats))
	for _, seat := range seatMap.Seats {
		states[seat.SeatNumber] = seat.State
	}
	assert.Equal(t, seats.SeatStateReserved, states["1A"])
	assert.Equal(t, seats.SeatStateReserved, states["2C"])
	assert.Equal(t, seats.SeatStateAvailable, states["1B"])
}

func TestGetSeatMap_FlightNotFound(t *testing.T) {
	svc, _ := newSeatTestService(12, nil)

	_, err := svc.GetSeatMap(context.Background(), uuid.New())
	assert.ErrorIs(t, err, seats.ErrFlightNotFound)
}

func TestGetAvailableSeats(t *testing.T) {
	svc, flightID := newSeatTestService(6, []string{"1B", "1D"})

	available, err := svc.GetAvailableSeats(context.Background(), flightID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1A", "1C", "1E", "1F"}, available)
}

func TestGetReservedSeats(t *testing.T) {
	svc, flightID := newSeatTestService(6, []string{"1A"})

	reserved, err := svc.GetReservedSeats(context.Background(), flightID)
	require.NoError(t, err)
	assert.Equal(t, []string{"1A"}, reserved)

	_, err = svc.GetReservedSeats(context.Background(), uuid.New())
	assert.ErrorIs(t, err, seats.ErrFlightNotFound)
}

func TestHoldSeats_RejectsInvalidSeat(t *testing.T) {
	svc, flightID := newSeatTestService(6, nil)

	_, err := svc.HoldSeats(context.Background(), uuid.New(), seats.HoldSeatsRequest{
		FlightID: flightID.String(),
		Seats:    []string{"9Z"},
	})
	assert.ErrorIs(t, err, seats.ErrInvalidSeat)
}

func TestHoldSeats_RejectsReservedSeat(t *testing.T) {
	svc, flightID := newSeatTestService(6, []string{"1C"})

	_, err := svc.HoldSeats(context.Background(), uuid.New(), seats.HoldSeatsRequest{
		FlightID: flightID.String(),
		Seats:    []string{"1c"},
	})
	require.Error(t, err)

	var conflict *seats.HoldConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "1C", conflict.Seat)
}

func TestHoldSeats_FlightNotFound(t *testing.T) {
	svc, _ := newSeatTestService(6, nil)

	_, err := svc.HoldSeats(context.Background(), uuid.New(), seats.HoldSeatsRequest{
		FlightID: uuid.New().String(),
		Seats:    []string{"1A"},
	})
	assert.ErrorIs(t, err, seats.ErrFlightNotFound)
}
