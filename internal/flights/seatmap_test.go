package flights_test

import (
	"testing"
	"time"

	"skybook/internal/flights"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatDesignators(t *testing.T) {
	// Capacity 8 fills row 1 and spills two seats into row 2
	seats := flights.SeatDesignators(8)
	assert.Equal(t, []string{"1A", "1B", "1C", "1D", "1E", "1F", "2A", "2B"}, seats)

	assert.Len(t, flights.SeatDesignators(180), 180)
	assert.Nil(t, flights.SeatDesignators(0))
	assert.Nil(t, flights.SeatDesignators(-3))
}

func TestParseSeatDesignator(t *testing.T) {
	row, col, err := flights.ParseSeatDesignator("12C")
	require.NoError(t, err)
	assert.Equal(t, 12, row)
	assert.Equal(t, byte('C'), col)

	// Lowercase and padding are tolerated
	row, col, err = flights.ParseSeatDesignator(" 3f ")
	require.NoError(t, err)
	assert.Equal(t, 3, row)
	assert.Equal(t, byte('F'), col)

	invalid := []string{"", "A", "12", "12G", "0A", "-1B", "C12"}
	for _, designator := range invalid {
		_, _, err := flights.ParseSeatDesignator(designator)
		assert.Error(t, err, "designator %q should be rejected", designator)
	}
}

func TestIsValidSeat(t *testing.T) {
	// Capacity 10: row 1 full (1A-1F), row 2 partial (2A-2D)
	assert.True(t, flights.IsValidSeat("1A", 10))
	assert.True(t, flights.IsValidSeat("1F", 10))
	assert.True(t, flights.IsValidSeat("2D", 10))

	assert.False(t, flights.IsValidSeat("2E", 10), "2E is past the short final row")
	assert.False(t, flights.IsValidSeat("3A", 10))
	assert.False(t, flights.IsValidSeat("1G", 10))
	assert.False(t, flights.IsValidSeat("", 10))
}

func TestNormalizeSeat(t *testing.T) {
	assert.Equal(t, "12C", flights.NormalizeSeat("12c"))
	assert.Equal(t, "1A", flights.NormalizeSeat("  1a "))
	assert.Equal(t, "3F", flights.NormalizeSeat("3F"))
}

func TestFlightDepartureAt(t *testing.T) {
	flight := flights.Flight{
		DepartureDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		DepartureTime: "08:30",
	}

	at := flight.DepartureAt()
	assert.Equal(t, time.Date(2026, 9, 14, 8, 30, 0, 0, time.UTC), at)

	// A malformed time-of-day falls back to the bare date
	flight.DepartureTime = "bogus"
	assert.Equal(t, flight.DepartureDate, flight.DepartureAt())
}
