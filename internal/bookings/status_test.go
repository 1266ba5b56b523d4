package bookings_test

import (
	"testing"

	"skybook/internal/bookings"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    bookings.Status
		to      bookings.Status
		allowed bool
	}{
		{bookings.StatusPending, bookings.StatusConfirmed, true},
		{bookings.StatusPending, bookings.StatusCancelled, true},
		{bookings.StatusPending, bookings.StatusCompleted, false},
		{bookings.StatusConfirmed, bookings.StatusCompleted, true},
		{bookings.StatusConfirmed, bookings.StatusCancelled, true},
		{bookings.StatusConfirmed, bookings.StatusPending, false},
		{bookings.StatusCancelled, bookings.StatusConfirmed, false},
		{bookings.StatusCancelled, bookings.StatusPending, false},
		{bookings.StatusCompleted, bookings.StatusCancelled, false},
		{bookings.StatusCompleted, bookings.StatusConfirmed, false},
		{bookings.StatusConfirmed, bookings.StatusConfirmed, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, bookings.StatusPending.IsTerminal())
	assert.False(t, bookings.StatusConfirmed.IsTerminal())
	assert.True(t, bookings.StatusCancelled.IsTerminal())
	assert.True(t, bookings.StatusCompleted.IsTerminal())
}

func TestStatusHoldsSeats(t *testing.T) {
	assert.True(t, bookings.StatusPending.HoldsSeats())
	assert.True(t, bookings.StatusConfirmed.HoldsSeats())
	assert.True(t, bookings.StatusCompleted.HoldsSeats())
	assert.False(t, bookings.StatusCancelled.HoldsSeats())
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, bookings.StatusPending.IsValid())
	assert.True(t, bookings.StatusConfirmed.IsValid())
	assert.True(t, bookings.StatusCancelled.IsValid())
	assert.True(t, bookings.StatusCompleted.IsValid())
	assert.False(t, bookings.Status("REFUNDED").IsValid())
	assert.False(t, bookings.Status("").IsValid())
}
