package bookings

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newDryRunDB builds a postgres-dialect gorm session that renders SQL
// without connecting, so tests can pin the statements the ledger emits.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=skybook dbname=skybook sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

// The flight read that opens every ledger transaction must carry FOR UPDATE:
// without the row lock, two concurrent checkouts on the same seat both pass
// the conflict check and the counter update becomes a lost update.
func TestFlightForUpdate_EmitsRowLock(t *testing.T) {
	db := newDryRunDB(t)

	var flight lockedFlight
	stmt := flightForUpdate(db, uuid.New()).First(&flight).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, `FROM "flights"`)
	assert.Contains(t, sql, "FOR UPDATE")
}

func TestBookingForUpdate_EmitsRowLock(t *testing.T) {
	db := newDryRunDB(t)

	var booking Booking
	stmt := bookingForUpdate(db, uuid.New()).First(&booking).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, `FROM "bookings"`)
	assert.Contains(t, sql, "FOR UPDATE")
}

func TestIsRetryableTxError(t *testing.T) {
	// Serialization failures and deadlocks are worth another attempt
	assert.True(t, isRetryableTxError(&pgconn.PgError{Code: "40001"}))
	assert.True(t, isRetryableTxError(fmt.Errorf("create booking: %w", &pgconn.PgError{Code: "40P01"})))

	// Everything else surfaces immediately
	assert.False(t, isRetryableTxError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isRetryableTxError(ErrBookingNotFound))
	assert.False(t, isRetryableTxError(nil))
}
