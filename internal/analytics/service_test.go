package analytics_test

import (
	"testing"
	"time"

	"skybook/internal/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(year int, month time.Month, day int, price float64, seats int) analytics.RevenueRecord {
	return analytics.RevenueRecord{
		CreatedAt:  time.Date(year, month, day, 12, 0, 0, 0, time.UTC),
		TotalPrice: price,
		TotalSeats: seats,
	}
}

func TestBucketMonthlyRevenue(t *testing.T) {
	records := []analytics.RevenueRecord{
		record(2026, time.June, 3, 200.0, 2),
		record(2026, time.June, 28, 150.0, 1),
		record(2026, time.July, 1, 540.0, 3),
		record(2026, time.August, 15, 98.0, 1),
		record(2026, time.August, 16, 102.0, 2),
	}

	buckets := analytics.BucketMonthlyRevenue(records)
	require.Len(t, buckets, 3)

	// Months come back sorted ascending
	assert.Equal(t, "2026-06", buckets[0].Month)
	assert.Equal(t, "2026-07", buckets[1].Month)
	assert.Equal(t, "2026-08", buckets[2].Month)

	assert.Equal(t, 350.0, buckets[0].Revenue)
	assert.Equal(t, 2, buckets[0].Bookings)
	assert.Equal(t, 3, buckets[0].SeatsSold)

	assert.Equal(t, 540.0, buckets[1].Revenue)
	assert.Equal(t, 1, buckets[1].Bookings)
	assert.Equal(t, 3, buckets[1].SeatsSold)

	assert.Equal(t, 200.0, buckets[2].Revenue)
	assert.Equal(t, 2, buckets[2].Bookings)
	assert.Equal(t, 3, buckets[2].SeatsSold)
}

func TestBucketMonthlyRevenue_UsesUTCMonth(t *testing.T) {
	// 23:30 on May 31 in UTC-5 is June 1 in UTC; bucketing is done in UTC
	loc := time.FixedZone("UTC-5", -5*60*60)
	records := []analytics.RevenueRecord{
		{
			CreatedAt:  time.Date(2026, time.May, 31, 23, 30, 0, 0, loc),
			TotalPrice: 100.0,
			TotalSeats: 1,
		},
	}

	buckets := analytics.BucketMonthlyRevenue(records)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2026-06", buckets[0].Month)
}

func TestBucketMonthlyRevenue_Empty(t *testing.T) {
	assert.Empty(t, analytics.BucketMonthlyRevenue(nil))
	assert.Empty(t, analytics.BucketMonthlyRevenue([]analytics.RevenueRecord{}))
}
