package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// Centralizes all Redis cache keys and TTL values for the SkyBook application.
// Pattern: skybook:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG  = 24 * time.Hour // 24 hours - for very stable data
	TTL_STATIC_SHORT = 6 * time.Hour  // 6 hours - for user profiles
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for flight details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // 1 hour - for flight listings
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for search results
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // 10 minutes - for analytics
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // 5 minutes - for booking lists
	TTL_DYNAMIC_QUICK  = 2 * time.Minute  // 2 minutes - for availability
)

// Highly Dynamic (Micro TTL: real-time sensitive)
const (
	TTL_REALTIME_SHORT = 30 * time.Second // 30 seconds - for live seat maps
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "skybook"
)

// ================== FLIGHTS MODULE ==================

const (
	CACHE_KEY_FLIGHTS_LIST   = CACHE_PREFIX + ":flights:list"         // + :page:X:limit:Y
	CACHE_KEY_FLIGHTS_SEARCH = CACHE_PREFIX + ":flights:search"       // + :from:X:to:Y:date:Z
	CACHE_KEY_FLIGHT_DETAIL  = CACHE_PREFIX + ":flights:detail:uuid:" // + flight-id
)

const (
	TTL_FLIGHT_LIST   = TTL_SEMI_STATIC_SHORT // 1 hour
	TTL_FLIGHT_SEARCH = TTL_SEMI_STATIC_QUICK // 15 minutes
	TTL_FLIGHT_DETAIL = TTL_SEMI_STATIC_MEDIUM
)

// ================== SEATS MODULE ==================

const (
	CACHE_KEY_FLIGHT_SEATMAP = CACHE_PREFIX + ":seats:map:flight:" // + flight-id
)

const (
	TTL_FLIGHT_SEATMAP = TTL_REALTIME_SHORT // 30 seconds
)

// ================== BOOKINGS MODULE ==================

const (
	CACHE_KEY_USER_BOOKINGS  = CACHE_PREFIX + ":bookings:user:uuid:"   // + user-id:page:X
	CACHE_KEY_BOOKING_DETAIL = CACHE_PREFIX + ":bookings:detail:uuid:" // + booking-id
)

const (
	TTL_USER_BOOKINGS  = TTL_DYNAMIC_MEDIUM // 10 minutes
	TTL_BOOKING_DETAIL = TTL_DYNAMIC_MEDIUM // 10 minutes
)

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_ANALYTICS_DASHBOARD = CACHE_PREFIX + ":analytics:dashboard:admin"
	CACHE_KEY_ANALYTICS_MONTHLY   = CACHE_PREFIX + ":analytics:revenue:monthly"
)

const (
	TTL_ANALYTICS_DASHBOARD = TTL_DYNAMIC_MEDIUM // 10 minutes
	TTL_ANALYTICS_MONTHLY   = TTL_DYNAMIC_MEDIUM // 10 minutes
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_FLIGHTS_ALL = CACHE_PREFIX + ":flights:*"
	PATTERN_INVALIDATE_SEATMAPS    = CACHE_PREFIX + ":seats:map:*"
	PATTERN_INVALIDATE_BOOKINGS    = CACHE_PREFIX + ":bookings:*"
	PATTERN_INVALIDATE_ANALYTICS   = CACHE_PREFIX + ":analytics:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildFlightDetailKey(flightID string) string {
	return CACHE_KEY_FLIGHT_DETAIL + flightID
}

func BuildFlightSearchKey(from, to, date string, page, limit int) string {
	return fmt.Sprintf("%s:from:%s:to:%s:date:%s:page:%d:limit:%d",
		CACHE_KEY_FLIGHTS_SEARCH, from, to, date, page, limit)
}

func BuildFlightSeatMapKey(flightID string) string {
	return CACHE_KEY_FLIGHT_SEATMAP + flightID
}

func BuildUserBookingsKey(userID string, page int) string {
	return fmt.Sprintf("%s%s:page:%d", CACHE_KEY_USER_BOOKINGS, userID, page)
}
