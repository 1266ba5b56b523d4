package seats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// AtomicRedisOperations handles atomic Redis operations for seat holding
type AtomicRedisOperations struct {
	redis *redis.Client
}

// NewAtomicRedisOperations creates a new atomic Redis operations handler
func NewAtomicRedisOperations(redisClient *redis.Client) *AtomicRedisOperations {
	return &AtomicRedisOperations{
		redis: redisClient,
	}
}

// Seat hold keys are scoped per flight so holds on different flights never
// collide: seat_hold:<flight_id>:<designator>

// Lua script for atomic seat holding - prevents race conditions between
// concurrent hold attempts on the same seats
const luaAtomicSeatHold = `
-- KEYS[1] = hold_id
-- ARGV[1] = user_id
-- ARGV[2] = flight_id
-- ARGV[3] = ttl_seconds
-- ARGV[4..N] = seat designators

local hold_id = KEYS[1]
local user_id = ARGV[1]
local flight_id = ARGV[2]
local ttl = tonumber(ARGV[3])

-- Check if all seats are available (not held)
for i = 4, #ARGV do
    local seat = ARGV[i]
    local seat_hold_key = "seat_hold:" .. flight_id .. ":" .. seat

    if redis.call("EXISTS", seat_hold_key) == 1 then
        -- Seat is already held, return failure with the held seat
        return {0, seat}
    end
end

-- All seats are available, hold them atomically
local hold_key = "hold:" .. hold_id
local hold_seats_key = "hold_seats:" .. hold_id
local created_at = redis.call("TIME")[1]

-- Create hold metadata
redis.call("HMSET", hold_key,
    "user_id", user_id,
    "flight_id", flight_id,
    "seat_count", #ARGV - 3,
    "created_at", created_at
)
redis.call("EXPIRE", hold_key, ttl)

-- Hold individual seats and add to hold set
for i = 4, #ARGV do
    local seat = ARGV[i]
    local seat_hold_key = "seat_hold:" .. flight_id .. ":" .. seat
    local hold_value = user_id .. ":" .. hold_id

    redis.call("SETEX", seat_hold_key, ttl, hold_value)
    redis.call("SADD", hold_seats_key, seat)
end

-- Set expiry for hold seats set
redis.call("EXPIRE", hold_seats_key, ttl)

-- Return success
return {1, "success"}
`

// Lua script for atomic seat release
const luaAtomicSeatRelease = `
-- KEYS[1] = hold_id
local hold_id = KEYS[1]

local hold_key = "hold:" .. hold_id
local hold_seats_key = "hold_seats:" .. hold_id

-- Get hold metadata
local hold_data = redis.call("HGETALL", hold_key)
if #hold_data == 0 then
    return {0, "hold_not_found"}
end

local flight_id = nil
for i = 1, #hold_data, 2 do
    if hold_data[i] == "flight_id" then
        flight_id = hold_data[i + 1]
        break
    end
end

if not flight_id then
    return {0, "invalid_hold_data"}
end

-- Get all seats in this hold
local seats = redis.call("SMEMBERS", hold_seats_key)

-- Release individual seat holds
for i = 1, #seats do
    local seat_hold_key = "seat_hold:" .. flight_id .. ":" .. seats[i]
    redis.call("DEL", seat_hold_key)
end

-- Clean up hold metadata
redis.call("DEL", hold_key)
redis.call("DEL", hold_seats_key)

return {1, #seats}
`

// Script handles are digest-addressed: Run tries EVALSHA first and falls
// back to EVAL (and re-caches) when the script is not loaded yet.
var (
	seatHoldScript    = redis.NewScript(luaAtomicSeatHold)
	seatReleaseScript = redis.NewScript(luaAtomicSeatRelease)
)

// AtomicHoldSeats atomically holds the given seats on a flight
func (a *AtomicRedisOperations) AtomicHoldSeats(ctx context.Context, flightID, userID, holdID string, seatNumbers []string, ttl time.Duration) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	keys := []string{holdID}
	args := []interface{}{
		userID,
		flightID,
		strconv.Itoa(int(ttl.Seconds())),
	}
	for _, seat := range seatNumbers {
		args = append(args, seat)
	}

	result, err := seatHoldScript.Run(ctx, a.redis, keys, args...).Result()
	if err != nil {
		return fmt.Errorf("failed to execute atomic seat hold: %w", err)
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		if heldSeat, ok := resultArray[1].(string); ok {
			return &HoldConflictError{Seat: heldSeat}
		}
		return fmt.Errorf("failed to hold seats")
	}

	return nil
}

// AtomicReleaseHold atomically releases a hold and returns the seat count freed
func (a *AtomicRedisOperations) AtomicReleaseHold(ctx context.Context, holdID string) (int, error) {
	if a.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	result, err := seatReleaseScript.Run(ctx, a.redis, []string{holdID}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to execute atomic seat release: %w", err)
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return 0, fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid success flag in Lua script result")
	}

	if success == 0 {
		if reason, ok := resultArray[1].(string); ok {
			return 0, fmt.Errorf("failed to release hold: %s", reason)
		}
		return 0, fmt.Errorf("failed to release hold")
	}

	releasedCount, ok := resultArray[1].(int64)
	if !ok {
		return 0, fmt.Errorf("invalid released count in Lua script result")
	}

	return int(releasedCount), nil
}

// HeldSeats returns which of the given seats currently carry a hold
func (a *AtomicRedisOperations) HeldSeats(ctx context.Context, flightID string, seatNumbers []string) ([]string, error) {
	if a.redis == nil || len(seatNumbers) == 0 {
		return nil, nil
	}

	keys := make([]string, len(seatNumbers))
	for i, seat := range seatNumbers {
		keys[i] = "seat_hold:" + flightID + ":" + seat
	}

	values, err := a.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read seat holds: %w", err)
	}

	var held []string
	for i, val := range values {
		if val != nil {
			held = append(held, seatNumbers[i])
		}
	}
	return held, nil
}

// PreloadScripts loads Lua scripts into Redis for better performance
func (a *AtomicRedisOperations) PreloadScripts(ctx context.Context) error {
	if a.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if err := seatHoldScript.Load(ctx, a.redis).Err(); err != nil {
		return fmt.Errorf("failed to load seat hold script: %w", err)
	}

	if err := seatReleaseScript.Load(ctx, a.redis).Err(); err != nil {
		return fmt.Errorf("failed to load seat release script: %w", err)
	}

	return nil
}
