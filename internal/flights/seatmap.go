package flights

import (
	"fmt"
	"strconv"
	"strings"
)

// Cabin layout is derived from capacity: rows of six seats (columns A-F),
// with a shorter final row when capacity is not a multiple of six.
const SeatColumns = "ABCDEF"

const seatsPerRow = len(SeatColumns)

// SeatDesignators returns the full seat-designator space for a cabin of the
// given capacity, in row order: 1A, 1B, ... 1F, 2A, ...
func SeatDesignators(capacity int) []string {
	if capacity <= 0 {
		return nil
	}

	seats := make([]string, 0, capacity)
	for i := 0; i < capacity; i++ {
		row := i/seatsPerRow + 1
		col := SeatColumns[i%seatsPerRow]
		seats = append(seats, fmt.Sprintf("%d%c", row, col))
	}
	return seats
}

// ParseSeatDesignator splits a designator like "12C" into row and column.
// Returns an error for anything that is not a positive row number followed
// by a single valid column letter.
func ParseSeatDesignator(designator string) (row int, col byte, err error) {
	designator = strings.ToUpper(strings.TrimSpace(designator))
	if len(designator) < 2 {
		return 0, 0, fmt.Errorf("invalid seat designator %q", designator)
	}

	col = designator[len(designator)-1]
	if !strings.ContainsRune(SeatColumns, rune(col)) {
		return 0, 0, fmt.Errorf("invalid seat column in %q", designator)
	}

	row, err = strconv.Atoi(designator[:len(designator)-1])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid seat row in %q", designator)
	}

	return row, col, nil
}

// IsValidSeat reports whether the designator addresses a real seat in a
// cabin of the given capacity.
func IsValidSeat(designator string, capacity int) bool {
	row, col, err := ParseSeatDesignator(designator)
	if err != nil {
		return false
	}

	index := (row-1)*seatsPerRow + strings.IndexByte(SeatColumns, col)
	return index < capacity
}

// NormalizeSeat returns the canonical form of a designator ("12c " -> "12C").
// The caller must have validated it first.
func NormalizeSeat(designator string) string {
	return strings.ToUpper(strings.TrimSpace(designator))
}
