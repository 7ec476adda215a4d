package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Rating is one row of the ratings table.
type Rating struct {
	UserID    int64
	MovieID   int64
	Value     float64
	Timestamp int64
}

// ParseRating parses one ratings line. The ratings table has no quoted
// fields, so a plain comma split is safe.
func ParseRating(line string) (Rating, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 4 {
		return Rating{}, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}

	userID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Rating{}, fmt.Errorf("invalid user id %q", fields[0])
	}
	movieID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Rating{}, fmt.Errorf("invalid movie id %q", fields[1])
	}
	value, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Rating{}, fmt.Errorf("invalid rating %q", fields[2])
	}
	timestamp, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return Rating{}, fmt.Errorf("invalid timestamp %q", fields[3])
	}

	return Rating{UserID: userID, MovieID: movieID, Value: value, Timestamp: timestamp}, nil
}

// IsRatingsHeader reports whether the line is the ratings table header row.
func IsRatingsHeader(line string) bool {
	return strings.HasPrefix(line, "userId,")
}
