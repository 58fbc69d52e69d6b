package services

import (
	"time"

	"github.com/ardidw/studioflow-api/internal/constants"
)

// dateRange validates a from/to pair of ISO dates. When both are empty the
// current month is used.
func dateRange(from, to string) (string, string, error) {
	if from == "" && to == "" {
		now := time.Now()
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
		last := first.AddDate(0, 1, -1)
		return first.Format(constants.DateLayout), last.Format(constants.DateLayout), nil
	}

	start, err := time.Parse(constants.DateLayout, from)
	if err != nil {
		return "", "", ErrInvalidDate
	}
	end, err := time.Parse(constants.DateLayout, to)
	if err != nil {
		return "", "", ErrInvalidDate
	}
	if end.Before(start) {
		return "", "", ErrInvalidDateRange
	}

	return from, to, nil
}
