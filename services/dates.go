package services

import (
	"strings"
	"time"

	"hotel-core/utils"
)

func parseDateField(s, field string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, &ValidationError{Field: field, Reason: "required"}
	}
	t, err := utils.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Reason: "invalid date, want YYYY-MM-DD"}
	}
	return utils.DateOnly(t), nil
}

// validateStayDates enforces the forward-booking preconditions: the
// range must be non-empty and must not start in the past. Violations
// are reported, never clamped.
func validateStayDates(checkIn, checkOut, today time.Time) error {
	if !checkIn.Before(checkOut) {
		return &ValidationError{Field: "check_out", Reason: "must be after check_in"}
	}
	if checkIn.Before(today) {
		return &ValidationError{Field: "check_in", Reason: "cannot be in the past"}
	}
	return nil
}
