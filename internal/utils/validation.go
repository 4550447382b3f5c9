package utils

import (
	"errors"
	"strings"
	"time"
)

// ValidateServiceTypeTimes checks the HH:MM window of a service type: both
// bounds must parse and the window must have positive length. Zero-length
// windows can never hold an assignment under half-open overlap.
func ValidateServiceTypeTimes(startTime string, endTime string) error {
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return errors.New("start time must be in HH:MM format")
	}

	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return errors.New("end time must be in HH:MM format")
	}

	if !end.After(start) {
		return errors.New("end time must be after start time")
	}

	return nil
}

// ValidateSubstitutionReason rejects reasons that are empty once trimmed;
// a whitespace-only string carries no information for the approver.
func ValidateSubstitutionReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return errors.New("reason must not be blank")
	}

	return nil
}
