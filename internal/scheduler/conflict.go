package scheduler

import (
	"strconv"
	"strings"
	"time"

	"github.com/obra-social-dev/escala/backend/internal/domain"
)

const DateLayout = "2006-01-02"

// TimeToMinutes parses a 24-hour HH:MM string into minutes since midnight.
// Malformed input yields 0 so that the detector stays total; the roster
// endpoints are responsible for rejecting bad windows before they reach
// the store.
func TimeToMinutes(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0
	}

	return hour*60 + minute
}

// WindowsOverlap treats windows as half-open intervals: two windows overlap
// iff they share at least one interior minute. Touching endpoints
// (endA == startB) do not count.
func WindowsOverlap(startA, endA, startB, endB int) bool {
	return startA < endB && endA > startB
}

// SameDate compares calendar dates ignoring the time-of-day component.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

type Conflict struct {
	LineItem        *domain.ScheduleLineItem `json:"lineItem"`
	ServiceTypeName string                   `json:"serviceTypeName"`
}

type ConflictReport struct {
	HasConflict bool       `json:"hasConflict"`
	Conflicts   []Conflict `json:"conflicts"`
}

// FindConflicts reports every existing line-item of the same worker on the
// same date whose time window overlaps [start, end). All matches are
// returned, not just the first, so callers can present complete diagnostics.
// excludeID skips one line-item, used when re-validating an edit in place;
// pass 0 to exclude nothing.
func FindConflicts(workerID int64, date time.Time, start int, end int, existing []*domain.ScheduleLineItem, types map[int64]*domain.ServiceType, excludeID int64) *ConflictReport {
	report := &ConflictReport{Conflicts: []Conflict{}}

	for _, item := range existing {
		if excludeID != 0 && item.ID == excludeID {
			continue
		}
		if item.WorkerID != workerID || !SameDate(item.Date, date) {
			continue
		}

		st, exists := types[item.ServiceTypeID]
		if !exists {
			// a line-item referencing an unknown service type cannot be
			// checked for overlap; skip rather than fail the whole report
			continue
		}

		if WindowsOverlap(start, end, TimeToMinutes(st.StartTime), TimeToMinutes(st.EndTime)) {
			report.Conflicts = append(report.Conflicts, Conflict{
				LineItem:        item,
				ServiceTypeName: st.Name,
			})
		}
	}

	report.HasConflict = len(report.Conflicts) > 0

	return report
}
