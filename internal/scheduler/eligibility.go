package scheduler

import (
	"fmt"
	"time"

	"github.com/obra-social-dev/escala/backend/internal/domain"
)

// HasCapability reports whether an active capability row grants the worker
// eligibility for the service type.
func HasCapability(workerID int64, serviceTypeID int64, capabilities []*domain.Capability) bool {
	for _, c := range capabilities {
		if c.IsActive && c.WorkerID == workerID && c.ServiceTypeID == serviceTypeID {
			return true
		}
	}
	return false
}

// HasRestriction reports whether an active date restriction marks the worker
// unavailable on the given calendar date.
func HasRestriction(workerID int64, date time.Time, restrictions []*domain.DateRestriction) bool {
	for _, r := range restrictions {
		if r.IsActive && r.WorkerID == workerID && SameDate(r.Date, date) {
			return true
		}
	}
	return false
}

// FindFixedRole returns the first active pin for the service type, or nil.
// Callers pass pins in ascending creation order, so extra active rows for
// the same service type stay dormant.
func FindFixedRole(serviceTypeID int64, fixedRoles []*domain.FixedRole) *domain.FixedRole {
	for _, fr := range fixedRoles {
		if fr.IsActive && fr.ServiceTypeID == serviceTypeID {
			return fr
		}
	}
	return nil
}

type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateAssignment is the single authority for whether a (worker, service
// type, date) assignment is legal: capability present, no date restriction,
// no time conflict against the given line-items. Every failing reason is
// collected so the caller can show complete diagnostics. excludeID skips one
// line-item during conflict detection (the item being edited); pass 0 to
// exclude nothing.
func ValidateAssignment(workerID int64, st *domain.ServiceType, date time.Time, existing []*domain.ScheduleLineItem, excludeID int64, snap *Snapshot) *ValidationResult {
	result := &ValidationResult{Errors: []string{}}

	if !HasCapability(workerID, st.ID, snap.Capabilities) {
		result.Errors = append(result.Errors, fmt.Sprintf("worker %d has no active capability for service type %q", workerID, st.Name))
	}

	if HasRestriction(workerID, date, snap.Restrictions) {
		result.Errors = append(result.Errors, fmt.Sprintf("worker %d is unavailable on %s", workerID, date.Format(DateLayout)))
	}

	types := make(map[int64]*domain.ServiceType, len(snap.ServiceTypes))
	for _, t := range snap.ServiceTypes {
		types[t.ID] = t
	}

	report := FindConflicts(workerID, date, TimeToMinutes(st.StartTime), TimeToMinutes(st.EndTime), existing, types, excludeID)
	for _, c := range report.Conflicts {
		result.Errors = append(result.Errors, fmt.Sprintf("worker %d already assigned to %q on %s in an overlapping window", workerID, c.ServiceTypeName, date.Format(DateLayout)))
	}

	result.Valid = len(result.Errors) == 0

	return result
}
