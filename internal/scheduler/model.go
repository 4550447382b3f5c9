package scheduler

import "github.com/obra-social-dev/escala/backend/internal/domain"

// Snapshot is the full in-memory input of one allocation run. It is read
// from the store as a prelude; the run itself does no I/O.
type Snapshot struct {
	Workers      []*domain.Worker
	ServiceTypes []*domain.ServiceType
	Capabilities []*domain.Capability
	FixedRoles   []*domain.FixedRole
	Restrictions []*domain.DateRestriction
}

// Stats summarizes one allocation run.
type Stats struct {
	DateCount        int           `json:"dateCount"`
	LineItemCount    int           `json:"lineItemCount"`
	ServiceTypeCount int           `json:"serviceTypeCount"`
	LoadByWorker     map[int64]int `json:"loadByWorker"`
}

// Result carries everything one run produced. Expected business conditions
// (missing capability, restriction, conflict) never abort the run; they
// accumulate here so the caller always sees the complete month.
type Result struct {
	LineItems []*domain.ScheduleLineItem `json:"lineItems"`
	Warnings  []string                   `json:"warnings"`
	Errors    []string                   `json:"errors"`
	Stats     Stats                      `json:"stats"`
}
