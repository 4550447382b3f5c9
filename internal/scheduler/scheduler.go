package scheduler

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/obra-social-dev/escala/backend/internal/domain"
)

// Engine allocates workers to service-type occurrences for one month. Each
// run owns its own load map, so engines are safe to construct and run from
// any goroutine as long as the snapshot is not mutated concurrently.
type Engine struct {
	weekdays     []time.Weekday
	workers      []*domain.Worker      // active only, ascending id
	serviceTypes []*domain.ServiceType // active only, stable input order
	capabilities []*domain.Capability
	fixedRoles   []*domain.FixedRole // ascending creation order
	restrictions []*domain.DateRestriction
	workersByID  map[int64]*domain.Worker
	typesByID    map[int64]*domain.ServiceType
}

func New(weekdays []int, snap *Snapshot) *Engine {
	e := &Engine{
		weekdays:     make([]time.Weekday, 0, len(weekdays)),
		workers:      make([]*domain.Worker, 0, len(snap.Workers)),
		serviceTypes: make([]*domain.ServiceType, 0, len(snap.ServiceTypes)),
		capabilities: snap.Capabilities,
		fixedRoles:   make([]*domain.FixedRole, len(snap.FixedRoles)),
		restrictions: snap.Restrictions,
		workersByID:  make(map[int64]*domain.Worker),
		typesByID:    make(map[int64]*domain.ServiceType),
	}

	for _, wd := range weekdays {
		e.weekdays = append(e.weekdays, time.Weekday(wd))
	}

	for _, w := range snap.Workers {
		if w.Status != domain.WorkerActive {
			continue
		}
		e.workers = append(e.workers, w)
		e.workersByID[w.ID] = w
	}
	// candidate iteration order must be deterministic: ascending worker id,
	// regardless of how the store returned the rows
	sort.Slice(e.workers, func(i, j int) bool {
		return e.workers[i].ID < e.workers[j].ID
	})

	for _, st := range snap.ServiceTypes {
		if !st.IsActive {
			continue
		}
		e.serviceTypes = append(e.serviceTypes, st)
		e.typesByID[st.ID] = st
	}

	copy(e.fixedRoles, snap.FixedRoles)
	// first active pin in creation order wins; later rows stay dormant
	sort.Slice(e.fixedRoles, func(i, j int) bool {
		return e.fixedRoles[i].ID < e.fixedRoles[j].ID
	})

	return e
}

// Generate runs one allocation pass for the target month. Line-items are
// produced date-ascending, then in service-type order, and the load counter
// is updated after every commit, so later cells see earlier ones. Only a
// malformed target fails the call itself; business conditions degrade to
// warnings and errors inside the result.
func (e *Engine) Generate(year int, month int) (*Result, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d is outside 1-12", month)
	}
	if year < 1 {
		return nil, fmt.Errorf("year %d is not a valid calendar year", year)
	}

	result := &Result{
		LineItems: []*domain.ScheduleLineItem{},
		Warnings:  []string{},
		Errors:    []string{},
	}

	load := make(map[int64]int, len(e.workers))
	for _, w := range e.workers {
		load[w.ID] = 0
	}

	dates := e.enumerateDates(year, time.Month(month))
	if len(dates) == 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("%d-%02d contains no date on a configured weekday", year, month))
		result.Stats = e.buildStats(result, dates, load)
		return result, nil
	}

	for _, date := range dates {
		for _, st := range e.serviceTypes {
			if !slices.Contains(st.Weekdays, int32(date.Weekday())) {
				continue
			}
			e.allocateCell(result, load, st, date)
		}
	}

	result.Stats = e.buildStats(result, dates, load)

	return result, nil
}

func (e *Engine) enumerateDates(year int, month time.Month) []time.Time {
	dates := []time.Time{}

	for d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC); d.Month() == month; d = d.AddDate(0, 0, 1) {
		if slices.Contains(e.weekdays, d.Weekday()) {
			dates = append(dates, d)
		}
	}

	return dates
}

// allocateCell decides one (date, service type) occurrence: a fixed role is
// honored first; otherwise the least-loaded eligible candidate wins, first
// candidate in iteration order on ties.
func (e *Engine) allocateCell(result *Result, load map[int64]int, st *domain.ServiceType, date time.Time) {
	start := TimeToMinutes(st.StartTime)
	end := TimeToMinutes(st.EndTime)
	day := date.Format(DateLayout)

	if pin := FindFixedRole(st.ID, e.fixedRoles); pin != nil {
		worker, exists := e.workersByID[pin.WorkerID]
		if !exists {
			result.Errors = append(result.Errors, fmt.Sprintf("%s %q: fixed role configured but worker %d not found in the active roster", day, st.Name, pin.WorkerID))
			return
		}

		// restrictions always override pinning
		if HasRestriction(worker.ID, date, e.restrictions) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s %q: fixed worker %s is unavailable on this date, occurrence skipped", day, st.Name, worker.FullName))
			return
		}

		if report := FindConflicts(worker.ID, date, start, end, result.LineItems, e.typesByID, 0); report.HasConflict {
			result.Errors = append(result.Errors, fmt.Sprintf("%s %q: fixed worker %s already assigned to %q in an overlapping window", day, st.Name, worker.FullName, report.Conflicts[0].ServiceTypeName))
			return
		}

		result.LineItems = append(result.LineItems, &domain.ScheduleLineItem{
			WorkerID:      worker.ID,
			ServiceTypeID: st.ID,
			Date:          date,
			RoleLabel:     pin.RoleLabel,
			FromFixedRole: true,
		})
		load[worker.ID]++
		return
	}

	candidates := make([]*domain.Worker, 0)
	for _, w := range e.workers {
		if HasCapability(w.ID, st.ID, e.capabilities) {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("%s %q: no capable worker for this service type", day, st.Name))
		return
	}

	eligible := make([]*domain.Worker, 0, len(candidates))
	for _, w := range candidates {
		if HasRestriction(w.ID, date, e.restrictions) {
			continue
		}
		if FindConflicts(w.ID, date, start, end, result.LineItems, e.typesByID, 0).HasConflict {
			continue
		}
		eligible = append(eligible, w)
	}
	if len(eligible) == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s %q: could not allocate, all candidates are unavailable or conflicting", day, st.Name))
		return
	}

	// strictly-lower comparison keeps the first candidate on ties
	chosen := eligible[0]
	for _, w := range eligible[1:] {
		if load[w.ID] < load[chosen.ID] {
			chosen = w
		}
	}

	result.LineItems = append(result.LineItems, &domain.ScheduleLineItem{
		WorkerID:      chosen.ID,
		ServiceTypeID: st.ID,
		Date:          date,
	})
	load[chosen.ID]++
}

func (e *Engine) buildStats(result *Result, dates []time.Time, load map[int64]int) Stats {
	return Stats{
		DateCount:        len(dates),
		LineItemCount:    len(result.LineItems),
		ServiceTypeCount: len(e.serviceTypes),
		LoadByWorker:     load,
	}
}
