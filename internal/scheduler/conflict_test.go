package scheduler

import (
	"testing"
	"time"

	"github.com/obra-social-dev/escala/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTimeToMinutes_Valid(t *testing.T) {
	assert.Equal(t, 0, TimeToMinutes("00:00"))
	assert.Equal(t, 9*60, TimeToMinutes("09:00"))
	assert.Equal(t, 23*60+59, TimeToMinutes("23:59"))
}

func TestTimeToMinutes_MalformedYieldsZero(t *testing.T) {
	assert.Equal(t, 0, TimeToMinutes(""))
	assert.Equal(t, 0, TimeToMinutes("9h30"))
	assert.Equal(t, 0, TimeToMinutes("24:00"))
	assert.Equal(t, 0, TimeToMinutes("12:60"))
	assert.Equal(t, 0, TimeToMinutes("ab:cd"))
}

func TestWindowsOverlap_BackToBackDoesNotOverlap(t *testing.T) {
	// touching endpoints share no interior minute
	assert.False(t, WindowsOverlap(TimeToMinutes("09:00"), TimeToMinutes("11:00"), TimeToMinutes("11:00"), TimeToMinutes("13:00")))
	assert.False(t, WindowsOverlap(TimeToMinutes("11:00"), TimeToMinutes("13:00"), TimeToMinutes("09:00"), TimeToMinutes("11:00")))
}

func TestWindowsOverlap_SharedInteriorMinute(t *testing.T) {
	assert.True(t, WindowsOverlap(TimeToMinutes("09:00"), TimeToMinutes("11:00"), TimeToMinutes("10:00"), TimeToMinutes("12:00")))
	assert.True(t, WindowsOverlap(TimeToMinutes("10:00"), TimeToMinutes("12:00"), TimeToMinutes("09:00"), TimeToMinutes("11:00")))
	// full containment
	assert.True(t, WindowsOverlap(TimeToMinutes("09:00"), TimeToMinutes("17:00"), TimeToMinutes("10:00"), TimeToMinutes("11:00")))
	// identical windows
	assert.True(t, WindowsOverlap(TimeToMinutes("09:00"), TimeToMinutes("11:00"), TimeToMinutes("09:00"), TimeToMinutes("11:00")))
}

func TestFindConflicts_ReportsAllOverlapsForWorkerAndDate(t *testing.T) {
	date := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	types := map[int64]*domain.ServiceType{
		1: {ID: 1, Name: "Baralho", StartTime: "09:00", EndTime: "11:00"},
		2: {ID: 2, Name: "Cozinha", StartTime: "10:00", EndTime: "12:00"},
		3: {ID: 3, Name: "Portaria", StartTime: "14:00", EndTime: "16:00"},
	}
	existing := []*domain.ScheduleLineItem{
		{ID: 10, WorkerID: 1, ServiceTypeID: 1, Date: date},
		{ID: 11, WorkerID: 1, ServiceTypeID: 2, Date: date},
		{ID: 12, WorkerID: 1, ServiceTypeID: 3, Date: date},                  // same worker, no overlap
		{ID: 13, WorkerID: 2, ServiceTypeID: 1, Date: date},                  // other worker
		{ID: 14, WorkerID: 1, ServiceTypeID: 1, Date: date.AddDate(0, 0, 7)}, // other date
	}

	report := FindConflicts(1, date, TimeToMinutes("09:30"), TimeToMinutes("10:30"), existing, types, 0)

	assert.True(t, report.HasConflict)
	assert.Len(t, report.Conflicts, 2)
	assert.Equal(t, "Baralho", report.Conflicts[0].ServiceTypeName)
	assert.Equal(t, "Cozinha", report.Conflicts[1].ServiceTypeName)
}

func TestFindConflicts_NeverReportsExcludedItem(t *testing.T) {
	date := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	types := map[int64]*domain.ServiceType{
		1: {ID: 1, Name: "Baralho", StartTime: "09:00", EndTime: "11:00"},
	}
	existing := []*domain.ScheduleLineItem{
		{ID: 10, WorkerID: 1, ServiceTypeID: 1, Date: date},
	}

	// re-validating item 10 in place against its own window
	report := FindConflicts(1, date, TimeToMinutes("09:00"), TimeToMinutes("11:00"), existing, types, 10)

	assert.False(t, report.HasConflict)
	assert.Empty(t, report.Conflicts)
}

func TestFindConflicts_NoConflictOnDisjointWindow(t *testing.T) {
	date := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	types := map[int64]*domain.ServiceType{
		1: {ID: 1, Name: "Baralho", StartTime: "09:00", EndTime: "11:00"},
	}
	existing := []*domain.ScheduleLineItem{
		{ID: 10, WorkerID: 1, ServiceTypeID: 1, Date: date},
	}

	report := FindConflicts(1, date, TimeToMinutes("11:00"), TimeToMinutes("13:00"), existing, types, 0)

	assert.False(t, report.HasConflict)
}
