package scheduler

import (
	"testing"
	"time"

	"github.com/obra-social-dev/escala/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// March 2026: Sundays 1/8/15/22/29, Mondays 2/9/16/23/30, Fridays 6/13/20/27.
const (
	testYear  = 2026
	testMonth = 3
)

func activeWorker(id int64, name string) *domain.Worker {
	return &domain.Worker{ID: id, FullName: name, Status: domain.WorkerActive}
}

func fridayService(id int64, name, start, end string) *domain.ServiceType {
	return &domain.ServiceType{
		ID:        id,
		Name:      name,
		StartTime: start,
		EndTime:   end,
		Weekdays:  []int32{int32(time.Friday)},
		IsActive:  true,
	}
}

func grant(workerID, serviceTypeID int64) *domain.Capability {
	return &domain.Capability{WorkerID: workerID, ServiceTypeID: serviceTypeID, IsActive: true}
}

func TestGenerate_SingleCapableWorkerFillsEveryOccurrence(t *testing.T) {
	ana := activeWorker(1, "Ana")
	baralho := fridayService(1, "Baralho", "09:00", "11:00")
	snap := &Snapshot{
		Workers:      []*domain.Worker{ana},
		ServiceTypes: []*domain.ServiceType{baralho},
		Capabilities: []*domain.Capability{grant(1, 1)},
	}

	result, err := New([]int{int(time.Friday)}, snap).Generate(testYear, testMonth)

	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Errors)
	require.Len(t, result.LineItems, 4) // four Fridays in March 2026
	for _, item := range result.LineItems {
		assert.Equal(t, ana.ID, item.WorkerID)
		assert.Equal(t, baralho.ID, item.ServiceTypeID)
		assert.False(t, item.FromFixedRole)
	}
	assert.Equal(t, 4, result.Stats.DateCount)
	assert.Equal(t, 4, result.Stats.LineItemCount)
	assert.Equal(t, 1, result.Stats.ServiceTypeCount)
	assert.Equal(t, 4, result.Stats.LoadByWorker[ana.ID])
}

func TestGenerate_OverlappingServicesOnlyCommitFirstForSoleWorker(t *testing.T) {
	ana := activeWorker(1, "Ana")
	baralho := fridayService(1, "Baralho", "09:00", "11:00")
	cozinha := fridayService(2, "Cozinha", "10:00", "12:00")
	snap := &Snapshot{
		Workers:      []*domain.Worker{ana},
		ServiceTypes: []*domain.ServiceType{baralho, cozinha},
		Capabilities: []*domain.Capability{grant(1, 1), grant(1, 2)},
	}

	result, err := New([]int{int(time.Friday)}, snap).Generate(testYear, testMonth)

	require.NoError(t, err)
	// per Friday: the first service type in iteration order wins, the other
	// degrades to a warning
	require.Len(t, result.LineItems, 4)
	for _, item := range result.LineItems {
		assert.Equal(t, baralho.ID, item.ServiceTypeID)
	}
	assert.Len(t, result.Warnings, 4)
	for _, warning := range result.Warnings {
		assert.Contains(t, warning, "Cozinha")
		assert.Contains(t, warning, "could not allocate")
	}
	assert.Empty(t, result.Errors)
}

func TestGenerate_BackToBackServicesDoNotConflict(t *testing.T) {
	ana := activeWorker(1, "Ana")
	manha := fridayService(1, "Baralho", "09:00", "11:00")
	tarde := fridayService(2, "Cozinha", "11:00", "13:00")
	snap := &Snapshot{
		Workers:      []*domain.Worker{ana},
		ServiceTypes: []*domain.ServiceType{manha, tarde},
		Capabilities: []*domain.Capability{grant(1, 1), grant(1, 2)},
	}

	result, err := New([]int{int(time.Friday)}, snap).Generate(testYear, testMonth)

	require.NoError(t, err)
	assert.Len(t, result.LineItems, 8)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Errors)
}

func TestGenerate_FixedRolePrecedence(t *testing.T) {
	ana := activeWorker(1, "Ana")
	bruno := activeWorker(2, "Bruno")
	baralho := fridayService(1, "Baralho", "09:00", "11:00")
	label := "mesa principal"
	snap := &Snapshot{
		Workers:      []*domain.Worker{ana, bruno},
		ServiceTypes: []*domain.ServiceType{baralho},
		// Ana would win candidate selection by id order, but Bruno is pinned
		Capabilities: []*domain.Capability{grant(1, 1)},
		FixedRoles: []*domain.FixedRole{
			{ID: 1, WorkerID: 2, ServiceTypeID: 1, RoleLabel: &label, IsActive: true},
		},
	}

	result, err := New([]int{int(time.Friday)}, snap).Generate(testYear, testMonth)

	require.NoError(t, err)
	require.Len(t, result.LineItems, 4)
	for _, item := range result.LineItems {
		assert.Equal(t, bruno.ID, item.WorkerID)
		assert.True(t, item.FromFixedRole)
		require.NotNil(t, item.RoleLabel)
		assert.Equal(t, label, *item.RoleLabel)
	}
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Errors)
}

func TestGenerate_RestrictionOverridesFixedRole(t *testing.T) {
	bruno := activeWorker(2, "Bruno")
	baralho := fridayService(1, "Baralho", "09:00", "11:00")
	firstFriday := time.Date(testYear, testMonth, 6, 0, 0, 0, 0, time.UTC)
	snap := &Snapshot{
		Workers:      []*domain.Worker{bruno},
		ServiceTypes: []*domain.ServiceType{baralho},
		FixedRoles: []*domain.FixedRole{
			{ID: 1, WorkerID: 2, ServiceTypeID: 1, IsActive: true},
		},
		Restrictions: []*domain.DateRestriction{
			{WorkerID: 2, Date: firstFriday, IsActive: true},
		},
	}

	result, err := New([]int{int(time.Friday)}, snap).Generate(testYear, testMonth)

	require.NoError(t, err)
	// the restricted occurrence is skipped with a warning, never assigned
	require.Len(t, result.LineItems, 3)
	for _, item := range result.LineItems {
		assert.False(t, SameDate(item.Date, firstFriday))
	}
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "2026-03-06")
	assert.Contains(t, result.Warnings[0], "unavailable")
	assert.Empty(t, result.Errors)
}

func TestGenerate_FixedWorkerMissingFromActiveRoster(t *testing.T) {
	leave := &domain.Worker{ID: 2, FullName: "Bruno", Status: domain.WorkerOnLeave}
	baralho := fridayService(1, "Baralho", "09:00", "11:00")
	snap := &Snapshot{
		Workers:      []*domain.Worker{leave},
		ServiceTypes: []*domain.ServiceType{baralho},
		FixedRoles: []*domain.FixedRole{
			{ID: 1, WorkerID: 2, ServiceTypeID: 1, IsActive: true},
		},
	}

	result, err := New([]int{int(time.Friday)}, snap).Generate(testYear, testMonth)

	require.NoError(t, err)
	assert.Empty(t, result.LineItems)
	require.Len(t, result.Errors, 4)
	for _, msg := range result.Errors {
		assert.Contains(t, msg, "fixed role configured but worker 2 not found")
	}
}

func TestGenerate_NoCapableWorkerIsHardError(t *testing.T) {
	ana := activeWorker(1, "Ana")
	baralho := fridayService(1, "Baralho", "09:00", "11:00")
	snap := &Snapshot{
		Workers:      []*domain.Worker{ana},
		ServiceTypes: []*domain.ServiceType{baralho},
		Capabilities: []*domain.Capability{}, // nobody capable
	}

	result, err := New([]int{int(time.Friday)}, snap).Generate(testYear, testMonth)

	require.NoError(t, err)
	assert.Empty(t, result.LineItems)
	require.Len(t, result.Errors, 4)
	for _, msg := range result.Errors {
		assert.Contains(t, msg, "no capable worker")
	}
}

func TestGenerate_InvalidTargetFailsTheCall(t *testing.T) {
	engine := New([]int{int(time.Friday)}, &Snapshot{})

	_, err := engine.Generate(testYear, 13)
	assert.Error(t, err)

	_, err = engine.Generate(testYear, 0)
	assert.Error(t, err)

	_, err = engine.Generate(0, 6)
	assert.Error(t, err)
}

func TestGenerate_EmptyWeekdaySetIsHardErrorInResult(t *testing.T) {
	result, err := New([]int{}, &Snapshot{}).Generate(testYear, testMonth)

	require.NoError(t, err)
	assert.Empty(t, result.LineItems)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "no date on a configured weekday")
	assert.Equal(t, 0, result.Stats.DateCount)
}

func TestGenerate_Idempotence(t *testing.T) {
	snap := &Snapshot{
		Workers: []*domain.Worker{
			activeWorker(3, "Carla"), activeWorker(1, "Ana"), activeWorker(2, "Bruno"),
		},
		ServiceTypes: []*domain.ServiceType{
			fridayService(1, "Baralho", "09:00", "11:00"),
			fridayService(2, "Cozinha", "11:00", "13:00"),
		},
		Capabilities: []*domain.Capability{
			grant(1, 1), grant(2, 1), grant(3, 1),
			grant(1, 2), grant(2, 2),
		},
	}

	first, err := New([]int{int(time.Friday)}, snap).Generate(testYear, testMonth)
	require.NoError(t, err)
	second, err := New([]int{int(time.Friday)}, snap).Generate(testYear, testMonth)
	require.NoError(t, err)

	require.Len(t, second.LineItems, len(first.LineItems))
	for i := range first.LineItems {
		assert.Equal(t, first.LineItems[i].WorkerID, second.LineItems[i].WorkerID)
		assert.Equal(t, first.LineItems[i].ServiceTypeID, second.LineItems[i].ServiceTypeID)
		assert.True(t, first.LineItems[i].Date.Equal(second.LineItems[i].Date))
	}
	assert.Equal(t, first.Stats.LoadByWorker, second.Stats.LoadByWorker)
}

func TestGenerate_LoadBalancedAcrossEqualCandidates(t *testing.T) {
	ana := activeWorker(1, "Ana")
	bruno := activeWorker(2, "Bruno")
	baralho := &domain.ServiceType{
		ID: 1, Name: "Baralho", StartTime: "09:00", EndTime: "11:00",
		Weekdays: []int32{int32(time.Monday), int32(time.Friday)},
		IsActive: true,
	}
	snap := &Snapshot{
		Workers:      []*domain.Worker{ana, bruno},
		ServiceTypes: []*domain.ServiceType{baralho},
		Capabilities: []*domain.Capability{grant(1, 1), grant(2, 1)},
	}

	result, err := New([]int{int(time.Monday), int(time.Friday)}, snap).Generate(testYear, testMonth)

	require.NoError(t, err)
	require.Len(t, result.LineItems, 9) // five Mondays + four Fridays
	// the odd ninth cell goes to Ana, first in id order among the tied pair
	assert.Equal(t, 5, result.Stats.LoadByWorker[ana.ID])
	assert.Equal(t, 4, result.Stats.LoadByWorker[bruno.ID])
	diff := result.Stats.LoadByWorker[ana.ID] - result.Stats.LoadByWorker[bruno.ID]
	assert.LessOrEqual(t, diff, 1)
}

// Regression guard for the greedy invariant: at the moment each non-fixed
// line-item was committed, no eligible candidate carried a strictly lower
// load. Replays the committed trace with the same primitives.
func TestGenerate_CommittedTraceIsLocallyBalanced(t *testing.T) {
	snap := &Snapshot{
		Workers: []*domain.Worker{
			activeWorker(1, "Ana"), activeWorker(2, "Bruno"), activeWorker(3, "Carla"),
		},
		ServiceTypes: []*domain.ServiceType{
			fridayService(1, "Baralho", "09:00", "11:00"),
			fridayService(2, "Cozinha", "10:00", "12:00"),
			fridayService(3, "Portaria", "14:00", "16:00"),
		},
		Capabilities: []*domain.Capability{
			grant(1, 1), grant(2, 1),
			grant(2, 2), grant(3, 2),
			grant(1, 3), grant(3, 3),
		},
		Restrictions: []*domain.DateRestriction{
			{WorkerID: 2, Date: time.Date(testYear, testMonth, 13, 0, 0, 0, 0, time.UTC), IsActive: true},
		},
	}

	result, err := New([]int{int(time.Friday)}, snap).Generate(testYear, testMonth)
	require.NoError(t, err)
	require.NotEmpty(t, result.LineItems)

	types := map[int64]*domain.ServiceType{}
	for _, st := range snap.ServiceTypes {
		types[st.ID] = st
	}

	load := map[int64]int{}
	for i, item := range result.LineItems {
		committed := result.LineItems[:i]
		if !item.FromFixedRole {
			st := types[item.ServiceTypeID]
			chosenLoad := load[item.WorkerID]
			for _, w := range snap.Workers {
				if w.ID == item.WorkerID || !HasCapability(w.ID, st.ID, snap.Capabilities) {
					continue
				}
				if HasRestriction(w.ID, item.Date, snap.Restrictions) {
					continue
				}
				if FindConflicts(w.ID, item.Date, TimeToMinutes(st.StartTime), TimeToMinutes(st.EndTime), committed, types, 0).HasConflict {
					continue
				}
				assert.LessOrEqual(t, chosenLoad, load[w.ID],
					"line-item %d: worker %d committed at load %d while worker %d was eligible at load %d",
					i, item.WorkerID, chosenLoad, w.ID, load[w.ID])
			}
		}
		load[item.WorkerID]++
	}
}

func TestGenerate_IgnoresInactiveWorkersAndServices(t *testing.T) {
	inactive := &domain.Worker{ID: 1, FullName: "Ana", Status: domain.WorkerInactive}
	bruno := activeWorker(2, "Bruno")
	dormant := fridayService(1, "Baralho", "09:00", "11:00")
	dormant.IsActive = false
	cozinha := fridayService(2, "Cozinha", "11:00", "13:00")
	snap := &Snapshot{
		Workers:      []*domain.Worker{inactive, bruno},
		ServiceTypes: []*domain.ServiceType{dormant, cozinha},
		Capabilities: []*domain.Capability{grant(1, 2), grant(2, 2)},
	}

	result, err := New([]int{int(time.Friday)}, snap).Generate(testYear, testMonth)

	require.NoError(t, err)
	require.Len(t, result.LineItems, 4)
	for _, item := range result.LineItems {
		assert.Equal(t, bruno.ID, item.WorkerID)
		assert.Equal(t, cozinha.ID, item.ServiceTypeID)
	}
	assert.Equal(t, 1, result.Stats.ServiceTypeCount)
}
