package scheduler

import (
	"testing"
	"time"

	"github.com/obra-social-dev/escala/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHasCapability_IgnoresInactiveRows(t *testing.T) {
	caps := []*domain.Capability{
		{WorkerID: 1, ServiceTypeID: 1, IsActive: false},
		{WorkerID: 1, ServiceTypeID: 2, IsActive: true},
	}

	assert.False(t, HasCapability(1, 1, caps))
	assert.True(t, HasCapability(1, 2, caps))
	assert.False(t, HasCapability(2, 2, caps))
}

func TestHasRestriction_MatchesCalendarDateOnly(t *testing.T) {
	date := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	restrictions := []*domain.DateRestriction{
		{WorkerID: 1, Date: date, IsActive: true},
		{WorkerID: 2, Date: date, IsActive: false},
	}

	// a timestamp on the same calendar day still matches
	assert.True(t, HasRestriction(1, date.Add(9*time.Hour), restrictions))
	assert.False(t, HasRestriction(1, date.AddDate(0, 0, 1), restrictions))
	assert.False(t, HasRestriction(2, date, restrictions))
}

func TestFindFixedRole_FirstActiveMatchWins(t *testing.T) {
	roles := []*domain.FixedRole{
		{ID: 1, WorkerID: 5, ServiceTypeID: 1, IsActive: false},
		{ID: 2, WorkerID: 6, ServiceTypeID: 1, IsActive: true},
		{ID: 3, WorkerID: 7, ServiceTypeID: 1, IsActive: true}, // dormant duplicate
	}

	pin := FindFixedRole(1, roles)

	assert.NotNil(t, pin)
	assert.Equal(t, int64(6), pin.WorkerID)
	assert.Nil(t, FindFixedRole(2, roles))
}

func TestValidateAssignment_CollectsEveryFailingReason(t *testing.T) {
	date := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	baralho := &domain.ServiceType{ID: 1, Name: "Baralho", StartTime: "09:00", EndTime: "11:00", IsActive: true}
	cozinha := &domain.ServiceType{ID: 2, Name: "Cozinha", StartTime: "10:00", EndTime: "12:00", IsActive: true}
	snap := &Snapshot{
		ServiceTypes: []*domain.ServiceType{baralho, cozinha},
		Capabilities: []*domain.Capability{}, // no capability for anyone
		Restrictions: []*domain.DateRestriction{
			{WorkerID: 1, Date: date, IsActive: true},
		},
	}
	existing := []*domain.ScheduleLineItem{
		{ID: 10, WorkerID: 1, ServiceTypeID: 2, Date: date},
	}

	result := ValidateAssignment(1, baralho, date, existing, 0, snap)

	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "no active capability")
	assert.Contains(t, result.Errors[1], "unavailable on 2026-03-06")
	assert.Contains(t, result.Errors[2], "overlapping window")
}

func TestValidateAssignment_ValidWhenAllChecksPass(t *testing.T) {
	date := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	baralho := &domain.ServiceType{ID: 1, Name: "Baralho", StartTime: "09:00", EndTime: "11:00", IsActive: true}
	snap := &Snapshot{
		ServiceTypes: []*domain.ServiceType{baralho},
		Capabilities: []*domain.Capability{
			{WorkerID: 2, ServiceTypeID: 1, IsActive: true},
		},
		Restrictions: []*domain.DateRestriction{},
	}

	result := ValidateAssignment(2, baralho, date, nil, 0, snap)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateAssignment_ExcludesItemBeingEdited(t *testing.T) {
	date := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	baralho := &domain.ServiceType{ID: 1, Name: "Baralho", StartTime: "09:00", EndTime: "11:00", IsActive: true}
	snap := &Snapshot{
		ServiceTypes: []*domain.ServiceType{baralho},
		Capabilities: []*domain.Capability{
			{WorkerID: 2, ServiceTypeID: 1, IsActive: true},
		},
	}
	existing := []*domain.ScheduleLineItem{
		{ID: 10, WorkerID: 2, ServiceTypeID: 1, Date: date},
	}

	// reassigning item 10 to worker 2 must not conflict with itself
	result := ValidateAssignment(2, baralho, date, existing, 10, snap)

	assert.True(t, result.Valid)
}
