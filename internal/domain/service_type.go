package domain

import "time"

// ServiceType is a recurring service slot: it runs on a fixed set of
// weekdays within a wall-clock window. RequiredHeadcount is configuration
// carried for the roster screens; the allocation loop currently assigns one
// worker per (date, service type) occurrence and does not consume it.
type ServiceType struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	RequiredHeadcount int32     `json:"requiredHeadcount"`
	StartTime         string    `json:"startTime"` // HH:MM
	EndTime           string    `json:"endTime"`   // HH:MM
	Weekdays          []int32   `json:"weekdays"`  // time.Weekday values, 0 = Sunday
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	Version           int32     `json:"-"`
}
