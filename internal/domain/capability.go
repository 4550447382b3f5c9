package domain

import "time"

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceSenior       ExperienceLevel = "senior"
)

// Capability grants a worker eligibility for a service type. A worker with
// no active capability row can never be auto-assigned to the service type;
// only a fixed role bypasses this.
type Capability struct {
	ID             int64           `json:"id"`
	WorkerID       int64           `json:"workerID"`
	ServiceTypeID  int64           `json:"serviceTypeID"`
	Experience     ExperienceLevel `json:"experience"`
	PriorityWeight int32           `json:"priorityWeight"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	Version        int32           `json:"-"`
}

// FixedRole pins a worker to every occurrence of a service type. At most one
// active row per service type is expected; the roster endpoints reject a
// second one, and the engine takes the oldest if the store holds more.
type FixedRole struct {
	ID            int64     `json:"id"`
	WorkerID      int64     `json:"workerID"`
	ServiceTypeID int64     `json:"serviceTypeID"`
	RoleLabel     *string   `json:"roleLabel"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	Version       int32     `json:"-"`
}
