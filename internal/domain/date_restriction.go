package domain

import "time"

// DateRestriction marks a worker unavailable for a whole calendar date.
// Restrictions are day-granular and always override fixed roles.
type DateRestriction struct {
	ID        int64     `json:"id"`
	WorkerID  int64     `json:"workerID"`
	Date      time.Time `json:"date"`
	Reason    *string   `json:"reason"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
