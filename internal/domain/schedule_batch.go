package domain

import "time"

type BatchStatus string

const (
	BatchDraft     BatchStatus = "draft"
	BatchPublished BatchStatus = "published"
)

// ScheduleBatch is one month's generated schedule. While draft, line-items
// may be reassigned or removed; after publishing, structural changes only
// happen through approved substitution requests.
type ScheduleBatch struct {
	ID        int64       `json:"id"`
	Year      int         `json:"year"`
	Month     int         `json:"month"`
	Status    BatchStatus `json:"status"`
	CreatedBy int64       `json:"createdBy"`
	CreatedAt time.Time   `json:"createdAt"`
	Version   int32       `json:"-"`
}

// ScheduleLineItem is one concrete (worker, service type, date) assignment
// inside a batch. FromFixedRole records whether the assignment came from a
// pin rather than candidate selection.
type ScheduleLineItem struct {
	ID            int64     `json:"id"`
	BatchID       int64     `json:"batchID"`
	WorkerID      int64     `json:"workerID"`
	ServiceTypeID int64     `json:"serviceTypeID"`
	Date          time.Time `json:"date"`
	RoleLabel     *string   `json:"roleLabel"`
	FromFixedRole bool      `json:"fromFixedRole"`
	CreatedAt     time.Time `json:"createdAt"`
	Version       int32     `json:"-"`
}
