package domain

import "time"

type SubstitutionStatus string

const (
	SubstitutionPending  SubstitutionStatus = "pending"
	SubstitutionApproved SubstitutionStatus = "approved"
	SubstitutionRejected SubstitutionStatus = "rejected"
)

// SubstitutionRequest proposes a post-publication change to a line-item's
// assigned worker. Approval is terminal: the status flip and the line-item
// rewrite happen in the same transaction.
type SubstitutionRequest struct {
	ID               int64              `json:"id"`
	LineItemID       int64              `json:"lineItemID"`
	RequesterID      int64              `json:"requesterID"`
	Reason           string             `json:"reason"`
	ProposedWorkerID *int64             `json:"proposedWorkerID"`
	Status           SubstitutionStatus `json:"status"`
	ApproverID       *int64             `json:"approverID"`
	DecidedAt        *time.Time         `json:"decidedAt"`
	CreatedAt        time.Time          `json:"createdAt"`
	Version          int32              `json:"-"`
}
