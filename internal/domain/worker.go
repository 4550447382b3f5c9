package domain

import (
	"time"
)

type Role string

const (
	RoleWorker      Role = "worker"
	RoleCoordinator Role = "coordinator"
)

type WorkerStatus string

const (
	WorkerActive   WorkerStatus = "active"
	WorkerInactive WorkerStatus = "inactive"
	WorkerOnLeave  WorkerStatus = "on_leave"
)

// Worker is a roster member. Only workers with status "active" take part in
// allocation; the other statuses keep the record (and its history) around.
type Worker struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	FullName     string       `json:"fullName"`
	Email        string       `json:"email"`
	Role         Role         `json:"role"`
	Status       WorkerStatus `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	Version      int32        `json:"-"`
}
