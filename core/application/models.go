package application

import (
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("application not found")

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

var Statuses = []Status{StatusPending, StatusAccepted, StatusRejected}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

type Application struct {
	ID            string    `json:"id"`
	OpportunityID string    `json:"opportunityId"`
	StudentID     string    `json:"studentId"`
	StudentName   string    `json:"studentName"`
	Status        Status    `json:"status"`
	AIMatchScore  *int      `json:"aiMatchScore,omitempty"` // 0 - 100
	CreatedAt     time.Time `json:"createdAt"`              // UTC
}

// UpdateStatus is the professor's decision on an Application.
type UpdateStatus struct {
	Status Status `json:"status" validate:"required,oneof=pending accepted rejected"`
}
