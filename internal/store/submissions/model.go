package submissions

import (
	"time"

	"campus-notes-bot/internal/gateway"
)

// Status of a submission. Transitions exactly once: pending to approved or
// pending to rejected, never back.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Submission is an uploaded document awaiting moderation. The classification
// triple is a snapshot of the submitter's profile at upload time; later
// profile changes do not retroactively alter it.
type Submission struct {
	ID          int64
	SubmitterID int64
	Faculty     string
	Major       string
	Cohort      string
	Title       string
	// Attribution is nil when the submitter declined to name one.
	Attribution *string
	Content     gateway.ContentRef
	Status      Status
	CreatedAt   time.Time
}
