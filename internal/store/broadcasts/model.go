package broadcasts

import (
	"time"

	"campus-notes-bot/internal/store/profiles"
	"campus-notes-bot/internal/store/submissions"
)

// Request is a mass message awaiting moderation. Its lifecycle mirrors a
// submission: pending, then approved or rejected exactly once. The scope
// snapshot decides who receives the content on approval.
type Request struct {
	ID          int64
	SubmitterID int64
	Scope       profiles.Scope
	// Body carries text content; ContentRef carries an opaque document
	// reference instead when the draft was a document.
	Body       string
	ContentRef *string
	Status     submissions.Status
	CreatedAt  time.Time
}
