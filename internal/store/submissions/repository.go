package submissions

import "context"

type Repository interface {
	Create(ctx context.Context, s *Submission) (int64, error)

	Get(ctx context.Context, id int64) (*Submission, error)

	// OldestPending returns the pending submission that has waited longest,
	// or shared.ErrorNotFound when the moderation queue is empty.
	OldestPending(ctx context.Context) (*Submission, error)

	// UpdateStatus transitions id from one status to another and returns the
	// number of rows affected. Zero rows means the submission is unknown or
	// no longer in the expected status; callers use this as an optimistic
	// lock.
	UpdateStatus(ctx context.Context, id int64, from, to Status) (int64, error)
}
