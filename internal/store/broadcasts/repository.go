package broadcasts

import (
	"context"

	"campus-notes-bot/internal/store/submissions"
)

type Repository interface {
	Create(ctx context.Context, r *Request) (int64, error)

	Get(ctx context.Context, id int64) (*Request, error)

	// UpdateStatus is the same optimistic-lock transition as for
	// submissions: zero rows affected means already resolved.
	UpdateStatus(ctx context.Context, id int64, from, to submissions.Status) (int64, error)
}
