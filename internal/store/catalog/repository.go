package catalog

import "context"

type Repository interface {
	Insert(ctx context.Context, e *Entry) (int64, error)

	Get(ctx context.Context, id int64) (*Entry, error)

	// Search returns entries in the faculty+major scope whose title contains
	// the query, case-insensitively, newest first.
	Search(ctx context.Context, faculty, major, query string, limit int) ([]*Entry, error)

	// Delete removes an entry and returns the number of rows affected.
	Delete(ctx context.Context, id int64) (int64, error)
}
