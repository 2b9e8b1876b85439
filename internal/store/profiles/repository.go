package profiles

import "context"

type Repository interface {
	// Upsert creates the profile on first contact and refreshes
	// username/full name/last-seen on every later event.
	Upsert(ctx context.Context, userID int64, username, fullName string) error

	Get(ctx context.Context, userID int64) (*Profile, error)

	// SetClassification commits the full triple at the end of the wizard.
	SetClassification(ctx context.Context, userID int64, faculty, major, cohort string) error

	// IncrementApproved adds one to the approved-uploads counter.
	IncrementApproved(ctx context.Context, userID int64) error

	MarkChatUsed(ctx context.Context, userID int64) error

	Count(ctx context.Context) (int64, error)
	CountByFaculty(ctx context.Context) ([]FacultyCount, error)
	Latest(ctx context.Context, limit int) ([]*Profile, error)
	ListByScope(ctx context.Context, scope Scope, limit int) ([]*Profile, error)
	ListIDsByScope(ctx context.Context, scope Scope) ([]int64, error)
}
