package catalog

import "time"

// Entry is one approved document in the durable catalog. Entries are created
// only by an approval and never change; removal is an explicit admin
// hard-delete.
type Entry struct {
	ID      int64
	Faculty string
	Major   string
	Cohort  string
	Title   string
	// Attribution is nil when no lecturer/author was named.
	Attribution *string
	// ArchiveRef locates the permanent copy of the content; its format is
	// owned by the archive backend ("s3:<key>" or "channel:<chat>:<msg>").
	ArchiveRef    string
	ContributorID int64
	CreatedAt     time.Time
}
