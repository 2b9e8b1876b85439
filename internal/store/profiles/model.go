package profiles

import "time"

// Profile is one member of the community, keyed by the transport user id.
// Faculty/Major/Cohort stay empty until the classification wizard commits
// them; most features are gated on the full triple being set.
type Profile struct {
	UserID          int64
	Username        string
	FullName        string
	Faculty         string
	Major           string
	Cohort          string
	ApprovedUploads int
	ChatUsed        bool
	CreatedAt       time.Time
	LastSeen        time.Time
}

// Configured reports whether the classification triple is fully set.
func (p *Profile) Configured() bool {
	return p.Faculty != "" && p.Major != "" && p.Cohort != ""
}

// FacultyCount is one row of the per-faculty user statistics.
type FacultyCount struct {
	Faculty string
	Count   int64
}

// Scope filters profiles by classification; empty fields match everything.
type Scope struct {
	Faculty string
	Major   string
	Cohort  string
}
