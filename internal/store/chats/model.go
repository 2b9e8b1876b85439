package chats

import "time"

type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

// Session is one anonymous pairing between two users. EndedAt stays nil
// while the pairing is live; a session ends exactly once.
type Session struct {
	ID        int64
	UserA     int64
	UserB     int64
	StartedAt time.Time
	EndedAt   *time.Time
	Status    SessionStatus
}
