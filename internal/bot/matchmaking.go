package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"campus-notes-bot/internal/store/chats"
)

// JoinOutcome is the result of a join attempt.
type JoinOutcome int

const (
	// JoinPaired means a partner was found and the pairing is live.
	JoinPaired JoinOutcome = iota
	// JoinWaiting means the user was appended to the waiting queue.
	JoinWaiting
	// JoinAlreadyWaiting means the user was in the queue already.
	JoinAlreadyWaiting
	// JoinAlreadyPaired means the user is in a live pairing; join is a no-op.
	JoinAlreadyPaired
)

// Matchmaker owns the waiting queue and the active pairing map. A single
// mutex guards both because join/cancel/leave are read-then-write sequences
// that must be atomic with respect to each other. Invariants: a user id is
// in at most one of {queue, pairing map}; the map is symmetric; exactly one
// active session exists per pair. Callers send notifications after the
// mutating call returns; no delivery happens under the lock.
type Matchmaker struct {
	mu       sync.Mutex
	queue    []int64
	partners map[int64]int64
	sessions map[int64]int64

	chats chats.Repository
}

func NewMatchmaker(chatRepo chats.Repository) *Matchmaker {
	return &Matchmaker{
		partners: make(map[int64]int64),
		sessions: make(map[int64]int64),
		chats:    chatRepo,
	}
}

// Join matches the user with the longest-waiting eligible candidate, or
// appends the user to the queue when none exists. The partner id is
// meaningful only when the outcome is JoinPaired.
func (m *Matchmaker) Join(ctx context.Context, userID int64) (JoinOutcome, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.partners[userID]; ok {
		return JoinAlreadyPaired, 0, nil
	}

	for _, id := range m.queue {
		if id == userID {
			return JoinAlreadyWaiting, 0, nil
		}
	}

	// Strict FIFO: scan from the head, skipping self and stale entries of
	// users that got paired without leaving the queue.
	partner := int64(0)
	found := false
	for len(m.queue) > 0 {
		cand := m.queue[0]
		m.queue = m.queue[1:]
		if cand == userID {
			continue
		}
		if _, paired := m.partners[cand]; paired {
			continue
		}
		partner = cand
		found = true
		break
	}

	if !found {
		m.queue = append(m.queue, userID)
		return JoinWaiting, 0, nil
	}

	sessionID, err := m.chats.CreateSession(ctx, userID, partner)
	if err != nil {
		// The candidate keeps their place; the session never started.
		m.queue = append([]int64{partner}, m.queue...)
		return 0, 0, fmt.Errorf("error creating pairing session: %w", err)
	}

	m.partners[userID] = partner
	m.partners[partner] = userID
	m.sessions[userID] = sessionID
	m.sessions[partner] = sessionID

	return JoinPaired, partner, nil
}

// Cancel removes the user from the waiting queue. It reports whether the
// user was actually waiting; cancelling while paired (or not waiting at
// all) is a no-op.
func (m *Matchmaker) Cancel(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, id := range m.queue {
		if id == userID {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Leave takes the user out of the matchmaking system: out of the queue when
// waiting, or out of the pairing when paired. When a pairing ends, both map
// directions are cleared and the session is marked ended exactly once. The
// partner id is meaningful only when wasPaired is true; the caller notifies
// both sides after this returns.
func (m *Matchmaker) Leave(ctx context.Context, userID int64) (partner int64, wasPaired bool, err error) {
	m.mu.Lock()

	for i, id := range m.queue {
		if id == userID {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			break
		}
	}

	partner, wasPaired = m.partners[userID]
	if !wasPaired {
		m.mu.Unlock()
		return 0, false, nil
	}

	sessionID := m.sessions[userID]
	delete(m.partners, userID)
	delete(m.partners, partner)
	delete(m.sessions, userID)
	delete(m.sessions, partner)

	m.mu.Unlock()

	if err := m.chats.EndSession(ctx, sessionID, time.Now()); err != nil {
		return partner, true, fmt.Errorf("error ending pairing session: %w", err)
	}

	return partner, true, nil
}

// PartnerOf returns the user's live partner, if any.
func (m *Matchmaker) PartnerOf(userID int64) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.partners[userID]
	return p, ok
}

// SessionOf returns the user's live session id, if any.
func (m *Matchmaker) SessionOf(userID int64) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Waiting reports whether the user is currently queued.
func (m *Matchmaker) Waiting(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.queue {
		if id == userID {
			return true
		}
	}
	return false
}
