package bot

import (
	"sync"

	"campus-notes-bot/internal/gateway"
)

// Mode is the per-user conversation mode. One enum covers the user wizards,
// the search prompt, and the one-shot admin modes so the router has a single
// source of truth for its precedence rules.
type Mode int

const (
	ModeIdle Mode = iota

	// classification wizard
	ModeChoosingFaculty
	ModeChoosingMajor
	ModeChoosingCohort

	// upload wizard
	ModeAwaitingDocument
	ModeAwaitingTitle
	ModeAwaitingAttribution

	ModeSearching

	// member broadcast draft
	ModeBroadcastDraft

	// admin class-list filter wizard
	ModeAdminFilterFaculty
	ModeAdminFilterMajor
	ModeAdminFilterCohort

	// one-shot admin modes
	ModeAdminAwaitingDeleteID
	ModeAdminDeleteConfirm
	ModeAdminBroadcastDraft
)

// oneShotAdmin reports whether the mode consumes the next freeform message
// as its payload (router precedence rule 2).
func (m Mode) oneShotAdmin() bool {
	return m == ModeAdminAwaitingDeleteID || m == ModeAdminBroadcastDraft
}

// midWizard reports whether the mode belongs to an in-progress wizard
// (router precedence rule 4).
func (m Mode) midWizard() bool {
	switch m {
	case ModeChoosingFaculty, ModeChoosingMajor, ModeChoosingCohort,
		ModeAwaitingDocument, ModeAwaitingTitle, ModeAwaitingAttribution,
		ModeBroadcastDraft,
		ModeAdminFilterFaculty, ModeAdminFilterMajor, ModeAdminFilterCohort,
		ModeAdminDeleteConfirm:
		return true
	}
	return false
}

// Scratch carries the in-progress wizard fields. The chosen faculty/major
// act as the breadcrumb for Back navigation: the previous step's option set
// is always rebuilt from them, never from re-parsed input.
type Scratch struct {
	Faculty string
	Major   string
	Cohort  string

	Document     *gateway.ContentRef
	DocumentName string
	Title        string

	DeleteTarget int64
}

// ConvState is one user's conversation mode plus scratch.
type ConvState struct {
	Mode    Mode
	Scratch Scratch
}

// States holds the per-user conversation states. Entries are created lazily
// on first read and exist only in memory; a restart loses mid-wizard
// progress but never corrupts durable data.
type States struct {
	mu sync.Mutex
	m  map[int64]*ConvState
}

func NewStates() *States {
	return &States{m: make(map[int64]*ConvState)}
}

// Get returns a copy of the user's state, creating an Idle one if absent.
func (s *States) Get(userID int64) ConvState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.m[userID]
	if !ok {
		st = &ConvState{}
		s.m[userID] = st
	}
	return *st
}

// Set replaces the user's state.
func (s *States) Set(userID int64, st ConvState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = &st
}

// Clear drops the user back to Idle with an empty scratch.
func (s *States) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}

// userLocks serializes event processing per user id. Events for different
// users may run concurrently; two events for the same user never do.
type userLocks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{m: make(map[int64]*sync.Mutex)}
}

func (l *userLocks) lock(userID int64) func() {
	l.mu.Lock()
	um, ok := l.m[userID]
	if !ok {
		um = &sync.Mutex{}
		l.m[userID] = um
	}
	l.mu.Unlock()

	um.Lock()
	return um.Unlock
}
