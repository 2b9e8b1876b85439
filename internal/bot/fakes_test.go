package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"campus-notes-bot/internal/gateway"
	"campus-notes-bot/internal/logging"
	"campus-notes-bot/internal/shared"
	"campus-notes-bot/internal/store/broadcasts"
	"campus-notes-bot/internal/store/catalog"
	"campus-notes-bot/internal/store/profiles"
	"campus-notes-bot/internal/store/submissions"
)

// In-memory fakes shared by the package tests. All fakes are mutex-guarded
// so the concurrency tests can hammer them from multiple goroutines.

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l nopLogger) With(args ...any) logging.Logger                  { return l }

type sentMessage struct {
	UserID int64
	Text   string
	Rows   [][]gateway.Choice
}

type fakeGateway struct {
	mu        sync.Mutex
	sent      []sentMessage
	copies    []gateway.ContentRef
	documents []string
	sendErr   error
}

func (g *fakeGateway) SendText(ctx context.Context, userID int64, text string, rows ...[]gateway.Choice) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return g.sendErr
	}
	g.sent = append(g.sent, sentMessage{UserID: userID, Text: text, Rows: rows})
	return nil
}

func (g *fakeGateway) CopyContent(ctx context.Context, src gateway.ContentRef, destChatID int64) (gateway.ContentRef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.copies = append(g.copies, src)
	return gateway.ContentRef{ChatID: destChatID, MessageID: len(g.copies), FileID: src.FileID}, nil
}

func (g *fakeGateway) SendDocument(ctx context.Context, userID int64, url string, caption string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.documents = append(g.documents, url)
	return nil
}

func (g *fakeGateway) ContentURL(ctx context.Context, ref gateway.ContentRef) (string, error) {
	return "https://files.example/" + ref.FileID, nil
}

func (g *fakeGateway) DeleteMessage(ctx context.Context, chatID int64, messageID int, after time.Duration) error {
	return nil
}

// messagesTo returns the texts sent to one user, in order.
func (g *fakeGateway) messagesTo(userID int64) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for _, m := range g.sent {
		if m.UserID == userID {
			out = append(out, m.Text)
		}
	}
	return out
}

func (g *fakeGateway) lastTo(userID int64) string {
	msgs := g.messagesTo(userID)
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

type fakeProfiles struct {
	mu sync.Mutex
	m  map[int64]*profiles.Profile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{m: make(map[int64]*profiles.Profile)}
}

func (f *fakeProfiles) Upsert(ctx context.Context, userID int64, username, fullName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.m[userID]
	if !ok {
		p = &profiles.Profile{UserID: userID, CreatedAt: time.Now()}
		f.m[userID] = p
	}
	p.Username = username
	p.FullName = fullName
	p.LastSeen = time.Now()
	return nil
}

func (f *fakeProfiles) Get(ctx context.Context, userID int64) (*profiles.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.m[userID]
	if !ok {
		return nil, shared.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) SetClassification(ctx context.Context, userID int64, faculty, major, cohort string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.m[userID]
	if !ok {
		return shared.ErrorNotFound
	}
	p.Faculty, p.Major, p.Cohort = faculty, major, cohort
	return nil
}

func (f *fakeProfiles) IncrementApproved(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.m[userID]
	if !ok {
		return shared.ErrorNotFound
	}
	p.ApprovedUploads++
	return nil
}

func (f *fakeProfiles) MarkChatUsed(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.m[userID]; ok {
		p.ChatUsed = true
	}
	return nil
}

func (f *fakeProfiles) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.m)), nil
}

func (f *fakeProfiles) CountByFaculty(ctx context.Context) ([]profiles.FacultyCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64)
	for _, p := range f.m {
		if p.Faculty != "" {
			counts[p.Faculty]++
		}
	}
	var out []profiles.FacultyCount
	for fac, n := range counts {
		out = append(out, profiles.FacultyCount{Faculty: fac, Count: n})
	}
	return out, nil
}

func (f *fakeProfiles) Latest(ctx context.Context, limit int) ([]*profiles.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*profiles.Profile
	for _, p := range f.m {
		cp := *p
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeProfiles) ListByScope(ctx context.Context, scope profiles.Scope, limit int) ([]*profiles.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*profiles.Profile
	for _, p := range f.m {
		if scopeMatches(scope, p) {
			cp := *p
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeProfiles) ListIDsByScope(ctx context.Context, scope profiles.Scope) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int64
	for id, p := range f.m {
		if scopeMatches(scope, p) {
			out = append(out, id)
		}
	}
	return out, nil
}

func scopeMatches(scope profiles.Scope, p *profiles.Profile) bool {
	if scope.Faculty != "" && scope.Faculty != p.Faculty {
		return false
	}
	if scope.Major != "" && scope.Major != p.Major {
		return false
	}
	if scope.Cohort != "" && scope.Cohort != p.Cohort {
		return false
	}
	return true
}

// seed installs a fully classified profile.
func (f *fakeProfiles) seed(userID int64, faculty, major, cohort string, approved int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[userID] = &profiles.Profile{
		UserID:          userID,
		Faculty:         faculty,
		Major:           major,
		Cohort:          cohort,
		ApprovedUploads: approved,
	}
}

type fakeSubmissions struct {
	mu     sync.Mutex
	nextID int64
	m      map[int64]*submissions.Submission
}

func newFakeSubmissions() *fakeSubmissions {
	return &fakeSubmissions{m: make(map[int64]*submissions.Submission)}
}

func (f *fakeSubmissions) Create(ctx context.Context, s *submissions.Submission) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *s
	cp.ID = f.nextID
	cp.Status = submissions.StatusPending
	cp.CreatedAt = time.Now()
	f.m[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeSubmissions) Get(ctx context.Context, id int64) (*submissions.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.m[id]
	if !ok {
		return nil, shared.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubmissions) OldestPending(ctx context.Context) (*submissions.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var oldest *submissions.Submission
	for _, s := range f.m {
		if s.Status != submissions.StatusPending {
			continue
		}
		if oldest == nil || s.ID < oldest.ID {
			oldest = s
		}
	}
	if oldest == nil {
		return nil, shared.ErrorNotFound
	}
	cp := *oldest
	return &cp, nil
}

func (f *fakeSubmissions) UpdateStatus(ctx context.Context, id int64, from, to submissions.Status) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.m[id]
	if !ok || s.Status != from {
		return 0, nil
	}
	s.Status = to
	return 1, nil
}

type fakeCatalog struct {
	mu     sync.Mutex
	nextID int64
	m      map[int64]*catalog.Entry
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{m: make(map[int64]*catalog.Entry)}
}

func (f *fakeCatalog) Insert(ctx context.Context, e *catalog.Entry) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *e
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	f.m[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeCatalog) Get(ctx context.Context, id int64) (*catalog.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.m[id]
	if !ok {
		return nil, shared.ErrorNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeCatalog) Search(ctx context.Context, faculty, major, query string, limit int) ([]*catalog.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*catalog.Entry
	for _, e := range f.m {
		if e.Faculty != faculty || e.Major != major {
			continue
		}
		if !containsFold(e.Title, query) {
			continue
		}
		cp := *e
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCatalog) Delete(ctx context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.m[id]; !ok {
		return 0, nil
	}
	delete(f.m, id)
	return 1, nil
}

func (f *fakeCatalog) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.m)
}

func catalogEntry(faculty, major, title string) *catalog.Entry {
	return &catalog.Entry{
		Faculty:       faculty,
		Major:         major,
		Cohort:        "2023",
		Title:         title,
		ArchiveRef:    "fake:1:2:doc",
		ContributorID: 1,
	}
}

func containsFold(haystack, needle string) bool {
	h := []rune(haystack)
	n := []rune(needle)
	for i := 0; i+len(n) <= len(h); i++ {
		match := true
		for j := range n {
			a, b := h[i+j], n[j]
			if 'A' <= a && a <= 'Z' {
				a += 'a' - 'A'
			}
			if 'A' <= b && b <= 'Z' {
				b += 'a' - 'A'
			}
			if a != b {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

type loggedMessage struct {
	SessionID int64
	SenderID  int64
	Body      string
}

type fakeChats struct {
	mu        sync.Mutex
	nextID    int64
	ended     map[int64]time.Time
	messages  []loggedMessage
	createErr error
}

func newFakeChats() *fakeChats {
	return &fakeChats{ended: make(map[int64]time.Time)}
}

func (f *fakeChats) CreateSession(ctx context.Context, userA, userB int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	return f.nextID, nil
}

func (f *fakeChats) EndSession(ctx context.Context, sessionID int64, endedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ended[sessionID]; ok {
		return fmt.Errorf("session %d ended twice", sessionID)
	}
	f.ended[sessionID] = endedAt
	return nil
}

func (f *fakeChats) AppendMessage(ctx context.Context, sessionID, senderID int64, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, loggedMessage{SessionID: sessionID, SenderID: senderID, Body: body})
	return nil
}

type fakeBroadcasts struct {
	mu     sync.Mutex
	nextID int64
	m      map[int64]*broadcasts.Request
}

func newFakeBroadcasts() *fakeBroadcasts {
	return &fakeBroadcasts{m: make(map[int64]*broadcasts.Request)}
}

func (f *fakeBroadcasts) Create(ctx context.Context, r *broadcasts.Request) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *r
	cp.ID = f.nextID
	cp.Status = submissions.StatusPending
	cp.CreatedAt = time.Now()
	f.m[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeBroadcasts) Get(ctx context.Context, id int64) (*broadcasts.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.m[id]
	if !ok {
		return nil, shared.ErrorNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeBroadcasts) UpdateStatus(ctx context.Context, id int64, from, to submissions.Status) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.m[id]
	if !ok || r.Status != from {
		return 0, nil
	}
	r.Status = to
	return 1, nil
}

type fakeArchiver struct {
	mu         sync.Mutex
	archived   []gateway.ContentRef
	delivered  []string
	archiveErr error
}

func (a *fakeArchiver) Archive(ctx context.Context, src gateway.ContentRef) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.archiveErr != nil {
		return "", a.archiveErr
	}
	a.archived = append(a.archived, src)
	return "fake:" + src.String(), nil
}

func (a *fakeArchiver) Deliver(ctx context.Context, ref string, userID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.delivered = append(a.delivered, ref)
	return nil
}

func (a *fakeArchiver) archiveCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.archived)
}
