package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"campus-notes-bot/internal/archive"
	"campus-notes-bot/internal/config"
	"campus-notes-bot/internal/gateway"
	"campus-notes-bot/internal/logging"
	"campus-notes-bot/internal/store/catalog"
	"campus-notes-bot/internal/store/chats"
	"campus-notes-bot/internal/store/profiles"
)

// Router dispatches inbound events to the feature handlers. All state
// transitions for one user happen under that user's lock; gateway calls are
// made normally since the lock is per user, not global.
type Router struct {
	cfg      *config.Config
	gw       gateway.Gateway
	profiles profiles.Repository
	catalog  catalog.Repository
	chats    chats.Repository
	pipeline *Pipeline
	match    *Matchmaker
	archiver archive.Archiver
	states   *States
	locks    *userLocks
	logger   logging.Logger
}

func NewRouter(
	cfg *config.Config,
	gw gateway.Gateway,
	profileRepo profiles.Repository,
	catalogRepo catalog.Repository,
	chatRepo chats.Repository,
	pipeline *Pipeline,
	match *Matchmaker,
	archiver archive.Archiver,
	logger logging.Logger,
) *Router {
	return &Router{
		cfg:      cfg,
		gw:       gw,
		profiles: profileRepo,
		catalog:  catalogRepo,
		chats:    chatRepo,
		pipeline: pipeline,
		match:    match,
		archiver: archiver,
		states:   NewStates(),
		locks:    newUserLocks(),
		logger:   logger.With("module", "router"),
	}
}

// Handle processes one inbound event to completion. It never panics out:
// a handler failure is logged and the user gets a generic reply, so one bad
// update cannot take the polling loop down.
func (r *Router) Handle(ctx context.Context, ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error(ctx, "panic in event handler", "user", ev.UserID, "panic", fmt.Sprint(rec))
		}
	}()

	unlock := r.locks.lock(ev.UserID)
	defer unlock()

	if err := r.profiles.Upsert(ctx, ev.UserID, ev.Username, ev.FullName); err != nil {
		r.logger.Error(ctx, "profile upsert failed", "user", ev.UserID, "error", err.Error())
	}

	var err error
	switch ev.Kind {
	case EventCommand:
		err = r.handleCommand(ctx, ev)
	case EventButton:
		err = r.handleButton(ctx, ev)
	case EventMessage:
		err = r.handleMessage(ctx, ev)
	}
	if err != nil {
		r.logger.Error(ctx, "event handler failed", "user", ev.UserID, "kind", int(ev.Kind), "error", err.Error())
		if serr := r.gw.SendText(ctx, ev.UserID, "Something went wrong. Please try again."); serr != nil {
			r.logger.Error(ctx, "error notice failed", "user", ev.UserID, "error", serr.Error())
		}
	}
}

func (r *Router) handleCommand(ctx context.Context, ev Event) error {
	switch ev.Command {
	case "start":
		r.states.Clear(ev.UserID)
		p, err := r.profiles.Get(ctx, ev.UserID)
		if err != nil {
			return err
		}
		if !p.Configured() {
			return r.gw.SendText(ctx, ev.UserID, textWelcome, startKeyboard()...)
		}
		return r.sendMenu(ctx, ev.UserID)

	case "admin":
		if !r.cfg.IsAdmin(ev.UserID) {
			return r.homeView(ctx, ev.UserID, textNotUnderstood)
		}
		r.states.Clear(ev.UserID)
		return r.gw.SendText(ctx, ev.UserID, textAdminMenu, adminMenu()...)

	case "end":
		return r.endChat(ctx, ev.UserID)
	}

	return r.homeView(ctx, ev.UserID, textNotUnderstood)
}

func (r *Router) handleButton(ctx context.Context, ev Event) error {
	tag := ev.Tag

	// prefixed tags carry a payload after "|"
	if prefix, payload, ok := splitTag(tag); ok {
		switch prefix {
		case "usr_fac", "usr_maj", "usr_year":
			return r.classifyStep(ctx, ev.UserID, prefix, payload)
		case "cls_fac", "cls_maj", "cls_year":
			return r.classListStep(ctx, ev.UserID, prefix, payload)
		case "get":
			return r.fetchEntry(ctx, ev.UserID, payload)
		case "appr", "rej":
			return r.resolveSubmission(ctx, ev.UserID, prefix, payload)
		case "bappr", "brej":
			return r.resolveBroadcast(ctx, ev.UserID, prefix, payload)
		}
		return r.homeView(ctx, ev.UserID, textNotUnderstood)
	}

	switch tag {
	case "onboard":
		return r.startClassification(ctx, ev.UserID)
	case "usr_back_fac":
		return r.classifyBack(ctx, ev.UserID, ModeChoosingFaculty)
	case "usr_back_maj":
		return r.classifyBack(ctx, ev.UserID, ModeChoosingMajor)
	case "cls_back_fac":
		return r.classListBack(ctx, ev.UserID, ModeAdminFilterFaculty)
	case "cls_back_maj":
		return r.classListBack(ctx, ev.UserID, ModeAdminFilterMajor)

	case "back_menu", "go_user_menu":
		r.states.Clear(ev.UserID)
		return r.sendMenu(ctx, ev.UserID)

	case "menu_search":
		return r.startSearch(ctx, ev.UserID)
	case "menu_upload":
		return r.startUpload(ctx, ev.UserID)
	case "menu_chat":
		return r.chatIntro(ctx, ev.UserID)
	case "menu_profile":
		return r.showProfile(ctx, ev.UserID)
	case "menu_invite":
		return r.gw.SendText(ctx, ev.UserID, inviteText(r.cfg.BotLink), backMenuKeyboard()...)
	case "menu_broadcast":
		return r.startBroadcastDraft(ctx, ev.UserID)

	case "chat_join":
		return r.joinChat(ctx, ev.UserID)
	case "chat_cancel":
		return r.cancelChat(ctx, ev.UserID)
	case "chat_end":
		return r.endChat(ctx, ev.UserID)

	case "admin_pending":
		return r.adminPending(ctx, ev.UserID)
	case "admin_stats":
		return r.adminStats(ctx, ev.UserID)
	case "admin_latest":
		return r.adminLatest(ctx, ev.UserID)
	case "admin_classlist":
		return r.adminClassListStart(ctx, ev.UserID)
	case "admin_delete":
		return r.adminDeleteStart(ctx, ev.UserID)
	case "admin_broadcast":
		return r.adminBroadcastStart(ctx, ev.UserID)
	case "del_yes", "del_no":
		return r.adminDeleteConfirm(ctx, ev.UserID, tag == "del_yes")
	}

	return r.homeView(ctx, ev.UserID, textNotUnderstood)
}

/// handleMessage applies the freeform precedence: the live chat relay first,
// then one-shot admin modes, then the in-progress wizard, then the idle
// fallback.
func (r *Router) handleMessage(ctx context.Context, ev Event) error {
	if partner, ok := r.match.PartnerOf(ev.UserID); ok {
		return r.relay(ctx, ev, partner)
	}

	st := r.states.Get(ev.UserID)

	if st.Mode.oneShotAdmin() && r.cfg.IsAdmin(ev.UserID) {
		switch st.Mode {
		case ModeAdminAwaitingDeleteID:
			return r.adminDeleteID(ctx, ev.UserID, ev.Text)
		case ModeAdminBroadcastDraft:
			return r.adminBroadcastSend(ctx, ev.UserID, ev.Text)
		}
	}

	if st.Mode.midWizard() || st.Mode == ModeSearching {
		return r.wizardMessage(ctx, ev, st)
	}

	return r.homeView(ctx, ev.UserID, textNotUnderstood)
}

func (r *Router) sendMenu(ctx context.Context, userID int64) error {
	return r.gw.SendText(ctx, userID, textMenu, mainMenu()...)
}

// homeView answers unrecognized input with the role-appropriate home: the
// admin panel, the main menu, or the onboarding prompt when the profile is
// not yet classified.
func (r *Router) homeView(ctx context.Context, userID int64, text string) error {
	if r.cfg.IsAdmin(userID) {
		return r.gw.SendText(ctx, userID, text, adminMenu()...)
	}
	p, err := r.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !p.Configured() {
		return r.gw.SendText(ctx, userID, textWelcome, startKeyboard()...)
	}
	return r.gw.SendText(ctx, userID, text, mainMenu()...)
}

// requireProfile loads the profile and reroutes unconfigured users to the
// onboarding prompt. A nil profile with a nil error means the caller should
// stop.
func (r *Router) requireProfile(ctx context.Context, userID int64) (*profiles.Profile, error) {
	p, err := r.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.Configured() {
		return nil, r.gw.SendText(ctx, userID, textProfileNotSet, startKeyboard()...)
	}
	return p, nil
}

func splitTag(tag string) (prefix, payload string, ok bool) {
	i := strings.IndexByte(tag, '|')
	if i < 0 {
		return "", "", false
	}
	return tag[:i], tag[i+1:], true
}

func profileScope(faculty, major string) profiles.Scope {
	return profiles.Scope{Faculty: faculty, Major: major}
}

func parseID(payload string) (int64, error) {
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed id payload %q: %w", payload, err)
	}
	return id, nil
}
