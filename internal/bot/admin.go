package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"campus-notes-bot/internal/shared"
	"campus-notes-bot/internal/store/profiles"
	"campus-notes-bot/internal/taxonomy"
)

// Admin panel handlers. Every entry point re-checks admin membership so a
// leaked or forwarded button cannot be replayed by a regular user.

func (r *Router) adminOnly(ctx context.Context, userID int64) (bool, error) {
	if r.cfg.IsAdmin(userID) {
		return true, nil
	}
	return false, r.gw.SendText(ctx, userID, textNotUnderstood)
}

// adminPending shows the longest-waiting pending submission with its
// content copy and review buttons.
func (r *Router) adminPending(ctx context.Context, userID int64) error {
	if ok, err := r.adminOnly(ctx, userID); !ok {
		return err
	}

	sub, err := r.pipeline.submissions.OldestPending(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return r.gw.SendText(ctx, userID, textAdminNoPending, adminMenu()...)
		}
		return err
	}

	if _, err := r.gw.CopyContent(ctx, sub.Content, userID); err != nil {
		return fmt.Errorf("error copying pending content: %w", err)
	}
	caption := pendingCaption(sub.Faculty, sub.Major, sub.Cohort, sub.Title, sub.Attribution, sub.SubmitterID)
	return r.gw.SendText(ctx, userID, caption, reviewKeyboard(sub.ID)...)
}

// resolveSubmission handles the appr|/rej| review buttons. Exactly-once is
// enforced by the pipeline; the second click on a duplicate gets the
// already-handled notice.
func (r *Router) resolveSubmission(ctx context.Context, userID int64, action, payload string) error {
	if ok, err := r.adminOnly(ctx, userID); !ok {
		return err
	}
	id, err := parseID(payload)
	if err != nil {
		return err
	}

	if action == "appr" {
		sub, err := r.pipeline.Approve(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrorAlreadyResolved) {
				return r.gw.SendText(ctx, userID, textAdminResolved)
			}
			return err
		}
		if err := r.gw.SendText(ctx, sub.SubmitterID, textApprovedNotice); err != nil {
			r.logger.Error(ctx, "approval notice failed", "user", sub.SubmitterID, "error", err.Error())
		}
		return r.gw.SendText(ctx, userID, fmt.Sprintf("Approved #%d.", id), adminMenu()...)
	}

	sub, err := r.pipeline.Reject(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrorAlreadyResolved) {
			return r.gw.SendText(ctx, userID, textAdminResolved)
		}
		return err
	}
	if err := r.gw.SendText(ctx, sub.SubmitterID, textRejectedNotice); err != nil {
		r.logger.Error(ctx, "rejection notice failed", "user", sub.SubmitterID, "error", err.Error())
	}
	return r.gw.SendText(ctx, userID, fmt.Sprintf("Rejected #%d.", id), adminMenu()...)
}

// resolveBroadcast handles the bappr|/brej| review buttons and performs the
// fan-out on approval.
func (r *Router) resolveBroadcast(ctx context.Context, userID int64, action, payload string) error {
	if ok, err := r.adminOnly(ctx, userID); !ok {
		return err
	}
	id, err := parseID(payload)
	if err != nil {
		return err
	}

	if action == "brej" {
		req, err := r.pipeline.RejectBroadcast(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrorAlreadyResolved) {
				return r.gw.SendText(ctx, userID, textAdminResolved)
			}
			return err
		}
		if err := r.gw.SendText(ctx, req.SubmitterID, textBroadcastRejected); err != nil {
			r.logger.Error(ctx, "broadcast rejection notice failed", "user", req.SubmitterID, "error", err.Error())
		}
		return r.gw.SendText(ctx, userID, fmt.Sprintf("Rejected announcement #%d.", id), adminMenu()...)
	}

	req, recipients, err := r.pipeline.ApproveBroadcast(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrorAlreadyResolved) {
			return r.gw.SendText(ctx, userID, textAdminResolved)
		}
		return err
	}

	delivered := 0
	for _, rid := range recipients {
		if err := r.gw.SendText(ctx, rid, req.Body); err != nil {
			r.logger.Error(ctx, "broadcast delivery failed", "user", rid, "broadcast", id, "error", err.Error())
			continue
		}
		delivered++
	}

	if err := r.gw.SendText(ctx, req.SubmitterID, textBroadcastSent); err != nil {
		r.logger.Error(ctx, "broadcast approval notice failed", "user", req.SubmitterID, "error", err.Error())
	}
	return r.gw.SendText(ctx, userID,
		fmt.Sprintf("Announcement #%d delivered to %d of %d recipients.", id, delivered, len(recipients)),
		adminMenu()...)
}

func (r *Router) adminStats(ctx context.Context, userID int64) error {
	if ok, err := r.adminOnly(ctx, userID); !ok {
		return err
	}

	total, err := r.profiles.Count(ctx)
	if err != nil {
		return err
	}
	byFaculty, err := r.profiles.CountByFaculty(ctx)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Users: %d\n", total)
	for _, fc := range byFaculty {
		fmt.Fprintf(&b, "%s: %d\n", fc.Faculty, fc.Count)
	}
	return r.gw.SendText(ctx, userID, b.String(), adminMenu()...)
}

func (r *Router) adminLatest(ctx context.Context, userID int64) error {
	if ok, err := r.adminOnly(ctx, userID); !ok {
		return err
	}

	latest, err := r.profiles.Latest(ctx, 15)
	if err != nil {
		return err
	}
	if len(latest) == 0 {
		return r.gw.SendText(ctx, userID, "No users yet.", adminMenu()...)
	}

	var b strings.Builder
	b.WriteString("Latest users:\n")
	for _, p := range latest {
		writeProfileLine(&b, p)
	}
	return r.gw.SendText(ctx, userID, b.String(), adminMenu()...)
}

func (r *Router) adminClassListStart(ctx context.Context, userID int64) error {
	if ok, err := r.adminOnly(ctx, userID); !ok {
		return err
	}
	r.states.Set(userID, ConvState{Mode: ModeAdminFilterFaculty})
	return r.gw.SendText(ctx, userID, textChooseFaculty, facultyKeyboard("cls_fac|")...)
}

// classListStep mirrors the classification wizard, but ends with a roster
// listing instead of a profile write.
func (r *Router) classListStep(ctx context.Context, userID int64, prefix, choice string) error {
	if ok, err := r.adminOnly(ctx, userID); !ok {
		return err
	}
	st := r.states.Get(userID)

	switch prefix {
	case "cls_fac":
		if st.Mode != ModeAdminFilterFaculty || !taxonomy.ValidFaculty(choice) {
			return r.staleButton(ctx, userID)
		}
		st.Scratch.Faculty = choice
		st.Mode = ModeAdminFilterMajor
		r.states.Set(userID, st)
		return r.gw.SendText(ctx, userID, textChooseMajor, majorKeyboard("cls_maj|", choice, "cls_back_fac")...)

	case "cls_maj":
		if st.Mode != ModeAdminFilterMajor || !taxonomy.ValidMajor(st.Scratch.Faculty, choice) {
			return r.staleButton(ctx, userID)
		}
		st.Scratch.Major = choice
		st.Mode = ModeAdminFilterCohort
		r.states.Set(userID, st)
		return r.gw.SendText(ctx, userID, textChooseCohort, cohortKeyboard("cls_year|", "cls_back_maj")...)

	case "cls_year":
		if st.Mode != ModeAdminFilterCohort || !taxonomy.ValidCohort(choice) {
			return r.staleButton(ctx, userID)
		}
		scope := profiles.Scope{Faculty: st.Scratch.Faculty, Major: st.Scratch.Major, Cohort: choice}
		r.states.Clear(userID)
		return r.sendClassList(ctx, userID, scope)
	}

	return r.staleButton(ctx, userID)
}

func (r *Router) classListBack(ctx context.Context, userID int64, to Mode) error {
	if ok, err := r.adminOnly(ctx, userID); !ok {
		return err
	}
	st := r.states.Get(userID)

	switch to {
	case ModeAdminFilterFaculty:
		if st.Mode != ModeAdminFilterMajor {
			return r.staleButton(ctx, userID)
		}
		st.Mode = ModeAdminFilterFaculty
		st.Scratch.Faculty = ""
		r.states.Set(userID, st)
		return r.gw.SendText(ctx, userID, textChooseFaculty, facultyKeyboard("cls_fac|")...)

	case ModeAdminFilterMajor:
		if st.Mode != ModeAdminFilterCohort {
			return r.staleButton(ctx, userID)
		}
		st.Mode = ModeAdminFilterMajor
		st.Scratch.Major = ""
		r.states.Set(userID, st)
		return r.gw.SendText(ctx, userID, textChooseMajor, majorKeyboard("cls_maj|", st.Scratch.Faculty, "cls_back_fac")...)
	}

	return r.staleButton(ctx, userID)
}

func (r *Router) sendClassList(ctx context.Context, userID int64, scope profiles.Scope) error {
	list, err := r.profiles.ListByScope(ctx, scope, 200)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return r.gw.SendText(ctx, userID, "No users in that class.", adminMenu()...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s / %s / %s — %d user(s):\n", scope.Faculty, scope.Major, scope.Cohort, len(list))
	for _, p := range list {
		writeProfileLine(&b, p)
	}
	return r.gw.SendText(ctx, userID, b.String(), adminMenu()...)
}

func writeProfileLine(b *strings.Builder, p *profiles.Profile) {
	name := p.FullName
	if name == "" {
		name = "(no name)"
	}
	if p.Username != "" {
		fmt.Fprintf(b, "%d — %s (@%s)\n", p.UserID, name, p.Username)
		return
	}
	fmt.Fprintf(b, "%d — %s\n", p.UserID, name)
}

func (r *Router) adminDeleteStart(ctx context.Context, userID int64) error {
	if ok, err := r.adminOnly(ctx, userID); !ok {
		return err
	}
	r.states.Set(userID, ConvState{Mode: ModeAdminAwaitingDeleteID})
	return r.gw.SendText(ctx, userID, textAdminDeletePrompt, backMenuKeyboard()...)
}

// adminDeleteID consumes the typed id, shows the target entry and asks for
// confirmation.
func (r *Router) adminDeleteID(ctx context.Context, userID int64, text string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return r.gw.SendText(ctx, userID, textAdminDeleteBadID, backMenuKeyboard()...)
	}

	entry, err := r.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return r.gw.SendText(ctx, userID, textAdminDeleteMissing, backMenuKeyboard()...)
		}
		return err
	}

	st := r.states.Get(userID)
	st.Mode = ModeAdminDeleteConfirm
	st.Scratch.DeleteTarget = id
	r.states.Set(userID, st)

	text = fmt.Sprintf("Delete entry #%d?\nCourse: %s\nProgram: %s / %s / %s", entry.ID, entry.Title, entry.Faculty, entry.Major, entry.Cohort)
	return r.gw.SendText(ctx, userID, text, deleteConfirmKeyboard()...)
}

func (r *Router) adminDeleteConfirm(ctx context.Context, userID int64, confirmed bool) error {
	if ok, err := r.adminOnly(ctx, userID); !ok {
		return err
	}
	st := r.states.Get(userID)
	if st.Mode != ModeAdminDeleteConfirm {
		return r.staleButton(ctx, userID)
	}
	target := st.Scratch.DeleteTarget
	r.states.Clear(userID)

	if !confirmed {
		return r.gw.SendText(ctx, userID, textAdminMenu, adminMenu()...)
	}

	affected, err := r.catalog.Delete(ctx, target)
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.gw.SendText(ctx, userID, textAdminDeleteMissing, adminMenu()...)
	}
	r.logger.Info(ctx, "catalog entry deleted", "entry", target, "admin", userID)
	return r.gw.SendText(ctx, userID, textAdminDeleted, adminMenu()...)
}

func (r *Router) adminBroadcastStart(ctx context.Context, userID int64) error {
	if ok, err := r.adminOnly(ctx, userID); !ok {
		return err
	}
	r.states.Set(userID, ConvState{Mode: ModeAdminBroadcastDraft})
	return r.gw.SendText(ctx, userID, textAdminBroadcast, backMenuKeyboard()...)
}

// adminBroadcastSend delivers the admin's announcement to every user
// immediately; admin broadcasts skip the moderation queue.
func (r *Router) adminBroadcastSend(ctx context.Context, userID int64, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return r.gw.SendText(ctx, userID, textAdminBroadcast, backMenuKeyboard()...)
	}
	r.states.Clear(userID)

	recipients, err := r.profiles.ListIDsByScope(ctx, profiles.Scope{})
	if err != nil {
		return err
	}

	delivered := 0
	for _, rid := range recipients {
		if rid == userID {
			continue
		}
		if err := r.gw.SendText(ctx, rid, body); err != nil {
			r.logger.Error(ctx, "broadcast delivery failed", "user", rid, "error", err.Error())
			continue
		}
		delivered++
	}
	return r.gw.SendText(ctx, userID,
		fmt.Sprintf("Delivered to %d of %d users.", delivered, len(recipients)),
		adminMenu()...)
}
