package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campus-notes-bot/internal/shared"
	"campus-notes-bot/internal/store/broadcasts"
	"campus-notes-bot/internal/store/submissions"
	"campus-notes-bot/internal/taxonomy"
)

// Classification, upload, search and member-broadcast flows. Each flow is a
// short linear wizard driven by Mode; freeform steps land here from the
// router's wizardMessage.

func (r *Router) startClassification(ctx context.Context, userID int64) error {
	r.states.Set(userID, ConvState{Mode: ModeChoosingFaculty})
	return r.gw.SendText(ctx, userID, textChooseFaculty, facultyKeyboard("usr_fac|")...)
}

// classifyStep advances the classification wizard on a validated button
// press. A press that does not match the current mode is a stale button
// from an old message and just re-opens the menu.
func (r *Router) classifyStep(ctx context.Context, userID int64, prefix, choice string) error {
	st := r.states.Get(userID)

	switch prefix {
	case "usr_fac":
		if st.Mode != ModeChoosingFaculty || !taxonomy.ValidFaculty(choice) {
			return r.staleButton(ctx, userID)
		}
		st.Scratch.Faculty = choice
		st.Mode = ModeChoosingMajor
		r.states.Set(userID, st)
		return r.gw.SendText(ctx, userID, textChooseMajor, majorKeyboard("usr_maj|", choice, "usr_back_fac")...)

	case "usr_maj":
		if st.Mode != ModeChoosingMajor || !taxonomy.ValidMajor(st.Scratch.Faculty, choice) {
			return r.staleButton(ctx, userID)
		}
		st.Scratch.Major = choice
		st.Mode = ModeChoosingCohort
		r.states.Set(userID, st)
		return r.gw.SendText(ctx, userID, textChooseCohort, cohortKeyboard("usr_year|", "usr_back_maj")...)

	case "usr_year":
		if st.Mode != ModeChoosingCohort || !taxonomy.ValidCohort(choice) {
			return r.staleButton(ctx, userID)
		}
		if err := r.profiles.SetClassification(ctx, userID, st.Scratch.Faculty, st.Scratch.Major, choice); err != nil {
			return err
		}
		r.states.Clear(userID)
		return r.gw.SendText(ctx, userID, textProfileSaved, mainMenu()...)
	}

	return r.staleButton(ctx, userID)
}

// classifyBack rebuilds the previous step's options from the scratch
// breadcrumb.
func (r *Router) classifyBack(ctx context.Context, userID int64, to Mode) error {
	st := r.states.Get(userID)

	switch to {
	case ModeChoosingFaculty:
		if st.Mode != ModeChoosingMajor {
			return r.staleButton(ctx, userID)
		}
		st.Mode = ModeChoosingFaculty
		st.Scratch.Faculty = ""
		r.states.Set(userID, st)
		return r.gw.SendText(ctx, userID, textChooseFaculty, facultyKeyboard("usr_fac|")...)

	case ModeChoosingMajor:
		if st.Mode != ModeChoosingCohort {
			return r.staleButton(ctx, userID)
		}
		st.Mode = ModeChoosingMajor
		st.Scratch.Major = ""
		r.states.Set(userID, st)
		return r.gw.SendText(ctx, userID, textChooseMajor, majorKeyboard("usr_maj|", st.Scratch.Faculty, "usr_back_fac")...)
	}

	return r.staleButton(ctx, userID)
}

func (r *Router) staleButton(ctx context.Context, userID int64) error {
	r.states.Clear(userID)
	return r.sendMenu(ctx, userID)
}

func (r *Router) startUpload(ctx context.Context, userID int64) error {
	p, err := r.requireProfile(ctx, userID)
	if err != nil || p == nil {
		return err
	}
	r.states.Set(userID, ConvState{Mode: ModeAwaitingDocument})
	return r.gw.SendText(ctx, userID, textSendDocument, backMenuKeyboard()...)
}

func (r *Router) startSearch(ctx context.Context, userID int64) error {
	p, err := r.requireProfile(ctx, userID)
	if err != nil || p == nil {
		return err
	}
	r.states.Set(userID, ConvState{Mode: ModeSearching})
	return r.gw.SendText(ctx, userID, textSearchPrompt, backMenuKeyboard()...)
}

func (r *Router) startBroadcastDraft(ctx context.Context, userID int64) error {
	p, err := r.requireProfile(ctx, userID)
	if err != nil || p == nil {
		return err
	}
	r.states.Set(userID, ConvState{Mode: ModeBroadcastDraft})
	return r.gw.SendText(ctx, userID, textBroadcastPrompt, backMenuKeyboard()...)
}

func (r *Router) showProfile(ctx context.Context, userID int64) error {
	p, err := r.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !p.Configured() {
		return r.gw.SendText(ctx, userID, textProfileNotSet, startKeyboard()...)
	}
	text := profileText(p.Faculty, p.Major, p.Cohort, p.ApprovedUploads, p.ApprovedUploads >= 1)
	return r.gw.SendText(ctx, userID, text, backMenuKeyboard()...)
}

// wizardMessage consumes a freeform message for the in-progress wizard.
func (r *Router) wizardMessage(ctx context.Context, ev Event, st ConvState) error {
	userID := ev.UserID

	switch st.Mode {
	case ModeAwaitingDocument:
		if ev.Document == nil {
			return r.gw.SendText(ctx, userID, textNotADocument, backMenuKeyboard()...)
		}
		if !strings.HasSuffix(strings.ToLower(ev.DocumentName), ".pdf") {
			return r.gw.SendText(ctx, userID, textNotAPDF, backMenuKeyboard()...)
		}
		st.Scratch.Document = ev.Document
		st.Scratch.DocumentName = ev.DocumentName
		st.Mode = ModeAwaitingTitle
		r.states.Set(userID, st)
		return r.gw.SendText(ctx, userID, textAskTitle)

	case ModeAwaitingTitle:
		title := strings.TrimSpace(ev.Text)
		if title == "" {
			return r.gw.SendText(ctx, userID, textAskTitle)
		}
		st.Scratch.Title = title
		st.Mode = ModeAwaitingAttribution
		r.states.Set(userID, st)
		return r.gw.SendText(ctx, userID, textAskAttribution)

	case ModeAwaitingAttribution:
		return r.finishUpload(ctx, userID, st, ev.Text)

	case ModeSearching:
		return r.runSearch(ctx, userID, ev.Text)

	case ModeBroadcastDraft:
		return r.finishBroadcastDraft(ctx, userID, ev.Text)

	case ModeAdminDeleteConfirm:
		return r.gw.SendText(ctx, userID, textAdminDeletePrompt, deleteConfirmKeyboard()...)

	case ModeChoosingFaculty:
		return r.gw.SendText(ctx, userID, textChooseFaculty, facultyKeyboard("usr_fac|")...)
	case ModeChoosingMajor:
		return r.gw.SendText(ctx, userID, textChooseMajor, majorKeyboard("usr_maj|", st.Scratch.Faculty, "usr_back_fac")...)
	case ModeChoosingCohort:
		return r.gw.SendText(ctx, userID, textChooseCohort, cohortKeyboard("usr_year|", "usr_back_maj")...)

	case ModeAdminFilterFaculty:
		return r.gw.SendText(ctx, userID, textChooseFaculty, facultyKeyboard("cls_fac|")...)
	case ModeAdminFilterMajor:
		return r.gw.SendText(ctx, userID, textChooseMajor, majorKeyboard("cls_maj|", st.Scratch.Faculty, "cls_back_fac")...)
	case ModeAdminFilterCohort:
		return r.gw.SendText(ctx, userID, textChooseCohort, cohortKeyboard("cls_year|", "cls_back_maj")...)
	}

	return r.gw.SendText(ctx, userID, textNotUnderstood)
}

// finishUpload commits the submission with the profile snapshot and notifies
// every admin with review buttons.
func (r *Router) finishUpload(ctx context.Context, userID int64, st ConvState, attribution string) error {
	p, err := r.requireProfile(ctx, userID)
	if err != nil || p == nil {
		r.states.Clear(userID)
		return err
	}

	sub := &submissions.Submission{
		SubmitterID: userID,
		Faculty:     p.Faculty,
		Major:       p.Major,
		Cohort:      p.Cohort,
		Title:       st.Scratch.Title,
		Attribution: normalizeAttribution(attribution),
		Content:     *st.Scratch.Document,
	}

	id, err := r.pipeline.Submit(ctx, sub)
	if err != nil {
		return err
	}
	r.states.Clear(userID)

	if err := r.gw.SendText(ctx, userID, textSubmissionQueued, mainMenu()...); err != nil {
		return err
	}

	caption := pendingCaption(sub.Faculty, sub.Major, sub.Cohort, sub.Title, sub.Attribution, userID)
	for _, adminID := range r.cfg.AdminIDs {
		if _, err := r.gw.CopyContent(ctx, sub.Content, adminID); err != nil {
			r.logger.Error(ctx, "review copy failed", "admin", adminID, "submission", id, "error", err.Error())
			continue
		}
		if err := r.gw.SendText(ctx, adminID, caption, reviewKeyboard(id)...); err != nil {
			r.logger.Error(ctx, "review notice failed", "admin", adminID, "submission", id, "error", err.Error())
		}
	}
	return nil
}

// normalizeAttribution maps the skip sentinels to nil.
func normalizeAttribution(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "—" {
		return nil
	}
	return &s
}

func (r *Router) runSearch(ctx context.Context, userID int64, query string) error {
	p, err := r.requireProfile(ctx, userID)
	if err != nil || p == nil {
		return err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return r.gw.SendText(ctx, userID, textSearchPrompt, backMenuKeyboard()...)
	}

	// the query consumes the search mode either way
	r.states.Clear(userID)

	entries, err := r.catalog.Search(ctx, p.Faculty, p.Major, query, 20)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return r.gw.SendText(ctx, userID, textSearchEmpty, searchEmptyKeyboard()...)
	}

	titles := make([]string, len(entries))
	ids := make([]int64, len(entries))
	for i, e := range entries {
		label := e.Title
		if e.Attribution != nil {
			label = fmt.Sprintf("%s (%s)", e.Title, *e.Attribution)
		}
		titles[i] = label
		ids[i] = e.ID
	}
	text := fmt.Sprintf("Found %d result(s). Pick one to download:", len(entries))
	return r.gw.SendText(ctx, userID, text, resultKeyboard(titles, ids)...)
}

// fetchEntry delivers an archived entry to the user. Entries deleted since
// the result list was rendered are reported as gone.
func (r *Router) fetchEntry(ctx context.Context, userID int64, payload string) error {
	id, err := parseID(payload)
	if err != nil {
		return err
	}

	entry, err := r.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return r.gw.SendText(ctx, userID, textFetchGone, backMenuKeyboard()...)
		}
		return err
	}

	if err := r.archiver.Deliver(ctx, entry.ArchiveRef, userID); err != nil {
		return fmt.Errorf("error delivering entry %d: %w", id, err)
	}
	return nil
}

// finishBroadcastDraft files the member's announcement for review, scoped to
// their faculty and major.
func (r *Router) finishBroadcastDraft(ctx context.Context, userID int64, body string) error {
	p, err := r.requireProfile(ctx, userID)
	if err != nil || p == nil {
		r.states.Clear(userID)
		return err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return r.gw.SendText(ctx, userID, textBroadcastPrompt, backMenuKeyboard()...)
	}

	req := &broadcasts.Request{
		SubmitterID: userID,
		Scope:       profileScope(p.Faculty, p.Major),
		Body:        body,
	}
	id, err := r.pipeline.SubmitBroadcast(ctx, req)
	if err != nil {
		return err
	}
	r.states.Clear(userID)

	if err := r.gw.SendText(ctx, userID, textBroadcastQueued, mainMenu()...); err != nil {
		return err
	}

	notice := fmt.Sprintf("Announcement request from %d (%s / %s):\n\n%s", userID, p.Faculty, p.Major, body)
	for _, adminID := range r.cfg.AdminIDs {
		if err := r.gw.SendText(ctx, adminID, notice, broadcastReviewKeyboard(id)...); err != nil {
			r.logger.Error(ctx, "broadcast notice failed", "admin", adminID, "broadcast", id, "error", err.Error())
		}
	}
	return nil
}
