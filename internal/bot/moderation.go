package bot

import (
	"context"
	"errors"
	"fmt"

	"campus-notes-bot/internal/archive"
	"campus-notes-bot/internal/logging"
	"campus-notes-bot/internal/shared"
	"campus-notes-bot/internal/store/broadcasts"
	"campus-notes-bot/internal/store/catalog"
	"campus-notes-bot/internal/store/profiles"
	"campus-notes-bot/internal/store/submissions"
)

// Pipeline turns a completed upload into a durable catalog entry exactly
// once, and runs the same lifecycle for broadcast requests. The pending
// status is claimed with a single conditional update before any side
// effect, so two racing approvals can never both archive the content,
// insert a catalog entry, or bump the contributor counter.
type Pipeline struct {
	submissions submissions.Repository
	catalog     catalog.Repository
	profiles    profiles.Repository
	broadcasts  broadcasts.Repository
	archiver    archive.Archiver
	logger      logging.Logger
}

func NewPipeline(
	submissionRepo submissions.Repository,
	catalogRepo catalog.Repository,
	profileRepo profiles.Repository,
	broadcastRepo broadcasts.Repository,
	archiver archive.Archiver,
	logger logging.Logger,
) *Pipeline {
	return &Pipeline{
		submissions: submissionRepo,
		catalog:     catalogRepo,
		profiles:    profileRepo,
		broadcasts:  broadcastRepo,
		archiver:    archiver,
		logger:      logger.With("module", "moderation"),
	}
}

// Submit inserts a new pending submission and returns its id. Called once
// per completed upload wizard.
func (p *Pipeline) Submit(ctx context.Context, s *submissions.Submission) (int64, error) {
	id, err := p.submissions.Create(ctx, s)
	if err != nil {
		return 0, fmt.Errorf("error creating submission: %w", err)
	}
	return id, nil
}

// Approve resolves a pending submission into a catalog entry. It returns
// shared.ErrorAlreadyResolved when the submission is unknown or was already
// resolved; the loser of a duplicate-click race sees exactly that and
// nothing else happens.
func (p *Pipeline) Approve(ctx context.Context, id int64) (*submissions.Submission, error) {

	sub, err := p.submissions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return nil, shared.ErrorAlreadyResolved
		}
		return nil, err
	}

	// Claim the pending status first. Only the claiming call performs the
	// archive/catalog/counter side effects.
	affected, err := p.submissions.UpdateStatus(ctx, id, submissions.StatusPending, submissions.StatusApproved)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, shared.ErrorAlreadyResolved
	}

	ref, err := p.archiver.Archive(ctx, sub.Content)
	if err != nil {
		// The transition is committed; the copy is best-effort and the
		// failure is surfaced to the actor, not rolled back.
		p.logger.Error(ctx, "content archival failed", "submission", id, "error", err.Error())
		return nil, fmt.Errorf("error archiving content: %w", err)
	}

	_, err = p.catalog.Insert(ctx, &catalog.Entry{
		Faculty:       sub.Faculty,
		Major:         sub.Major,
		Cohort:        sub.Cohort,
		Title:         sub.Title,
		Attribution:   sub.Attribution,
		ArchiveRef:    ref,
		ContributorID: sub.SubmitterID,
	})
	if err != nil {
		return nil, fmt.Errorf("error inserting catalog entry: %w", err)
	}

	if err := p.profiles.IncrementApproved(ctx, sub.SubmitterID); err != nil {
		return nil, fmt.Errorf("error incrementing contributor counter: %w", err)
	}

	p.logger.Info(ctx, "submission approved", "submission", id, "submitter", sub.SubmitterID)
	return sub, nil
}

// Reject resolves a pending submission without any catalog or counter
// mutation. Same already-resolved guard as Approve.
func (p *Pipeline) Reject(ctx context.Context, id int64) (*submissions.Submission, error) {

	sub, err := p.submissions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return nil, shared.ErrorAlreadyResolved
		}
		return nil, err
	}

	affected, err := p.submissions.UpdateStatus(ctx, id, submissions.StatusPending, submissions.StatusRejected)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, shared.ErrorAlreadyResolved
	}

	p.logger.Info(ctx, "submission rejected", "submission", id, "submitter", sub.SubmitterID)
	return sub, nil
}

// SubmitBroadcast inserts a pending broadcast request.
func (p *Pipeline) SubmitBroadcast(ctx context.Context, r *broadcasts.Request) (int64, error) {
	id, err := p.broadcasts.Create(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("error creating broadcast request: %w", err)
	}
	return id, nil
}

// ApproveBroadcast claims a pending broadcast request and returns it along
// with the recipient ids in its scope. The caller performs the actual
// fan-out after this returns.
func (p *Pipeline) ApproveBroadcast(ctx context.Context, id int64) (*broadcasts.Request, []int64, error) {

	req, err := p.broadcasts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return nil, nil, shared.ErrorAlreadyResolved
		}
		return nil, nil, err
	}

	affected, err := p.broadcasts.UpdateStatus(ctx, id, submissions.StatusPending, submissions.StatusApproved)
	if err != nil {
		return nil, nil, err
	}
	if affected == 0 {
		return nil, nil, shared.ErrorAlreadyResolved
	}

	recipients, err := p.profiles.ListIDsByScope(ctx, req.Scope)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing broadcast recipients: %w", err)
	}

	p.logger.Info(ctx, "broadcast approved", "broadcast", id, "recipients", len(recipients))
	return req, recipients, nil
}

// RejectBroadcast resolves a pending broadcast request without fan-out.
func (p *Pipeline) RejectBroadcast(ctx context.Context, id int64) (*broadcasts.Request, error) {

	req, err := p.broadcasts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return nil, shared.ErrorAlreadyResolved
		}
		return nil, err
	}

	affected, err := p.broadcasts.UpdateStatus(ctx, id, submissions.StatusPending, submissions.StatusRejected)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, shared.ErrorAlreadyResolved
	}

	return req, nil
}
