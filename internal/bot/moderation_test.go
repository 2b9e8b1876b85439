package bot

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-notes-bot/internal/gateway"
	"campus-notes-bot/internal/shared"
	"campus-notes-bot/internal/store/broadcasts"
	"campus-notes-bot/internal/store/profiles"
	"campus-notes-bot/internal/store/submissions"
)

type pipelineFixture struct {
	pipeline    *Pipeline
	submissions *fakeSubmissions
	catalog     *fakeCatalog
	profiles    *fakeProfiles
	broadcasts  *fakeBroadcasts
	archiver    *fakeArchiver
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		submissions: newFakeSubmissions(),
		catalog:     newFakeCatalog(),
		profiles:    newFakeProfiles(),
		broadcasts:  newFakeBroadcasts(),
		archiver:    &fakeArchiver{},
	}
	f.pipeline = NewPipeline(f.submissions, f.catalog, f.profiles, f.broadcasts, f.archiver, nopLogger{})
	return f
}

func (f *pipelineFixture) submitOne(t *testing.T, submitter int64) int64 {
	t.Helper()
	id, err := f.pipeline.Submit(context.Background(), &submissions.Submission{
		SubmitterID: submitter,
		Faculty:     "Pharmacy",
		Major:       "Pharmacy",
		Cohort:      "2023",
		Title:       "Operating Systems",
		Content:     gateway.ContentRef{ChatID: submitter, MessageID: 10, FileID: "doc"},
	})
	require.NoError(t, err)
	return id
}

func TestApproveCreatesCatalogEntryAndCounter(t *testing.T) {
	f := newPipelineFixture()
	ctx := context.Background()
	f.profiles.seed(7, "Pharmacy", "Pharmacy", "2023", 0)
	id := f.submitOne(t, 7)

	sub, err := f.pipeline.Approve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sub.SubmitterID)

	assert.Equal(t, 1, f.catalog.size())
	entry, err := f.catalog.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Operating Systems", entry.Title)
	assert.Equal(t, int64(7), entry.ContributorID)
	assert.NotEmpty(t, entry.ArchiveRef)

	p, err := f.profiles.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ApprovedUploads)

	stored, err := f.submissions.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, submissions.StatusApproved, stored.Status)
}

func TestApproveTwiceSecondSeesAlreadyResolved(t *testing.T) {
	f := newPipelineFixture()
	ctx := context.Background()
	f.profiles.seed(7, "Pharmacy", "Pharmacy", "2023", 0)
	id := f.submitOne(t, 7)

	_, err := f.pipeline.Approve(ctx, id)
	require.NoError(t, err)

	_, err = f.pipeline.Approve(ctx, id)
	assert.ErrorIs(t, err, shared.ErrorAlreadyResolved)

	_, err = f.pipeline.Reject(ctx, id)
	assert.ErrorIs(t, err, shared.ErrorAlreadyResolved)
}

func TestApproveUnknownSubmission(t *testing.T) {
	f := newPipelineFixture()

	_, err := f.pipeline.Approve(context.Background(), 999)
	assert.ErrorIs(t, err, shared.ErrorAlreadyResolved)
}

// Two admins racing on the same submission must produce exactly one catalog
// entry, one archive copy, and one counter increment.
func TestConcurrentDoubleApprove(t *testing.T) {
	f := newPipelineFixture()
	ctx := context.Background()
	f.profiles.seed(7, "Pharmacy", "Pharmacy", "2023", 0)
	id := f.submitOne(t, 7)

	const racers = 8
	var wg sync.WaitGroup
	results := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.pipeline.Approve(ctx, id)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, shared.ErrorAlreadyResolved)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, f.catalog.size())
	assert.Equal(t, 1, f.archiver.archiveCount())

	p, err := f.profiles.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ApprovedUploads)
}

func TestRejectLeavesNoSideEffects(t *testing.T) {
	f := newPipelineFixture()
	ctx := context.Background()
	f.profiles.seed(7, "Pharmacy", "Pharmacy", "2023", 0)
	id := f.submitOne(t, 7)

	sub, err := f.pipeline.Reject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sub.SubmitterID)

	assert.Equal(t, 0, f.catalog.size())
	assert.Equal(t, 0, f.archiver.archiveCount())

	p, err := f.profiles.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, p.ApprovedUploads)
}

// An archive failure after the status claim must not resurrect the pending
// submission: the transition stays committed and the error is surfaced.
func TestApproveArchiveFailureKeepsTransition(t *testing.T) {
	f := newPipelineFixture()
	ctx := context.Background()
	f.profiles.seed(7, "Pharmacy", "Pharmacy", "2023", 0)
	id := f.submitOne(t, 7)
	f.archiver.archiveErr = errors.New("bucket offline")

	_, err := f.pipeline.Approve(ctx, id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrorAlreadyResolved)

	stored, err := f.submissions.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, submissions.StatusApproved, stored.Status)
	assert.Equal(t, 0, f.catalog.size())
}

func TestBroadcastLifecycle(t *testing.T) {
	f := newPipelineFixture()
	ctx := context.Background()

	f.profiles.seed(1, "Pharmacy", "Pharmacy", "2023", 0)
	f.profiles.seed(2, "Pharmacy", "Pharmacy", "2024", 0)
	f.profiles.seed(3, "Medicine", "Medicine", "2023", 0)

	id, err := f.pipeline.SubmitBroadcast(ctx, &broadcasts.Request{
		SubmitterID: 1,
		Scope:       profiles.Scope{Faculty: "Pharmacy", Major: "Pharmacy"},
		Body:        "Midterm moved to Thursday",
	})
	require.NoError(t, err)

	req, recipients, err := f.pipeline.ApproveBroadcast(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Midterm moved to Thursday", req.Body)
	assert.ElementsMatch(t, []int64{1, 2}, recipients)

	_, _, err = f.pipeline.ApproveBroadcast(ctx, id)
	assert.ErrorIs(t, err, shared.ErrorAlreadyResolved)
}

func TestRejectBroadcast(t *testing.T) {
	f := newPipelineFixture()
	ctx := context.Background()

	id, err := f.pipeline.SubmitBroadcast(ctx, &broadcasts.Request{SubmitterID: 1, Body: "spam"})
	require.NoError(t, err)

	req, err := f.pipeline.RejectBroadcast(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), req.SubmitterID)

	_, err = f.pipeline.RejectBroadcast(ctx, id)
	assert.ErrorIs(t, err, shared.ErrorAlreadyResolved)
}
