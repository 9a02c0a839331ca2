package workspace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-assistant/internal/draft"
	"github.com/jonathan/resume-assistant/internal/history"
	"github.com/jonathan/resume-assistant/internal/logging"
	"github.com/jonathan/resume-assistant/internal/profiles"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/testutil"
	"github.com/jonathan/resume-assistant/internal/types"
)

const (
	acmeJob   = "Senior Engineer at Acme"
	buildMyCV = "Build my CV"
)

type fixture struct {
	ws       *Workspace
	gen      *testutil.StubGenerator
	store    *store.MemoryStore
	clock    *testutil.StubClock
	profiles *profiles.Repository
	history  *history.Repository
	drafts   *draft.Manager
}

func newFixture(t *testing.T, opts Options, results ...testutil.StubResult) *fixture {
	t.Helper()
	s := testutil.NewMemoryStore()
	clk := testutil.FixedClock()
	ids := testutil.NewStubIDGenerator()
	logger := logging.NewNop()

	f := &fixture{
		gen:      testutil.NewStubGenerator(results...),
		store:    s,
		clock:    clk,
		profiles: profiles.NewRepository(s, ids, logger),
		history:  history.NewRepository(s, clk, ids, logger),
		drafts:   draft.NewManager(s, clk, logger),
	}
	f.ws = New(Deps{
		Generator: f.gen,
		Profiles:  f.profiles,
		History:   f.history,
		Drafts:    f.drafts,
		Clock:     clk,
		IDs:       ids,
		Logger:    logger,
	}, opts)
	return f
}

func (f *fixture) withJob(t *testing.T) {
	t.Helper()
	_, err := f.ws.SetJobDescription(context.Background(), acmeJob)
	require.NoError(t, err)
}

func (f *fixture) storedDraft(t *testing.T) *types.WorkspaceDraft {
	t.Helper()
	d, err := f.drafts.Load(context.Background())
	require.NoError(t, err)
	return d
}

func TestSend_Success(t *testing.T) {
	ctx := context.Background()
	content := testutil.SampleContent("Acme", "Here is a tailored first version.")
	f := newFixture(t, Options{}, testutil.Succeed(content))
	f.withJob(t)

	snap, err := f.ws.Send(ctx, buildMyCV)
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, snap.Status)
	assert.False(t, snap.Pending)
	assert.Equal(t, content, snap.GeneratedData)
	require.Len(t, snap.ChatHistory, 2)
	assert.Equal(t, types.RoleUser, snap.ChatHistory[0].Role)
	assert.Equal(t, buildMyCV, snap.ChatHistory[0].Text)
	assert.Equal(t, types.RoleAI, snap.ChatHistory[1].Role)
	assert.Equal(t, "Here is a tailored first version.", snap.ChatHistory[1].Text)
	assert.Equal(t, 1, f.gen.Calls())
}

func TestSend_Failure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{}, testutil.Fail(errors.New("quota exceeded")))
	f.withJob(t)

	snap, err := f.ws.Send(ctx, buildMyCV)
	require.NoError(t, err, "generation failures are folded into the transcript")

	assert.Equal(t, StatusError, snap.Status)
	assert.Nil(t, snap.GeneratedData)
	require.Len(t, snap.ChatHistory, 2)
	assert.Equal(t, types.RoleUser, snap.ChatHistory[0].Role)
	assert.Equal(t, types.RoleAI, snap.ChatHistory[1].Role)
	assert.Equal(t, FailureReply, snap.ChatHistory[1].Text)
}

func TestSend_FailureKeepsPreviousArtifact(t *testing.T) {
	ctx := context.Background()
	first := testutil.SampleContent("Acme", "v1")
	f := newFixture(t, Options{}, testutil.Succeed(first), testutil.Fail(nil))
	f.withJob(t)

	_, err := f.ws.Send(ctx, buildMyCV)
	require.NoError(t, err)
	snap, err := f.ws.Send(ctx, "Make it shorter")
	require.NoError(t, err)

	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, first, snap.GeneratedData)
	assert.Len(t, snap.ChatHistory, 4)
}

func TestSend_FallbackReply(t *testing.T) {
	f := newFixture(t, Options{}, testutil.Succeed(testutil.SampleContent("Acme", "")))
	f.withJob(t)

	snap, err := f.ws.Send(context.Background(), buildMyCV)
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, snap.ChatHistory[1].Text)
}

func TestSend_RequestCarriesInputs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{Language: types.LanguageEnglish},
		testutil.Succeed(testutil.SampleContent("Acme", "v1")),
		testutil.Succeed(testutil.SampleContent("Acme", "v2")))
	require.NoError(t, f.profiles.Update(ctx, types.Profile{ID: profiles.DefaultProfileID, Name: "Main", CV: "Go, SQL", Letter: "Hello"}))
	f.withJob(t)

	_, err := f.ws.Send(ctx, buildMyCV)
	require.NoError(t, err)
	_, err = f.ws.Send(ctx, "Use a serif font")
	require.NoError(t, err)

	reqs := f.gen.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, acmeJob, reqs[0].JobDescription)
	assert.Nil(t, reqs[0].Previous)
	assert.Equal(t, "Go, SQL", reqs[0].MasterCV)
	assert.Equal(t, "Hello", reqs[0].MasterLetter)
	assert.Equal(t, types.LanguageEnglish, reqs[0].Language)
	require.NotNil(t, reqs[1].Previous)
	assert.Equal(t, "v1", reqs[1].Previous.Design.Rationale)
	assert.Equal(t, "Use a serif font", reqs[1].Message)
}

func TestSend_BlankJobDescriptionIsNoOp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{}, testutil.Succeed(testutil.SampleContent("Acme", "")))

	_, err := f.ws.SetJobDescription(ctx, "   ")
	require.NoError(t, err)

	snap, err := f.ws.Send(ctx, buildMyCV)
	require.NoError(t, err)
	assert.Empty(t, snap.ChatHistory)
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Zero(t, f.gen.Calls())
}

func TestSend_BlankMessageIsNoOp(t *testing.T) {
	f := newFixture(t, Options{})
	f.withJob(t)

	snap, err := f.ws.Send(context.Background(), " \n")
	require.NoError(t, err)
	assert.Empty(t, snap.ChatHistory)
	assert.Zero(t, f.gen.Calls())
}

func TestSend_PendingState(t *testing.T) {
	ctx := context.Background()
	content := testutil.SampleContent("Acme", "done")
	f := newFixture(t, Options{}, testutil.Succeed(content))
	f.gen.Block = true
	f.withJob(t)

	done := make(chan Snapshot, 1)
	go func() {
		snap, _ := f.ws.Send(ctx, buildMyCV)
		done <- snap
	}()

	select {
	case <-f.gen.Started:
	case <-time.After(5 * time.Second):
		t.Fatal("generator was never called")
	}

	pending := f.ws.Snapshot()
	assert.Equal(t, StatusGenerating, pending.Status)
	assert.True(t, pending.Pending)
	assert.True(t, pending.Locked)
	require.Len(t, pending.ChatHistory, 1)
	assert.Equal(t, types.RoleUser, pending.ChatHistory[0].Role)
	assert.Nil(t, pending.GeneratedData)

	_, err := f.ws.Begin(ctx, "double click")
	assert.ErrorIs(t, err, ErrGenerationInFlight)

	close(f.gen.Release)
	final := <-done
	assert.Equal(t, StatusSuccess, final.Status)
	assert.Len(t, final.ChatHistory, 2)
}

func TestBeginComplete_TwoPhase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	f.withJob(t)

	turn, err := f.ws.Begin(ctx, buildMyCV)
	require.NoError(t, err)
	require.NotNil(t, turn)
	assert.Equal(t, buildMyCV, turn.Message.Text)
	assert.True(t, turn.Request.IsInitial())

	mid := f.ws.Snapshot()
	assert.True(t, mid.Pending)
	assert.Equal(t, StatusGenerating, mid.Status)

	content := testutil.SampleContent("Acme", "ok")
	snap, err := f.ws.Complete(ctx, turn, content, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.Equal(t, content, snap.GeneratedData)

	_, err = f.ws.Complete(ctx, turn, content, nil)
	assert.ErrorIs(t, err, ErrStaleTurn, "a turn resolves once")
}

func TestComplete_StaleAfterReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	f.withJob(t)

	turn, err := f.ws.Begin(ctx, buildMyCV)
	require.NoError(t, err)

	_, err = f.ws.Reset(ctx, true)
	require.NoError(t, err)

	snap, err := f.ws.Complete(ctx, turn, testutil.SampleContent("Acme", "late"), nil)
	assert.ErrorIs(t, err, ErrStaleTurn)
	assert.Nil(t, snap.GeneratedData)
	assert.Empty(t, snap.ChatHistory)
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Nil(t, f.storedDraft(t), "stale result must not resurrect the draft")
}

func TestComplete_NilResultIsFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})
	f.withJob(t)

	turn, err := f.ws.Begin(ctx, buildMyCV)
	require.NoError(t, err)
	snap, err := f.ws.Complete(ctx, turn, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusError, snap.Status)
}

func TestSend_Timeout(t *testing.T) {
	f := newFixture(t, Options{GenerationTimeout: 20 * time.Millisecond}, testutil.Succeed(testutil.SampleContent("Acme", "")))
	f.gen.Block = true
	f.withJob(t)

	snap, err := f.ws.Send(context.Background(), buildMyCV)
	require.NoError(t, err)
	assert.Equal(t, StatusError, snap.Status)
	assert.False(t, snap.Pending)
	assert.Nil(t, snap.GeneratedData)
}

func TestSetJobDescription_LockedAfterFirstTurn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{}, testutil.Fail(nil))
	f.withJob(t)

	_, err := f.ws.Send(ctx, buildMyCV)
	require.NoError(t, err)

	snap, err := f.ws.SetJobDescription(ctx, "Something else")
	assert.ErrorIs(t, err, ErrJobDescriptionLocked)
	assert.Equal(t, acmeJob, snap.JobDescription)
}

func TestApplyDesignPatch(t *testing.T) {
	ctx := context.Background()
	content := testutil.SampleContent("Acme", "v1")
	f := newFixture(t, Options{}, testutil.Succeed(content))
	f.withJob(t)

	before, err := f.ws.Send(ctx, buildMyCV)
	require.NoError(t, err)

	after, err := f.ws.ApplyDesignPatch(ctx, types.DesignSettings{
		Layout: types.LayoutClassic,
		Color:  types.ColorBlue,
		Font:   types.FontSerif,
	})
	require.NoError(t, err)

	require.NotNil(t, after.GeneratedData)
	assert.Equal(t, types.LayoutClassic, after.GeneratedData.Design.Layout)
	assert.Equal(t, types.ColorBlue, after.GeneratedData.Design.Color)
	assert.Equal(t, types.FontSerif, after.GeneratedData.Design.Font)
	assert.Equal(t, before.GeneratedData.CV, after.GeneratedData.CV)
	assert.Equal(t, before.GeneratedData.CoverLetter, after.GeneratedData.CoverLetter)
	assert.Equal(t, before.GeneratedData.Analysis, after.GeneratedData.Analysis)
	assert.Equal(t, before.GeneratedData.Ats, after.GeneratedData.Ats)
	assert.Equal(t, before.ChatHistory, after.ChatHistory)
	assert.Equal(t, 1, f.gen.Calls())

	d := f.storedDraft(t)
	require.NotNil(t, d)
	assert.Equal(t, types.LayoutClassic, d.GeneratedData.Design.Layout)
}

func TestApplyDesignPatch_NoArtifactIsNoOp(t *testing.T) {
	f := newFixture(t, Options{})

	snap, err := f.ws.ApplyDesignPatch(context.Background(), types.DesignSettings{Layout: "classic", Color: "blue", Font: "serif"})
	require.NoError(t, err)
	assert.Nil(t, snap.GeneratedData)
}

func TestApplyDesignPatch_Invalid(t *testing.T) {
	f := newFixture(t, Options{})

	_, err := f.ws.ApplyDesignPatch(context.Background(), types.DesignSettings{Layout: "baroque", Color: "blue", Font: "serif"})
	assert.ErrorIs(t, err, ErrInvalidDesign)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{}, testutil.Succeed(testutil.SampleContent("Acme", "")))
	f.withJob(t)
	_, err := f.ws.Send(ctx, buildMyCV)
	require.NoError(t, err)

	snap, err := f.ws.Reset(ctx, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.NotNil(t, snap.GeneratedData)
	assert.NotNil(t, f.storedDraft(t))

	snap, err = f.ws.Reset(ctx, true)
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
	assert.Equal(t, StatusIdle, snap.Status)
	assert.False(t, snap.Locked)
	assert.Nil(t, f.storedDraft(t))
}

func TestAutosave(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{}, testutil.Succeed(testutil.SampleContent("Acme", "v1")))

	assert.Nil(t, f.storedDraft(t), "empty workspace is never persisted")

	f.withJob(t)
	d := f.storedDraft(t)
	require.NotNil(t, d)
	assert.Equal(t, acmeJob, d.JobDescription)
	assert.Empty(t, d.ChatHistory)

	_, err := f.ws.Send(ctx, buildMyCV)
	require.NoError(t, err)
	d = f.storedDraft(t)
	require.NotNil(t, d)
	assert.Len(t, d.ChatHistory, 2)
	require.NotNil(t, d.GeneratedData)
	assert.Equal(t, "v1", d.GeneratedData.Design.Rationale)
}

func TestAutosave_TimestampsMatchAfterReload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{}, testutil.Succeed(testutil.SampleContent("Acme", "v1")))
	f.clock.Set(time.Date(2024, 1, 15, 11, 30, 0, 123456789, time.FixedZone("CET", 3600)))
	f.withJob(t)

	snap, err := f.ws.Send(ctx, buildMyCV)
	require.NoError(t, err)
	require.Len(t, snap.ChatHistory, 2)
	assert.Equal(t, time.UTC, snap.ChatHistory[0].Timestamp.Location())
	assert.Equal(t, 123000000, snap.ChatHistory[0].Timestamp.Nanosecond())

	d := f.storedDraft(t)
	require.NotNil(t, d)
	assert.Equal(t, snap.ChatHistory, d.ChatHistory)
}

func TestAutosave_OlderRevisionNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})

	_, err := f.ws.SetJobDescription(ctx, "first")
	require.NoError(t, err)
	old := f.ws.Snapshot()

	_, err = f.ws.SetJobDescription(ctx, "second")
	require.NoError(t, err)

	f.ws.autosave(ctx, old)
	assert.Equal(t, "second", f.storedDraft(t).JobDescription)
}

func TestAutosave_FailureIsNotSurfaced(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{}, testutil.Succeed(testutil.SampleContent("Acme", "")))
	_, err := f.profiles.List(ctx)
	require.NoError(t, err)
	f.store.FailWrites(true)

	f.withJob(t)
	snap, err := f.ws.Send(ctx, buildMyCV)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, snap.Status)
}

func TestAutosave_Disabled(t *testing.T) {
	f := newFixture(t, Options{DisableAutosave: true})
	f.withJob(t)
	assert.Nil(t, f.storedDraft(t))
}

func TestSaveToHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{}, testutil.Succeed(testutil.SampleContent("Acme", "")))

	_, _, err := f.ws.SaveToHistory(ctx)
	assert.ErrorIs(t, err, ErrNoArtifact)

	f.withJob(t)
	_, err = f.ws.Send(ctx, buildMyCV)
	require.NoError(t, err)

	app, apps, err := f.ws.SaveToHistory(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, app.ID, apps[0].ID)
	assert.Equal(t, profiles.DefaultProfileID, app.ProfileUsedID)
	assert.Equal(t, acmeJob, app.JobDescription)
	assert.Equal(t, types.StatusTodo, app.Status)
	assert.Len(t, app.ChatHistory, 2)
	assert.Equal(t, "Acme", app.GeneratedContent.Analysis.CompanyName)
}

func TestLoadApplication(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})

	saved, _, err := f.history.Save(ctx, types.NewApplication{
		ProfileUsedID:    profiles.DefaultProfileID,
		JobDescription:   "Staff Engineer at Globex",
		ChatHistory:      []types.ChatMessage{{ID: "m1", Role: types.RoleUser, Text: "go"}, {ID: "m2", Role: types.RoleAI, Text: "ok"}},
		GeneratedContent: *testutil.SampleContent("Globex", "ok"),
	})
	require.NoError(t, err)

	f.withJob(t)
	snap, err := f.ws.LoadApplication(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.Equal(t, "Staff Engineer at Globex", snap.JobDescription)
	assert.Len(t, snap.ChatHistory, 2)
	assert.Equal(t, "Globex", snap.GeneratedData.Analysis.CompanyName)
	assert.True(t, snap.Locked)

	assert.Equal(t, "Staff Engineer at Globex", f.storedDraft(t).JobDescription)

	_, err = f.ws.LoadApplication(ctx, "ghost")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestRestore(t *testing.T) {
	f := newFixture(t, Options{})

	snap := f.ws.Restore(&types.WorkspaceDraft{
		JobDescription: acmeJob,
		ChatHistory:    []types.ChatMessage{{ID: "m1", Role: types.RoleUser, Text: buildMyCV}},
		GeneratedData:  testutil.SampleContent("Acme", ""),
	})
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.Equal(t, acmeJob, snap.JobDescription)

	snap = f.ws.Restore(&types.WorkspaceDraft{JobDescription: "only a job"})
	assert.Equal(t, StatusIdle, snap.Status)
	assert.NotNil(t, snap.ChatHistory)
}
