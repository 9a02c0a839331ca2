// Package workspace owns the in-progress job application: its job
// description, chat transcript and generated document, and the turn loop that
// sends one request per user message to the content generator.
//
// A turn is two explicit steps. Begin appends the user message and marks the
// workspace as generating; Complete folds the generator outcome back in. Each
// Begin, Reset and LoadApplication advances a generation epoch, and a Complete
// carrying an older epoch is discarded. Every change is mirrored to the draft
// store while the workspace holds any content.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/resume-assistant/internal/clock"
	"github.com/jonathan/resume-assistant/internal/draft"
	"github.com/jonathan/resume-assistant/internal/history"
	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/logging"
	"github.com/jonathan/resume-assistant/internal/profiles"
	"github.com/jonathan/resume-assistant/internal/types"
)

// Status is the generation state shown next to the transcript.
type Status string

// Status constants
const (
	StatusIdle       Status = "idle"
	StatusGenerating Status = "generating"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// Replies appended to the transcript when the generator gives no rationale
// or fails.
const (
	FallbackReply = "Changes applied."
	FailureReply  = "Sorry, something went wrong. Please try again."
)

var (
	// ErrGenerationInFlight is returned by Begin while a turn is pending.
	ErrGenerationInFlight = errors.New("a generation is already in progress")
	// ErrJobDescriptionLocked is returned when editing the job description
	// after the first chat turn.
	ErrJobDescriptionLocked = errors.New("job description is locked once the chat has started")
	// ErrConfirmationRequired is returned by Reset without confirmation.
	ErrConfirmationRequired = errors.New("reset requires confirmation")
	// ErrNoArtifact is returned when an operation needs generated content.
	ErrNoArtifact = errors.New("workspace has no generated content")
	// ErrStaleTurn is returned by Complete for a turn superseded by a newer
	// epoch. Its outcome was discarded.
	ErrStaleTurn = errors.New("generation result is stale")
	// ErrApplicationNotFound is returned by LoadApplication for unknown ids.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrInvalidDesign wraps design validation failures.
	ErrInvalidDesign = errors.New("invalid design settings")
	// ErrNoActiveProfile is returned when the active profile cannot be read.
	ErrNoActiveProfile = errors.New("no active profile")
)

// Snapshot is a copy of the workspace state at one revision.
type Snapshot struct {
	JobDescription string                  `json:"jobDescription"`
	ChatHistory    []types.ChatMessage     `json:"chatHistory"`
	GeneratedData  *types.GeneratedContent `json:"generatedData"`
	Status         Status                  `json:"status"`
	Pending        bool                    `json:"pending"`
	Locked         bool                    `json:"jobDescriptionLocked"`
	Language       types.Language          `json:"language"`
	Revision       uint64                  `json:"revision"`
}

// IsEmpty reports whether none of the persisted content fields carries data.
func (s *Snapshot) IsEmpty() bool {
	return s.JobDescription == "" && len(s.ChatHistory) == 0 && s.GeneratedData == nil
}

// Turn is a pending generation started by Begin.
type Turn struct {
	epoch   uint64
	Message types.ChatMessage
	Request llm.GenerateRequest
}

// Epoch returns the generation epoch the turn belongs to.
func (t *Turn) Epoch() uint64 {
	return t.epoch
}

// Deps are the collaborators of a Workspace.
type Deps struct {
	Generator llm.Generator
	Profiles  *profiles.Repository
	History   *history.Repository
	Drafts    *draft.Manager
	Clock     clock.Clock
	IDs       clock.IDGenerator
	Logger    logging.Logger
}

// Options tune a Workspace.
type Options struct {
	// GenerationTimeout bounds one generator call. Zero means no bound.
	GenerationTimeout time.Duration
	// DisableAutosave turns off draft mirroring.
	DisableAutosave bool
	Language        types.Language
}

// Workspace is safe for concurrent use.
type Workspace struct {
	deps Deps
	opts Options

	mu             sync.Mutex
	jobDescription string
	chat           []types.ChatMessage
	generated      *types.GeneratedContent
	status         Status
	pending        bool
	epoch          uint64
	revision       uint64
	language       types.Language

	// saveMu orders draft writes; savedRevision is the newest revision
	// mirrored to (or cleared from) the draft store.
	saveMu        sync.Mutex
	savedRevision uint64
}

// New creates an empty Workspace.
func New(deps Deps, opts Options) *Workspace {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = clock.RealClock{}
	}
	if deps.IDs == nil {
		deps.IDs = clock.UUIDGenerator{}
	}
	lang, ok := types.ParseLanguage(string(opts.Language))
	if !ok {
		lang = types.LanguageFrench
	}
	return &Workspace{
		deps:     deps,
		opts:     opts,
		status:   StatusIdle,
		language: lang,
		chat:     []types.ChatMessage{},
	}
}

// snapshotLocked copies the state. Callers hold w.mu.
func (w *Workspace) snapshotLocked() Snapshot {
	return Snapshot{
		JobDescription: w.jobDescription,
		ChatHistory:    types.CloneMessages(w.chat),
		GeneratedData:  w.generated.Clone(),
		Status:         w.status,
		Pending:        w.pending,
		Locked:         len(w.chat) > 0,
		Language:       w.language,
		Revision:       w.revision,
	}
}

// Snapshot returns the current state.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Language returns the output language passed to the generator.
func (w *Workspace) Language() types.Language {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.language
}

// SetLanguage changes the output language of later turns.
func (w *Workspace) SetLanguage(lang types.Language) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.language = lang
}

// Restore loads a persisted draft into an idle workspace. The status is
// success when the draft carries generated content.
func (w *Workspace) Restore(d *types.WorkspaceDraft) Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	if d == nil {
		return w.snapshotLocked()
	}
	w.jobDescription = d.JobDescription
	w.chat = types.CloneMessages(d.ChatHistory)
	w.generated = d.GeneratedData.Clone()
	w.status = StatusIdle
	if w.generated != nil {
		w.status = StatusSuccess
	}
	w.pending = false
	w.epoch++
	w.revision++

	w.saveMu.Lock()
	w.savedRevision = w.revision
	w.saveMu.Unlock()

	return w.snapshotLocked()
}

// SetJobDescription edits the job description. It is refused once the
// transcript has started.
func (w *Workspace) SetJobDescription(ctx context.Context, jobDescription string) (Snapshot, error) {
	w.mu.Lock()
	if len(w.chat) > 0 {
		snap := w.snapshotLocked()
		w.mu.Unlock()
		return snap, ErrJobDescriptionLocked
	}
	if w.jobDescription == jobDescription {
		snap := w.snapshotLocked()
		w.mu.Unlock()
		return snap, nil
	}
	w.jobDescription = jobDescription
	w.revision++
	snap := w.snapshotLocked()
	w.mu.Unlock()

	w.autosave(ctx, snap)
	return snap, nil
}

// activeProfile resolves the profile whose CV and letter feed the generator.
func (w *Workspace) activeProfile(ctx context.Context) (*types.Profile, error) {
	id, err := w.deps.Profiles.ActiveID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoActiveProfile, err)
	}
	p, err := w.deps.Profiles.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoActiveProfile, err)
	}
	if p == nil {
		return nil, ErrNoActiveProfile
	}
	return p, nil
}

// Begin starts a turn: the user message is appended and the workspace is
// marked as generating. It returns a nil Turn without error when the job
// description or the message is blank.
func (w *Workspace) Begin(ctx context.Context, text string) (*Turn, error) {
	w.mu.Lock()
	pending := w.pending
	blank := strings.TrimSpace(w.jobDescription) == "" || strings.TrimSpace(text) == ""
	w.mu.Unlock()

	if pending {
		return nil, ErrGenerationInFlight
	}
	if blank {
		return nil, nil
	}

	profile, err := w.activeProfile(ctx)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	// Re-check under the lock; another Begin may have won the race.
	if w.pending {
		w.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	if strings.TrimSpace(w.jobDescription) == "" {
		w.mu.Unlock()
		return nil, nil
	}

	msg := types.ChatMessage{
		ID:        w.deps.IDs.New(),
		Role:      types.RoleUser,
		Text:      text,
		Timestamp: clock.Stamp(w.deps.Clock),
	}
	w.chat = append(w.chat, msg)
	w.status = StatusGenerating
	w.pending = true
	w.epoch++
	w.revision++

	turn := &Turn{
		epoch:   w.epoch,
		Message: msg,
		Request: llm.GenerateRequest{
			JobDescription: w.jobDescription,
			Previous:       w.generated.Clone(),
			Message:        text,
			MasterCV:       profile.CV,
			MasterLetter:   profile.Letter,
			Language:       w.language,
		},
	}
	snap := w.snapshotLocked()
	w.mu.Unlock()

	w.autosave(ctx, snap)
	return turn, nil
}

// Complete resolves a turn. On success the generated document is replaced
// and the rationale is appended as the ai reply; on failure the previous
// document is kept and a fixed failure reply is appended. A turn from an
// older epoch is discarded with ErrStaleTurn.
func (w *Workspace) Complete(ctx context.Context, turn *Turn, result *types.GeneratedContent, genErr error) (Snapshot, error) {
	if turn == nil {
		return w.Snapshot(), nil
	}
	if genErr == nil && result == nil {
		genErr = llm.ErrEmptyResponse
	}

	w.mu.Lock()
	if turn.epoch != w.epoch || !w.pending {
		current := w.epoch
		snap := w.snapshotLocked()
		w.mu.Unlock()
		w.deps.Logger.Warn(ctx, "discarding stale generation result", "turn_epoch", turn.epoch, "current_epoch", current)
		return snap, ErrStaleTurn
	}

	reply := types.ChatMessage{
		ID:        w.deps.IDs.New(),
		Role:      types.RoleAI,
		Timestamp: clock.Stamp(w.deps.Clock),
	}
	if genErr != nil {
		w.status = StatusError
		reply.Text = FailureReply
	} else {
		w.generated = result.Clone()
		w.status = StatusSuccess
		reply.Text = result.Design.Rationale
		if strings.TrimSpace(reply.Text) == "" {
			reply.Text = FallbackReply
		}
	}
	w.chat = append(w.chat, reply)
	w.pending = false
	w.revision++
	snap := w.snapshotLocked()
	w.mu.Unlock()

	if genErr != nil {
		w.deps.Logger.Error(ctx, "generation failed", "epoch", turn.epoch, "error", genErr)
	}
	w.autosave(ctx, snap)
	return snap, nil
}

// Send runs a full turn: Begin, one generator call bounded by the configured
// timeout, then Complete. Generator failures are folded into the transcript
// and are not returned as errors.
func (w *Workspace) Send(ctx context.Context, text string) (Snapshot, error) {
	turn, err := w.Begin(ctx, text)
	if err != nil {
		return w.Snapshot(), err
	}
	if turn == nil {
		return w.Snapshot(), nil
	}

	result, genErr := w.Generate(ctx, turn)
	return w.Complete(ctx, turn, result, genErr)
}

// Generate performs the generator call of turn without touching workspace
// state.
func (w *Workspace) Generate(ctx context.Context, turn *Turn) (*types.GeneratedContent, error) {
	if w.opts.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.opts.GenerationTimeout)
		defer cancel()
	}

	start := w.deps.Clock.Now()
	result, err := w.deps.Generator.Generate(ctx, turn.Request)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	w.deps.Logger.Debug(ctx, "generator call finished",
		"epoch", turn.epoch,
		"initial", turn.Request.IsInitial(),
		"elapsed", w.deps.Clock.Now().Sub(start),
		"ok", err == nil)
	return result, err
}

// ApplyDesignPatch replaces the design of the current document without a
// generator call or chat message. An empty rationale keeps the current one.
// Without a document it is a no-op.
func (w *Workspace) ApplyDesignPatch(ctx context.Context, design types.DesignSettings) (Snapshot, error) {
	if err := design.Validate(); err != nil {
		return w.Snapshot(), fmt.Errorf("%w: %v", ErrInvalidDesign, err)
	}

	w.mu.Lock()
	if w.generated == nil {
		snap := w.snapshotLocked()
		w.mu.Unlock()
		return snap, nil
	}
	if design.Rationale == "" {
		design.Rationale = w.generated.Design.Rationale
	}
	if w.generated.Design == design {
		snap := w.snapshotLocked()
		w.mu.Unlock()
		return snap, nil
	}
	next := w.generated.Clone()
	next.Design = design
	w.generated = next
	w.revision++
	snap := w.snapshotLocked()
	w.mu.Unlock()

	w.autosave(ctx, snap)
	return snap, nil
}

// Reset clears the workspace and the persisted draft. Any pending turn
// becomes stale. It is refused unless confirmed.
func (w *Workspace) Reset(ctx context.Context, confirmed bool) (Snapshot, error) {
	if !confirmed {
		return w.Snapshot(), ErrConfirmationRequired
	}

	w.mu.Lock()
	w.jobDescription = ""
	w.chat = []types.ChatMessage{}
	w.generated = nil
	w.status = StatusIdle
	w.pending = false
	w.epoch++
	w.revision++
	snap := w.snapshotLocked()

	// saveMu is taken before mu is released so no older snapshot lands
	// after the clear.
	w.saveMu.Lock()
	w.mu.Unlock()
	defer w.saveMu.Unlock()

	w.savedRevision = snap.Revision
	if w.deps.Drafts != nil {
		if err := w.deps.Drafts.Clear(context.WithoutCancel(ctx)); err != nil {
			return snap, err
		}
	}
	w.deps.Logger.Info(ctx, "workspace reset")
	return snap, nil
}

// SaveToHistory stores the current document as a new application for the
// active profile.
func (w *Workspace) SaveToHistory(ctx context.Context) (types.SavedApplication, []types.SavedApplication, error) {
	snap := w.Snapshot()
	if snap.GeneratedData == nil {
		return types.SavedApplication{}, nil, ErrNoArtifact
	}

	profileID, err := w.deps.Profiles.ActiveID(ctx)
	if err != nil {
		return types.SavedApplication{}, nil, err
	}

	app, apps, err := w.deps.History.Save(ctx, types.NewApplication{
		ProfileUsedID:    profileID,
		JobDescription:   snap.JobDescription,
		ChatHistory:      snap.ChatHistory,
		GeneratedContent: *snap.GeneratedData,
		Status:           types.StatusTodo,
	})
	if err != nil {
		return types.SavedApplication{}, nil, err
	}
	w.deps.Logger.Info(ctx, "saved application to history", "id", app.ID, "profile", profileID)
	return app, apps, nil
}

// LoadApplication replaces the workspace with a saved application. Any
// pending turn becomes stale.
func (w *Workspace) LoadApplication(ctx context.Context, id string) (Snapshot, error) {
	app, err := w.deps.History.Get(ctx, id)
	if err != nil {
		return w.Snapshot(), err
	}
	if app == nil {
		return w.Snapshot(), fmt.Errorf("%w: %s", ErrApplicationNotFound, id)
	}

	w.mu.Lock()
	w.jobDescription = app.JobDescription
	w.chat = types.CloneMessages(app.ChatHistory)
	w.generated = app.GeneratedContent.Clone()
	w.status = StatusSuccess
	w.pending = false
	w.epoch++
	w.revision++
	snap := w.snapshotLocked()
	w.mu.Unlock()

	w.autosave(ctx, snap)
	return snap, nil
}

// autosave mirrors snap to the draft store. Empty snapshots and snapshots
// older than the last mirrored revision are skipped. Failures are logged.
func (w *Workspace) autosave(ctx context.Context, snap Snapshot) {
	if w.opts.DisableAutosave || w.deps.Drafts == nil || snap.IsEmpty() {
		return
	}

	w.saveMu.Lock()
	defer w.saveMu.Unlock()

	if snap.Revision <= w.savedRevision {
		return
	}
	if _, err := w.deps.Drafts.Save(context.WithoutCancel(ctx), snap.JobDescription, snap.ChatHistory, snap.GeneratedData); err != nil {
		w.deps.Logger.Error(ctx, "autosave failed", "revision", snap.Revision, "error", err)
		return
	}
	w.savedRevision = snap.Revision
}
