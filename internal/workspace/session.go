package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-assistant/internal/clock"
	"github.com/jonathan/resume-assistant/internal/draft"
	"github.com/jonathan/resume-assistant/internal/history"
	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/logging"
	"github.com/jonathan/resume-assistant/internal/profiles"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/types"
)

// View is the screen a session starts on.
type View string

// View constants
const (
	ViewWorkspace View = "workspace"
	ViewProfile   View = "profile"
)

// ErrProfileNotFound is returned when selecting an unknown profile.
var ErrProfileNotFound = errors.New("profile not found")

// Config wires a Session.
type Config struct {
	Store     store.Store
	Namespace string
	Generator llm.Generator
	Clock     clock.Clock
	IDs       clock.IDGenerator
	Logger    logging.Logger

	TrashTTL          time.Duration
	GenerationTimeout time.Duration
	DisableAutosave   bool
	Language          types.Language
}

// Session is one user's workspace together with the repositories it reads
// and writes. All singleton records of a session live under its namespace.
type Session struct {
	Namespace string
	Profiles  *profiles.Repository
	History   *history.Repository
	Drafts    *draft.Manager
	Workspace *Workspace

	logger      logging.Logger
	initialView View
	purged      int
}

// State is everything a client needs to render a session.
type State struct {
	Profiles        []types.Profile                 `json:"profiles"`
	ActiveProfileID string                          `json:"activeProfileId"`
	Applications    []types.SavedApplication        `json:"applications"`
	Counts          map[types.ApplicationStatus]int `json:"counts"`
	Workspace       Snapshot                        `json:"workspace"`
}

// Open bootstraps a session: it ensures the profile list exists, expires old
// trash, restores the workspace draft and picks the initial view.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	if cfg.IDs == nil {
		cfg.IDs = clock.UUIDGenerator{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.Namespace != "" {
		logger = logger.With("namespace", cfg.Namespace)
	}

	st := store.Namespace(cfg.Store, cfg.Namespace)
	s := &Session{
		Namespace: cfg.Namespace,
		Profiles:  profiles.NewRepository(st, cfg.IDs, logger),
		History:   history.NewRepository(st, cfg.Clock, cfg.IDs, logger, history.WithTrashTTL(cfg.TrashTTL)),
		Drafts:    draft.NewManager(st, cfg.Clock, logger),
		logger:    logger,
	}
	s.Workspace = New(Deps{
		Generator: cfg.Generator,
		Profiles:  s.Profiles,
		History:   s.History,
		Drafts:    s.Drafts,
		Clock:     cfg.Clock,
		IDs:       cfg.IDs,
		Logger:    logger,
	}, Options{
		GenerationTimeout: cfg.GenerationTimeout,
		DisableAutosave:   cfg.DisableAutosave,
		Language:          cfg.Language,
	})

	var (
		active *types.Profile
		saved  *types.WorkspaceDraft
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		id, err := s.Profiles.ActiveID(gctx)
		if err != nil {
			return err
		}
		active, err = s.Profiles.Get(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		_, s.purged, err = s.History.CleanupTrash(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		saved, err = s.Drafts.Load(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	snap := s.Workspace.Restore(saved)
	switch {
	case snap.GeneratedData != nil:
		s.initialView = ViewWorkspace
	case active != nil && active.HasCV():
		s.initialView = ViewWorkspace
	default:
		s.initialView = ViewProfile
	}

	logger.Info(ctx, "session opened",
		"view", s.initialView,
		"draft_restored", saved != nil,
		"trash_purged", s.purged)
	return s, nil
}

// InitialView is the view chosen when the session was opened.
func (s *Session) InitialView() View {
	return s.initialView
}

// PurgedOnOpen is the number of expired trash records removed by Open.
func (s *Session) PurgedOnOpen() int {
	return s.purged
}

// State collects profiles, history and the workspace snapshot.
func (s *Session) State(ctx context.Context) (State, error) {
	list, err := s.Profiles.List(ctx)
	if err != nil {
		return State{}, err
	}
	activeID, err := s.Profiles.ActiveID(ctx)
	if err != nil {
		return State{}, err
	}
	apps, err := s.History.List(ctx)
	if err != nil {
		return State{}, err
	}
	counts, err := s.History.Counts(ctx)
	if err != nil {
		return State{}, err
	}
	return State{
		Profiles:        list,
		ActiveProfileID: activeID,
		Applications:    apps,
		Counts:          counts,
		Workspace:       s.Workspace.Snapshot(),
	}, nil
}

// ActiveProfile returns the profile the active pointer resolves to.
func (s *Session) ActiveProfile(ctx context.Context) (types.Profile, error) {
	id, err := s.Profiles.ActiveID(ctx)
	if err != nil {
		return types.Profile{}, err
	}
	p, err := s.Profiles.Get(ctx, id)
	if err != nil {
		return types.Profile{}, err
	}
	if p == nil {
		return types.Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return *p, nil
}

// SelectProfile makes id the active profile.
func (s *Session) SelectProfile(ctx context.Context, id string) error {
	p, err := s.Profiles.Get(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return s.Profiles.SetActiveID(ctx, id)
}

// CreateProfile adds a profile and makes it active.
func (s *Session) CreateProfile(ctx context.Context, name string) (types.Profile, error) {
	p, err := s.Profiles.Create(ctx, name)
	if err != nil {
		return types.Profile{}, err
	}
	if err := s.Profiles.SetActiveID(ctx, p.ID); err != nil {
		return p, err
	}
	return p, nil
}

// DeleteProfile removes a profile and, when it was active, moves the active
// pointer to the first remaining profile. It returns the remaining profiles
// and the resulting active id.
func (s *Session) DeleteProfile(ctx context.Context, id string) ([]types.Profile, string, error) {
	activeID, err := s.Profiles.ActiveID(ctx)
	if err != nil {
		return nil, "", err
	}

	remaining, err := s.Profiles.Delete(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if id == activeID {
		for _, p := range remaining {
			if p.ID == id {
				// Deletion was refused; the profile is still there.
				return remaining, activeID, nil
			}
		}
		activeID = remaining[0].ID
		if err := s.Profiles.SetActiveID(ctx, activeID); err != nil {
			return remaining, activeID, err
		}
	}
	return remaining, activeID, nil
}
