// Package history keeps the saved applications of a session and drives their
// lifecycle: the todo → applied → interview → offer → rejected board, soft
// deletion into the trash, restore, purge and time-based trash expiry.
//
// Every mutation returns the full updated list, newest first. Operations on
// unknown ids, or transitions that do not apply to a record's current state,
// return the list unchanged without writing.
package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/resume-assistant/internal/clock"
	"github.com/jonathan/resume-assistant/internal/logging"
	"github.com/jonathan/resume-assistant/internal/records"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/types"
)

// DefaultTrashTTL is how long a trashed application survives before
// CleanupTrash purges it.
const DefaultTrashTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidStatus is returned for statuses a caller may not set directly.
	ErrInvalidStatus = errors.New("invalid application status")
	// ErrInvalidDirection is returned by Move for anything but next or prev.
	ErrInvalidDirection = errors.New("invalid move direction")
)

// Repository is the application history of one session. It is safe for
// concurrent use; each read-modify-write of the stored list runs under one
// lock.
type Repository struct {
	mu       sync.Mutex
	store    store.Store
	clock    clock.Clock
	ids      clock.IDGenerator
	logger   logging.Logger
	trashTTL time.Duration
}

// Option configures a Repository.
type Option func(*Repository)

// WithTrashTTL overrides DefaultTrashTTL.
func WithTrashTTL(ttl time.Duration) Option {
	return func(r *Repository) {
		if ttl > 0 {
			r.trashTTL = ttl
		}
	}
}

// NewRepository creates a Repository over s.
func NewRepository(s store.Store, clk clock.Clock, ids clock.IDGenerator, logger logging.Logger, opts ...Option) *Repository {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Repository{
		store:    s,
		clock:    clk,
		ids:      ids,
		logger:   logger,
		trashTTL: DefaultTrashTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TrashTTL returns the configured trash expiry.
func (r *Repository) TrashTTL() time.Duration {
	return r.trashTTL
}

// List returns every saved application, newest first.
func (r *Repository) List(ctx context.Context) ([]types.SavedApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(ctx)
}

func (r *Repository) list(ctx context.Context) ([]types.SavedApplication, error) {
	raw, err := r.store.Get(ctx, store.KeyApplications)
	if err != nil {
		return nil, fmt.Errorf("failed to read applications: %w", err)
	}
	if raw == nil {
		return []types.SavedApplication{}, nil
	}

	apps, repaired, err := records.DecodeApplications(raw)
	if err != nil {
		r.logger.Warn(ctx, "discarding unreadable applications", "key", store.KeyApplications, "error", err)
		return []types.SavedApplication{}, nil
	}
	if len(repaired) > 0 {
		r.logger.Warn(ctx, "defaulted unreadable generated content", "key", store.KeyApplications, "ids", repaired)
	}
	return apps, nil
}

func (r *Repository) save(ctx context.Context, apps []types.SavedApplication) error {
	raw, err := records.EncodeApplications(apps)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, store.KeyApplications, raw); err != nil {
		return fmt.Errorf("failed to save applications: %w", err)
	}
	return nil
}

// Get returns the application with id, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*types.SavedApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apps, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(apps, id); i >= 0 {
		return &apps[i], nil
	}
	return nil, nil
}

// Save stores a new application in front of the history.
func (r *Repository) Save(ctx context.Context, in types.NewApplication) (types.SavedApplication, []types.SavedApplication, error) {
	status := in.Status
	if status == "" {
		status = types.StatusTodo
	}
	if status.TrackIndex() < 0 {
		return types.SavedApplication{}, nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	apps, err := r.list(ctx)
	if err != nil {
		return types.SavedApplication{}, nil, err
	}

	app := types.SavedApplication{
		ID:               r.ids.New(),
		CreatedAt:        r.now(),
		ProfileUsedID:    in.ProfileUsedID,
		JobDescription:   in.JobDescription,
		ChatHistory:      types.CloneMessages(in.ChatHistory),
		GeneratedContent: *in.GeneratedContent.Clone(),
		Status:           status,
	}
	apps = append([]types.SavedApplication{app}, apps...)
	if err := r.save(ctx, apps); err != nil {
		return types.SavedApplication{}, nil, err
	}
	return app, apps, nil
}

// mutate applies fn to the application with id and persists the list when
// fn reports a change.
func (r *Repository) mutate(ctx context.Context, id string, fn func(app *types.SavedApplication) bool) ([]types.SavedApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apps, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(apps, id)
	if i < 0 || !fn(&apps[i]) {
		return apps, nil
	}
	if err := r.save(ctx, apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// Move shifts an application one step along the status track. It is a no-op
// past either end of the track and for trashed applications.
func (r *Repository) Move(ctx context.Context, id string, dir types.Direction) ([]types.SavedApplication, error) {
	var step int
	switch dir {
	case types.DirectionNext:
		step = 1
	case types.DirectionPrev:
		step = -1
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}

	return r.mutate(ctx, id, func(app *types.SavedApplication) bool {
		idx := app.Status.TrackIndex()
		if idx < 0 {
			return false
		}
		next := idx + step
		if next < 0 || next >= len(types.StatusTrack) {
			return false
		}
		app.Status = types.StatusTrack[next]
		return true
	})
}

// SetStatus places an application directly on a track status. Trashed
// applications are left alone; use Restore first.
func (r *Repository) SetStatus(ctx context.Context, id string, status types.ApplicationStatus) ([]types.SavedApplication, error) {
	if status.TrackIndex() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	return r.mutate(ctx, id, func(app *types.SavedApplication) bool {
		if app.IsTrashed() || app.Status == status {
			return false
		}
		app.Status = status
		return true
	})
}

// SoftDelete moves an application to the trash and stamps deletedAt.
func (r *Repository) SoftDelete(ctx context.Context, id string) ([]types.SavedApplication, error) {
	now := r.now()
	return r.mutate(ctx, id, func(app *types.SavedApplication) bool {
		if app.IsTrashed() {
			return false
		}
		app.Status = types.StatusTrash
		app.DeletedAt = &now
		return true
	})
}

// Restore brings a trashed application back to todo.
func (r *Repository) Restore(ctx context.Context, id string) ([]types.SavedApplication, error) {
	return r.mutate(ctx, id, func(app *types.SavedApplication) bool {
		if !app.IsTrashed() {
			return false
		}
		app.Status = types.StatusTodo
		app.DeletedAt = nil
		return true
	})
}

// Purge removes an application permanently, whatever its status.
func (r *Repository) Purge(ctx context.Context, id string) ([]types.SavedApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apps, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(apps, id)
	if i < 0 {
		return apps, nil
	}

	apps = append(apps[:i], apps[i+1:]...)
	if err := r.save(ctx, apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// CleanupTrash purges every trashed application whose deletedAt is more than
// the trash TTL in the past. Trashed applications without deletedAt are kept.
// It returns the updated list and the number of purged applications.
func (r *Repository) CleanupTrash(ctx context.Context) ([]types.SavedApplication, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apps, err := r.list(ctx)
	if err != nil {
		return nil, 0, err
	}

	now := r.now()
	kept := make([]types.SavedApplication, 0, len(apps))
	for _, app := range apps {
		if app.IsTrashed() && app.DeletedAt != nil && now.Sub(*app.DeletedAt) > r.trashTTL {
			continue
		}
		kept = append(kept, app)
	}

	purged := len(apps) - len(kept)
	if purged == 0 {
		return apps, 0, nil
	}
	if err := r.save(ctx, kept); err != nil {
		return nil, 0, err
	}
	r.logger.Info(ctx, "purged expired trash", "count", purged, "ttl", r.trashTTL)
	return kept, purged, nil
}

// Counts returns the number of applications per status.
func (r *Repository) Counts(ctx context.Context) (map[types.ApplicationStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apps, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[types.ApplicationStatus]int, len(types.StatusTrack)+1)
	for _, st := range types.StatusTrack {
		counts[st] = 0
	}
	counts[types.StatusTrash] = 0
	for _, app := range apps {
		counts[app.Status]++
	}
	return counts, nil
}

func (r *Repository) now() time.Time {
	return clock.Stamp(r.clock)
}

func indexOf(apps []types.SavedApplication, id string) int {
	for i := range apps {
		if apps[i].ID == id {
			return i
		}
	}
	return -1
}
