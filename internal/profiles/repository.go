// Package profiles stores the named CV/letter bundles used as generator input
// and the pointer to the active one. The list is never empty: the first read
// of an empty store synthesizes and persists a default profile, and deleting
// the last remaining profile is refused.
package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/resume-assistant/internal/clock"
	"github.com/jonathan/resume-assistant/internal/logging"
	"github.com/jonathan/resume-assistant/internal/records"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/types"
)

// Default profile created on cold start.
const (
	DefaultProfileID   = "default"
	DefaultProfileName = "Main Profile"
)

// Repository is the profile store of one session. It is safe for concurrent
// use; each read-modify-write of the stored list runs under one lock.
type Repository struct {
	mu     sync.Mutex
	store  store.Store
	ids    clock.IDGenerator
	logger logging.Logger
}

// NewRepository creates a Repository over s.
func NewRepository(s store.Store, ids clock.IDGenerator, logger logging.Logger) *Repository {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Repository{store: s, ids: ids, logger: logger}
}

// load reads the stored list. Malformed bytes are logged and read as empty.
func (r *Repository) load(ctx context.Context) ([]types.Profile, error) {
	raw, err := r.store.Get(ctx, store.KeyProfiles)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	profiles, err := records.DecodeProfiles(raw)
	if err != nil {
		r.logger.Warn(ctx, "discarding unreadable profiles", "key", store.KeyProfiles, "error", err)
		return nil, nil
	}
	return profiles, nil
}

func (r *Repository) save(ctx context.Context, profiles []types.Profile) error {
	raw, err := records.EncodeProfiles(profiles)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, store.KeyProfiles, raw); err != nil {
		return fmt.Errorf("failed to save profiles: %w", err)
	}
	return nil
}

// List returns every profile in insertion order. When nothing usable is
// stored it persists and returns the default profile.
func (r *Repository) List(ctx context.Context) ([]types.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(ctx)
}

func (r *Repository) list(ctx context.Context) ([]types.Profile, error) {
	profiles, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(profiles) > 0 {
		return profiles, nil
	}

	def := []types.Profile{{ID: DefaultProfileID, Name: DefaultProfileName}}
	if err := r.save(ctx, def); err != nil {
		return nil, err
	}
	r.logger.Info(ctx, "created default profile", "id", DefaultProfileID)
	return def, nil
}

// Get returns the profile with id, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*types.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profiles, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].ID == id {
			p := profiles[i]
			return &p, nil
		}
	}
	return nil, nil
}

// Create appends a new empty profile with a fresh id.
func (r *Repository) Create(ctx context.Context, name string) (types.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profiles, err := r.list(ctx)
	if err != nil {
		return types.Profile{}, err
	}

	p := types.Profile{ID: r.ids.New(), Name: normalizeName(name)}
	if err := r.save(ctx, append(profiles, p)); err != nil {
		return types.Profile{}, err
	}
	return p, nil
}

// Update replaces the stored profile with the same id. Unknown ids are
// ignored since the caller may race with a deletion.
func (r *Repository) Update(ctx context.Context, p types.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profiles, err := r.list(ctx)
	if err != nil {
		return err
	}

	for i := range profiles {
		if profiles[i].ID != p.ID {
			continue
		}
		p.Name = normalizeName(p.Name)
		if profiles[i] == p {
			return nil
		}
		profiles[i] = p
		return r.save(ctx, profiles)
	}
	return nil
}

// Delete removes a profile and returns the remaining list. Deleting the last
// profile, or an unknown id, returns the list unchanged.
func (r *Repository) Delete(ctx context.Context, id string) ([]types.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profiles, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	if len(profiles) <= 1 {
		return profiles, nil
	}

	remaining := make([]types.Profile, 0, len(profiles)-1)
	for _, p := range profiles {
		if p.ID != id {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == len(profiles) {
		return profiles, nil
	}

	if err := r.save(ctx, remaining); err != nil {
		return nil, err
	}
	return remaining, nil
}

// ActiveID resolves the active profile pointer. A missing, unreadable or
// stale pointer resolves to the first profile.
func (r *Repository) ActiveID(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profiles, err := r.list(ctx)
	if err != nil {
		return "", err
	}

	stored, err := r.storedActiveID(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range profiles {
		if p.ID == stored {
			return stored, nil
		}
	}
	if stored != "" {
		r.logger.Debug(ctx, "active profile pointer is stale", "stored", stored, "fallback", profiles[0].ID)
	}
	return profiles[0].ID, nil
}

func (r *Repository) storedActiveID(ctx context.Context) (string, error) {
	raw, err := r.store.Get(ctx, store.KeyActiveProfileID)
	if err != nil {
		return "", fmt.Errorf("failed to read active profile: %w", err)
	}
	if raw == nil {
		return "", nil
	}
	id, err := records.DecodeActiveID(raw)
	if err != nil {
		if errors.Is(err, records.ErrDecode) {
			r.logger.Warn(ctx, "discarding unreadable active profile pointer", "key", store.KeyActiveProfileID, "error", err)
			return "", nil
		}
		return "", err
	}
	return id, nil
}

// SetActiveID writes the active profile pointer.
func (r *Repository) SetActiveID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := records.EncodeActiveID(id)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, store.KeyActiveProfileID, raw); err != nil {
		return fmt.Errorf("failed to save active profile: %w", err)
	}
	return nil
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return records.DefaultProfileName
	}
	return name
}
