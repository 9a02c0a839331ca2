// Package draft persists the single in-progress workspace so a restarted
// session resumes where the user left off.
package draft

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-assistant/internal/clock"
	"github.com/jonathan/resume-assistant/internal/logging"
	"github.com/jonathan/resume-assistant/internal/records"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/types"
)

// Manager reads and writes the workspace draft record.
type Manager struct {
	store  store.Store
	clock  clock.Clock
	logger logging.Logger
}

// NewManager creates a Manager over s.
func NewManager(s store.Store, clk clock.Clock, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{store: s, clock: clk, logger: logger}
}

// Save overwrites the draft with the given content and lastUpdated = now.
// Message timestamps are normalized to the stored precision, so the returned
// draft equals what Load reads back.
func (m *Manager) Save(ctx context.Context, jobDescription string, chat []types.ChatMessage, generated *types.GeneratedContent) (types.WorkspaceDraft, error) {
	d := types.WorkspaceDraft{
		JobDescription: jobDescription,
		ChatHistory:    types.CloneMessages(chat),
		GeneratedData:  generated.Clone(),
		LastUpdated:    clock.Stamp(m.clock),
	}
	for i := range d.ChatHistory {
		d.ChatHistory[i].Timestamp = clock.Normalize(d.ChatHistory[i].Timestamp)
	}

	raw, err := records.EncodeDraft(d)
	if err != nil {
		return types.WorkspaceDraft{}, err
	}
	if err := m.store.Set(ctx, store.KeyWorkspaceDraft, raw); err != nil {
		return types.WorkspaceDraft{}, fmt.Errorf("failed to save workspace draft: %w", err)
	}
	return d, nil
}

// Load returns the stored draft, or nil when none exists or the stored bytes
// cannot be read.
func (m *Manager) Load(ctx context.Context) (*types.WorkspaceDraft, error) {
	raw, err := m.store.Get(ctx, store.KeyWorkspaceDraft)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace draft: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	d, err := records.DecodeDraft(raw)
	if err != nil {
		m.logger.Warn(ctx, "discarding unreadable workspace draft", "key", store.KeyWorkspaceDraft, "error", err)
		return nil, nil
	}
	return d, nil
}

// Clear removes the draft.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.store.Delete(ctx, store.KeyWorkspaceDraft); err != nil {
		return fmt.Errorf("failed to clear workspace draft: %w", err)
	}
	return nil
}
