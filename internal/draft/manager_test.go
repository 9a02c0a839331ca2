package draft

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/testutil"
	"github.com/jonathan/resume-assistant/internal/types"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	clk := testutil.FixedClock()

	tests := []struct {
		name      string
		jobDesc   string
		chat      []types.ChatMessage
		generated *types.GeneratedContent
	}{
		{
			name:    "job description only",
			jobDesc: "Senior Engineer at Acme",
		},
		{
			name:    "pending first turn",
			jobDesc: "Senior Engineer at Acme",
			chat: []types.ChatMessage{
				{ID: "m1", Role: types.RoleUser, Text: "Build my CV", Timestamp: clk.Now()},
			},
		},
		{
			name:    "full workspace",
			jobDesc: "Senior Engineer at Acme",
			chat: []types.ChatMessage{
				{ID: "m1", Role: types.RoleUser, Text: "Build my CV", Timestamp: clk.Now()},
				{ID: "m2", Role: types.RoleAI, Text: "Here you go", Timestamp: clk.Now().Add(2 * time.Second)},
			},
			generated: testutil.SampleContent("Acme", "Here you go"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(testutil.NewMemoryStore(), clk, nil)

			saved, err := m.Save(ctx, tt.jobDesc, tt.chat, tt.generated)
			require.NoError(t, err)
			assert.True(t, saved.LastUpdated.Equal(clk.Now()))

			loaded, err := m.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, loaded)

			assert.Equal(t, tt.jobDesc, loaded.JobDescription)
			if diff := cmp.Diff(types.CloneMessages(tt.chat), loaded.ChatHistory); diff != "" {
				t.Errorf("chat mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.generated, loaded.GeneratedData); diff != "" {
				t.Errorf("generated data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveLoad_RealClockTimestamps(t *testing.T) {
	ctx := context.Background()
	paris := time.FixedZone("CET", 3600)
	sent := time.Now().In(paris).Add(123456 * time.Nanosecond)
	clk := testutil.NewStubClock(time.Date(2024, 1, 15, 11, 30, 0, 987654321, paris))
	m := NewManager(testutil.NewMemoryStore(), clk, nil)

	chat := []types.ChatMessage{{ID: "m1", Role: types.RoleUser, Text: "Build my CV", Timestamp: sent}}
	saved, err := m.Save(ctx, "Senior Engineer at Acme", chat, nil)
	require.NoError(t, err)
	assert.Equal(t, sent, chat[0].Timestamp, "caller's messages are not modified")

	loaded, err := m.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	if diff := cmp.Diff(saved.ChatHistory, loaded.ChatHistory); diff != "" {
		t.Errorf("chat mismatch (-saved +loaded):\n%s", diff)
	}
	if diff := cmp.Diff(saved.LastUpdated, loaded.LastUpdated); diff != "" {
		t.Errorf("lastUpdated mismatch (-saved +loaded):\n%s", diff)
	}
	assert.True(t, loaded.ChatHistory[0].Timestamp.Equal(sent.Truncate(time.Millisecond)))
}

func TestSave_Overwrites(t *testing.T) {
	ctx := context.Background()
	clk := testutil.FixedClock()
	m := NewManager(testutil.NewMemoryStore(), clk, nil)

	_, err := m.Save(ctx, "first", nil, nil)
	require.NoError(t, err)
	clk.Advance(time.Minute)
	_, err = m.Save(ctx, "second", nil, nil)
	require.NoError(t, err)

	loaded, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.JobDescription)
	assert.True(t, loaded.LastUpdated.Equal(clk.Now()))
}

func TestLoad_Absent(t *testing.T) {
	m := NewManager(testutil.NewMemoryStore(), testutil.FixedClock(), nil)

	d, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestLoad_MalformedIsAbsent(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewMemoryStore()
	require.NoError(t, s.Set(ctx, store.KeyWorkspaceDraft, []byte(`{"version":1,"data":{"chatHistory":42}}`)))
	m := NewManager(s, testutil.FixedClock(), nil)

	d, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	m := NewManager(testutil.NewMemoryStore(), testutil.FixedClock(), nil)

	_, err := m.Save(ctx, "Senior Engineer at Acme", nil, nil)
	require.NoError(t, err)
	require.NoError(t, m.Clear(ctx))

	d, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, d)

	require.NoError(t, m.Clear(ctx), "clearing twice is fine")
}

func TestSave_WriteFailure(t *testing.T) {
	s := testutil.NewMemoryStore()
	s.FailWrites(true)
	m := NewManager(s, testutil.FixedClock(), nil)

	_, err := m.Save(context.Background(), "x", nil, nil)
	assert.ErrorIs(t, err, store.ErrWrite)
}
