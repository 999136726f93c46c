package gate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faizahmaddae/ad-flow/gate/store"
)

// recordingStore wraps the memory adapter with failure injection and a call
// journal, so tests can assert the persist-before-notify ordering.
type recordingStore struct {
	*store.Memory
	mu     sync.Mutex
	setErr error
	getErr error
	sets   []bool
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Memory: store.NewMemory()}
}

func (s *recordingStore) GetBool(ctx context.Context, key string) (bool, bool, error) {
	s.mu.Lock()
	err := s.getErr
	s.mu.Unlock()
	if err != nil {
		return false, false, err
	}
	return s.Memory.GetBool(ctx, key)
}

func (s *recordingStore) SetBool(ctx context.Context, key string, value bool) error {
	s.mu.Lock()
	err := s.setErr
	if err == nil {
		s.sets = append(s.sets, value)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Memory.SetBool(ctx, key, value)
}

func (s *recordingStore) setCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sets)
}

func TestGate_DefaultEnabled(t *testing.T) {
	g := New(store.NewMemory())
	assert.True(t, g.Enabled())
	assert.False(t, g.Initialized())
}

func TestGate_InitializeReadsPersistedValue(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.SetBool(ctx, Key, false))

	g := New(st)
	var seen []bool
	g.Subscribe(func(v bool) { seen = append(seen, v) })
	require.Equal(t, []bool{true}, seen) // replay of the pre-init default

	require.NoError(t, g.Initialize(ctx))
	assert.False(t, g.Enabled())
	assert.True(t, g.Initialized())
	assert.Equal(t, []bool{true, false}, seen)

	// Repeat initializations are no-ops.
	require.NoError(t, g.Initialize(ctx))
	assert.Equal(t, []bool{true, false}, seen)
}

func TestGate_InitializeWithoutPersistedValue(t *testing.T) {
	ctx := context.Background()
	g := New(store.NewMemory())
	var seen []bool
	g.Subscribe(func(v bool) { seen = append(seen, v) })

	require.NoError(t, g.Initialize(ctx))
	assert.True(t, g.Enabled())
	// No transition happened, so nothing beyond the replay is published.
	assert.Equal(t, []bool{true}, seen)
}

func TestGate_InitializeStoreError(t *testing.T) {
	st := newRecordingStore()
	st.getErr = errors.New("disk gone")

	g := New(st)
	require.Error(t, g.Initialize(context.Background()))
	assert.True(t, g.Enabled()) // default survives
	assert.False(t, g.Initialized())
}

func TestGate_DisablePersistsBeforeNotify(t *testing.T) {
	ctx := context.Background()
	st := newRecordingStore()
	g := New(st)
	require.NoError(t, g.Initialize(ctx))

	// At notification time the store must already hold the new value.
	var persistedAtNotify bool
	g.Subscribe(func(v bool) {
		if !v {
			stored, found, err := st.GetBool(ctx, Key)
			persistedAtNotify = err == nil && found && !stored
		}
	})

	require.NoError(t, g.Disable(ctx))
	assert.False(t, g.Enabled())
	assert.True(t, persistedAtNotify)
}

func TestGate_SetFailureLeavesStateAndSubscribersUntouched(t *testing.T) {
	ctx := context.Background()
	st := newRecordingStore()
	g := New(st)
	require.NoError(t, g.Initialize(ctx))

	var transitions int
	g.Subscribe(func(v bool) {
		if !v {
			transitions++
		}
	})

	st.setErr = errors.New("disk full")
	require.Error(t, g.Disable(ctx))
	assert.True(t, g.Enabled())
	assert.Zero(t, transitions)

	// Once the store recovers the switch goes through.
	st.setErr = nil
	require.NoError(t, g.Disable(ctx))
	assert.False(t, g.Enabled())
	assert.Equal(t, 1, transitions)
}

func TestGate_SwitchIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newRecordingStore()
	g := New(st)
	require.NoError(t, g.Initialize(ctx))

	var notifications int
	g.Subscribe(func(bool) { notifications++ })
	require.Equal(t, 1, notifications) // replay

	require.NoError(t, g.Disable(ctx))
	require.NoError(t, g.Disable(ctx))
	require.NoError(t, g.Disable(ctx))
	assert.Equal(t, 2, notifications)
	assert.Equal(t, 1, st.setCount())

	require.NoError(t, g.Enable(ctx))
	assert.Equal(t, 3, notifications)
	assert.Equal(t, 2, st.setCount())
}

func TestGate_SubscribeReplaysCurrentValueOnce(t *testing.T) {
	ctx := context.Background()
	g := New(store.NewMemory())
	require.NoError(t, g.Initialize(ctx))
	require.NoError(t, g.Disable(ctx))

	var seen []bool
	g.Subscribe(func(v bool) { seen = append(seen, v) })
	assert.Equal(t, []bool{false}, seen)
}

func TestGate_SubscriptionCancel(t *testing.T) {
	ctx := context.Background()
	g := New(store.NewMemory())
	require.NoError(t, g.Initialize(ctx))

	var seen int
	sub := g.Subscribe(func(bool) { seen++ })
	require.Equal(t, 1, seen)
	sub.Cancel()

	require.NoError(t, g.Disable(ctx))
	assert.Equal(t, 1, seen)
}

func TestGate_WatchMirrorsLatestValue(t *testing.T) {
	ctx := context.Background()
	g := New(store.NewMemory())
	require.NoError(t, g.Initialize(ctx))

	ch := g.Watch()
	select {
	case v := <-ch:
		assert.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("no initial value delivered")
	}

	// An undrained value is replaced, not queued: a slow reader sees only
	// the latest position.
	require.NoError(t, g.Disable(ctx))
	require.NoError(t, g.Enable(ctx))
	select {
	case v := <-ch:
		assert.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("no value delivered")
	}
}

func TestGate_Reset(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	g := New(st)
	require.NoError(t, g.Initialize(ctx))
	require.NoError(t, g.Disable(ctx))

	g.Reset()
	assert.True(t, g.Enabled())
	assert.False(t, g.Initialized())

	// The store is untouched; re-initializing picks the persisted value up.
	require.NoError(t, g.Initialize(ctx))
	assert.False(t, g.Enabled())
}
