package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/handoff/internal/adapters/fs"
	logAdapter "github.com/bft-labs/handoff/internal/adapters/log"
	"github.com/bft-labs/handoff/internal/domain"
)

func newTestManager(t *testing.T) (*Manager, *fs.Store) {
	t.Helper()
	store := fs.NewStore(filepath.Join(t.TempDir(), "handoff"), logAdapter.NewNoopLogger())
	return NewManager(store), store
}

func TestManager_PushAndGet(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Push(ctx, "x"))

	got, err := m.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestManager_PushOrdering(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	for _, s := range []string{"first", "second", "third"} {
		require.NoError(t, m.Push(ctx, s))
	}

	for i, want := range []string{"third", "second", "first"} {
		got, err := m.Get(ctx, i+1)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestManager_EvictsOldest(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	for i := 1; i <= 60; i++ {
		require.NoError(t, m.Push(ctx, fmt.Sprintf("item-%d", i)))
	}

	items := m.List(ctx)
	require.Len(t, items, domain.MaxStackSize)
	assert.Equal(t, "item-60", items[0].Content)
	assert.Equal(t, "item-11", items[49].Content)
}

func TestManager_GetOutOfRange(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Get(ctx, 1)
	var oor *domain.IndexOutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, domain.IndexOutOfRangeError{Requested: 1, Available: 0}, *oor)

	require.NoError(t, m.Push(ctx, "a"))
	require.NoError(t, m.Push(ctx, "b"))

	for _, idx := range []int{0, 3, -1} {
		_, err := m.Get(ctx, idx)
		require.ErrorAs(t, err, &oor, "index %d", idx)
		assert.Equal(t, idx, oor.Requested)
		assert.Equal(t, 2, oor.Available)
	}
}

func TestManager_Pop(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Pop(ctx)
	assert.ErrorIs(t, err, domain.ErrEmptyStack)

	require.NoError(t, m.Push(ctx, "A"))
	require.NoError(t, m.Push(ctx, "B"))

	got, err := m.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B", got)

	got, err = m.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "A", got)
	assert.Len(t, m.List(ctx), 1)
}

func TestManager_ClearStack(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.ClearStack(ctx), "clearing an empty stack succeeds")

	require.NoError(t, m.Push(ctx, "a"))
	require.NoError(t, m.Push(ctx, "b"))
	require.NoError(t, m.ClearStack(ctx))
	assert.Empty(t, m.List(ctx))
}

func TestManager_ContentSizeLimit(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Push(ctx, strings.Repeat("a", domain.MaxContentSize)))

	err := m.Push(ctx, strings.Repeat("a", domain.MaxContentSize+1))
	var tooLarge *domain.ContentTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, domain.ContentTooLargeError{Size: 1000001, Max: 1000000}, *tooLarge)

	err = m.Save(ctx, "big", strings.Repeat("a", domain.MaxContentSize+1))
	assert.ErrorIs(t, err, domain.ErrContentTooLarge)

	assert.Len(t, m.List(ctx), 1)
	assert.Empty(t, m.ListSlots(ctx))
}

func TestManager_SizeCheckedBeforeDiskAccess(t *testing.T) {
	store := &failingStore{err: errors.New("disk on fire")}
	m := NewManager(store)

	err := m.Push(context.Background(), strings.Repeat("a", domain.MaxContentSize+1))
	assert.ErrorIs(t, err, domain.ErrContentTooLarge)
	assert.Zero(t, store.calls)
}

func TestManager_SaveAndUpdateSlot(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "t", "v1"))
	first, err := m.Slot(ctx, "t")
	require.NoError(t, err)

	require.NoError(t, m.Save(ctx, "t", "v2"))
	second, err := m.Slot(ctx, "t")
	require.NoError(t, err)

	got, err := m.GetSlot(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestManager_SaveRefreshesUpdatedAt(t *testing.T) {
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := fs.NewStore(filepath.Join(t.TempDir(), "handoff"), logAdapter.NewNoopLogger())
	m := NewManager(store, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "t", "v1"))
	clock = clock.Add(time.Hour)
	require.NoError(t, m.Save(ctx, "t", "v2"))

	slot, err := m.Slot(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), slot.CreatedAt)
	assert.Equal(t, time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC), slot.UpdatedAt)
}

func TestManager_SlotNotFound(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	err := m.DeleteSlot(ctx, "missing")
	var notFound *domain.SlotNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Name)

	_, err = m.GetSlot(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSlotNotFound)

	require.NoError(t, m.Save(ctx, "temp", "v"))
	require.NoError(t, m.DeleteSlot(ctx, "temp"))
	_, err = m.GetSlot(ctx, "temp")
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "temp", notFound.Name)
}

func TestManager_InvalidSlotName(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	assert.ErrorIs(t, m.Save(ctx, "../escape", "v"), domain.ErrInvalidSlotName)
	_, err := m.GetSlot(ctx, "a/b")
	assert.ErrorIs(t, err, domain.ErrInvalidSlotName)
	assert.ErrorIs(t, m.DeleteSlot(ctx, ""), domain.ErrInvalidSlotName)

	_, statErr := os.Stat(filepath.Join(store.BaseDir(), "escape.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestManager_ListSlotsOrder(t *testing.T) {
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := fs.NewStore(filepath.Join(t.TempDir(), "handoff"), logAdapter.NewNoopLogger())
	m := NewManager(store, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, m.Save(ctx, name, name))
		clock = clock.Add(time.Minute)
	}
	require.NoError(t, m.Save(ctx, "a", "touched"))

	var names []string
	for _, s := range m.ListSlots(ctx) {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"a", "c", "b"}, names)
}

func TestManager_TolerantReads(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Push(ctx, "ok"))
	require.NoError(t, os.WriteFile(store.StackPath(), []byte("corrupt"), 0o600))

	assert.Empty(t, m.List(ctx))
	assert.NotNil(t, m.List(ctx))

	// lookups and mutations still report the failure
	_, err := m.Get(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, m.Push(ctx, "x"), domain.ErrStorage)
	_, err = m.Pop(ctx)
	assert.ErrorIs(t, err, domain.ErrStorage)

	failing := NewManager(&failingStore{err: errors.New("io")})
	assert.Empty(t, failing.ListSlots(ctx))
	assert.Empty(t, failing.List(ctx))
}

func TestManager_ListSlotsSkipsCorruptSlot(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, "good", "v"))
	require.NoError(t, os.WriteFile(filepath.Join(store.NamedDir(), "bad.json"), []byte("{"), 0o600))

	slots := m.ListSlots(ctx)
	require.Len(t, slots, 1)
	assert.Equal(t, "good", slots[0].Name)

	_, err := m.GetSlot(ctx, "bad")
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestManager_SharedBaseDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "handoff")
	ctx := context.Background()

	a := NewManager(fs.NewStore(base, logAdapter.NewNoopLogger()))
	require.NoError(t, a.Push(ctx, "persisted"))
	require.NoError(t, a.Save(ctx, "slot", "durable"))

	b := NewManager(fs.NewStore(base, logAdapter.NewNoopLogger()))
	got, err := b.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got)

	got, err = b.GetSlot(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "durable", got)
}

func TestManager_ConcurrentPush(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	const n = 80
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- m.Push(ctx, fmt.Sprintf("item-%d", i))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Len(t, m.List(ctx), domain.MaxStackSize)

	// the file itself is intact
	items, err := store.ReadStack(ctx)
	require.NoError(t, err)
	assert.Len(t, items, domain.MaxStackSize)
}

func TestManager_ConcurrentReadWrite(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, m.Push(ctx, fmt.Sprintf("w-%d", i)))
		}(i)
		go func() {
			defer wg.Done()
			assert.LessOrEqual(t, len(m.List(ctx)), domain.MaxStackSize)
		}()
	}
	wg.Wait()

	assert.Len(t, m.List(ctx), 20)
}

func TestManager_CloseStopsWatcher(t *testing.T) {
	m, _ := newTestManager(t)
	src := &fakeSource{}

	m.AttachWatcher(src)
	require.NoError(t, m.StartWatching())
	require.NoError(t, m.StartWatching())
	assert.True(t, src.Active())
	assert.Equal(t, 2, src.starts)

	require.NoError(t, m.Close())
	assert.False(t, src.Active())

	// closing again and stopping without a watcher are harmless
	require.NoError(t, m.Close())
	NewManager(&failingStore{}).StopWatching()
}

func TestManager_AttachWatcherReplacesPrevious(t *testing.T) {
	m, _ := newTestManager(t)
	first, second := &fakeSource{}, &fakeSource{}

	m.AttachWatcher(first)
	require.NoError(t, m.StartWatching())
	m.AttachWatcher(second)

	assert.False(t, first.Active())
	require.NoError(t, m.StartWatching())
	assert.True(t, second.Active())
}
