package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jawabu/ussd/internal/logging"
	"github.com/jawabu/ussd/pkg/adapters/memory"
)

func newHistory(t *testing.T) *History {
	t.Helper()
	cache := memory.NewCache()
	t.Cleanup(func() { cache.Close() })
	sess := New(75*time.Second, "+254700000001", "g-1")
	return NewHistory(sess, cache, "test:state:+254700000001", 2*time.Minute, logging.NewNop())
}

func TestNavIDContentAddressing(t *testing.T) {
	var root NavID
	assert.True(t, root.IsZero())

	a := root.Child("menu")
	b := a.Child("browse")

	assert.Equal(t, "menu", a.Name)
	assert.Empty(t, a.Path, "first level hangs off the sentinel")
	assert.Equal(t, a.Digest(), b.Path)

	// Same screen reached along a different path gets a different id.
	c := root.Child("other").Child("browse")
	assert.NotEqual(t, b.Digest(), c.Digest())
}

func TestHistoryPushPop(t *testing.T) {
	h := newHistory(t)
	ctx := context.Background()

	h.Push(ctx, Entry{Screen: "browse"})
	h.Push(ctx, Entry{Screen: "confirm", Context: map[string]any{"product": "maize"}})
	h.Wait()
	require.Equal(t, 3, h.Len())

	entry, err := h.Pop(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "browse", entry.Screen)
	assert.Equal(t, 2, h.Len())
}

func TestHistoryPopLevels(t *testing.T) {
	h := newHistory(t)
	ctx := context.Background()

	h.Push(ctx, Entry{Screen: "a", Context: map[string]any{"from": "a"}})
	h.Push(ctx, Entry{Screen: "b"})
	h.Push(ctx, Entry{Screen: "c"})
	h.Wait()

	// Dropping the head plus one level lands on "a".
	entry, err := h.Pop(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "a", entry.Screen)
	assert.Equal(t, "a", entry.Context["from"])
}

func TestHistoryPopPastSentinel(t *testing.T) {
	h := newHistory(t)
	ctx := context.Background()

	h.Push(ctx, Entry{Screen: "a"})
	h.Wait()

	entry, err := h.Pop(ctx, 10)
	require.NoError(t, err)
	assert.Nil(t, entry, "past the sentinel the caller falls back to home")
	assert.Equal(t, 1, h.Len(), "the sentinel is never popped")
}

func TestHistoryPushDedupesHead(t *testing.T) {
	h := newHistory(t)
	ctx := context.Background()

	h.Push(ctx, Entry{Screen: "a"})
	h.Push(ctx, Entry{Screen: "a"})
	h.Wait()

	assert.Equal(t, 2, h.Len())
}

func TestHistoryPopExpiredEntry(t *testing.T) {
	cache := memory.NewCache()
	t.Cleanup(func() { cache.Close() })
	sess := New(75*time.Second, "+254700000001", "g-1")
	h := NewHistory(sess, cache, "test:state", time.Nanosecond, logging.NewNop())
	ctx := context.Background()

	h.Push(ctx, Entry{Screen: "a"})
	h.Push(ctx, Entry{Screen: "b"})
	h.Wait()
	time.Sleep(5 * time.Millisecond)

	// The stack remembers "a" but its saved context is gone; that only
	// degrades the landing context, not the turn.
	entry, err := h.Pop(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestHistoryRoundTripThroughSession(t *testing.T) {
	cache := memory.NewCache()
	t.Cleanup(func() { cache.Close() })
	sess := New(75*time.Second, "+254700000001", "g-1")
	ctx := context.Background()

	h := NewHistory(sess, cache, "test:state", time.Minute, logging.NewNop())
	h.Push(ctx, Entry{Screen: "a"})
	h.Push(ctx, Entry{Screen: "b", Context: map[string]any{"k": "v"}})
	h.Wait()
	sess.Stack = h.Stack()

	// Next turn rebuilds the history from the persisted stack.
	h2 := NewHistory(sess, cache, "test:state", time.Minute, logging.NewNop())
	require.Equal(t, 3, h2.Len())

	entry, err := h2.Pop(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "a", entry.Screen)
}
