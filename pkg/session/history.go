package session

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jawabu/ussd/pkg/domain"
	"github.com/jawabu/ussd/pkg/ports"
)

// NavID is one entry of the navigation stack. Path is the digest of the
// previous entry, so every entry is content-addressed by the whole chain
// that led to it. The zero NavID is the root sentinel.
type NavID struct {
	Path []byte `json:"path,omitempty"`
	Name string `json:"name,omitempty"`
}

// IsZero reports whether this is the root sentinel.
func (n NavID) IsZero() bool {
	return len(n.Path) == 0 && n.Name == ""
}

// Digest hashes the entry for use as a cache key.
func (n NavID) Digest() []byte {
	sum := md5.Sum(n.bytes())
	return sum[:]
}

func (n NavID) bytes() []byte {
	parts := make([][]byte, 0, 2)
	if len(n.Path) > 0 {
		parts = append(parts, n.Path)
	}
	if n.Name != "" {
		parts = append(parts, []byte(n.Name))
	}
	return bytes.Join(parts, []byte("|"))
}

// Child derives the entry for a screen reached from this one.
func (n NavID) Child(name string) NavID {
	id := NavID{Name: name}
	if !n.IsZero() {
		id.Path = n.Digest()
	}
	return id
}

// Entry is the context saved when a redirect is pushed, and recovered
// when the stack is popped back to it.
type Entry struct {
	Screen  string         `json:"screen"`
	Context map[string]any `json:"context,omitempty"`
}

// History is the back-navigation stack for one turn. It is built from the
// session's persisted stack, mutated during dispatch, and finalized
// before the turn's response is considered done. Pushed contexts are
// saved to the cache in the background; the saves are joined at
// finalization, and a failed save only degrades back-navigation, so it is
// logged rather than failing the turn.
type History struct {
	stack   []NavID
	backend ports.Cache
	prefix  string
	ttl     time.Duration
	logger  *slog.Logger

	wg sync.WaitGroup
}

// NewHistory builds the turn's history from the session's stored stack.
// The stack always keeps the root sentinel as its first element.
func NewHistory(sess *Session, backend ports.Cache, prefix string, ttl time.Duration, logger *slog.Logger) *History {
	stack := sess.Stack
	if len(stack) == 0 {
		stack = []NavID{{}}
	}
	return &History{
		stack:   stack,
		backend: backend,
		prefix:  prefix,
		ttl:     ttl,
		logger:  logger,
	}
}

// Len returns the stack depth, sentinel included.
func (h *History) Len() int {
	return len(h.stack)
}

// Push records a redirect into screen. If the stack head already names
// the screen the push is a no-op. The entry's context is persisted in the
// background and joined at Finalize.
func (h *History) Push(ctx context.Context, entry Entry) {
	head := h.stack[len(h.stack)-1]
	if head.Name == entry.Screen {
		return
	}
	id := head.Child(entry.Screen)
	h.stack = append(h.stack, id)

	// Detach from the turn's cancellation: a pushed context should land
	// even when the transport gives up on the response.
	saveCtx := context.WithoutCancel(ctx)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if err := h.save(saveCtx, id, entry); err != nil {
			h.logger.Warn("history push save failed; back-navigation degraded",
				"screen", entry.Screen,
				"err", err,
			)
		}
	}()
}

// Pop drops the last n+1 entries and returns the saved context of the new
// head. Pop(0) returns to the immediately previous screen. Popping past
// the sentinel returns nil so the caller can fall back to the home
// screen; it is never an error.
func (h *History) Pop(ctx context.Context, n int) (*Entry, error) {
	cut := len(h.stack) - (n + 1)
	if cut < 1 {
		cut = 1
	}
	h.stack = h.stack[:cut]

	head := h.stack[len(h.stack)-1]
	if head.IsZero() {
		return nil, nil
	}

	data, err := h.backend.Get(ctx, h.key(head))
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load history entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode history entry: %w", err)
	}
	return &entry, nil
}

// Stack returns the current stack for persistence on the session. Only
// valid once dispatch has finished mutating the history.
func (h *History) Stack() []NavID {
	return h.stack
}

// Wait joins pending background saves. It must be called before the
// turn's teardown signals completion.
func (h *History) Wait() {
	h.wg.Wait()
}

func (h *History) save(ctx context.Context, id NavID, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}
	return h.backend.Set(ctx, h.key(id), data, h.ttl)
}

func (h *History) key(id NavID) string {
	return h.prefix + ":" + hex.EncodeToString(id.Digest())
}
