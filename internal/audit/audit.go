package audit

import (
	"context"
	"sync"
	"time"

	"taskwire.org/internal/ids"
	"taskwire.org/internal/obs"
)

// Entry is an append-only record of an operation's occurrence, independent of
// the primary log sinks. Method carries the HTTP-verb-like tag, or "ERROR"
// for failure entries.
type Entry struct {
	ID          string    `json:"id"`
	ActorUserID string    `json:"actor_user_id"`
	Message     string    `json:"message"`
	Method      string    `json:"method"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Store appends immutable entries.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
}

// Recorder writes every event to all configured log sinks and to the persisted
// audit store. Writes are best-effort: a failed append is logged and never
// fails the primary operation.
type Recorder struct {
	store Store
	now   func() time.Time
}

// NewRecorder constructs a Recorder over the given store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// Info records a successful operation tagged with its HTTP verb.
func (r *Recorder) Info(ctx context.Context, actorID, message, method string) {
	obs.Info(message, map[string]any{
		"type":    "audit",
		"user_id": actorID,
		"method":  method,
	})
	r.append(ctx, actorID, message, method)
}

// Error records a failed operation. The underlying error goes to the log
// sinks only; the persisted entry is tagged "ERROR".
func (r *Recorder) Error(ctx context.Context, actorID, message string, err error) {
	obs.Error(message, err, map[string]any{
		"type":    "audit",
		"user_id": actorID,
		"method":  "ERROR",
	})
	r.append(ctx, actorID, message, "ERROR")
}

func (r *Recorder) append(ctx context.Context, actorID, message, method string) {
	if r.store == nil {
		return
	}
	entry := &Entry{
		ActorUserID: actorID,
		Message:     message,
		Method:      method,
		OccurredAt:  r.now().UTC(),
	}
	if err := r.store.Append(ctx, entry); err != nil {
		obs.Error("audit append failed", err, map[string]any{"method": method})
		return
	}
	obs.CountAuditEntry(method)
}

// MemoryStore keeps entries in memory; used in tests and DSN-less runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	s.entries = append(s.entries, *entry)
	return nil
}

// Entries returns a copy of everything appended so far.
func (s *MemoryStore) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
