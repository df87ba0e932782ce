package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"taskwire.org/internal/obs"
)

func TestInfoWritesSinksAndStore(t *testing.T) {
	obs.ResetSinksForTests()
	t.Cleanup(obs.ResetSinksForTests)

	var general, alerting bytes.Buffer
	obs.AddSink(&general)
	obs.AddSink(&alerting)

	store := NewMemoryStore()
	rec := NewRecorder(store)

	rec.Info(context.Background(), "user-1", "Todo List Created", "POST")

	for name, buf := range map[string]*bytes.Buffer{"general": &general, "alerting": &alerting} {
		var entry map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
			t.Fatalf("sink %s: log not valid JSON: %v", name, err)
		}
		if entry["type"] != "audit" {
			t.Fatalf("sink %s: unexpected type: %v", name, entry["type"])
		}
		if entry["method"] != "POST" {
			t.Fatalf("sink %s: unexpected method: %v", name, entry["method"])
		}
		if entry["user_id"] != "user-1" {
			t.Fatalf("sink %s: unexpected user: %v", name, entry["user_id"])
		}
	}

	entries := store.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 persisted entry, got %d", len(entries))
	}
	if entries[0].Method != "POST" || entries[0].ActorUserID != "user-1" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	if entries[0].ID == "" {
		t.Fatal("entry id not assigned")
	}
}

func TestErrorTagsEntry(t *testing.T) {
	obs.ResetSinksForTests()
	t.Cleanup(obs.ResetSinksForTests)

	var buf bytes.Buffer
	obs.AddSink(&buf)

	store := NewMemoryStore()
	rec := NewRecorder(store)

	rec.Error(context.Background(), "user-1", "Failed to create Todo", errors.New("connection refused"))

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("log not valid JSON: %v", err)
	}
	if entry["error"] != "connection refused" {
		t.Fatalf("error detail missing from sink: %v", entry)
	}

	entries := store.Entries()
	if len(entries) != 1 || entries[0].Method != "ERROR" {
		t.Fatalf("expected ERROR-tagged entry, got %+v", entries)
	}
}

type failingStore struct{}

func (failingStore) Append(ctx context.Context, entry *Entry) error {
	return errors.New("append failed")
}

func TestAppendFailureIsSwallowed(t *testing.T) {
	obs.ResetSinksForTests()
	t.Cleanup(obs.ResetSinksForTests)

	rec := NewRecorder(failingStore{})

	// Must not panic or propagate; the primary operation already succeeded.
	rec.Info(context.Background(), "user-1", "Accessed Todo List", "GET")
}
