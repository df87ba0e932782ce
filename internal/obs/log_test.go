package obs

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInfoWritesToEverySink(t *testing.T) {
	ResetSinksForTests()
	t.Cleanup(ResetSinksForTests)

	var a, b bytes.Buffer
	AddSink(&a)
	AddSink(&b)

	Info("hello", map[string]any{"user_id": "u-1"})

	for name, buf := range map[string]*bytes.Buffer{"a": &a, "b": &b} {
		line := strings.TrimSpace(buf.String())
		if line == "" {
			t.Fatalf("sink %s received nothing", name)
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("sink %s: log not valid JSON: %v", name, err)
		}
		if entry["level"] != "info" {
			t.Fatalf("sink %s: unexpected level: %v", name, entry["level"])
		}
		if entry["msg"] != "hello" {
			t.Fatalf("sink %s: unexpected msg: %v", name, entry["msg"])
		}
		if entry["user_id"] != "u-1" {
			t.Fatalf("sink %s: field missing: %v", name, entry)
		}
	}

	if a.String() != b.String() {
		t.Fatal("sinks received different lines")
	}
}

func TestErrorAttachesDetail(t *testing.T) {
	ResetSinksForTests()
	t.Cleanup(ResetSinksForTests)

	var buf bytes.Buffer
	AddSink(&buf)

	Error("query failed", errTest, nil)

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("log not valid JSON: %v", err)
	}
	if entry["level"] != "error" {
		t.Fatalf("unexpected level: %v", entry["level"])
	}
	if entry["error"] != "boom" {
		t.Fatalf("error detail missing: %v", entry)
	}
}

type testErr string

func (e testErr) Error() string { return string(e) }

var errTest = testErr("boom")
