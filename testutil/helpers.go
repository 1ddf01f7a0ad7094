package testutil

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/taskflow/dag"
	"github.com/kbukum/taskflow/target"
	"github.com/kbukum/taskflow/task"
)

// TempWorkspace returns a workspace rooted in a test-scoped temp directory.
func TempWorkspace(t *testing.T, tag string) task.Workspace {
	t.Helper()
	return task.Workspace{Base: t.TempDir(), Tag: tag}
}

// WriteTarget commits content to a local target, failing the test on error.
func WriteTarget(t *testing.T, tgt *target.LocalTarget, content string) {
	t.Helper()
	w, err := tgt.OpenWrite()
	if err != nil {
		t.Fatalf("open target %s: %v", tgt.Path(), err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		w.Abort()
		t.Fatalf("write target %s: %v", tgt.Path(), err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("commit target %s: %v", tgt.Path(), err)
	}
}

// ReadTarget reads a committed local target, failing the test on error.
func ReadTarget(t *testing.T, tgt *target.LocalTarget) string {
	t.Helper()
	data, err := tgt.ReadAll()
	if err != nil {
		t.Fatalf("read target %s: %v", tgt.Path(), err)
	}
	return string(data)
}

// Event is one recorded hook callback.
type Event struct {
	Name string // "started", "skipped", "done", "failed"
	ID   task.Identity
}

// RecordingHook collects lifecycle events for assertions.
type RecordingHook struct {
	mu     sync.Mutex
	events []Event
}

func (h *RecordingHook) record(name string, id task.Identity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, Event{Name: name, ID: id})
}

func (h *RecordingHook) TaskStarted(_ context.Context, id task.Identity) { h.record("started", id) }
func (h *RecordingHook) TaskSkipped(_ context.Context, id task.Identity) { h.record("skipped", id) }
func (h *RecordingHook) TaskDone(_ context.Context, id task.Identity, _ time.Duration) {
	h.record("done", id)
}
func (h *RecordingHook) TaskFailed(_ context.Context, id task.Identity, _ error) {
	h.record("failed", id)
}

// Events returns a copy of all recorded events in order.
func (h *RecordingHook) Events() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Event, len(h.events))
	copy(out, h.events)
	return out
}

// Count returns how many events with the given name were recorded.
func (h *RecordingHook) Count(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e.Name == name {
			n++
		}
	}
	return n
}

var _ dag.Hook = (*RecordingHook)(nil)

// StaticTask is a canned task for tests: it writes fixed content to its
// target.
type StaticTask struct {
	Kind    string
	Params  task.Params
	Deps    task.Deps
	Target  *target.LocalTarget
	Content string
	RunErr  error
}

func (s *StaticTask) Identity() task.Identity {
	return task.Identity{Kind: s.Kind, Params: s.Params}
}

func (s *StaticTask) Requires() task.Deps { return s.Deps }

func (s *StaticTask) Output() target.Target {
	if s.Target == nil {
		return nil
	}
	return s.Target
}

func (s *StaticTask) Run(_ context.Context) error {
	if s.RunErr != nil {
		return s.RunErr
	}
	if s.Target == nil {
		return nil
	}
	w, err := s.Target.OpenWrite()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, s.Content); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}
