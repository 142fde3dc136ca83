package predicttask

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lukeulrich/alignshop/biostring"
	"github.com/lukeulrich/alignshop/grammar"
	"github.com/lukeulrich/alignshop/psiblast"
	"github.com/lukeulrich/alignshop/q3"
)

// These tests drive a real psiblast.Tool (see newIdleTool) whose Launcher
// is swapped for a fake via SetLauncher, since Tool has no interface seam
// of its own (Task is written against the concrete type,
// matching the teacher's habit of depending on concrete services rather
// than inventing an interface no other type implements).

type recordingStore struct {
	wrote map[int]q3.Prediction
	err   error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{wrote: make(map[int]q3.Prediction)}
}

func (s *recordingStore) WriteQ3(id int, prediction q3.Prediction) error {
	if s.err != nil {
		return s.err
	}
	s.wrote[id] = prediction
	return nil
}

func newSequence(t *testing.T) biostring.BioString {
	t.Helper()
	return biostring.MustNew("ACDEFGHIKLMNPQRSTVWY", grammar.Amino)
}

func newIdleTool(t *testing.T) *psiblast.Tool {
	t.Helper()
	return psiblast.NewTool("psiblast", nil, t.TempDir())
}

func TestTaskStartRejectsBadOptions(t *testing.T) {
	tool := newIdleTool(t)
	opts := psiblast.NewOptionSet()
	opts.Set(psiblast.IterationsOpt, 1)
	store := newRecordingStore()
	task := NewTask(1, newSequence(t), opts, 2, tool, store)

	err := task.Start(context.Background())
	if err == nil {
		t.Fatal("expected error for fewer than two iterations")
	}
	if task.Status() != StatusError {
		t.Fatalf("Status()=%v, want StatusError", task.Status())
	}
	if task.Note() == "" {
		t.Fatal("expected a note describing the error")
	}
}

func TestTaskStartSetsThreadsOnClonedOptions(t *testing.T) {
	tool := newIdleTool(t)
	opts := psiblast.NewOptionSet()
	opts.Set(psiblast.IterationsOpt, 3)
	store := newRecordingStore()
	task := NewTask(1, newSequence(t), opts, 4, tool, store)

	// No launcher has been set so the default execLauncher will try to run
	// a nonexistent "psiblast" binary and fail quickly; what we actually
	// verify is that the caller's original OptionSet is untouched by
	// Start's thread-count mutation.
	_ = task.Start(context.Background())

	if opts.Contains(psiblast.ThreadsOpt) {
		t.Fatal("Start must not mutate the caller's original OptionSet")
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusPending:  "pending",
		StatusRunning:  "running",
		StatusError:    "error",
		StatusFinished: "finished",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String()=%q, want %q", status, got, want)
		}
	}
}

func TestOnFinishedEmptyPredictionSkipsStore(t *testing.T) {
	store := newRecordingStore()
	task := NewTask(5, newSequence(t), psiblast.NewOptionSet(), 1, newIdleTool(t), store)

	if err := task.onFinished(q3.Prediction{}); err != nil {
		t.Fatal(err)
	}
	if task.Status() != StatusFinished {
		t.Fatalf("Status()=%v, want StatusFinished", task.Status())
	}
	if task.Note() != "No PSI-BLAST hits to query" {
		t.Fatalf("Note()=%q", task.Note())
	}
	if len(store.wrote) != 0 {
		t.Fatal("expected no store writes for an empty prediction")
	}
}

func TestOnFinishedPersistsNonEmptyPrediction(t *testing.T) {
	store := newRecordingStore()
	task := NewTask(5, newSequence(t), psiblast.NewOptionSet(), 1, newIdleTool(t), store)

	prediction := q3.Prediction{Q3: []byte("HHHEEELLL"), Confidence: []float64{0.9, 0.9, 0.9, 0.8, 0.8, 0.8, 0.7, 0.7, 0.7}}
	if err := task.onFinished(prediction); err != nil {
		t.Fatal(err)
	}
	if task.Note() != "HHHEEELLL" {
		t.Fatalf("Note()=%q, want Q3 string", task.Note())
	}
	got, ok := store.wrote[5]
	if !ok {
		t.Fatal("expected a store write for a non-empty prediction")
	}
	if string(got.Q3) != "HHHEEELLL" {
		t.Fatalf("stored Q3=%q", got.Q3)
	}
}

func TestOnFinishedPropagatesStoreError(t *testing.T) {
	store := newRecordingStore()
	store.err = errors.New("disk full")
	task := NewTask(5, newSequence(t), psiblast.NewOptionSet(), 1, newIdleTool(t), store)

	prediction := q3.Prediction{Q3: []byte("H"), Confidence: []float64{0.5}}
	if err := task.onFinished(prediction); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestOnFinishedWithNilStoreIgnoresResult(t *testing.T) {
	task := NewTask(5, newSequence(t), psiblast.NewOptionSet(), 1, newIdleTool(t), nil)
	prediction := q3.Prediction{Q3: []byte("H"), Confidence: []float64{0.5}}
	if err := task.onFinished(prediction); err != nil {
		t.Fatal(err)
	}
}

func TestTaskStartHonorsContextCancelWhenToolNeverResponds(t *testing.T) {
	// The options are valid, so Start reaches its event loop with the
	// default launcher and a context that expires after 10ms; whichever
	// ends the run first, the deadline or the launcher's own failure,
	// Start must return promptly rather than hang.
	tool := newIdleTool(t)
	opts := psiblast.NewOptionSet()
	opts.Set(psiblast.IterationsOpt, 3)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	task := NewTask(1, newSequence(t), opts, 1, tool, nil)
	done := make(chan error, 1)
	go func() { done <- task.Start(ctx) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after context deadline")
	}
}
