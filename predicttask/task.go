// Package predicttask drives one psiblast.Tool prediction through to
// completion and records the result, grounded on
// original_source/src/app/gui/Services/Tasks/PredictSecondaryTask.cpp for
// the lifecycle (start, progress, error/finished handling, the
// empty-prediction "note only, don't persist" branch) and on
// _examples/inodb-vibe-vep/internal/annotate/parallel.go for the bounded
// concurrent Pool that runs many Tasks at once.
package predicttask

import (
	"context"
	"fmt"

	"github.com/lukeulrich/alignshop/biostring"
	"github.com/lukeulrich/alignshop/psiblast"
	"github.com/lukeulrich/alignshop/q3"
)

// Status mirrors the teacher's Ag::TaskStatus values relevant to a single
// leaf task.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusError
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusError:
		return "error"
	case StatusFinished:
		return "finished"
	default:
		return "pending"
	}
}

// Store persists a completed Q3 prediction, standing in for the teacher's
// Adoc/AnonSeqRepository document model.
type Store interface {
	WriteQ3(id int, prediction q3.Prediction) error
}

// Task drives a single psiblast.Tool.PredictSecondary call to completion,
// tracking progress and status the way PredictSecondaryTask did against its
// adoc document.
type Task struct {
	ID       int
	Sequence biostring.BioString
	Options  *psiblast.OptionSet
	Threads  int

	tool  *psiblast.Tool
	store Store

	status   Status
	progress float64
	note     string
}

// NewTask builds a Task that will run against tool and persist its result
// (if any) to store.
func NewTask(id int, sequence biostring.BioString, opts *psiblast.OptionSet, threads int, tool *psiblast.Tool, store Store) *Task {
	return &Task{
		ID:       id,
		Sequence: sequence,
		Options:  opts,
		Threads:  threads,
		tool:     tool,
		store:    store,
	}
}

func (t *Task) Status() Status    { return t.status }
func (t *Task) Progress() float64 { return t.progress }
func (t *Task) Note() string      { return t.note }

// Start configures the psiblast.Tool with this Task's thread count, kicks
// off the prediction, and blocks until it reaches a terminal state
// (finished, errored, or canceled via ctx), returning any error along the
// way. On success with a non-empty prediction, the result is written to
// Store before Start returns; an empty prediction (no PSI-BLAST hits) is
// noted but not persisted, matching the teacher's onFinished branch.
func (t *Task) Start(ctx context.Context) error {
	t.status = StatusRunning

	opts := t.Options.Clone()
	opts.Set(psiblast.ThreadsOpt, t.Threads)
	if err := t.tool.SetOptions(opts); err != nil {
		t.status = StatusError
		t.note = err.Error()
		return err
	}

	if err := t.tool.PredictSecondary(t.ID, t.Sequence); err != nil {
		t.status = StatusError
		t.note = err.Error()
		return err
	}

	for {
		select {
		case <-ctx.Done():
			t.tool.Cancel()
		case ev, ok := <-t.tool.Events():
			if !ok {
				t.status = StatusError
				t.note = "psiblast event stream closed unexpectedly"
				return fmt.Errorf("predicttask: %s", t.note)
			}
			if ev.ID != t.ID {
				continue
			}
			switch ev.Kind {
			case psiblast.ProgressChanged:
				if ev.Total > 0 {
					t.progress = float64(ev.Current) / float64(ev.Total)
				}
			case psiblast.Canceled:
				t.status = StatusError
				t.note = "canceled"
				return ctx.Err()
			case psiblast.Error:
				t.status = StatusError
				t.note = ev.Err.Error()
				return ev.Err
			case psiblast.Finished:
				return t.onFinished(ev.Prediction)
			}
		}
	}
}

func (t *Task) onFinished(prediction q3.Prediction) error {
	t.status = StatusFinished
	if prediction.IsEmpty() {
		t.note = "No PSI-BLAST hits to query"
		return nil
	}
	t.note = string(prediction.Q3)
	if t.store == nil {
		return nil
	}
	return t.store.WriteQ3(t.ID, prediction)
}
