// Package psiblast drives NCBI psiblast to build a position-specific
// scoring matrix for a query sequence and hands it through pssm and
// nnstruct to produce a secondary structure prediction, grounded on
// original_source/src/app/core/Services/PsiBlastStructureTool.cpp for the
// state machine and event semantics, and on
// _examples/kortschak-ins/blast/blast.go for the buildarg-driven command
// construction.
package psiblast

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/lukeulrich/alignshop/biostring"
	"github.com/lukeulrich/alignshop/nnstruct"
	"github.com/lukeulrich/alignshop/pssm"
	"github.com/lukeulrich/alignshop/q3"
)

// State is the Tool's run state.
type State int

const (
	Idle State = iota
	Running
	Canceling
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Canceling:
		return "canceling"
	default:
		return "idle"
	}
}

// EventKind tags the variant of an Event delivered over Tool.Events.
type EventKind int

const (
	ProgressChanged EventKind = iota
	Canceled
	Error
	Finished
)

// Event reports a state change of an in-flight PredictSecondary call.
type Event struct {
	Kind EventKind
	ID   int

	Current int
	Total   int

	Err error

	Prediction q3.Prediction
}

// Launcher is the process-launch seam Tool uses to run psiblast, swappable
// in tests for a fake that never shells out.
type Launcher interface {
	// Run starts cmd and blocks until it exits or ctx is canceled, in
	// which case the process is killed and ctx.Err() is returned.
	Run(ctx context.Context, cmd *exec.Cmd) error
}

// execLauncher is the default Launcher, running real processes via
// os/exec.
type execLauncher struct{}

func (execLauncher) Run(ctx context.Context, cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}

var iterationLine = regexp.MustCompile(`^Iteration:\s*(\d+)`)

// Tool runs one PredictSecondary invocation at a time, mirroring the
// single-running-request state machine of PsiBlastStructureTool: a second
// call while one is already Running is rejected, and Cancel only has an
// effect on the psiblast subprocess stage, never on the neural network
// pass that follows it.
type Tool struct {
	psiBlastPath string
	tempDir      string
	launcher     Launcher
	net          *nnstruct.Tool

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	options *OptionSet
	events  chan Event
}

// NewTool builds a Tool that invokes the psiblast binary at psiBlastPath
// and scores the resulting PSSM with net. tempDir is where per-request
// FASTA and ASCII-PSSM files are written; an empty tempDir uses the OS
// default.
func NewTool(psiBlastPath string, net *nnstruct.Tool, tempDir string) *Tool {
	return &Tool{
		psiBlastPath: psiBlastPath,
		tempDir:      tempDir,
		launcher:     execLauncher{},
		net:          net,
		events:       make(chan Event, 16),
	}
}

// SetLauncher overrides the default os/exec-backed Launcher, for tests.
func (t *Tool) SetLauncher(l Launcher) { t.launcher = l }

// Events returns the channel Tool delivers state events on. A single Tool
// shares one channel across every PredictSecondary call; events carry the
// request ID passed to PredictSecondary so callers can demultiplex.
func (t *Tool) Events() <-chan Event { return t.events }

// State returns the Tool's current run state.
func (t *Tool) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// SetOptions validates and stores the psiblast options used by every
// subsequent PredictSecondary call, coercing the output-related options to
// the minimum psiblast accepts since secondary structure prediction only
// needs the ASCII PSSM file, mirroring setPsiBlastOptions.
func (t *Tool) SetOptions(opts *OptionSet) error {
	iterations, ok := opts.IntValue(IterationsOpt)
	if !ok || iterations < 2 {
		return fmt.Errorf("psiblast: number of iterations must be at least 2 when predicting secondary structure")
	}
	coerced := opts.Clone()
	coerced.Set(OutputFormatOpt, CSVOutputFormat)
	coerced.Set(NumAlignmentsOpt, 1)
	coerced.Set(NumDescriptionsOpt, 1)
	t.mu.Lock()
	t.options = coerced
	t.mu.Unlock()
	return nil
}

// PredictSecondary launches psiblast against sequence, identified by id for
// the Event stream, and runs asynchronously: results and errors arrive over
// Events. It returns an error immediately (without starting anything) if
// the Tool is already running a request or has no options configured.
func (t *Tool) PredictSecondary(id int, sequence biostring.BioString) error {
	t.mu.Lock()
	if t.state != Idle {
		t.mu.Unlock()
		return fmt.Errorf("psiblast: a prediction is already running")
	}
	if t.options == nil {
		t.mu.Unlock()
		return fmt.Errorf("psiblast: options must be set before predicting")
	}
	opts := t.options.Clone()
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.state = Running
	t.mu.Unlock()

	go t.run(ctx, id, sequence, opts)
	return nil
}

// Cancel stops the in-flight psiblast subprocess, if any. Cancellation has
// no effect once psiblast has finished and the neural network pass has
// begun, matching the teacher's "only permit canceling during the psiblast
// stage" comment.
func (t *Tool) Cancel() {
	t.mu.Lock()
	if t.state != Running {
		t.mu.Unlock()
		return
	}
	t.state = Canceling
	cancel := t.cancel
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (t *Tool) finishWith(id int, e Event) {
	t.mu.Lock()
	t.state = Idle
	t.cancel = nil
	t.mu.Unlock()
	e.ID = id
	t.events <- e
}

func (t *Tool) run(ctx context.Context, id int, sequence biostring.BioString, opts *OptionSet) {
	queryPath, err := t.writeQueryFasta(sequence)
	if err != nil {
		t.finishWith(id, Event{Kind: Error, Err: err})
		return
	}
	defer os.Remove(queryPath)

	pssmPath := filepath.Join(t.tempDirOrDefault(), "psiblast-pssm-"+uuid.New().String())

	cmd, err := buildCommand(t.psiBlastPath, queryPath, pssmPath, opts)
	if err != nil {
		t.finishWith(id, Event{Kind: Error, Err: err})
		return
	}
	defer os.Remove(pssmPath)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		t.finishWith(id, Event{Kind: Error, Err: err})
		return
	}

	total := 0
	if iterations, ok := opts.IntValue(IterationsOpt); ok {
		total = iterations
	}

	progressDone := make(chan struct{})
	go t.watchProgress(stderr, id, total, progressDone)

	runErr := t.launcher.Run(ctx, cmd)
	<-progressDone

	t.mu.Lock()
	wasCanceling := t.state == Canceling
	t.mu.Unlock()

	if runErr != nil {
		if wasCanceling {
			t.finishWith(id, Event{Kind: Canceled})
		} else {
			t.finishWith(id, Event{Kind: Error, Err: runErr})
		}
		return
	}

	info, err := os.Stat(pssmPath)
	if err != nil || info.Size() == 0 {
		// No hits found: no PSSM data, nothing to predict, but this is
		// not an error condition. Not every iteration may have completed,
		// so the final progress event is reported as done regardless.
		t.events <- Event{Kind: ProgressChanged, ID: id, Current: 1, Total: 1}
		t.finishWith(id, Event{Kind: Finished, Prediction: q3.Prediction{}})
		return
	}

	prediction, err := t.scorePssmFile(pssmPath)
	if err != nil {
		t.finishWith(id, Event{Kind: Error, Err: err})
		return
	}
	t.finishWith(id, Event{Kind: Finished, Prediction: prediction})
}

func (t *Tool) scorePssmFile(path string) (q3.Prediction, error) {
	f, err := os.Open(path)
	if err != nil {
		return q3.Prediction{}, err
	}
	defer f.Close()

	parsed, err := pssm.Parse(f)
	if err != nil {
		return q3.Prediction{}, err
	}
	if !pssm.IsCanonicalHeader(parsed.Mapping) {
		return q3.Prediction{}, fmt.Errorf("psiblast: pssm table header is not the canonical amino acid alphabet")
	}
	normalized := pssm.Normalize(parsed)
	return t.net.Predict(normalized)
}

func (t *Tool) watchProgress(r io.Reader, id, total int, done chan<- struct{}) {
	defer close(done)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := iterationLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		current, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		t.events <- Event{Kind: ProgressChanged, ID: id, Current: current, Total: total}
	}
}

func (t *Tool) writeQueryFasta(sequence biostring.BioString) (string, error) {
	f, err := os.CreateTemp(t.tempDirOrDefault(), "psiblast-query-"+uuid.New().String()+"-*.fasta")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, ">query\n%s\n", sequence.String()); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (t *Tool) tempDirOrDefault() string {
	if t.tempDir != "" {
		return t.tempDir
	}
	return os.TempDir()
}
