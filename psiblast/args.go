package psiblast

import (
	"os/exec"

	"github.com/biogo/external"
)

// psiblastArgs mirrors the teacher's buildarg struct-tag idiom
// (_examples/kortschak-ins/blast/blast.go's Nucleic/MakeDB types) for
// building an NCBI psiblast command line from a typed struct rather than
// hand-assembled string slices.
type psiblastArgs struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}psiblast{{end}}"`

	Query    string `buildarg:"-query{{split}}{{.}}"`
	Database string `buildarg:"{{if .}}-db{{split}}{{.}}{{end}}"`

	NumIterations   int `buildarg:"{{if .}}-num_iterations{{split}}{{.}}{{end}}"`
	OutFormat       int `buildarg:"{{if .}}-outfmt{{split}}{{.}}{{end}}"`
	NumAlignments   int `buildarg:"{{if .}}-num_alignments{{split}}{{.}}{{end}}"`
	NumDescriptions int `buildarg:"{{if .}}-num_descriptions{{split}}{{.}}{{end}}"`

	EValue float64 `buildarg:"{{if .}}-evalue{{split}}{{.}}{{end}}"`

	OutAsciiPssm string `buildarg:"{{if .}}-out_ascii_pssm{{split}}{{.}}{{end}}"`

	NumThreads int `buildarg:"{{if .}}-num_threads{{split}}{{.}}{{end}}"`
}

// buildCommand turns opts (plus the three paths psiblast needs beyond what
// fits the OptionSet: the executable path, the query FASTA file and the
// ASCII PSSM output file) into a
// ready-to-run *exec.Cmd.
func buildCommand(psiBlastPath, queryPath, asciiPssmPath string, opts *OptionSet) (*exec.Cmd, error) {
	args := psiblastArgs{
		Cmd:          psiBlastPath,
		Query:        queryPath,
		OutAsciiPssm: asciiPssmPath,
	}
	if v, ok := opts.IntValue(IterationsOpt); ok {
		args.NumIterations = v
	}
	if v, ok := opts.IntValue(OutputFormatOpt); ok {
		args.OutFormat = v
	}
	if v, ok := opts.IntValue(NumAlignmentsOpt); ok {
		args.NumAlignments = v
	}
	if v, ok := opts.IntValue(NumDescriptionsOpt); ok {
		args.NumDescriptions = v
	}
	if v, ok := opts.StringValue(DatabaseOpt); ok {
		args.Database = v
	}
	if v, ok := opts.Value(EValueOpt); ok {
		if f, ok := v.(float64); ok {
			args.EValue = f
		}
	}
	if v, ok := opts.IntValue(ThreadsOpt); ok {
		args.NumThreads = v
	}

	cl, err := external.Build(args)
	if err != nil {
		return nil, err
	}
	return exec.Command(cl[0], cl[1:]...), nil
}
