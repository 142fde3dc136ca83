package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lukeulrich/alignshop/grammar"
	"github.com/lukeulrich/alignshop/nnstruct"
	"github.com/lukeulrich/alignshop/predicttask"
	"github.com/lukeulrich/alignshop/psiblast"
	"github.com/lukeulrich/alignshop/q3"
	"github.com/spf13/cobra"
)

var (
	predictDatabase   string
	predictEValue     float64
	predictIterations int
	predictThreads    int
)

// predictCmd drives psiblast.Tool end to end against one or more FASTA
// query sequences, the CLI-visible counterpart of predicttask.Task/Pool.
var predictCmd = &cobra.Command{
	Use:   "predict <query-fasta>",
	Short: "Predict secondary structure for each sequence via PSI-BLAST + neural net",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if predictDatabase == "" {
			return fmt.Errorf("predict: --database is required")
		}

		store := newFastaSequenceStore()
		sequences, err := store.load(args[0], grammar.Amino)
		if err != nil {
			return err
		}

		net, err := loadNetFromConfig()
		if err != nil {
			return err
		}

		tool := psiblast.NewTool(cfg.PsiBlastPath, net, cfg.TempDir)
		opts := psiblast.NewOptionSet()
		opts.Set(psiblast.IterationsOpt, predictIterations)
		opts.Set(psiblast.DatabaseOpt, predictDatabase)
		opts.Set(psiblast.EValueOpt, predictEValue)

		results := newStdoutStore()

		tasks := make([]*predicttask.Task, 0, len(sequences))
		for i, seq := range sequences {
			tasks = append(tasks, predicttask.NewTask(i+1, seq.sequence, opts, predictThreads, tool, results))
		}

		pool := predicttask.Pool{Concurrency: 1} // psiblast.Tool only runs one request at a time
		errs := pool.Run(context.Background(), tasks)
		for i, err := range errs {
			if err != nil {
				fmt.Fprintf(os.Stderr, "predict: sequence %q: %v\n", sequences[i].name, err)
			}
		}
		return nil
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictDatabase, "database", "", "PSI-BLAST database path (required)")
	predictCmd.Flags().Float64Var(&predictEValue, "evalue", 0.001, "PSI-BLAST E-value threshold")
	predictCmd.Flags().IntVar(&predictIterations, "iterations", 3, "PSI-BLAST iteration count")
	predictCmd.Flags().IntVar(&predictThreads, "threads", 1, "PSI-BLAST thread count per request")
}

func loadNetFromConfig() (*nnstruct.Tool, error) {
	if cfg.NNStage1Path == "" || cfg.NNStage2Path == "" {
		return nil, fmt.Errorf("predict: --nn-stage1 and --nn-stage2 must both be set")
	}
	stage1File, err := os.Open(cfg.NNStage1Path)
	if err != nil {
		return nil, err
	}
	defer stage1File.Close()
	stage1, err := nnstruct.LoadNet(stage1File)
	if err != nil {
		return nil, fmt.Errorf("predict: loading stage-1 network: %w", err)
	}

	stage2File, err := os.Open(cfg.NNStage2Path)
	if err != nil {
		return nil, err
	}
	defer stage2File.Close()
	stage2, err := nnstruct.LoadNet(stage2File)
	if err != nil {
		return nil, fmt.Errorf("predict: loading stage-2 network: %w", err)
	}

	return nnstruct.NewTool(stage1, stage2)
}

// stdoutStore implements predicttask.Store, printing each finished
// prediction instead of persisting it to a document model alignshop does
// not (yet) have a CLI-facing store for.
type stdoutStore struct{}

func newStdoutStore() stdoutStore { return stdoutStore{} }

func (stdoutStore) WriteQ3(id int, prediction q3.Prediction) error {
	fmt.Fprintf(os.Stdout, "%d\t%s\t%s\n", id, prediction.Q3, prediction.EncodeConfidence())
	return nil
}
