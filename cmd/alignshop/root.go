// Command alignshop edits and annotates multiple sequence alignments,
// replacing goalign's classic Alignment/SeqBag-backed cobra tree
// (cmd/seq.go, cmd/stats.go) with subcommands driven by the msa/subseq
// editing engine and the PSI-BLAST secondary structure pipeline.
package main

import (
	"github.com/lukeulrich/alignshop/config"
	"github.com/lukeulrich/alignshop/logx"
	"github.com/spf13/cobra"
)

var (
	viperInst = config.New()
	cfg       *config.Config

	grammarFlag string
)

// RootCmd is alignshop's top-level cobra command, imitating the teacher's
// single package-level RootCmd convention (cmd/stats.go's
// `RootCmd.AddCommand(statsCmd)`).
var RootCmd = &cobra.Command{
	Use:   "alignshop",
	Short: "Edit multiple sequence alignments and predict secondary structure",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(viperInst)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	config.BindFlags(RootCmd, viperInst)
	RootCmd.PersistentFlags().StringVar(&grammarFlag, "grammar", "amino", "Alignment alphabet: amino, dna, rna")
	RootCmd.AddCommand(slideCmd)
	RootCmd.AddCommand(collapseCmd)
	RootCmd.AddCommand(msaCmd)
	RootCmd.AddCommand(predictCmd)
	cobra.OnInitialize(func() {
		viperInst.AutomaticEnv()
	})
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		logx.ExitWithMessage(err)
	}
}
