package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/lukeulrich/alignshop/chardist"
	"github.com/lukeulrich/alignshop/contentstore"
	"github.com/spf13/cobra"
)

// msaCmd groups alignment-inspection subcommands, mirroring the teacher's
// top-level statsCmd but split into its own namespace since alignshop has
// more than one non-editing report.
var msaCmd = &cobra.Command{
	Use:   "msa",
	Short: "Inspect alignment contents",
}

var msaStatsCmd = &cobra.Command{
	Use:   "stats <alignment-file>",
	Short: "Print per-column character counts",
	Long: `Print per-column character counts.

Replaces goalign's whole-alignment printCharStats (cmd/stats.go) with a
per-column breakdown built on chardist.Dist, since chardist tracks exactly
this distribution incrementally as the alignment is edited.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		g, err := resolveGrammar()
		if err != nil {
			return err
		}
		store := contentstore.New()
		m, err := readFastaMsa(args[0], g, store)
		if err != nil {
			return err
		}

		dist := chardist.New(m)
		fmt.Fprintf(os.Stdout, "length\t%d\n", m.Length())
		fmt.Fprintf(os.Stdout, "nseqs\t%d\n", m.RowCount())
		fmt.Fprintf(os.Stdout, "col\tchar\tnb\n")
		for col := 1; col <= dist.Length(); col++ {
			printColumnCharStats(col, dist.At(col))
		}
		return nil
	},
}

func printColumnCharStats(col int, counts map[byte]int) {
	chars := make([]byte, 0, len(counts))
	for c := range counts {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	for _, c := range chars {
		fmt.Fprintf(os.Stdout, "%d\t%c\t%d\n", col, c, counts[c])
	}
}

func init() {
	msaCmd.AddCommand(msaStatsCmd)
}
