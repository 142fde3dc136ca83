package main

import (
	"fmt"

	"github.com/lukeulrich/alignshop/contentstore"
	"github.com/lukeulrich/alignshop/msa"
	"github.com/spf13/cobra"
)

var (
	collapseLeftCol, collapseTop, collapseRightCol, collapseBottom int
	collapseDirectionFlag                                         string
	collapseOut                                                    string
)

// collapseCmd drives Msa.CollapseLeft/CollapseRight over a rectangular
// region, the other half of the editing-engine surface slideCmd exercises.
var collapseCmd = &cobra.Command{
	Use:   "collapse <alignment-file>",
	Short: "Collapse gaps in a rectangular region left or right",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := resolveGrammar()
		if err != nil {
			return err
		}
		store := contentstore.New()
		m, err := readFastaMsa(args[0], g, store)
		if err != nil {
			return err
		}

		rect := msa.Rect{Left: collapseLeftCol, Top: collapseTop, Right: collapseRightCol, Bottom: collapseBottom}
		switch collapseDirectionFlag {
		case "left":
			err = m.CollapseLeft(rect)
		case "right":
			err = m.CollapseRight(rect)
		default:
			return fmt.Errorf(`--direction must be "left" or "right", got %q`, collapseDirectionFlag)
		}
		if err != nil {
			return err
		}

		return writeMsaOutput(m, collapseOut)
	},
}

func init() {
	collapseCmd.Flags().IntVar(&collapseLeftCol, "left", 1, "Left column of the region (1-based)")
	collapseCmd.Flags().IntVar(&collapseTop, "top", 1, "Top row of the region (1-based)")
	collapseCmd.Flags().IntVar(&collapseRightCol, "right", 1, "Right column of the region (1-based)")
	collapseCmd.Flags().IntVar(&collapseBottom, "bottom", 1, "Bottom row of the region (1-based)")
	collapseCmd.Flags().StringVar(&collapseDirectionFlag, "direction", "left", `Collapse direction: "left" or "right"`)
	collapseCmd.Flags().StringVarP(&collapseOut, "output", "o", "", "Output FASTA file (default: stdout)")
}
