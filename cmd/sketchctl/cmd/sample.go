package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inamate/sketchboard/internal/document"
	"github.com/inamate/sketchboard/internal/typeid"
)

var (
	sampleShapes int
	sampleSeed   uint64
	sampleName   string
	sampleOut    string
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate a board of random rectangles and paths",
	Args:  cobra.NoArgs,
	RunE:  runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().IntVarP(&sampleShapes, "shapes", "n", 100, "number of shapes")
	sampleCmd.Flags().Uint64Var(&sampleSeed, "seed", 1, "random seed")
	sampleCmd.Flags().StringVar(&sampleName, "name", "Sample", "board name")
	sampleCmd.Flags().StringVarP(&sampleOut, "output", "o", "", "output file (default stdout)")
}

func runSample(cmd *cobra.Command, args []string) error {
	if sampleShapes < 0 {
		return fmt.Errorf("shape count %d must not be negative", sampleShapes)
	}
	b := document.NewSampleBoard(typeid.NewBoardID(), sampleShapes, sampleSeed)
	b.Name = sampleName

	w, closeOut, err := output(cmd, sampleOut)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		closeOut()
		return fmt.Errorf("encode board: %w", err)
	}
	return closeOut()
}
