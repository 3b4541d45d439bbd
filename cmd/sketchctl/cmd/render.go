package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inamate/sketchboard/internal/engine"
)

var (
	renderOut    string
	renderWidth  float64
	renderHeight float64
	renderRatio  float64
	renderFit    bool
)

var renderCmd = &cobra.Command{
	Use:   "render <board.json|->",
	Short: "Render a board to PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "", "output PNG file (default stdout)")
	renderCmd.Flags().Float64Var(&renderWidth, "width", 0, "view width in CSS pixels (default board width)")
	renderCmd.Flags().Float64Var(&renderHeight, "height", 0, "view height in CSS pixels (default board height)")
	renderCmd.Flags().Float64Var(&renderRatio, "pixel-ratio", 1, "device pixel ratio")
	renderCmd.Flags().BoolVar(&renderFit, "fit", false, "zoom to fit the whole board")
}

func runRender(cmd *cobra.Command, args []string) error {
	b, err := readBoard(cmd, args[0])
	if err != nil {
		return err
	}

	width, height := renderWidth, renderHeight
	if width <= 0 {
		width = float64(b.Width)
	}
	if height <= 0 {
		height = float64(b.Height)
	}

	cfg := engine.DefaultConfig()
	cfg.ScreenWidth, cfg.ScreenHeight, cfg.PixelRatio = width, height, renderRatio
	eng := engine.NewEngine(cfg)
	if err := eng.LoadBoard(b); err != nil {
		return err
	}
	if renderFit {
		eng.FitView()
	}

	w, closeOut, err := output(cmd, renderOut)
	if err != nil {
		return err
	}
	if err := eng.RenderPNG(w); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
