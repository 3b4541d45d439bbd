package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/inamate/sketchboard/internal/geom"
	"github.com/inamate/sketchboard/internal/quadtree"
	"github.com/inamate/sketchboard/internal/scene"
)

var (
	statsCapacity int
	statsDepth    int
	statsQueries  int
	statsJSON     bool
)

// indexReport is the stats command output.
type indexReport struct {
	Shapes      int            `json:"shapes"`
	Capacity    int            `json:"capacity"`
	MaxDepth    int            `json:"max_depth"`
	Index       quadtree.Stats `json:"index"`
	Queries     int            `json:"queries,omitempty"`
	AvgHits     float64        `json:"avg_hits,omitempty"`
	AvgDuration string         `json:"avg_duration,omitempty"`
}

var statsCmd = &cobra.Command{
	Use:   "stats <board.json|->",
	Short: "Index a board and report the spatial index shape",
	Long: `Index a board with the given capacity and depth and report node counts.
With --queries, also time random viewport-sized region queries.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().IntVar(&statsCapacity, "capacity", quadtree.DefaultCapacity, "leaf capacity")
	statsCmd.Flags().IntVar(&statsDepth, "depth", quadtree.DefaultMaxDepth, "maximum depth")
	statsCmd.Flags().IntVar(&statsQueries, "queries", 0, "number of random region queries to time")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	b, err := readBoard(cmd, args[0])
	if err != nil {
		return err
	}
	shapes, err := b.ToShapes()
	if err != nil {
		return err
	}

	sc := scene.New(b.Bounds(), quadtree.WithCapacity(statsCapacity), quadtree.WithMaxDepth(statsDepth))
	for _, sh := range shapes {
		if err := sc.Add(sh); err != nil {
			return err
		}
	}

	report := indexReport{
		Shapes:   sc.Len(),
		Capacity: statsCapacity,
		MaxDepth: statsDepth,
		Index:    sc.Stats(),
	}

	if statsQueries > 0 {
		rng := rand.New(rand.NewPCG(1, 2))
		bounds := b.Bounds()
		w, h := bounds.Width/4, bounds.Height/4
		hits := 0
		start := time.Now()
		for range statsQueries {
			region := geom.Rect{X: rng.Float64() * (bounds.Width - w), Y: rng.Float64() * (bounds.Height - h), Width: w, Height: h}
			hits += len(sc.Query(region))
		}
		elapsed := time.Since(start)
		report.Queries = statsQueries
		report.AvgHits = float64(hits) / float64(statsQueries)
		report.AvgDuration = (elapsed / time.Duration(statsQueries)).String()
	}

	out := cmd.OutOrStdout()
	if statsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(out, "Shapes:      %d\n", report.Shapes)
	fmt.Fprintf(out, "Capacity:    %d (max depth %d)\n", report.Capacity, report.MaxDepth)
	fmt.Fprintf(out, "Nodes:       %d (%d leaves, %d empty)\n", report.Index.Nodes, report.Index.Leaves, report.Index.Empty)
	fmt.Fprintf(out, "Depth:       %d\n", report.Index.MaxDepth)
	fmt.Fprintf(out, "References:  %d for %d items\n", report.Index.Refs, report.Index.Items)
	if report.Queries > 0 {
		fmt.Fprintf(out, "Queries:     %d, %.1f hits avg, %s each\n", report.Queries, report.AvgHits, report.AvgDuration)
	}
	return nil
}
