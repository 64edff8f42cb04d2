package main

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/evolvekit/evolvekit/algorithms"
)

var plotOut string

var plotCmd = &cobra.Command{
	Use:   "plot [snapshot-file]",
	Short: "Render the objective front of a snapshot as an HTML chart",
	Long: `Reads a population snapshot and renders a scatter chart of the first
two objectives to a standalone HTML file.`,
	Args: cobra.ExactArgs(1),
	RunE: renderFront,
}

func init() {
	plotCmd.Flags().StringVar(&plotOut, "out", "front.html", "Output HTML file")
	rootCmd.AddCommand(plotCmd)
}

func renderFront(cmd *cobra.Command, args []string) error {
	snapshot, err := algorithms.LoadSnapshot(args[0])
	if err != nil {
		return err
	}
	names := snapshot.Problem.ObjectiveNames
	if len(names) < 2 {
		return fmt.Errorf("the snapshot problem has fewer than 2 objectives")
	}

	points := make([]opts.ScatterData, 0, len(snapshot.Individuals))
	for _, ind := range snapshot.Individuals {
		x, okX := ind.ObjectiveValues[names[0]]
		y, okY := ind.ObjectiveValues[names[1]]
		if !okX || !okY {
			continue
		}
		points = append(points, opts.ScatterData{
			Value:      []any{x, y},
			SymbolSize: 8,
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s front at generation %d", snapshot.Algorithm, snapshot.Generation),
			Subtitle: fmt.Sprintf("%d individuals, exported %s", len(snapshot.Individuals), snapshot.ExportedOn),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: names[0], Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: names[1], Type: "value"}),
	)
	scatter.AddSeries("front", points)

	f, err := os.Create(plotOut)
	if err != nil {
		return fmt.Errorf("failed to create the chart file: %w", err)
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("failed to render the chart: %w", err)
	}
	fmt.Printf("Wrote %s (%d points)\n", plotOut, len(points))
	return nil
}
