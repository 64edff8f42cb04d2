package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evolvekit/evolvekit/refpoints"
)

var (
	refObjectives int
	refPartitions int
	refBoundary   int
	refInner      int
	refScaling    float64
	refOut        string
)

var refpointsCmd = &cobra.Command{
	Use:   "refpoints",
	Short: "Generate Das-Dennis reference points and export them as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		var generator *refpoints.DasDennis
		var err error
		if refBoundary > 0 && refInner > 0 {
			generator, err = refpoints.NewTwoLayer(refObjectives, refpoints.TwoLayerPartitions{
				BoundaryLayer: refBoundary,
				InnerLayer:    refInner,
				Scaling:       refScaling,
			})
		} else {
			generator, err = refpoints.NewOneLayer(refObjectives, refPartitions)
		}
		if err != nil {
			return err
		}

		points := generator.Points()
		if err := refpoints.WriteJSON(points, refOut); err != nil {
			return err
		}
		fmt.Printf("Wrote %d reference points to %s\n", len(points), refOut)
		return nil
	},
}

func init() {
	refpointsCmd.Flags().IntVar(&refObjectives, "objectives", 3, "Number of objectives")
	refpointsCmd.Flags().IntVar(&refPartitions, "partitions", 12, "Partitions for the one-layer lattice")
	refpointsCmd.Flags().IntVar(&refBoundary, "boundary-layer", 0, "Boundary layer partitions (two-layer)")
	refpointsCmd.Flags().IntVar(&refInner, "inner-layer", 0, "Inner layer partitions (two-layer)")
	refpointsCmd.Flags().Float64Var(&refScaling, "inner-scaling", refpoints.DefaultInnerScaling, "Inner layer scaling (two-layer)")
	refpointsCmd.Flags().StringVar(&refOut, "out", "refpoints.json", "Output JSON file")
	rootCmd.AddCommand(refpointsCmd)
}
