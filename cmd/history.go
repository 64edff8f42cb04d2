package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evolvekit/evolvekit/algorithms"
)

var historyCmd = &cobra.Command{
	Use:   "history [directory]",
	Short: "List the population snapshots in a history directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshots, err := algorithms.ListSnapshots(args[0])
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			fmt.Println("No snapshots found")
			return nil
		}
		for _, s := range snapshots {
			fmt.Printf("gen %-6d %-14s %3d individuals  exported %s\n",
				s.Generation, s.Algorithm, len(s.Individuals), s.ExportedOn)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
