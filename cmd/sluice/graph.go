package main

import (
	"fmt"
	"os"

	"github.com/aretw0/sluice/internal/presentation/graph"
	"github.com/aretw0/sluice/internal/scenario"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <scenario.yaml>",
	Short: "Export the scenario graph visualization",
	Long:  `Parses a scenario file and outputs a Mermaid diagram (graph TD) of its nodes and token routes.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error reading scenario: %v\n", err)
			os.Exit(1)
		}

		def, err := scenario.Parse(doc)
		if err != nil {
			fmt.Printf("Error parsing scenario: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(def))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
