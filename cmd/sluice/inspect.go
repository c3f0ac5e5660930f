package main

import (
	"fmt"
	"os"

	"github.com/aretw0/sluice/internal/cli"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <scenario.yaml>",
	Short: "Print a readable scenario report",
	Long:  `Parses a scenario file and prints a rendered markdown report of its nodes, parameters and wiring.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := cli.Inspect(args[0]); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
