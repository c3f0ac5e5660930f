package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aretw0/sluice/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run a scenario",
	Long:  `Loads a scenario file and advances the simulation by a fixed number of ticks, or continuously in play mode.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ticks, _ := cmd.Flags().GetInt("ticks")
		play, _ := cmd.Flags().GetBool("play")
		duration, _ := cmd.Flags().GetDuration("duration")
		interval, _ := cmd.Flags().GetDuration("interval")
		seed, _ := cmd.Flags().GetInt64("seed")
		jsonMode, _ := cmd.Flags().GetBool("json")
		debug, _ := cmd.Flags().GetBool("debug")

		opts := cli.RunOptions{
			ScenarioPath: args[0],
			Ticks:        ticks,
			Play:         play,
			Duration:     duration,
			TickInterval: interval,
			Seed:         seed,
			HasSeed:      cmd.Flags().Changed("seed"),
			JSON:         jsonMode,
			Debug:        debug,
		}
		if err := cli.Run(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("ticks", "n", 10, "Number of ticks to advance")
	runCmd.Flags().Bool("play", false, "Run continuously instead of a fixed tick count")
	runCmd.Flags().Duration("duration", 0, "Stop play mode after this long (0 = until interrupted)")
	runCmd.Flags().Duration("interval", 100*time.Millisecond, "Wall-clock time per tick in play mode")
	runCmd.Flags().Int64("seed", 0, "Seed for deterministic source values")
	runCmd.Flags().Bool("json", false, "Print the run summary as JSON")
}
