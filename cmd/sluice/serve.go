package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aretw0/sluice/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP control server",
	Long:  `Starts the simulation engine behind a JSON API, with Prometheus metrics on /metrics. A scenario can be preloaded with --scenario or pushed over the API.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		scenarioPath, _ := cmd.Flags().GetString("scenario")
		interval, _ := cmd.Flags().GetDuration("interval")
		seed, _ := cmd.Flags().GetInt64("seed")
		debug, _ := cmd.Flags().GetBool("debug")

		opts := cli.ServeOptions{
			Addr:         ":" + port,
			ScenarioPath: scenarioPath,
			TickInterval: interval,
			Seed:         seed,
			HasSeed:      cmd.Flags().Changed("seed"),
			Debug:        debug,
		}
		if err := cli.Serve(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("scenario", "", "Scenario file to preload")
	serveCmd.Flags().Duration("interval", 100*time.Millisecond, "Wall-clock time per tick in play mode")
	serveCmd.Flags().Int64("seed", 0, "Seed for deterministic source values")
}
