package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/sluice"
	"github.com/aretw0/sluice/internal/scenario"
	"github.com/aretw0/sluice/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <scenario.yaml>",
	Short: "Check a scenario for consistency",
	Long:  `Parses a scenario file and reports every structural problem: unknown node kinds, dangling port targets, invalid windows and transitions.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args[0]); err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				fmt.Println("Validation failed:")
				for _, problem := range verr.Problems {
					fmt.Printf("  - %s\n", problem)
				}
			} else {
				fmt.Printf("Validation failed: %v\n", err)
			}
			os.Exit(1)
		}
		fmt.Println("Scenario is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(path string) error {
	doc, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	def, err := scenario.Parse(doc)
	if err != nil {
		return err
	}
	// Loading runs the full structural validation pass.
	return sluice.New().Load(def)
}
