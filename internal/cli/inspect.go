package cli

import (
	"fmt"
	"os"

	"github.com/aretw0/sluice/internal/presentation/report"
	"github.com/aretw0/sluice/internal/presentation/tui"
	"github.com/aretw0/sluice/internal/scenario"
)

// Inspect parses a scenario file and prints a rendered markdown report of
// its nodes, wiring and groups.
func Inspect(path string) error {
	doc, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading scenario: %w", err)
	}

	def, err := scenario.Parse(doc)
	if err != nil {
		return err
	}

	fmt.Print(tui.Render(report.Markdown(def)))
	return nil
}
