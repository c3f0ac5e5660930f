// Package cli contains the execution logic behind the sluice commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/sluice"
	"github.com/aretw0/sluice/internal/logging"
	"github.com/aretw0/sluice/pkg/domain"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	ScenarioPath string
	Ticks        int
	Play         bool
	Duration     time.Duration
	TickInterval time.Duration
	Seed         int64
	HasSeed      bool
	JSON         bool
	Debug        bool
}

// Run loads a scenario file and advances the simulation, either by a fixed
// number of ticks or in play mode until the duration elapses or the process
// is interrupted. It prints a run summary when done.
func Run(opts RunOptions) error {
	logger := runLogger(opts)

	engineOpts := []sluice.Option{
		sluice.WithLogger(logger),
		sluice.WithTickInterval(opts.TickInterval),
	}
	if opts.HasSeed {
		engineOpts = append(engineOpts, sluice.WithSeed(opts.Seed))
	}
	engine := sluice.New(engineOpts...)

	doc, err := os.ReadFile(opts.ScenarioPath)
	if err != nil {
		return fmt.Errorf("reading scenario: %w", err)
	}
	if err := engine.LoadScenario(doc); err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}

	if opts.Play {
		sc := NewSignalContext(context.Background())
		defer sc.Release()

		ctx := sc.Context
		if opts.Duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(sc.Context, opts.Duration)
			defer cancel()
		}

		engine.Play(ctx)
		<-ctx.Done()
		engine.Pause()
	} else {
		if err := engine.Step(context.Background(), opts.Ticks); err != nil {
			return err
		}
	}

	return printSummary(engine, opts.JSON)
}

// runLogger is silent unless --debug is set. With --json the debug logs
// switch to the JSON handler so stderr stays machine-readable alongside
// the JSON summary on stdout.
func runLogger(opts RunOptions) *slog.Logger {
	if !opts.Debug {
		return logging.NewNop()
	}
	if opts.JSON {
		return logging.NewJSON(slog.LevelDebug)
	}
	return logging.New(slog.LevelDebug)
}

type runSummary struct {
	Tick     int64                       `json:"tick"`
	RunID    string                      `json:"run_id"`
	States   map[string]domain.NodeState `json:"states"`
	Messages []string                    `json:"messages,omitempty"`
}

func printSummary(engine *sluice.Engine, jsonMode bool) error {
	summary := runSummary{
		Tick:     engine.Tick(),
		RunID:    engine.RunID(),
		States:   engine.States(),
		Messages: engine.Messages(),
	}

	if jsonMode {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Printf("Run %s finished at tick %d\n\n", summary.RunID, summary.Tick)
	def := engine.Definition()
	if def != nil {
		for _, node := range def.Nodes {
			state, ok := summary.States[node.NodeID()]
			if !ok {
				continue
			}
			fmt.Printf("  %-20s %s\n", node.NodeID(), describeState(state))
		}
	}
	if len(summary.Messages) > 0 {
		fmt.Println("\nMessages:")
		for _, msg := range summary.Messages {
			fmt.Printf("  - %s\n", msg)
		}
	}
	return nil
}

func describeState(state domain.NodeState) string {
	switch s := state.(type) {
	case *domain.SourceState:
		return fmt.Sprintf("[%s] emitted=%d", s.Phase(), s.Emitted)
	case *domain.QueueState:
		return fmt.Sprintf("[%s] buffered=%d pending=%d dropped=%d", s.Phase(), len(s.Input), len(s.Output), s.Dropped)
	case *domain.ProcessState:
		return fmt.Sprintf("[%s] fired=%d", s.Phase(), s.Fired)
	case *domain.StateMachineState:
		return fmt.Sprintf("state=%s transitions=%d", s.Info.Current, len(s.Info.History))
	case *domain.EnhancedStateMachineState:
		return fmt.Sprintf("[%s] buffered=%d", s.Phase(), len(s.Buffer))
	case *domain.SinkState:
		return fmt.Sprintf("consumed=%d", s.Consumed)
	default:
		return fmt.Sprintf("[%s]", state.Phase())
	}
}
