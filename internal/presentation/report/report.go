// Package report builds a human-readable markdown summary of a scenario.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/sluice/pkg/domain"
)

// Markdown summarizes every node of the definition, grouped by kind
// declaration order, with its parameters and wiring.
func Markdown(def *domain.Definition) string {
	var sb strings.Builder
	sb.WriteString("# Scenario\n\n")
	if def == nil || len(def.Nodes) == 0 {
		sb.WriteString("_empty definition_\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%d nodes\n\n", len(def.Nodes)))
	for _, node := range def.Nodes {
		sb.WriteString(fmt.Sprintf("## %s (`%s`)\n\n", node.NodeID(), node.Kind()))
		describe(&sb, node)
		if outputs := node.Outputs(); len(outputs) > 0 {
			sb.WriteString("\nOutputs:\n\n")
			for _, port := range outputs {
				if port.Input != "" {
					sb.WriteString(fmt.Sprintf("- `%s` -> `%s` (input `%s`)\n", port.Name, port.Target, port.Input))
				} else {
					sb.WriteString(fmt.Sprintf("- `%s` -> `%s`\n", port.Name, port.Target))
				}
			}
		}
		sb.WriteString("\n")
	}

	if len(def.Groups) > 0 {
		sb.WriteString("## Groups\n\n")
		names := make([]string, 0, len(def.Groups))
		for name := range def.Groups {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", name, strings.Join(def.Groups[name], ", ")))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func describe(sb *strings.Builder, node domain.NodeConfig) {
	switch c := node.(type) {
	case *domain.SourceConfig:
		if c.Value != nil {
			sb.WriteString(fmt.Sprintf("Emits %v every %d ticks.\n", *c.Value, c.Interval))
		} else {
			sb.WriteString(fmt.Sprintf("Emits uniform [%v, %v) every %d ticks.\n", c.Min, c.Max, c.Interval))
		}
	case *domain.QueueConfig:
		sb.WriteString(fmt.Sprintf("Aggregates by `%s` every %d ticks, capacity %d.\n", c.Method, c.Window, c.Capacity))
	case *domain.ProcessConfig:
		sb.WriteString(fmt.Sprintf("Joins inputs `%s`.\n", strings.Join(c.Inputs, "`, `")))
		for _, out := range c.Results {
			sb.WriteString(fmt.Sprintf("- `%s` = `%s`\n", out.Name, out.Formula))
		}
	case *domain.StateMachineConfig:
		sb.WriteString(fmt.Sprintf("%d states, %d transitions, initial `%s`.\n", len(c.States), len(c.Transitions), c.Initial))
	case *domain.EnhancedStateMachineConfig:
		sb.WriteString("Enhanced machine (reserved surface; drains to connected sinks).\n")
	case *domain.SinkConfig:
		sb.WriteString("Consumes tokens.\n")
	case *domain.ModuleConfig:
		sb.WriteString("Sub-graph container (execution not implemented).\n")
	}
}
