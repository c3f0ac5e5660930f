// Package graph renders a definition as a Mermaid flowchart for
// inspection and documentation.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/sluice/pkg/domain"
)

// GenerateMermaid produces Mermaid flowchart syntax from a definition.
// Node shapes follow kind semantics:
//   - Source: ((circle))
//   - Queue: [[subroutine]]
//   - Process: {diamond}
//   - StateMachine / EnhancedStateMachine: [/parallelogram/]
//   - Sink: [(database)]
//   - Module and anything else: [rectangle]
func GenerateMermaid(def *domain.Definition) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if def == nil {
		return sb.String()
	}

	for _, node := range def.Nodes {
		safeID := sanitizeMermaidID(node.NodeID())

		opener, closer := "[", "]"
		switch node.Kind() {
		case domain.KindSource:
			opener, closer = "((", "))"
		case domain.KindQueue:
			opener, closer = "[[", "]]"
		case domain.KindProcess:
			opener, closer = "{", "}"
		case domain.KindStateMachine, domain.KindEnhancedStateMachine:
			opener, closer = "[/", "/]"
		case domain.KindSink:
			opener, closer = "[(", ")]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, node.NodeID(), closer))

		for _, port := range node.Outputs() {
			safeTo := sanitizeMermaidID(port.Target)
			arrow := "-->"
			if port.Input != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", strings.ReplaceAll(port.Input, "\"", "'"))
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
