// Package graph renders a question catalog as a Mermaid flowchart, for
// documentation and for inspecting a user's progress through it.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/catalog"
)

// Overlay marks a session's progress on the chart.
type Overlay struct {
	// CurrentStep is the question the user is waiting on. Everything
	// before it renders as answered.
	CurrentStep int
}

// GenerateMermaid produces Mermaid flowchart syntax for the catalog:
//   - Start and summary: ((Circle))
//   - Questions: [/Parallelogram/] (input, in Mermaid parlance)
//   - Rejection retry: dotted self-loop
//
// An overlay additionally styles answered steps and highlights the current
// one.
func GenerateMermaid(cat *catalog.Catalog, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	sb.WriteString(fmt.Sprintf("    start((\"%s\"))\n", escapeMermaidLabel(cat.Name())))

	prev := "start"
	for _, q := range cat.Questions() {
		id := nodeID(q.Key)
		sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", id, escapeMermaidLabel(q.Label)))
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, id))
		sb.WriteString(fmt.Sprintf("    %s -. \"retry\" .-> %s\n", id, id))
		prev = id
	}

	sb.WriteString("    summary((\"summary\"))\n")
	sb.WriteString(fmt.Sprintf("    %s --> summary\n", prev))

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast on both light and dark themes.
		sb.WriteString("    classDef answered fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		for _, q := range cat.Questions() {
			id := nodeID(q.Key)
			switch {
			case q.Index < overlay.CurrentStep:
				sb.WriteString(fmt.Sprintf("    class %s answered;\n", id))
			case q.Index == overlay.CurrentStep:
				sb.WriteString(fmt.Sprintf("    class %s current;\n", id))
			}
		}
	}

	return sb.String()
}

// nodeID derives a Mermaid-safe identifier from a question key. The q_
// prefix keeps keys from colliding with the fixed start and summary nodes.
func nodeID(key string) string {
	s := strings.ReplaceAll(key, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return "q_" + s
}

func escapeMermaidLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
