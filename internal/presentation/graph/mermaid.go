package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/stagepath/pkg/domain"
)

// GraphOverlay contains navigation state to visualize on the graph.
type GraphOverlay struct {
	// CurrentStage is the value of the stage the record is in.
	CurrentStage string
	// ExpandUnrestricted draws a dotted edge from each unrestricted stage to every other stage.
	ExpandUnrestricted bool
}

// GenerateMermaid produces a Mermaid flowchart of the compiled path.
// Shapes:
// - First stage: ((Circle))
// - Unrestricted stage: {{Hexagon}}
// - Default: [Rectangle]
// With an overlay, the current stage and the stages reachable from it are styled.
func GenerateMermaid(p *domain.Path, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	stages := p.Catalog.Stages()
	expand := overlay != nil && overlay.ExpandUnrestricted

	for _, s := range stages {
		opener, closer := "[", "]"
		switch {
		case s.Index == 0:
			opener, closer = "((", "))"
		case !p.Adjacency.Restricted(s.Index):
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(s.Index), opener, escapeLabel(s.Label), closer)
	}

	for _, s := range stages {
		if p.Adjacency.Restricted(s.Index) {
			for _, to := range p.Adjacency.Allowed(s.Index) {
				if to == s.Index {
					continue
				}
				fmt.Fprintf(&sb, "    %s --> %s\n", nodeID(s.Index), nodeID(to))
			}
			continue
		}
		if expand {
			for _, t := range stages {
				if t.Index != s.Index {
					fmt.Fprintf(&sb, "    %s -.-> %s\n", nodeID(s.Index), nodeID(t.Index))
				}
			}
		}
	}

	sb.WriteString("\n    classDef unrestricted stroke-dasharray:5 5;\n")
	for _, s := range stages {
		if !p.Adjacency.Restricted(s.Index) {
			fmt.Fprintf(&sb, "    class %s unrestricted;\n", nodeID(s.Index))
		}
	}

	if overlay != nil && overlay.CurrentStage != "" {
		current, err := p.Catalog.IndexOf(overlay.CurrentStage)
		if err == nil {
			sb.WriteString("\n    %% Overlay Styles\n")
			// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme
			sb.WriteString("    classDef reachable fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
			sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
			for _, s := range p.AllowedStages(current) {
				fmt.Fprintf(&sb, "    class %s reachable;\n", nodeID(s.Index))
			}
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(current))
		}
	}

	return sb.String()
}

// nodeID keys nodes by index; stage values may hold characters Mermaid rejects in IDs.
func nodeID(idx int) string {
	return fmt.Sprintf("s%d", idx)
}

func escapeLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
