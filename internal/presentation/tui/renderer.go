package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a function that renders markdown using glamour.
// When plain is set (output is piped or redirected) the markdown is returned as is.
func NewRenderer(plain bool) func(string) (string, error) {
	if plain {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// TransitionTable renders the compiled path as a markdown table.
// The row of current, if it names a stage, is marked with an arrow.
func TransitionTable(p *domain.Path, current string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", p.Name)
	sb.WriteString("| | # | Stage | Value | Next |\n")
	sb.WriteString("|---|---|---|---|---|\n")

	for _, s := range p.Catalog.Stages() {
		marker := ""
		if current != "" && s.Value == current {
			marker = "→"
		}
		fmt.Fprintf(&sb, "| %s | %d | %s | `%s` | %s |\n", marker, s.Index, escapeCell(s.Label), s.Value, nextCell(p, s.Index))
	}

	if len(p.Rule) > 0 {
		fmt.Fprintf(&sb, "\nRule: `%s`\n", p.Rule.String())
	}
	return sb.String()
}

func nextCell(p *domain.Path, idx int) string {
	allowed := p.AllowedStages(idx)
	if !p.Adjacency.Restricted(idx) {
		return "*any*"
	}
	if len(allowed) == 0 {
		return "*none*"
	}
	labels := make([]string, len(allowed))
	for i, s := range allowed {
		labels[i] = escapeCell(s.Label)
	}
	return strings.Join(labels, ", ")
}

// DecisionSummary renders one navigation decision as markdown.
// With hideBlocked, a blocked decision is described as a hidden action instead of a disabled one.
func DecisionSummary(d domain.Decision, hideBlocked bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** → **%s**\n\n", escapeCell(d.From.Label), escapeCell(d.To.Label))
	switch {
	case !d.Blocked:
		fmt.Fprintf(&sb, "Allowed (`%s`). On save: _%s_\n", d.Reason, d.Message())
	case hideBlocked:
		fmt.Fprintf(&sb, "Blocked (`%s`). The action is hidden.\n", d.Reason)
	default:
		fmt.Fprintf(&sb, "Blocked (`%s`). The action is disabled.\n", d.Reason)
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
