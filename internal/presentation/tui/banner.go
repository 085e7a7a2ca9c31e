package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintBanner writes the stagepath banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"      _                              _   _     ", "#818cf8"},
		{"  ___| |_ __ _  __ _  ___ _ __   __ _| |_| |__  ", "#a78bfa"},
		{" / __| __/ _` |/ _` |/ _ \\ '_ \\ / _` | __| '_ \\ ", "#c084fc"},
		{" \\__ \\ || (_| | (_| |  __/ |_) | (_| | |_| | | |", "#e879f9"},
		{" |___/\\__\\__,_|\\__, |\\___| .__/ \\__,_|\\__|_| |_|", "#f472b6"},
		{"               |___/     |_|                    ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintf(w, "  %s\n\n", termenv.String(version).Faint())
}

// DecisionLine returns a one-line colored verdict for a decision.
func DecisionLine(d domain.Decision) string {
	p := termenv.ColorProfile()
	if d.Blocked {
		return termenv.String("✗ blocked").Foreground(p.Color("#ef4444")).Bold().String() +
			fmt.Sprintf(" %s → %s (%s)", d.From.Value, d.To.Value, d.Reason)
	}
	return termenv.String("✓ allowed").Foreground(p.Color("#22c55e")).Bold().String() +
		fmt.Sprintf(" %s → %s (%s)", d.From.Value, d.To.Value, d.Reason)
}
