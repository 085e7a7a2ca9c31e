package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/stagepath/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var cliTerminal = tui.IsTerminal

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMarkdown(cmd *cobra.Command, markdown string) error {
	render := tui.NewRenderer(isPlain(cmd))
	out, err := render(markdown)
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
