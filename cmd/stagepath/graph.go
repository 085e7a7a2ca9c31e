package main

import (
	"fmt"

	"github.com/aretw0/stagepath/internal/cli"
	"github.com/aretw0/stagepath/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [name]",
	Short: "Export the transition graph as a Mermaid diagram",
	Long: `Compiles the definition and prints a Mermaid flowchart (graph LR) of the allowed moves.
--current highlights a stage and what it can reach.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		file, _ := cmd.Flags().GetString("file")
		current, _ := cmd.Flags().GetString("current")
		expand, _ := cmd.Flags().GetBool("expand")

		def, err := cli.ResolveDefinition(cmd.Context(), s.engine, firstArg(args), file)
		if err != nil {
			return err
		}
		path, err := s.engine.Compile(cmd.Context(), def)
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if current != "" || expand {
			overlay = &graph.GraphOverlay{CurrentStage: current, ExpandUnrestricted: expand}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(path, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("file", "f", "", "Read the definition from a YAML or JSON file")
	graphCmd.Flags().String("current", "", "Highlight this stage and the stages reachable from it")
	graphCmd.Flags().Bool("expand", false, "Draw dotted edges out of unrestricted stages")
}
