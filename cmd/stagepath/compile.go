package main

import (
	"github.com/aretw0/stagepath/internal/cli"
	"github.com/aretw0/stagepath/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [name]",
	Short: "Compile a path definition and print its transition table",
	Long: `Loads a definition (by name from the store, or with --file) and prints the stages
each stage may move to. "any" marks an unrestricted stage.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		file, _ := cmd.Flags().GetString("file")
		asJSON, _ := cmd.Flags().GetBool("json")
		current, _ := cmd.Flags().GetString("current")

		def, err := cli.ResolveDefinition(cmd.Context(), s.engine, firstArg(args), file)
		if err != nil {
			return err
		}
		path, err := s.engine.Compile(cmd.Context(), def)
		if err != nil {
			return err
		}

		if asJSON {
			return printJSON(cmd, path)
		}
		return printMarkdown(cmd, tui.TransitionTable(path, current))
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("file", "f", "", "Read the definition from a YAML or JSON file")
	compileCmd.Flags().Bool("json", false, "Print the compiled path as JSON")
	compileCmd.Flags().String("current", "", "Mark the row of this stage value")
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
