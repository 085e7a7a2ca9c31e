package main

import (
	"fmt"

	"github.com/aretw0/stagepath/internal/cli"
	"github.com/aretw0/stagepath/internal/presentation/tui"
	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [name] <current> <selected>",
	Short: "Check whether a move between two stages is allowed",
	Long: `Compiles the definition and evaluates moving from <current> to <selected>.
With --file the name is omitted. An empty current ("") means the first stage.
The command exits with status 2 when the move is blocked.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		file, _ := cmd.Flags().GetString("file")
		asJSON, _ := cmd.Flags().GetBool("json")
		hideBlocked, _ := cmd.Flags().GetBool("hide-blocked")

		var name string
		switch {
		case file == "" && len(args) == 3:
			name, args = args[0], args[1:]
		case file != "" && len(args) == 2:
		default:
			return fmt.Errorf("expected <name> <current> <selected>, or --file with <current> <selected>")
		}

		def, err := cli.ResolveDefinition(cmd.Context(), s.engine, name, file)
		if err != nil {
			return err
		}
		decision, err := s.engine.Check(cmd.Context(), def, args[0], args[1])
		if err != nil {
			return err
		}

		if asJSON {
			err = printJSON(cmd, struct {
				domain.Decision
				Message string `json:"message,omitempty"`
			}{decision, decision.Message()})
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), tui.DecisionLine(decision))
			err = printMarkdown(cmd, tui.DecisionSummary(decision, hideBlocked))
		}
		if err != nil {
			return err
		}
		if decision.Blocked {
			return errBlocked
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("file", "f", "", "Read the definition from a YAML or JSON file")
	checkCmd.Flags().Bool("json", false, "Print the decision as JSON")
	checkCmd.Flags().Bool("hide-blocked", false, "Describe blocked moves as hidden rather than disabled")
}
