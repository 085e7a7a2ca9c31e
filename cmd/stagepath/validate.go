package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/stagepath/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [name...]",
	Short: "Check definitions for unreachable stages and dead ends",
	Long: `Validates each named definition (all of them when none is given): shape, rule
compilation, then a crawl from --entry (the first stage by default) reporting
unreachable stages and restricted stages with no way out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		entry, _ := cmd.Flags().GetString("entry")

		names := args
		if len(names) == 0 {
			if names, err = s.engine.List(cmd.Context()); err != nil {
				return err
			}
		}

		var errs []error
		for _, name := range names {
			report, err := validator.ValidateDefinition(cmd.Context(), s.engine.Loader(), s.engine.PathEngine(), name, entry)
			if err == nil {
				err = report.Err()
			}
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: invalid\n", name)
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d stages reachable from '%s')\n", name, len(report.Reachable), report.Entry.Value)
		}

		if len(errs) > 0 {
			return fmt.Errorf("validation failed: %w", errors.Join(errs...))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("entry", "", "Stage value to crawl from (defaults to the first stage)")
}
