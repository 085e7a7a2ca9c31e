package main

import (
	"fmt"

	"github.com/aretw0/stagepath/internal/cli"
	"github.com/aretw0/stagepath/pkg/ports"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the definitions known to the store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		names, err := s.engine.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <file>...",
	Short: "Compile definition files and save them to a writable store",
	Long:  `Each file is parsed, validated and compiled before being written; nothing is saved past the first failure.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		store, err := writableStore(s)
		if err != nil {
			return err
		}
		for _, file := range args {
			def, err := cli.LoadDefinitionFile(file)
			if err != nil {
				return err
			}
			if _, err := s.engine.Compile(cmd.Context(), def); err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			if err := store.Save(cmd.Context(), def); err != nil {
				return err
			}
			cli.PrintSystemMessage(cmd.OutOrStdout(), "Saved '%s'.", def.Name)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>...",
	Short: "Delete definitions from a writable store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		store, err := writableStore(s)
		if err != nil {
			return err
		}
		for _, name := range args {
			if err := store.Delete(cmd.Context(), name); err != nil {
				return err
			}
			cli.PrintSystemMessage(cmd.OutOrStdout(), "Deleted '%s'.", name)
		}
		return nil
	},
}

func writableStore(s *session) (ports.DefinitionStore, error) {
	store, ok := s.backend.Store()
	if !ok {
		return nil, fmt.Errorf("store %q is read-only; use --store file, redis or sqlite", s.cfg.Store)
	}
	return store, nil
}

func init() {
	rootCmd.AddCommand(listCmd, saveCmd, deleteCmd)
}
