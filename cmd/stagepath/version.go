package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/stagepath"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stagepath",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stagepath version %s\n", strings.TrimSpace(stagepath.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
