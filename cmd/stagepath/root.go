package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/stagepath"
	"github.com/aretw0/stagepath/internal/cli"
	"github.com/aretw0/stagepath/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stagepath",
	Short: "stagepath compiles restricted transitions for stage picklists",
	Long: `stagepath turns a picklist of stages, its dependency map and a navigation rule
such as "new={working}, closed=!{new}" into the set of moves allowed from each stage.

Definitions are read from --dir (markdown/YAML/JSON through Loam by default, or HCL)
or from a redis, sqlite or in-memory store selected with --store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errBlocked ends a check whose move is blocked; Execute turns it into exit status 2.
var errBlocked = errors.New("move is blocked")

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errBlocked) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cli.RegisterFlags(rootCmd.PersistentFlags())
}

// session bundles what every command needs; close releases the backend.
type session struct {
	cfg     cli.Config
	logger  *slog.Logger
	engine  *stagepath.Engine
	backend *cli.Backend
}

func (s *session) close() {
	if err := s.backend.Close(); err != nil {
		s.logger.Warn("failed to close store", "err", err)
	}
}

func openSession(cmd *cobra.Command, hooks ...domain.LifecycleHooks) (*session, error) {
	cfg, err := cli.ConfigFromFlags(cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger, err := cli.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	engine, backend, err := cli.NewEngine(cfg, logger, hooks...)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, engine: engine, backend: backend}, nil
}

func isPlain(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return !ok || !cliTerminal(f)
}
