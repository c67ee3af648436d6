package main

import (
	"fmt"
	"os"

	"github.com/sifan077/LinkDesk/config"
	"github.com/sifan077/LinkDesk/internal/infra/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "linkdesk",
		Short:         "URL shortener with an admin panel",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Bare invocation serves, matching the container entrypoint.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedAdminCmd())
	return root
}

// bootstrap loads configuration and installs the global logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.Init(logger.FromApp(cfg.App))
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
