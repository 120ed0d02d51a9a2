package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VeltarosLabs/hello/internal/config"
	"github.com/VeltarosLabs/hello/internal/logging"
	"github.com/VeltarosLabs/hello/internal/server"
	"github.com/VeltarosLabs/hello/pkg/version"
)

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		os.Exit(exitWithError(err))
	}
}

// newRootCmd wires flags over the environment. A nil environ reads the
// process environment.
func newRootCmd(environ map[string]string) *cobra.Command {
	cfg, loadErr := config.Load(environ)

	cmd := &cobra.Command{
		Use:           "hello-server",
		Short:         "Serve the greeting over HTTP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if loadErr != nil {
				return loadErr
			}
			cfg = config.Normalize(cfg)
			if err := config.Validate(cfg); err != nil {
				return err
			}

			log := logging.NewWriter(logging.Config{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
			}, cmd.OutOrStdout())
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info("starting", zap.String("version", version.Get().String()))
			if err := server.New(cfg.API, log).Run(ctx); err != nil {
				return err
			}
			log.Info("shutdown complete")
			return nil
		},
	}
	config.BindFlags(cmd.Flags(), &cfg)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "hello-server", version.Get().String())
		},
	})

	return cmd
}

func exitWithError(err error) int {
	_, _ = os.Stderr.WriteString("hello-server error: " + err.Error() + "\n")
	return 1
}
