package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/VeltarosLabs/hello/pkg/api"
	"github.com/VeltarosLabs/hello/pkg/version"
)

const defaultAddr = "http://127.0.0.1:8080"

type globalOpts struct {
	addr    string
	apiKey  string
	timeout time.Duration
}

func main() {
	if err := newRootCmd(os.Getenv).Execute(); err != nil {
		fatal(err)
	}
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	opts := &globalOpts{}

	root := &cobra.Command{
		Use:           "hello-cli",
		Short:         "Talk to a hello-server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addr := strings.TrimSpace(getenv("HELLO_ADDR"))
	if addr == "" {
		addr = defaultAddr
	}
	root.PersistentFlags().StringVar(&opts.addr, "addr", addr, "Server base URL")
	root.PersistentFlags().StringVar(&opts.apiKey, "key", strings.TrimSpace(getenv("HELLO_API_KEY")), "API key sent as X-API-Key")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	root.AddCommand(
		&cobra.Command{
			Use:   "hello",
			Short: "Fetch the greeting",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withClient(cmd, opts, func(ctx context.Context, c *api.Client) error {
					msg, err := c.Hello(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), msg)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "greeting",
			Short: "Fetch the greeting as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withClient(cmd, opts, func(ctx context.Context, c *api.Client) error {
					g, err := c.Greeting(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "{\"message\":%q}\n", g.Message)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "health",
			Short: "Check server health",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withClient(cmd, opts, func(ctx context.Context, c *api.Client) error {
					h, err := c.Health(ctx)
					if err != nil {
						return err
					}
					if !h.OK {
						return fmt.Errorf("server unhealthy at %s", h.Time)
					}
					fmt.Fprintln(cmd.OutOrStdout(), "OK", h.Time)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print client and server build information",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				v := version.Get()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Client:\n  Version: %s\n  Commit:  %s\n  Go:      %s\n  Target:  %s\n",
					v.Version, v.Commit, v.GoVersion, v.Platform)

				return withClient(cmd, opts, func(ctx context.Context, c *api.Client) error {
					sv, err := c.Version(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Server:\n  Version: %s\n  Commit:  %s\n  Go:      %s\n  Target:  %s\n",
						sv.Version, sv.Commit, sv.GoVersion, sv.Platform)
					return nil
				})
			},
		},
	)

	return root
}

func withClient(cmd *cobra.Command, opts *globalOpts, fn func(context.Context, *api.Client) error) error {
	c, err := api.New(opts.addr, api.WithAPIKey(opts.apiKey))
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()
	return fn(ctx, c)
}

func fatal(err error) {
	_, _ = os.Stderr.WriteString("hello-cli error: " + err.Error() + "\n")
	os.Exit(1)
}
