package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"brandcheck/internal/app"
	"brandcheck/internal/config"
)

// NewServeCommand creates the serve command.
func NewServeCommand(_ *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the review web server",
		Long: `Run the review web server.

Configuration is read from the environment and an optional .env file.
See ADMIN_PASSWORD, REQUIRE_SESSION, BLOB_BACKEND and PORT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Port = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, cmd)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides PORT")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, cmd *cobra.Command) error {
	a, err := app.Setup(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
