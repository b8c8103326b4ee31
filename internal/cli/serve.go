package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/shubh-37/linkedin-autoposter/internal/server"
)

func (c *cli) newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generator over HTTP for the two-stage deployment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.cfg.ValidateForGeneration(); err != nil {
				return err
			}

			deps, err := c.deps(ctx)
			if err != nil {
				return err
			}
			defer deps.Close()

			fn, err := deps.GeneratorFunction()
			if err != nil {
				return err
			}

			var health server.HealthChecker
			if deps.Store != nil {
				health = func(ctx context.Context) error {
					_, err := deps.Store.ListRuns(ctx, 1)
					return err
				}
			}

			srv := server.New(fn, deps.Metrics, health, c.log)
			if port == "" {
				port = c.cfg.Port
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(port) }()
			c.ui.Success("Generator listening on :%s", port)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			c.ui.Info("Shutting down gracefully...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default $PORT or 3000)")
	return cmd
}
