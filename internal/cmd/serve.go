package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rssdigest/app"
	"rssdigest/cli/control"
)

func serveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Rebuild the digest periodically and serve it on the control address",
		RunE: func(cmd *cobra.Command, args []string) error {
			listener, err := control.TryListen(s.cfg.ControlAddr)
			if err != nil {
				if errors.Is(err, control.ErrAlreadyRunning) {
					fmt.Println("Background process is already running")
				}
				return err
			}
			defer listener.Close()

			dir, err := s.directory()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			p, err := s.pipeline(ctx)
			if err != nil {
				return err
			}
			defer p.close()

			svc := app.NewService(p.agg, dir.Feeds(), s.cfg.Interval, s.cfg.Workers, s.logger)
			if p.purger != nil {
				svc.WithPurger(p.purger)
			}
			srv := &http.Server{Handler: control.NewServer(svc, s.logger)}
			go func() {
				if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.logger.Error("control server error", "error", err)
				}
			}()

			if err := svc.Start(ctx); err != nil {
				return fmt.Errorf("failed to start digest service: %w", err)
			}
			fmt.Printf("The digest service has started (interval = %s, workers = %d, control = %s)\n",
				s.cfg.Interval, s.cfg.Workers, s.cfg.ControlAddr)

			<-ctx.Done()

			_ = srv.Close()
			if err := svc.Stop(); err != nil {
				fmt.Printf("Error during shutdown: %v\n", err)
			} else {
				fmt.Println("Graceful shutdown: digest service stopped")
			}
			return nil
		},
	}
}
