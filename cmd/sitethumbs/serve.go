package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var watch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve the deploy directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := loadSite()
		if err != nil {
			return err
		}
		defer site.Close()

		if err := site.Build(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watch {
			go func() {
				if err := site.Watch(ctx); err != nil {
					site.Logger.Error("watcher stopped", "err", err)
				}
			}()
		}

		errc := make(chan error, 1)
		go func() { errc <- site.Start() }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return site.Echo.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	serveCmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild when content changes")
}
