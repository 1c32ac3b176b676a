package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/sentitag/internal/logging"
	"github.com/cognicore/sentitag/internal/server"
	"github.com/cognicore/sentitag/pkg/sentitag"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(g *globalOptions) *cobra.Command {
	var (
		addr string
		db   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the classifier over HTTP",
		Long: `Serve exposes POST /api/classify, GET /api/categories, /health/live and
/metrics. With --db it also records every request and serves
/api/history and /api/counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("db") {
				g.cfg.Store.Path = db
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			lex, err := g.cfg.BuildLexicon()
			if err != nil {
				return err
			}
			srvOpts := server.Options{
				Classifier: sentitag.New(lex),
				Logger:     logging.Logger,
			}

			if g.cfg.Store.Path != "" {
				st, err := g.cfg.BuildStore(ctx)
				if err != nil {
					return err
				}
				defer st.Close()
				srvOpts.Store = st
			}

			return serveUntilDone(ctx, server.NewServer(srvOpts), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&db, "db", "", "sqlite history database; enables history endpoints")
	return cmd
}

// serveUntilDone runs srv until ctx is cancelled, then shuts it down.
func serveUntilDone(ctx context.Context, srv *server.Server, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
