package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/nls"
	httpAdapter "github.com/aretw0/nls/pkg/adapters/http"
	"github.com/aretw0/nls/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the NLS command pipeline as a JSON API over HTTP (/nls/preview, /nls/apply,
/nls/batch, /nls/run, /nls/help). With --watch the spec directory is hot-reloaded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := httpAdapter.Spec(); err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		engine, logger, err := newEngine(cmd, observability.NewMetrics(reg))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := []httpAdapter.Option{
			httpAdapter.WithLogger(logger),
			httpAdapter.WithVersion(nls.Version),
			httpAdapter.WithGatherer(reg),
		}
		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			switch err := engine.Watch(ctx); {
			case errors.Is(err, nls.ErrNotWatchable):
				logger.Warn("ontology source cannot be watched, hot reload disabled")
			case err != nil:
				return err
			default:
				opts = append(opts, httpAdapter.WithWatcher(engine.Reloads()))
			}
		}

		srv := &http.Server{
			Addr:              ":" + setting(cmd, "port", envPort),
			Handler:           httpAdapter.NewHandler(engine, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		lifecycle.Go(ctx, func(context.Context) error {
			logger.Info("NLS server listening", "address", srv.Addr, "ontology", engine.Name, "templates", engine.Ontology().Len())
			fmt.Fprintf(cmd.ErrOrStderr(), "Starting NLS Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
			return nil
		})

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
			fmt.Fprintln(cmd.ErrOrStderr(), "\nShutdown signal received, stopping server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "NLS Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on [$"+envPort+"]")
	serveCmd.Flags().Bool("watch", false, "Reload the ontology when the spec directory changes")
}
