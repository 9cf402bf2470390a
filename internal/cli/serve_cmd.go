package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/timetable-viewer/internal/backend"
	"github.com/timetable-viewer/internal/cache"
	"github.com/timetable-viewer/internal/calendars"
	"github.com/timetable-viewer/internal/config"
	httpx "github.com/timetable-viewer/internal/http"
	"github.com/timetable-viewer/internal/http/static"
	"github.com/timetable-viewer/internal/http/templates"
	"github.com/timetable-viewer/internal/migrations"
	"github.com/timetable-viewer/internal/timetables"
	"github.com/timetable-viewer/internal/timezone"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	cfg := config.Default()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the timetable pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnv(cmd.Flags()); err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), level)

			ln, err := net.Listen("tcp", cfg.Address)
			if err != nil {
				return fmt.Errorf("tcp: %w", err)
			}
			return Serve(cmd.Context(), logger, cfg, ln)
		},
	}
	cfg.BindFlags(cmd.Flags())
	return cmd
}

// Serve serves the timetable pages on ln until ctx is done, then shuts the
// server down gracefully.
func Serve(ctx context.Context, logger *slog.Logger, cfg config.Config, ln net.Listener) error {
	db, err := cache.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(logger, db); err != nil {
		return fmt.Errorf("cache migrations: %w", err)
	}

	location, err := timezone.Load(cfg.TimeZone)
	if err != nil {
		return err
	}
	csrfKey, err := cfg.Key()
	if err != nil {
		return fmt.Errorf("csrf-key: %w", err)
	}
	client, err := backend.NewClient(logger, cfg.BackendURL, cfg.BackendTimeout)
	if err != nil {
		return err
	}

	var renderer templates.Renderer
	var staticHandler http.Handler
	if cfg.Watch {
		renderer = templates.NewFilesystemTemplates("./internal/http/templates")
		staticHandler = static.NewFilesystemHandler("./internal/http/static/files")
	} else {
		renderer = templates.NewEmbedTemplates()
		staticHandler = static.NewEmbedHandler()
	}

	timetablesService := timetables.NewService(logger, client, cache.NewStore(db, cfg.CacheTTL))
	calendarsService := calendars.NewService(timetablesService, location)
	htmlHandler := httpx.Handler(
		logger,
		renderer,
		staticHandler,
		timetablesService,
		calendarsService,
		httpx.Options{
			Measurer:     cfg.Measurer(),
			SlotHeight:   cfg.SlotHeight,
			Weeks:        cfg.Weeks,
			CSRFKey:      csrfKey,
			SecureCookie: cfg.SecureCookie,
		},
	)

	httpServer := http.Server{
		Handler:           htmlHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Wait for shut down in a separate goroutine.
	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Info("shutting down", "reason", context.Cause(ctx))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		errCh <- httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "address", ln.Addr().String(), "backend", cfg.BackendURL)
	if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http serve: %w", err)
	}

	if err := <-errCh; err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("application stopped")
	return nil
}
