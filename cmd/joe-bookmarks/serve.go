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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joestump/joe-bookmarks/internal/auth"
	"github.com/joestump/joe-bookmarks/internal/build"
	"github.com/joestump/joe-bookmarks/internal/config"
	"github.com/joestump/joe-bookmarks/internal/db"
	"github.com/joestump/joe-bookmarks/internal/handler"
	"github.com/joestump/joe-bookmarks/internal/logger"
	"github.com/joestump/joe-bookmarks/internal/metrics"
	"github.com/joestump/joe-bookmarks/internal/shortcode"
	"github.com/joestump/joe-bookmarks/internal/store"
)

const (
	shutdownTimeout = 10 * time.Second
	gaugeInterval   = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Log.Level)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync(log) }()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			codes := shortcode.New(
				shortcode.WithLength(cfg.ShortCode.Length),
				shortcode.WithMaxLength(cfg.ShortCode.MaxLength),
				shortcode.WithAttempts(cfg.ShortCode.Attempts),
			)
			userStore := store.NewUserStore(database)
			bookmarkStore := store.NewBookmarkStore(database, codes)

			router := handler.NewRouter(handler.Deps{
				Log:       log,
				Tokens:    auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL),
				Users:     userStore,
				Bookmarks: bookmarkStore,
				Codes:     codes,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go runGaugeRefresher(ctx, log, userStore, bookmarkStore)

			server := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErrCh := make(chan error, 1)
			go func() {
				serverErrCh <- server.ListenAndServe()
			}()

			log.Info("listening",
				zap.String("addr", cfg.HTTP.Addr),
				zap.String("driver", cfg.DB.Driver),
				zap.Int("shortcode_length", codes.Length()),
				zap.Int("shortcode_max_length", codes.MaxLength()),
				zap.String("build", build.String()),
			)

			select {
			case <-ctx.Done():
				log.Info("shutdown signal received, draining connections")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("server shutdown: %w", err)
				}
				return nil
			case err := <-serverErrCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)
			}
		},
	}
}

// runGaugeRefresher keeps the user and bookmark gauges current until ctx is
// cancelled.
func runGaugeRefresher(ctx context.Context, log *zap.Logger, users *store.UserStore, bookmarks *store.BookmarkStore) {
	refresh := func() {
		if n, err := users.Count(ctx); err == nil {
			metrics.UsersTotal.Set(float64(n))
		} else if ctx.Err() == nil {
			log.Warn("count users", zap.Error(err))
		}
		if n, err := bookmarks.Count(ctx); err == nil {
			metrics.BookmarksStored.Set(float64(n))
		} else if ctx.Err() == nil {
			log.Warn("count bookmarks", zap.Error(err))
		}
	}

	refresh()
	ticker := time.NewTicker(gaugeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			refresh()
		case <-ctx.Done():
			return
		}
	}
}
