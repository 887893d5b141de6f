// Serve command: run the HTTP API for the kitchen dashboard.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/httpapi"
	"github.com/mesh-intelligence/larder/internal/planner"
	"github.com/mesh-intelligence/larder/internal/session"
	"github.com/mesh-intelligence/larder/internal/vision"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes the ledger over HTTP. All routes except /api/login
require a bearer token; create accounts with larder user add. Meal
planning and bill scanning routes are enabled when ai.base_url is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		store, err := attachStore()
		if err != nil {
			return err
		}
		defer store.Detach()

		opts := httpapi.Options{Logger: logger}
		if aiSettings.Configured() {
			opts.Planner = planner.NewClient(planner.Config{
				BaseURL: aiSettings.BaseURL,
				APIKey:  aiSettings.APIKey,
				Model:   aiSettings.TextModel,
			}, store)
			opts.Scanner = vision.NewClient(vision.Config{
				BaseURL: aiSettings.BaseURL,
				APIKey:  aiSettings.APIKey,
				Model:   aiSettings.VisionModel,
			})
		}

		sessions := session.NewManager(store, session.DefaultTTL)
		api := httpapi.NewServer(store, sessions, opts)

		listen := serveListen
		if listen == "" {
			listen = configListenAddr
		}
		if listen == "" {
			listen = defaultListenAddr
		}

		server := &http.Server{
			Addr:         listen,
			Handler:      api.Router(),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", listen)
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default: listen_addr from config.yaml, else :8080)")
}
