package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/oukeidos/legalese/internal/api"
	"github.com/oukeidos/legalese/internal/config"
	"github.com/oukeidos/legalese/internal/logger"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	noServerKey bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the translation endpoint as an HTTP server",
		Long: "Run the translation endpoint as an HTTP server.\n\n" +
			"The server key is read from the keychain or the provider environment variable.\n" +
			"Requests may carry their own userApiKey; without any key they get demo output.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().String("addr", config.DefaultAddr, "Listen address")
	cmd.Flags().BoolVar(&opts.noServerKey, "no-server-key", false, "Ignore stored keys; only userApiKey in requests reaches the backend")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	cfg := root.cfg
	t, err := newTranslator(cfg)
	if err != nil {
		return err
	}

	serverKey := ""
	if !opts.noServerKey {
		var source string
		serverKey, source = getKey(cfg.Provider, true)
		if serverKey != "" {
			logger.Info("Using server API Key", "provider", cfg.Provider, "source", source)
		} else {
			logger.Warn("No server API key found; requests without userApiKey get demo output", "provider", cfg.Provider)
		}
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}

	ctx, stop := signalContext()
	defer stop()

	srv := api.NewServer(cfg.Addr, api.NewProviderHandler(t, serverKey, cfg.Provider), cfg.Timeout)
	logger.Info("Server listening", "addr", ln.Addr().String(), "provider", cfg.Provider, "model", cfg.Model)
	return serve(ctx, srv, ln)
}

// serve runs srv on ln until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
