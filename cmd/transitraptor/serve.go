package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/antigravity/transit-raptor/internal/config"
	"github.com/antigravity/transit-raptor/internal/httpapi"
)

var flagListenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the schedule once and serve the HTTP query surface",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagListenAddr, "addr", "p", "", "HTTP listen address, e.g. :8080")
}

// runServe is also the handler --full-network (-f) delegates to on the
// root command, so it must not assume it is running as the "serve"
// cobra.Command.
func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}

	addr := flagListenAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	server := httpapi.NewServer(store, cfg.Tunables)
	slog.InfoContext(ctx, "serving transit routing queries", "addr", addr)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
