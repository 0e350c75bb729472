package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hishamalhadi/chitchats-mcp/internal/mcp"
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over MCP on stdio",
		Long:  `Serve speaks MCP on stdin/stdout until the client closes the stream. With http.addr configured it also listens for one-shot JSON-RPC messages over HTTP. Logs go to stderr, never stdout.`,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg, cfg, err := loadCatalog()
	if err != nil {
		return err
	}
	if !cfg.HasCredentials() {
		slog.Warn("no Chit Chats credentials configured; only get_tracking will succeed",
			"hint", "set CHITCHATS_CLIENT_ID and CHITCHATS_ACCESS_TOKEN")
	}

	server := mcp.NewServer(reg)
	slog.Info("mcp server running", "host", cfg.API.Host, "tools", len(reg.List()), "authenticated", cfg.HasCredentials())

	stdioDone := make(chan error, 1)
	go func() {
		stdioDone <- server.ServeStdio(ctx, os.Stdin, os.Stdout)
	}()

	errCh := make(chan error, 1)
	var httpServer *mcp.HTTPServer
	if strings.TrimSpace(cfg.HTTP.Addr) != "" {
		httpServer = mcp.NewHTTPServer(cfg.HTTP.Addr, cfg.HTTP.Token, server)
		go func() {
			if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http transport failed: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-stdioDone:
		// Stdin closed: the client is gone and the server's work is done.
	case runErr = <-errCh:
		slog.Error("server component failed", "error", runErr)
	}
	cancel()
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		slog.Info("shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("http shutdown failed", "error", err)
		}
	}

	return runErr
}
