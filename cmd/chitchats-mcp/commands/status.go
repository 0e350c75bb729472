package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hishamalhadi/chitchats-mcp/internal/chitchats"
	"github.com/hishamalhadi/chitchats-mcp/internal/config"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and API connectivity",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("=== chitchats-mcp Status ===")
	fmt.Println()

	fmt.Printf("Config: %s\n", config.ConfigPath())
	if _, err := os.Stat(config.ConfigPath()); err == nil {
		fmt.Println("  Status: OK")
	} else {
		fmt.Println("  Status: Not found (run 'chitchats-mcp init' or configure via environment)")
	}

	fmt.Println("\nAPI:")
	fmt.Printf("  Host: %s\n", cfg.API.Host)
	if cfg.API.ClientID != "" {
		fmt.Printf("  Client ID: %s\n", cfg.API.ClientID)
	} else {
		fmt.Println("  Client ID: not set")
	}
	if cfg.API.AccessToken != "" {
		fmt.Println("  Access token: configured")
	} else {
		fmt.Println("  Access token: not set")
	}

	fmt.Println("\nHTTP transport:")
	if cfg.HTTP.Addr != "" {
		fmt.Printf("  Address: %s\n", cfg.HTTP.Addr)
		if cfg.HTTP.Token != "" {
			fmt.Println("  Auth:    token configured")
		} else {
			fmt.Println("  Auth:    no token (open)")
		}
	} else {
		fmt.Println("  Disabled (stdio only)")
	}

	fmt.Println("\nAPI connectivity:")
	if !cfg.HasCredentials() {
		fmt.Println("  Skipped (no credentials)")
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	client := chitchats.New(cfg.API.Host, cfg.API.ClientID, cfg.API.AccessToken)
	var out struct {
		Count int `json:"count"`
	}
	res := client.Do(ctx, http.MethodGet, "/shipments/count", nil, &out)
	switch {
	case res.OK():
		fmt.Printf("  OK (%d shipment(s) on account)\n", out.Count)
	case res.Message != "":
		fmt.Printf("  Failed: %s\n", res.Message)
	default:
		fmt.Printf("  Failed: HTTP %d\n", res.Status)
	}

	return nil
}
