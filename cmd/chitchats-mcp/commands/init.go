package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hishamalhadi/chitchats-mcp/internal/config"
)

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := config.ConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config already exists: %s\n", configPath)
		return nil
	}

	cfg := config.DefaultConfig()
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("chitchats-mcp initialized!\n")
	fmt.Printf("Config: %s\n", configPath)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("1. Edit %s and set api.client_id and api.access_token\n", configPath)
	fmt.Printf("   (or export CHITCHATS_CLIENT_ID and CHITCHATS_ACCESS_TOKEN)\n")
	fmt.Printf("2. Point your MCP client at 'chitchats-mcp serve'\n")

	return nil
}
