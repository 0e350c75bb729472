package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hishamalhadi/chitchats-mcp/internal/chitchats"
	"github.com/hishamalhadi/chitchats-mcp/internal/config"
	"github.com/hishamalhadi/chitchats-mcp/internal/tools"
)

var (
	configPathOverride string
	logLevelOverride   string
	logFileOverride    string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chitchats-mcp",
		Short: "Chit Chats shipping tools over MCP",
		Long:  `chitchats-mcp exposes the Chit Chats shipping API as a set of tools for MCP clients: listing, creating and buying shipments, managing batches and returns, and public tracking lookups.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "init" {
				return configureLogger(config.DefaultConfig(), logLevelOverride, logFileOverride)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return configureLogger(cfg, logLevelOverride, logFileOverride)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPathOverride, "config", "", "Path to config file")
	cmd.PersistentFlags().StringVar(&logLevelOverride, "log-level", "", "Override log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&logFileOverride, "log-file", "", "Write logs to a file instead of stderr")

	cmd.AddCommand(
		NewInitCmd(),
		NewServeCmd(),
		NewToolsCmd(),
		NewStatusCmd(),
		NewVersionCmd(),
	)

	return cmd
}

func loadConfig() (*config.Config, error) {
	if configPathOverride != "" {
		return config.LoadFrom(configPathOverride)
	}
	return config.Load()
}

// loadCatalog builds the API client and the full tool registry from the
// active configuration.
func loadCatalog() (*tools.Registry, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	client := chitchats.New(cfg.API.Host, cfg.API.ClientID, cfg.API.AccessToken)
	reg, err := tools.NewCatalog(client)
	if err != nil {
		return nil, nil, fmt.Errorf("build tool catalog: %w", err)
	}
	return reg, cfg, nil
}
