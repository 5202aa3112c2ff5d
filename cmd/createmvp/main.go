// Package main is the entry point for the createmvp CLI.
//
// Without a subcommand it starts the terminal UI: load the configuration,
// open the catalog store (bundled data plus the optional rules directory),
// wire the chat client with the stored API token, then hand everything to
// Bubble Tea. The subcommands expose the same catalog, installer, chat and
// MCP functionality for scripts and editors.
package main

import (
	"fmt"
	"os"

	"createmvp/internal/catalog"
	"createmvp/internal/chat"
	"createmvp/internal/config"
	"createmvp/internal/credentials"
	"createmvp/internal/install"
	"createmvp/internal/logging"
	"createmvp/internal/tui"
	"createmvp/internal/tui/helpers"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

// configPath is the --config flag; empty means the standard location.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "createmvp",
	Short: "Browse AI tools and editor rules, and plan your MVP with an AI model",
	Long: `createmvp is a terminal companion for building an MVP with AI tools.

Running it without a subcommand opens the interactive UI with the AI tools,
Cursor rules, Windsurf rules and MCP servers catalogs and the planning chat.

Quick Start:
  createmvp                               # Open the interactive UI
  createmvp catalog list cursor           # List Cursor rules
  createmvp rules install python-fastapi  # Add a rule to this project
  createmvp login                         # Store your CreateMVP API token
  createmvp chat "Plan a todo app MVP"    # Ask a one-off question`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runTUI,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: $XDG_CONFIG_HOME/createmvp/config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(catalogCmd, rulesCmd, chatCmd, modelsCmd, loginCmd, logoutCmd, mcpCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	appLogger := logging.NewAppLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	appLogger.Debug("Configuration loaded", "api_url", cfg.APIURL, "rules_dir", cfg.RulesDir)

	store, err := catalog.Open(appLogger, cfg.ExpandedRulesDir())
	if err != nil {
		return fmt.Errorf("failed to load catalogs: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	// Dimensions arrive with the first WindowSizeMsg
	ctx := helpers.NewUIContext(0, 0, cfg, appLogger)
	ctx.Store = store
	ctx.Client = newClient(cfg, appLogger)
	ctx.Session = chat.NewSession(appLogger, cfg.PreserveContext)
	ctx.Installer = install.New(appLogger)
	ctx.ProjectDir = cwd

	program := tea.NewProgram(tui.NewMainModel(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		appLogger.Error("Error running TUI program", "error", err)
		return err
	}
	return nil
}

// loadConfig reads --config when given, the standard location otherwise.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFrom(configPath)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return cfg, nil
}

// openStore loads the configuration and the catalogs it points at.
func openStore(logger *logging.AppLogger) (*config.Config, *catalog.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := catalog.Open(logger, cfg.ExpandedRulesDir())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalogs: %w", err)
	}
	return cfg, store, nil
}

func newClient(cfg *config.Config, logger *logging.AppLogger) chat.Client {
	token := credentials.NewManager().TokenOrEmpty()
	return chat.NewHTTPClient(cfg.APIURL, token, logger)
}
