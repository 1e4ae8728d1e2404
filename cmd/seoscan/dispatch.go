package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/audiencelab/seoscan/internal/config"
	"github.com/audiencelab/seoscan/internal/database"
	"github.com/audiencelab/seoscan/internal/sheets"
	"github.com/audiencelab/seoscan/internal/trigger"
)

// NewDispatchCmd creates the dispatch command.
func NewDispatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispatch <target-website>",
		Short: "Fire the remote research trigger for a target website",
		Long: `Dispatch sends a repository-dispatch-style request to the configured
automation endpoint, asking it to start a research run for the target
website.

The same duplicate suppression applies as in watch mode: dispatching
the identical value twice in a row is a no-op. Use --force to clear
the latch and dispatch anyway.

The endpoint URL comes from the configuration file (dispatch.url) and
the bearer token from the DISPATCH_TOKEN environment variable.

Examples:
  # Dispatch a research run for example.com
  seoscan dispatch example.com

  # Re-dispatch the same target
  seoscan dispatch --force example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runDispatchCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoscan in current or home directory)")
	cmd.Flags().StringP("cell", "", sheets.CellTrigger,
		"Spreadsheet cell the dispatch is attributed to")
	cmd.Flags().BoolP("force", "f", false,
		"Dispatch even if the target matches the last dispatched value")

	return cmd
}

// runDispatchCmd executes the dispatch command.
func runDispatchCmd(cmd *cobra.Command, args []string) error {
	target := args[0]

	configPathFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cell, err := cmd.Flags().GetString("cell")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	cfg, err := loadDispatchConfig(configPathFlag)
	if err != nil {
		return err
	}

	creds := config.LoadCredentials()
	if err := creds.RequireDispatch(); err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if force {
		if err := db.SetLastTriggerValue(ctx, cell, ""); err != nil {
			return fmt.Errorf("failed to clear trigger latch: %w", err)
		}
	}

	opts := []trigger.Option{
		trigger.WithLogger(logger),
	}
	if cfg.File.Dispatch.EventType != "" {
		opts = append(opts, trigger.WithEventType(cfg.File.Dispatch.EventType))
	}

	// Status cells are written only when spreadsheet access is configured;
	// otherwise the outcome goes to the log and stdout alone.
	if cfg.File.SpreadsheetID != "" && creds.SheetsAccessToken != "" {
		statusWriter := sheets.NewClient(cfg.File.SpreadsheetID, creds.SheetsAccessToken,
			sheets.WithBaseURL(cfg.File.Endpoints.SheetsBaseURL),
			sheets.WithSheetName(cfg.File.SheetName),
			sheets.WithLogger(logger),
		)
		opts = append(opts, trigger.WithStatusWriter(statusWriter))
	}

	dispatcher := trigger.NewDispatcher(cfg.File.Dispatch.URL, creds.DispatchToken, db, opts...)

	result, err := dispatcher.HandleEdit(ctx, cell, target)
	if err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}

	if result.Suppressed {
		fmt.Printf("Dispatch suppressed: %q was already dispatched (use --force to re-send)\n", result.Target)
		return nil
	}

	fmt.Println(result.Status)
	return nil
}

// loadDispatchConfig loads the configuration file for the dispatch and
// watch commands. Both require dispatch.url to be set.
func loadDispatchConfig(configPathFlag string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.ConfigFilePath = configPathFlag

	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath == "" {
		if configPathFlag != "" {
			return nil, fmt.Errorf("configuration file not found: %s", configPathFlag)
		}
		return nil, fmt.Errorf("no configuration file found (run 'seoscan init' to create one)")
	}

	var err error
	cfg.File, err = config.LoadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	if cfg.File.Dispatch.URL == "" {
		return nil, fmt.Errorf("dispatch.url is not set in %s", configPath)
	}

	return cfg, nil
}
