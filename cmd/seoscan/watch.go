package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/audiencelab/seoscan/internal/config"
	"github.com/audiencelab/seoscan/internal/database"
	"github.com/audiencelab/seoscan/internal/sheets"
	"github.com/audiencelab/seoscan/internal/trigger"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Serve the spreadsheet edit webhook and dispatch research runs",
		Long: `Watch runs an HTTP server that receives spreadsheet edit events and
fires the remote research trigger for each new target website.

POST /trigger with a JSON body {"cell": "B1", "value": "example.com"}
dispatches a research run for example.com. Repeated events with the
same value are suppressed so a run fires once per distinct target.

The endpoint URL comes from the configuration file (dispatch.url) and
the bearer token from the DISPATCH_TOKEN environment variable.

Examples:
  # Listen on the default address
  seoscan watch

  # Listen on a custom port
  seoscan watch --addr :9000`,
		Args: cobra.NoArgs,
		RunE: runWatchCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoscan in current or home directory)")
	cmd.Flags().StringP("addr", "a", "",
		"Listen address (default from config, falls back to :8466)")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, _ []string) error {
	configPathFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	cfg, err := loadDispatchConfig(configPathFlag)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.WatchAddr
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

	opts := []trigger.Option{
		trigger.WithLogger(logger),
	}
	if cfg.File.Dispatch.EventType != "" {
		opts = append(opts, trigger.WithEventType(cfg.File.Dispatch.EventType))
	}
	if cfg.File.SpreadsheetID != "" && creds.SheetsAccessToken != "" {
		statusWriter := sheets.NewClient(cfg.File.SpreadsheetID, creds.SheetsAccessToken,
			sheets.WithBaseURL(cfg.File.Endpoints.SheetsBaseURL),
			sheets.WithSheetName(cfg.File.SheetName),
			sheets.WithLogger(logger),
		)
		opts = append(opts, trigger.WithStatusWriter(statusWriter))
	}

	dispatcher := trigger.NewDispatcher(cfg.File.Dispatch.URL, creds.DispatchToken, db, opts...)
	srv := trigger.NewServer(dispatcher, logger).HTTPServer(addr)

	// Graceful shutdown on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping server...")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("watch server listening", "addr", addr)
		fmt.Printf("Watching for spreadsheet edits on %s\n", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		logger.Info("server stopped")
		return nil
	}
}
