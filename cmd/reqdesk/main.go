package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gravitrone/reqdesk/internal/cmd"
	"github.com/gravitrone/reqdesk/internal/config"
	"github.com/gravitrone/reqdesk/internal/logging"
	"github.com/gravitrone/reqdesk/internal/ui"
)

func main() {
	root := &cobra.Command{
		Use:   "reqdesk",
		Short: "reqdesk - request tracking",
		Long:  "reqdesk: browse the Requests list, edit and triage requests, and run a local service.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(cmd.ConfigureCmd())
	root.AddCommand(cmd.ListCmd())
	root.AddCommand(cmd.DevserverCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("not configured. run 'reqdesk configure' first.")
		}
		return err
	}

	_, logFile, err := logging.SetupFile(cfg.LogPath())
	if err != nil {
		return err
	}
	defer logFile.Close()

	watcher, err := config.NewWatcher(config.Path())
	if err != nil {
		slog.Warn("config reload disabled", slog.Any("error", err))
		watcher = nil
	} else {
		watcher.Start()
		defer watcher.Close()
	}

	app := ui.NewApp(cmd.NewClient(cfg), cfg, watcher)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
