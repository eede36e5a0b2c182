package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/h0rv/gridsort/internal/config"
	"github.com/h0rv/gridsort/internal/gh"
	"github.com/h0rv/gridsort/internal/logging"
	"github.com/h0rv/gridsort/internal/source"
	"github.com/h0rv/gridsort/internal/store"
	"github.com/h0rv/gridsort/internal/tui"
	"github.com/spf13/cobra"
)

// defaultSampleSize is used when no item source is given.
const defaultSampleSize = 12

var (
	// CLI flags
	columnsFlag int
	gapFlag     float64
	itemsFlag   string
	sampleFlag  int
	ownerFlag   string
	projectFlag int
	githubFlag  bool
	saveFlag    bool
	configFlag  string
	verboseFlag bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridsort",
		Short: "Drag-and-drop reordering for a grid of items",
		Long: `gridsort lays items out in a fixed-column grid in the terminal and lets you
reorder them by dragging tiles with the mouse or moving them with the keyboard.

Item sources:
  --items FILE     TOML file of [[item]] tables (id, title, url, kind, body)
  --sample N       N generated photos
  --github         Items of a GitHub Projects v2 board, picked interactively
  --owner LOGIN    Same, skipping the owner picker (add --project N to skip both)

Without a source a sample grid of 12 photos is shown.

GitHub authentication:
  1. GitHub CLI: Run 'gh auth login' (preferred)
  2. Environment variable: Set GITHUB_TOKEN`,
		SilenceUsage: true,
		RunE:         run,
	}

	// Define CLI flags
	rootCmd.Flags().IntVar(&columnsFlag, "columns", 0, "Number of grid columns. Overrides grid.columns.")
	rootCmd.Flags().Float64Var(&gapFlag, "gap", 0, "Gap between tiles in pixels. Overrides grid.gap_px.")
	rootCmd.Flags().StringVar(&itemsFlag, "items", "", "TOML file to load items from.")
	rootCmd.Flags().IntVar(&sampleFlag, "sample", 0, "Show N generated photos.")
	rootCmd.Flags().StringVar(&ownerFlag, "owner", "", "GitHub owner (organization or user login). Skips owner prompt.")
	rootCmd.Flags().IntVar(&projectFlag, "project", 0, "Project number. Requires --owner. Skips project picker.")
	rootCmd.Flags().BoolVar(&githubFlag, "github", false, "Load items from a GitHub project chosen interactively.")
	rootCmd.Flags().BoolVar(&saveFlag, "save", false, "Write the order back to the --items file after every change.")
	rootCmd.Flags().StringVar(&configFlag, "config", "", "Config file (default ~/.config/gridsort/config.toml).")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log at debug level.")

	rootCmd.MarkFlagsMutuallyExclusive("items", "sample", "github")
	rootCmd.MarkFlagsMutuallyExclusive("items", "sample", "owner")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Validate flags
	if projectFlag != 0 && ownerFlag == "" {
		return fmt.Errorf("--project requires --owner to be specified")
	}
	if saveFlag && itemsFlag == "" {
		return fmt.Errorf("--save requires --items to be specified")
	}
	if cmd.Flags().Changed("sample") && sampleFlag < 1 {
		return fmt.Errorf("--sample must be at least 1")
	}

	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("columns") {
		cfg.Grid.Columns = columnsFlag
	}
	if cmd.Flags().Changed("gap") {
		cfg.Grid.GapPx = gapFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file
	level := logging.ParseLevel(cfg.Log.Level)
	if verboseFlag {
		level = log.DebugLevel
	}
	logger, closer, err := logging.OpenFile(cfg.Log.File, level)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := logging.WithLogger(context.Background(), logger)

	opts := tui.AppOptions{
		Grid: tui.GridOptions{
			Columns:    cfg.Grid.Columns,
			GapPx:      cfg.Grid.GapPx,
			Thresholds: cfg.Drag.Thresholds(),
			UI:         cfg.UI,
			Logger:     logger,
		},
	}

	switch {
	case itemsFlag != "":
		fs := source.NewFileSource(itemsFlag)
		opts.Loader = fs
		opts.Title = filepath.Base(itemsFlag)
		if saveFlag {
			opts.Saver = fs
		}

	case githubFlag || ownerFlag != "":
		// Create GitHub client (handles authentication)
		client, err := gh.New(nil)
		if err != nil {
			return fmt.Errorf("failed to create GitHub client: %w\n\nPlease authenticate using:\n  gh auth login\nor set the GITHUB_TOKEN environment variable", err)
		}
		client.SetLogger(logger)
		opts.Client = client
		opts.Owner = ownerFlag
		opts.Project = projectFlag

	default:
		n := sampleFlag
		if n == 0 {
			n = defaultSampleSize
		}
		opts.Loader = source.SampleSource{N: n}
		opts.Title = fmt.Sprintf("sample (%d photos)", n)
	}

	logger.Info("starting", "columns", cfg.Grid.Columns, "gap", cfg.Grid.GapPx, "items", itemsFlag, "github", opts.Client != nil)

	app := tui.NewAppModel(ctx, store.New(), opts)

	// Run Bubble Tea program
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}

	return nil
}
