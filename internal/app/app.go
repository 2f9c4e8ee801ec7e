package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/cmdlib/internal/analytics"
	"github.com/atomicstack/cmdlib/internal/backend"
	"github.com/atomicstack/cmdlib/internal/catalog"
	"github.com/atomicstack/cmdlib/internal/external"
	"github.com/atomicstack/cmdlib/internal/logging/events"
	"github.com/atomicstack/cmdlib/internal/projector"
	"github.com/atomicstack/cmdlib/internal/reference"
	"github.com/atomicstack/cmdlib/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	DBPath        string
	SeedPath      string
	Watch         bool
	PollInterval  time.Duration
	Width         int
	Height        int
	ShowFooter    bool
	Verbose       bool
	Debug         bool
	AnalyticsPath string
	Theme         string
}

const envTmuxSocket = "CMDLIB_TMUX_SOCKET"

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	ctx := context.Background()
	dbPath, err := resolveDBPath(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	store, err := catalog.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	snapshot, err := loadCatalog(ctx, store, cfg.SeedPath)
	if err != nil {
		return err
	}
	proj := projector.New(snapshot, analytics.New(cfg.AnalyticsPath, cfg.Debug))

	opts := backend.Options{Interval: cfg.PollInterval}
	if cfg.Watch {
		opts.SeedPath = cfg.SeedPath
	}
	watcher := backend.NewWatcher(store, opts)
	defer watcher.Stop()

	model := ui.NewModel(proj, ui.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		Watcher:    watcher,
		Sharer:     external.NewSharer(os.Getenv(envTmuxSocket)),
		Market:     external.NewMarketplace(),
		Pages:      reference.NewService(store, cfg.Theme),
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	events.App.Stop(err)
	return err
}

// loadCatalog imports the seed file when one is given, or the bundled
// catalog when the store is still empty, and returns the resulting snapshot.
func loadCatalog(ctx context.Context, store *catalog.Store, seedPath string) (catalog.Snapshot, error) {
	seedPath = strings.TrimSpace(seedPath)
	switch {
	case seedPath != "":
		cat, err := catalog.LoadFile(seedPath)
		if err != nil {
			return catalog.Snapshot{}, err
		}
		if err := store.Import(ctx, cat); err != nil {
			return catalog.Snapshot{}, fmt.Errorf("import %s: %w", seedPath, err)
		}
		events.Catalog.Import(seedPath, len(cat.Groups))
	default:
		empty, err := store.Empty(ctx)
		if err != nil {
			return catalog.Snapshot{}, err
		}
		if empty {
			cat, err := catalog.DefaultSeed()
			if err != nil {
				return catalog.Snapshot{}, err
			}
			if err := store.Import(ctx, cat); err != nil {
				return catalog.Snapshot{}, fmt.Errorf("import bundled catalog: %w", err)
			}
			events.Catalog.Import("bundled", len(cat.Groups))
		}
	}
	snapshot, err := store.Snapshot(ctx)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("load catalog: %w", err)
	}
	return snapshot, nil
}

func resolveDBPath(path string) (string, error) {
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		return trimmed, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cmdlib", "catalog.db"), nil
}
