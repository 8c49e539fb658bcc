package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/gsales/gsales/internal/activity"
	"github.com/gsales/gsales/internal/config"
	"github.com/gsales/gsales/internal/domain"
	"github.com/gsales/gsales/internal/log"
	"github.com/gsales/gsales/internal/marker"
	"github.com/gsales/gsales/internal/netmon"
	"github.com/gsales/gsales/internal/sales"
	"github.com/gsales/gsales/internal/store"
	"github.com/gsales/gsales/internal/syncer"
	"github.com/gsales/gsales/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("gsales %s\n", Version)
		return
	}

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired components; the store handle is owned here and
// injected everywhere, never held as package state.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	marker   *marker.Marker
	activity *activity.Logger
	sales    *sales.Service
	engine   *syncer.Engine
}

func run(args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting gsales", "version", Version)

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer st.Close()

	mk := marker.New(cfg.MarkerPath())
	act := activity.NewLogger(st, logger)
	salesSvc := sales.NewService(st, act, logger)
	client := syncer.NewClient(cfg.Server.URL, cfg.Sync.Timeout, logger)
	engine := syncer.NewEngine(st, client, act, mk, logger, cfg.Sync.Pause)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		marker:   mk,
		activity: act,
		sales:    salesSvc,
		engine:   engine,
	}

	if len(args) > 0 {
		return a.runCommand(args)
	}
	return a.runTUI()
}

// runCommand handles the headless subcommands used for scripting.
func (a *app) runCommand(args []string) error {
	switch args[0] {
	case "sync":
		summary, err := a.engine.SyncAll(context.Background())
		if err != nil {
			return err
		}
		if summary.Attempted == 0 {
			fmt.Println("No unsynced sales.")
			return nil
		}
		fmt.Printf("Sync complete: %s.\n", summary)
		return nil

	case "export":
		dir := a.cfg.Export.Dir
		if len(args) > 1 {
			dir = args[1]
		}
		path, err := a.activity.WriteCSVFile(dir)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %s\n", path)
		return nil

	case "clear-logs":
		if err := a.activity.Clear(); err != nil {
			return err
		}
		fmt.Println("Activity log cleared.")
		return nil

	default:
		return fmt.Errorf("unknown command %q (expected sync, export or clear-logs)", args[0])
	}
}

func (a *app) runTUI() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; use the sync/export/clear-logs commands instead")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reconnect-triggered passes run silently: the summary is still logged,
	// the result reaches the TUI as a background notice.
	var p *tea.Program
	onOnline := func() {
		a.activity.Log(domain.EventReconnect, "Network reconnected — attempting background sync")
		go func() {
			summary, err := a.engine.SyncAll(ctx)
			if p != nil {
				p.Send(tui.SyncDoneMsg{Summary: summary, Err: err, Silent: true})
			}
		}()
	}

	monitor := netmon.New(a.cfg.Server.URL, a.cfg.Network.ProbeInterval, onOnline, a.logger)

	model := tui.NewModel(a.sales, a.activity, a.engine, monitor, a.marker, a.cfg.Export.Dir)
	p = tea.NewProgram(model, tea.WithAltScreen())

	monitor.Start(ctx)
	defer monitor.Stop()

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}

// runSetupFlow prompts for the sync endpoint on first start
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to G.sales!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter your sync endpoint URL (e.g., https://example.com/intake): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		url := strings.TrimSpace(input)
		if url == "" {
			fmt.Println("Endpoint URL cannot be empty. Please try again.")
			continue
		}
		cfg.Server.URL = url
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}
