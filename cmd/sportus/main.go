// Command sportus is a terminal client for location-aware sports course and
// facility recommendations.
//
// Usage:
//
//	sportus                 Run the recommendation feed
//	sportus token set <v>   Store the backend access token
//	sportus token show      Print the stored token (masked)
//	sportus token clear     Remove the stored token
//	sportus events          JSONL event log viewer
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jisooooooooooo/sportus/internal/coord"
	"github.com/jisooooooooooo/sportus/internal/feed"
	"github.com/jisooooooooooo/sportus/internal/fetch"
	"github.com/jisooooooooooo/sportus/internal/location"
	"github.com/jisooooooooooo/sportus/internal/nav"
	"github.com/jisooooooooooo/sportus/internal/otel"
	"github.com/jisooooooooooo/sportus/internal/ui"
)

const usage = `sportus - nearby sports course and facility recommendations

Usage:
  sportus [command] [flags]

Commands:
  (none)      Run the recommendation feed
  token       Manage the backend access token (set, show, clear)
  events      JSONL event log viewer

Environment:
  SPORTUS_CONFIG     Config file (default: ~/.sportus/config.yaml)
  SPORTUS_*          Override any config key, e.g. SPORTUS_API_BASE_URL
  SPORTUS_TRACE      Set to 1 to log every UI message

Run 'sportus <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		runFeed()
		return
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "token":
		runToken()
	case "events":
		runEvents()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "sportus: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func runFeed() {
	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := loadConfig()
	category, err := feed.ParseCategory(cfg.Feed.DefaultCategory)
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	st := openDB(cfg)
	defer st.Close()

	// Event log
	logFile, err := os.OpenFile(cfg.EventLogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("Failed to open event log: %v", err)
	}
	defer logFile.Close()

	logger := otel.NewLogger(logFile)
	defer logger.Close()
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	logger.SetRingBuffer(ring)

	logger.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindStartup,
		Comp:  "main",
		Msg:   cfg.API.BaseURL,
		Extra: map[string]any{"category": category.String(), "fixed_location": cfg.Location.HasFixedCoordinate()},
	})

	client := fetch.NewClient(cfg.API.BaseURL, st, fetch.Options{
		Timeout:       cfg.API.Timeout,
		RatePerSecond: cfg.API.RatePerSecond,
		Burst:         cfg.API.Burst,
	})

	coordinator := coord.New(ctx, location.FromConfig(cfg.Location), client, nav.NewRecorder(st), logger, coord.Options{
		FetchTimeout:  cfg.API.Timeout,
		LocateTimeout: cfg.Location.Timeout,
	})

	app := ui.NewApp(ui.AppConfig{
		Locate:          coordinator.Locate,
		Fetch:           coordinator.Fetch,
		Navigate:        coordinator.Navigate,
		Logger:          logger,
		Ring:            ring,
		Category:        category,
		MaxItems:        cfg.Feed.MaxItems,
		ProximityMargin: cfg.Feed.ProximityMargin,
		ShowDebug:       cfg.Debug.Overlay,
	})

	// Run UI (blocks until quit)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error(otel.KindError, "main", err)
		log.Printf("Error running program: %v", err)
	}

	// Graceful shutdown
	cancel()
	coordinator.Wait()
	logger.Info(otel.KindShutdown, "main", "")
}
