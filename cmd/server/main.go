// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	apihttp "github.com/osa030/jamroom/internal/api/http"
	"github.com/osa030/jamroom/internal/app/filter"
	"github.com/osa030/jamroom/internal/app/playback"
	"github.com/osa030/jamroom/internal/app/recommend"
	"github.com/osa030/jamroom/internal/infra/config"
	"github.com/osa030/jamroom/internal/infra/logger"
	"github.com/osa030/jamroom/internal/infra/youtube"
	"github.com/osa030/jamroom/internal/realtime"
	"github.com/osa030/jamroom/internal/store"
)

var (
	app        = kingpin.New("jamroom-server", "Collaborative music queue server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available enqueue filters and exit")
)

func init() {
	// start command (default)
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	chain, err := buildFilterChain(cfg)
	if err != nil {
		return fmt.Errorf("invalid filter config: %w", err)
	}

	ytClient, err := youtube.New(youtube.Config{APIKey: cfg.YouTube.APIKey})
	if err != nil {
		return fmt.Errorf("failed to create youtube client: %w", err)
	}

	providers, err := recommend.NewProviderChainFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to create recommendation providers: %w", err)
	}

	st := store.NewMemoryStore()
	hub := realtime.NewHub(st)
	selector := recommend.NewSelector(st, ytClient, hub, providers, chain, cfg.Recommend)
	ctrl := playback.NewController(st, chain, hub, selector)

	router := apihttp.SetupRouter(cfg.Server, ctrl, ytClient, cfg.YouTube.MaxResults, realtime.NewHandler(hub))

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}

// buildFilterChain creates the enqueue filter chain from configuration.
func buildFilterChain(cfg *config.Config) (*filter.Chain, error) {
	chain := filter.NewChain()

	registered := filter.GetRegistered()
	for _, name := range filter.Names() {
		if !cfg.IsFilterEnabled(name) {
			continue
		}

		f := registered[name]()
		if err := f.ValidateConfig(cfg.FilterSettings(name)); err != nil {
			return nil, fmt.Errorf("filter %s: %w", name, err)
		}
		chain.Add(f)
		zlog.Info().Msgf("enabled filter: name=%s", name)
	}

	return chain, nil
}

// printFilters prints available filters.
func printFilters() {
	fmt.Println("Available Filters:")
	registered := filter.GetRegistered()
	for _, name := range filter.Names() {
		f := registered[name]()
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", f.Name(), f.Description(), codes)
	}
}
