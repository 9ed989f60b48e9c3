// Package main provides the entry point for plantrack.
//
// plantrack extracts phase-level progress from markdown plan documents
// in a plans/ workspace and serves the aggregated view:
//   - REST API for programmatic access
//   - MCP server for AI assistant integration
//   - file watcher keeping the snapshot fresh
//
// Usage:
//
//	plantrack scan [plans-root]     Scan once and print a progress summary
//	plantrack serve                 Start the service (API + watcher)
//	plantrack status                Show service status
//	plantrack stop                  Stop the running service
//	plantrack mcp [plans-root]      Start MCP server (stdio mode)
//	plantrack version               Show version
package main

import (
	"fmt"
	"os"

	"github.com/darraghh1/plantrack/internal/api"
	"github.com/darraghh1/plantrack/internal/config"
	"github.com/darraghh1/plantrack/internal/events"
	"github.com/darraghh1/plantrack/internal/logger"
	"github.com/darraghh1/plantrack/internal/mcp"
	"github.com/darraghh1/plantrack/internal/service"
	"github.com/darraghh1/plantrack/internal/tracker"
	"github.com/darraghh1/plantrack/pkg/plan"
)

// version is set via -ldflags at build time
var version = "dev"

func main() {
	api.SetVersion(version)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "scan":
		err = cmdScan(os.Args[2:])
	case "serve", "start":
		err = cmdServe()
	case "status":
		err = cmdStatus()
	case "stop":
		err = cmdStop()
	case "mcp", "mcp-server":
		err = cmdMCP(os.Args[2:])
	case "version", "-v", "--version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`plantrack - markdown plan progress tracking

Usage:
  plantrack [command]

Commands:
  scan [plans-root]   Scan the plans workspace once and print a summary
  serve               Start the service (REST API + file watcher)
  status              Show service status
  stop                Stop the running service
  mcp [plans-root]    Start MCP server (stdio mode)
  version             Show version information
  help                Show this help

Configuration: ~/.plantrack/config.yaml (created on first save)`)
}

func cmdVersion() {
	fmt.Printf("plantrack version %s\n", version)
}

func loadConfig(plansRoot string) (*config.Config, error) {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if plansRoot != "" {
		cfg.Plans.Root = plansRoot
	}
	return cfg, nil
}

func cmdScan(args []string) error {
	plansRoot := ""
	if len(args) > 0 {
		plansRoot = args[0]
	}

	cfg, err := loadConfig(plansRoot)
	if err != nil {
		return err
	}
	logger.SetupLogger(cfg)
	defer logger.Stop()

	progress := plan.ScanProject(cfg.Plans.Root, cfg.Plans.ProjectName)

	fmt.Printf("%s: %d plan(s), %d/%d phases complete (%d%%)\n",
		progress.ProjectName, len(progress.Plans),
		progress.CompletedPhases, progress.TotalPhases, progress.Percentage)
	for _, p := range progress.Plans {
		fmt.Printf("  %-12s %3d%%  %d/%d  %s\n",
			p.Status, p.Percentage, p.CompletedCount, p.TotalCount, p.DisplayName)
	}
	return nil
}

func cmdServe() error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	logger.SetupLogger(cfg)
	defer logger.Stop()

	if running, pid := service.IsRunning(cfg); running {
		return fmt.Errorf("service already running (PID %d)", pid)
	}

	hub := events.NewHub()
	defer hub.Close()

	t := tracker.New(cfg, hub)
	t.Refresh()
	defer t.Stop()

	if cfg.Watcher.Enabled {
		if err := t.StartWatching(); err != nil {
			logger.GetLogger().Warn().Err(err).Msg("Plans watcher unavailable, serving static snapshot")
		}
	}

	apiServer := api.NewServer(cfg, t, hub)
	daemon := service.NewDaemon(cfg)

	if err := daemon.Start(apiServer.Handler()); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	fmt.Printf("plantrack v%s started on %s\n", version, cfg.Address())
	fmt.Printf("Progress: http://%s/progress\n", cfg.Address())

	daemon.Wait()

	return nil
}

func cmdStatus() error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}

	running, pid := service.IsRunning(cfg)
	if running {
		fmt.Printf("plantrack: running (PID %d)\n", pid)
		fmt.Printf("Address: %s\n", cfg.Address())
	} else {
		fmt.Println("plantrack: stopped")
	}

	return nil
}

func cmdStop() error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}

	running, pid := service.IsRunning(cfg)
	if !running {
		fmt.Println("plantrack is not running")
		return nil
	}

	fmt.Printf("Stopping plantrack (PID %d)...\n", pid)
	if err := service.StopRunning(cfg); err != nil {
		return err
	}

	fmt.Println("plantrack stopped")
	return nil
}

func cmdMCP(args []string) error {
	plansRoot := ""
	if len(args) > 0 {
		plansRoot = args[0]
	}

	cfg, err := loadConfig(plansRoot)
	if err != nil {
		return err
	}

	// Stdio transport: keep the console clean, log to file only.
	cfg.Logging.Output = []string{"file"}
	logger.SetupLogger(cfg)
	defer logger.Stop()

	t := tracker.New(cfg, nil)
	t.Refresh()
	defer t.Stop()

	if cfg.Watcher.Enabled {
		if err := t.StartWatching(); err != nil {
			logger.GetLogger().Warn().Err(err).Msg("Plans watcher unavailable")
		}
	}

	return mcp.NewServer(t, version).ServeStdio()
}
