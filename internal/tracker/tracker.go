// Package tracker owns the current project progress snapshot. It runs
// the extraction pipeline over the plans root and replaces the snapshot
// wholesale on every refresh, so readers never see a half-built view.
package tracker

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/darraghh1/plantrack/internal/config"
	"github.com/darraghh1/plantrack/internal/events"
	"github.com/darraghh1/plantrack/internal/logger"
	"github.com/darraghh1/plantrack/pkg/plan"
)

// Tracker holds the latest scan result for the configured plans root.
type Tracker struct {
	cfg *config.Config
	hub *events.Hub

	mu       sync.RWMutex
	progress plan.ProjectProgress

	watcher *plan.Watcher
}

// New creates a tracker for the configured plans root. The hub may be
// nil when nothing consumes change events. No scan happens until
// Refresh is called.
func New(cfg *config.Config, hub *events.Hub) *Tracker {
	return &Tracker{cfg: cfg, hub: hub}
}

// Refresh re-runs the extraction pipeline and swaps in the new snapshot.
// Safe to call from any goroutine at any time.
func (t *Tracker) Refresh() plan.ProjectProgress {
	progress := plan.ScanProject(t.cfg.Plans.Root, t.cfg.Plans.ProjectName)

	t.mu.Lock()
	t.progress = progress
	t.mu.Unlock()

	logger.GetLogger().Info().
		Str("plans", strconv.Itoa(len(progress.Plans))).
		Str("phases", strconv.Itoa(progress.TotalPhases)).
		Str("percentage", strconv.Itoa(progress.Percentage)).
		Msg("Plans refreshed")

	if t.hub != nil {
		t.hub.Emit(events.New(events.TypeRefreshed).
			WithData("plans", len(progress.Plans)).
			WithData("total_phases", progress.TotalPhases).
			WithData("completed_phases", progress.CompletedPhases).
			WithData("percentage", progress.Percentage))
	}

	return progress
}

// Progress returns the current snapshot.
func (t *Tracker) Progress() plan.ProjectProgress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

// Plan looks up one plan by id in the current snapshot.
func (t *Tracker) Plan(id string) (plan.PlanRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, p := range t.progress.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return plan.PlanRecord{}, false
}

// StartWatching begins watching the plans root and refreshing on change.
func (t *Tracker) StartWatching() error {
	if t.watcher != nil {
		return nil
	}

	w, err := plan.NewWatcher(t.cfg.Plans.Root, t.cfg.Watcher.DebounceMs, func() {
		t.Refresh()
	})
	if err != nil {
		return fmt.Errorf("create plans watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("start plans watcher: %w", err)
	}

	t.watcher = w
	if t.hub != nil {
		t.hub.Emit(events.New(events.TypeWatchStarted).WithData("root", t.cfg.Plans.Root))
	}
	return nil
}

// Stop stops the watcher if one is running.
func (t *Tracker) Stop() {
	if t.watcher != nil {
		_ = t.watcher.Stop()
		t.watcher = nil
		if t.hub != nil {
			t.hub.Emit(events.New(events.TypeWatchStopped))
		}
	}
}
