package plan

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/darraghh1/plantrack/internal/logger"
)

// PlanFileName is the document every plan directory must contain.
const PlanFileName = "plan.md"

// ScanRoot extracts every plan found one level below the plans root.
// Each plan directory is processed concurrently; a plan that fails to
// extract is logged and dropped without affecting its siblings. A
// missing root yields an empty result, not an error.
func ScanRoot(root string) []PlanRecord {
	entries, err := os.ReadDir(root)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.GetLogger().Warn().Err(err).Str("root", root).Msg("Cannot read plans root")
		}
		return nil
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		planPath := filepath.Join(root, entry.Name(), PlanFileName)
		if _, err := os.Stat(planPath); err != nil {
			continue
		}
		paths = append(paths, planPath)
	}

	results := make([]PlanRecord, len(paths))
	errs := make([]error, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			results[i], errs[i] = ExtractPlan(path)
		}(i, path)
	}
	wg.Wait()

	plans := make([]PlanRecord, 0, len(paths))
	for i := range paths {
		if errs[i] != nil {
			logger.GetLogger().Warn().Err(errs[i]).Str("plan", paths[i]).Msg("Skipping unreadable plan")
			continue
		}
		plans = append(plans, results[i])
	}
	return plans
}

// ScanProject scans the plans root and aggregates the result. An empty
// project name falls back to the name of the directory containing the
// plans root.
func ScanProject(root, projectName string) ProjectProgress {
	if projectName == "" {
		projectName = filepath.Base(filepath.Dir(root))
	}
	return Aggregate(root, projectName, ScanRoot(root))
}
