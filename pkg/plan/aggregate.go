package plan

import "math"

// percent is round(100*completed/total), with 0 for an empty set.
func percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// Aggregate reduces a set of plan records into project-wide totals. The
// input plans are referenced, never modified.
func Aggregate(rootPath, projectName string, plans []PlanRecord) ProjectProgress {
	total := 0
	completed := 0
	for _, p := range plans {
		total += p.TotalCount
		completed += p.CompletedCount
	}

	return ProjectProgress{
		RootPath:        rootPath,
		ProjectName:     projectName,
		Plans:           plans,
		TotalPhases:     total,
		CompletedPhases: completed,
		Percentage:      percent(completed, total),
	}
}
