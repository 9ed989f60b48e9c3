package plan

import "strings"

var completedMarkers = []string{"complete", "done", "✓", "✅"}

var inProgressMarkers = []string{"progress", "active", "wip", "🔄"}

// pendingMarkers only matter for keyword filtering; NormalizeStatus treats
// everything unrecognized as pending anyway.
var pendingMarkers = []string{"pending", "todo", "planned", "not started", "not-started", "cancelled", "canceled"}

// NormalizeStatus maps arbitrary status text or emoji to a canonical
// phase status. Matching is case-insensitive and substring-based, with
// completed markers taking precedence over in-progress markers. Unknown
// or empty input resolves to pending; it never fails.
func NormalizeStatus(raw string) PhaseStatus {
	lower := strings.ToLower(raw)

	for _, m := range completedMarkers {
		if strings.Contains(lower, m) {
			return PhaseCompleted
		}
	}
	for _, m := range inProgressMarkers {
		if strings.Contains(lower, m) {
			return PhaseInProgress
		}
	}
	return PhasePending
}

// hasStatusKeyword reports whether text contains any recognized status
// marker. The table strategies use this to filter data rows: a row whose
// status cell carries no marker at all is not a phase.
func hasStatusKeyword(text string) bool {
	lower := strings.ToLower(text)

	for _, set := range [][]string{completedMarkers, inProgressMarkers, pendingMarkers} {
		for _, m := range set {
			if strings.Contains(lower, m) {
				return true
			}
		}
	}
	return false
}

// NormalizePlanStatus maps a plan-level status word (from frontmatter or
// a header line) to a PlanStatus. Unlike phase statuses, plans can be
// cancelled. Unrecognized words resolve to pending.
func NormalizePlanStatus(raw string) PlanStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "complete", "completed", "done":
		return PlanCompleted
	case "in-progress", "in progress", "in_progress", "active", "wip":
		return PlanInProgress
	case "cancelled", "canceled":
		return PlanCancelled
	default:
		return PlanPending
	}
}

// CalculatePlanStatus derives a plan's status from its phase list: empty
// means pending, all completed means completed, and any progress at all
// (an in-progress phase, or a partial set of completed ones) means
// in-progress.
func CalculatePlanStatus(phases []PhaseRecord) PlanStatus {
	if len(phases) == 0 {
		return PlanPending
	}

	completed := 0
	inProgress := 0
	for _, p := range phases {
		switch p.Status {
		case PhaseCompleted:
			completed++
		case PhaseInProgress:
			inProgress++
		}
	}

	if completed == len(phases) {
		return PlanCompleted
	}
	if inProgress > 0 || completed > 0 {
		return PlanInProgress
	}
	return PlanPending
}
