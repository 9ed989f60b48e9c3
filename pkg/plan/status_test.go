package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus_Completed(t *testing.T) {
	for _, raw := range []string{
		"complete", "Complete", "COMPLETED", "✅ Complete", "Done", "done!", "✓", "all done",
	} {
		assert.Equal(t, PhaseCompleted, NormalizeStatus(raw), "input %q", raw)
	}
}

func TestNormalizeStatus_InProgress(t *testing.T) {
	for _, raw := range []string{
		"in progress", "In-Progress", "🔄 In Progress", "active", "WIP", "wip: parser",
	} {
		assert.Equal(t, PhaseInProgress, NormalizeStatus(raw), "input %q", raw)
	}
}

func TestNormalizeStatus_Pending(t *testing.T) {
	for _, raw := range []string{
		"", "pending", "todo", "planned", "not started", "???", "blocked",
	} {
		assert.Equal(t, PhasePending, NormalizeStatus(raw), "input %q", raw)
	}
}

func TestNormalizeStatus_CompletedWinsOverInProgress(t *testing.T) {
	// Both marker sets present: completed takes precedence.
	assert.Equal(t, PhaseCompleted, NormalizeStatus("wip but mostly done"))
}

func TestNormalizePlanStatus(t *testing.T) {
	assert.Equal(t, PlanCompleted, NormalizePlanStatus("complete"))
	assert.Equal(t, PlanCompleted, NormalizePlanStatus("Done"))
	assert.Equal(t, PlanInProgress, NormalizePlanStatus("in_progress"))
	assert.Equal(t, PlanInProgress, NormalizePlanStatus("In Progress"))
	assert.Equal(t, PlanInProgress, NormalizePlanStatus("wip"))
	assert.Equal(t, PlanCancelled, NormalizePlanStatus("cancelled"))
	assert.Equal(t, PlanCancelled, NormalizePlanStatus("canceled"))
	assert.Equal(t, PlanPending, NormalizePlanStatus("draft"))
	assert.Equal(t, PlanPending, NormalizePlanStatus(""))
}

func TestCalculatePlanStatus(t *testing.T) {
	phase := func(s PhaseStatus) PhaseRecord { return PhaseRecord{Status: s} }

	assert.Equal(t, PlanPending, CalculatePlanStatus(nil))
	assert.Equal(t, PlanPending, CalculatePlanStatus([]PhaseRecord{}))

	assert.Equal(t, PlanCompleted, CalculatePlanStatus([]PhaseRecord{
		phase(PhaseCompleted), phase(PhaseCompleted),
	}))

	assert.Equal(t, PlanInProgress, CalculatePlanStatus([]PhaseRecord{
		phase(PhaseCompleted), phase(PhasePending),
	}))
	assert.Equal(t, PlanInProgress, CalculatePlanStatus([]PhaseRecord{
		phase(PhaseInProgress), phase(PhasePending),
	}))

	assert.Equal(t, PlanPending, CalculatePlanStatus([]PhaseRecord{
		phase(PhasePending), phase(PhasePending),
	}))
}
