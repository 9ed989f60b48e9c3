package plan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlanPath = "/work/plans/demo/plan.md"

func parseTestPhases(t *testing.T, text string) []PhaseRecord {
	t.Helper()
	return ParsePhases(text, filepath.Dir(testPlanPath), testPlanPath)
}

func TestParsePhases_MultiColumnTable(t *testing.T) {
	doc := `# Demo Plan

| # | Phase | Status | Link |
|---|-------|--------|------|
| 1 | Setup | ✅ Complete | |
| 2 | Build | 🔄 In Progress | |
| 3 | Ship | Pending | |
`
	phases := parseTestPhases(t, doc)
	require.Len(t, phases, 3)

	assert.Equal(t, []PhaseStatus{PhaseCompleted, PhaseInProgress, PhasePending},
		[]PhaseStatus{phases[0].Status, phases[1].Status, phases[2].Status})
	assert.Equal(t, 1, phases[0].Number)
	assert.Equal(t, 2, phases[1].Number)
	assert.Equal(t, 3, phases[2].Number)
	assert.Equal(t, "Setup", phases[0].Name)
	assert.Equal(t, testPlanPath, phases[0].SourceFile)
}

func TestParsePhases_MultiColumnTable_DescriptionPreferred(t *testing.T) {
	doc := `
| # | Phase | Description | Status |
|---|-------|-------------|--------|
| 1 | setup | Prepare the environment | done |
`
	phases := parseTestPhases(t, doc)
	require.Len(t, phases, 1)
	assert.Equal(t, "Prepare the environment", phases[0].Name)
}

func TestParsePhases_MultiColumnTable_RowsWithoutStatusKeywordSkipped(t *testing.T) {
	doc := `
| # | Phase | Status |
|---|-------|--------|
| 1 | Setup | done |
| - | Notes | n/a |
| 2 | Build | pending |
`
	phases := parseTestPhases(t, doc)
	require.Len(t, phases, 2)
	assert.Equal(t, "Setup", phases[0].Name)
	assert.Equal(t, "Build", phases[1].Name)
}

func TestParsePhases_MultiColumnTable_PhaseFileLinkWins(t *testing.T) {
	doc := `
| # | Phase | Status | Link |
|---|-------|--------|------|
| 1 | [Setup](./phase-01-setup.md) | pending | [notes](./notes.md) |
`
	phases := parseTestPhases(t, doc)
	require.Len(t, phases, 1)

	// The phase- link wins over the link column.
	assert.Equal(t, filepath.Join("/work/plans/demo", "phase-01-setup.md"), phases[0].SourceFile)
	assert.Equal(t, "Setup", phases[0].LinkLabel)
}

func TestParsePhases_MultiColumnTable_LinkColumnUsed(t *testing.T) {
	doc := `
| # | Phase | Status | Link |
|---|-------|--------|------|
| 1 | Setup | pending | [details](./details/setup.md) |
`
	phases := parseTestPhases(t, doc)
	require.Len(t, phases, 1)
	assert.Equal(t, filepath.Join("/work/plans/demo", "details", "setup.md"), phases[0].SourceFile)
	assert.Equal(t, "details", phases[0].LinkLabel)
}

func TestParsePhases_DependencyTableNotMistakenForPhases(t *testing.T) {
	doc := `# Plan

| Phase | Depends On | Can Run Parallel With |
|-------|------------|-----------------------|
| Database Schema | None | API Design |
| API Design | None | Database Schema |

## Phases

1. **Database Schema** (12h) - ✅ COMPLETE - 12 tables created
`
	phases := parseTestPhases(t, doc)
	require.Len(t, phases, 1)
	assert.Equal(t, "Database Schema", phases[0].Name)
	assert.Equal(t, PhaseCompleted, phases[0].Status)
}

func TestParsePhases_LinkFirstTable(t *testing.T) {
	doc := `
| [Phase 1](phases/phase-01.md) | Build the parser | ✅ Done |
| [Phase 2](phases/phase-02.md) | Wire the API | Pending |
`
	phases := parseTestPhases(t, doc)
	require.Len(t, phases, 2)

	assert.Equal(t, "Build the parser", phases[0].Name)
	assert.Equal(t, "Phase 1", phases[0].LinkLabel)
	assert.Equal(t, filepath.Join("/work/plans/demo", "phases", "phase-01.md"), phases[0].SourceFile)
	assert.Equal(t, PhaseCompleted, phases[0].Status)
	assert.Equal(t, PhasePending, phases[1].Status)
}

func TestParsePhases_NumberedList(t *testing.T) {
	doc := `## Phases

1. **Schema** (4h) - ✅ COMPLETE - all tables created
2. **Endpoints** (8h) - 🔄 IN PROGRESS
3. **Docs** - PENDING
`
	phases := parseTestPhases(t, doc)
	require.Len(t, phases, 3)

	assert.Equal(t, []PhaseStatus{PhaseCompleted, PhaseInProgress, PhasePending},
		[]PhaseStatus{phases[0].Status, phases[1].Status, phases[2].Status})
	assert.Equal(t, "Schema", phases[0].Name)
	assert.Equal(t, "Schema", phases[0].LinkLabel)
	assert.Equal(t, testPlanPath, phases[2].SourceFile)
}

func TestParsePhases_HeadingSections(t *testing.T) {
	doc := `### Phase 1: Design
- Status: complete
- Owner: core team

### Phase 2: Implement
- Status: in progress

### Phase 3: Verify
Some prose without a status line.
`
	phases := parseTestPhases(t, doc)
	require.Len(t, phases, 3)

	assert.Equal(t, PhaseCompleted, phases[0].Status)
	assert.Equal(t, PhaseInProgress, phases[1].Status)
	assert.Equal(t, PhasePending, phases[2].Status)
	assert.Equal(t, "Design", phases[0].Name)
	assert.Equal(t, "Verify", phases[2].Name)
}

func TestParsePhases_CheckboxList(t *testing.T) {
	doc := `## Phases

- [x] **[Phase 1: Setup](./phase-01.md)**
- [ ] **[Phase 2: Build](./phase-02.md)**
`
	phases := parseTestPhases(t, doc)
	require.Len(t, phases, 2)

	assert.Equal(t, PhaseCompleted, phases[0].Status)
	assert.Equal(t, PhasePending, phases[1].Status)
	assert.Equal(t, "Setup", phases[0].Name)
	assert.Equal(t, "Build", phases[1].Name)
	assert.Equal(t, filepath.Join("/work/plans/demo", "phase-01.md"), phases[0].SourceFile)
}

func TestParsePhases_CheckboxList_EmptyName(t *testing.T) {
	doc := `- [x] **[Phase 1](./phase-01.md)**`
	phases := parseTestPhases(t, doc)
	require.Len(t, phases, 1)
	assert.Equal(t, "Phase 1", phases[0].Name)
}

func TestParsePhases_StrategyOrder(t *testing.T) {
	// A status table beats a checkbox list appearing later in the doc.
	doc := `
| # | Phase | Status |
|---|-------|--------|
| 1 | From Table | done |

- [ ] **[Phase 9: From Checkboxes](./phase-09.md)**
`
	phases := parseTestPhases(t, doc)
	require.Len(t, phases, 1)
	assert.Equal(t, "From Table", phases[0].Name)
}

func TestParsePhases_NoMatches(t *testing.T) {
	assert.Empty(t, parseTestPhases(t, "# Just a title\n\nProse only.\n"))
	assert.Empty(t, parseTestPhases(t, ""))
}

func TestParsePhases_SequentialNumbersWhenColumnMissing(t *testing.T) {
	doc := `
| Phase | Status |
|-------|--------|
| Alpha | done |
| Beta | pending |
`
	phases := parseTestPhases(t, doc)
	require.Len(t, phases, 2)
	assert.Equal(t, 1, phases[0].Number)
	assert.Equal(t, 2, phases[1].Number)
}
