// Package plan extracts structured progress data from markdown plan
// documents and aggregates it across a plans workspace.
package plan

import (
	"fmt"
	"time"
)

// PhaseStatus is the canonical state of a single phase.
type PhaseStatus string

const (
	PhasePending    PhaseStatus = "pending"
	PhaseInProgress PhaseStatus = "in-progress"
	PhaseCompleted  PhaseStatus = "completed"
)

// PlanStatus is the canonical state of a whole plan. It adds cancelled,
// which never appears at the phase level.
type PlanStatus string

const (
	PlanPending    PlanStatus = "pending"
	PlanInProgress PlanStatus = "in-progress"
	PlanCompleted  PlanStatus = "completed"
	PlanCancelled  PlanStatus = "cancelled"
)

// Priority is a normalized priority bucket. The empty string means the
// plan carries no priority at all, not an unknown one.
type Priority string

const (
	PriorityNone Priority = ""
	PriorityP1   Priority = "P1"
	PriorityP2   Priority = "P2"
	PriorityP3   Priority = "P3"
)

// PhaseRecord is one step of a plan as extracted from a plan document.
// Records are rebuilt on every parse; identity is positional.
type PhaseRecord struct {
	// Number is taken from the user's text and need not be unique
	// or sequential.
	Number int

	// Name is never empty; it falls back to "Phase <Number>".
	Name string

	// Status is the normalized phase status.
	Status PhaseStatus

	// SourceFile is the file this phase's status came from. It defaults
	// to the owning plan's own file when no phase file is linked.
	SourceFile string

	// LinkLabel is the display text for the phase's link.
	LinkLabel string

	// Effort is free-text effort ("4h", "2d"), empty when absent.
	Effort string
}

// ID returns the UI correlation id for a phase within a plan.
func (p PhaseRecord) ID(planID string) string {
	return fmt.Sprintf("%s-phase-%d", planID, p.Number)
}

// PlanRecord is the canonical view of one plan document plus its phases.
// A record is rebuilt wholesale on every extraction, never mutated.
type PlanRecord struct {
	// ID is the containing directory name, unique within a scan root.
	ID string

	// DisplayName is the plan title (frontmatter, header, or derived
	// from the directory name).
	DisplayName string

	// Path is the absolute path of the plan file.
	Path string

	// Status is the frontmatter/header override when present, else
	// calculated from the phases.
	Status PlanStatus

	Phases []PhaseRecord

	CompletedCount int
	TotalCount     int

	// Percentage is round(100*CompletedCount/TotalCount), 0 when empty.
	Percentage int

	LastModified time.Time

	Description string
	Priority    Priority

	// Tags keeps insertion order.
	Tags []string

	IssueRef string
	Branch   string
	Effort   string

	CreatedDate   time.Time
	CompletedDate time.Time
}

// ProjectProgress aggregates a set of plans into project-wide totals.
// It is purely derived and never persisted.
type ProjectProgress struct {
	RootPath        string
	ProjectName     string
	Plans           []PlanRecord
	TotalPhases     int
	CompletedPhases int
	Percentage      int
}
