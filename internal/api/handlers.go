package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/darraghh1/plantrack/pkg/plan"
)

// version is set via -ldflags at build time
var version = "dev"

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
}

// Response types

// HealthResponse is the response for /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionResponse is the response for /version.
type VersionResponse struct {
	Version string `json:"version"`
	Service string `json:"service"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PhaseResponse represents a phase in API responses.
type PhaseResponse struct {
	ID         string `json:"id"`
	Number     int    `json:"number"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	SourceFile string `json:"source_file"`
	LinkLabel  string `json:"link_label"`
	Effort     string `json:"effort,omitempty"`
}

// PlanResponse represents a plan in API responses.
type PlanResponse struct {
	ID             string          `json:"id"`
	DisplayName    string          `json:"display_name"`
	Path           string          `json:"path"`
	Status         string          `json:"status"`
	CompletedCount int             `json:"completed_count"`
	TotalCount     int             `json:"total_count"`
	Percentage     int             `json:"percentage"`
	LastModified   string          `json:"last_modified"`
	Description    string          `json:"description,omitempty"`
	Priority       string          `json:"priority,omitempty"`
	Tags           []string        `json:"tags"`
	IssueRef       string          `json:"issue_ref,omitempty"`
	Branch         string          `json:"branch,omitempty"`
	Effort         string          `json:"effort,omitempty"`
	CreatedDate    string          `json:"created_date,omitempty"`
	CompletedDate  string          `json:"completed_date,omitempty"`
	Phases         []PhaseResponse `json:"phases,omitempty"`
}

// ProgressResponse is the full project summary.
type ProgressResponse struct {
	RootPath        string         `json:"root_path"`
	ProjectName     string         `json:"project_name"`
	TotalPhases     int            `json:"total_phases"`
	CompletedPhases int            `json:"completed_phases"`
	Percentage      int            `json:"percentage"`
	Plans           []PlanResponse `json:"plans"`
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version: version,
		Service: "plantrack",
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toProgressResponse(s.tracker.Progress(), false))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toProgressResponse(s.tracker.Refresh(), false))
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	progress := s.tracker.Progress()

	plans := make([]PlanResponse, 0, len(progress.Plans))
	for _, p := range progress.Plans {
		plans = append(plans, toPlanResponse(p, false))
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, ok := s.tracker.Plan(id)
	if !ok {
		writeError(w, http.StatusNotFound, "plan not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(record, true))
}

// Conversions

func toProgressResponse(progress plan.ProjectProgress, includePhases bool) ProgressResponse {
	plans := make([]PlanResponse, 0, len(progress.Plans))
	for _, p := range progress.Plans {
		plans = append(plans, toPlanResponse(p, includePhases))
	}

	return ProgressResponse{
		RootPath:        progress.RootPath,
		ProjectName:     progress.ProjectName,
		TotalPhases:     progress.TotalPhases,
		CompletedPhases: progress.CompletedPhases,
		Percentage:      progress.Percentage,
		Plans:           plans,
	}
}

func toPlanResponse(p plan.PlanRecord, includePhases bool) PlanResponse {
	resp := PlanResponse{
		ID:             p.ID,
		DisplayName:    p.DisplayName,
		Path:           p.Path,
		Status:         string(p.Status),
		CompletedCount: p.CompletedCount,
		TotalCount:     p.TotalCount,
		Percentage:     p.Percentage,
		LastModified:   p.LastModified.Format(time.RFC3339),
		Description:    p.Description,
		Priority:       string(p.Priority),
		Tags:           p.Tags,
		IssueRef:       p.IssueRef,
		Branch:         p.Branch,
		Effort:         p.Effort,
	}
	if !p.CreatedDate.IsZero() {
		resp.CreatedDate = p.CreatedDate.Format("2006-01-02")
	}
	if !p.CompletedDate.IsZero() {
		resp.CompletedDate = p.CompletedDate.Format("2006-01-02")
	}

	if includePhases {
		phases := make([]PhaseResponse, 0, len(p.Phases))
		for _, ph := range p.Phases {
			phases = append(phases, PhaseResponse{
				ID:         ph.ID(p.ID),
				Number:     ph.Number,
				Name:       ph.Name,
				Status:     string(ph.Status),
				SourceFile: ph.SourceFile,
				LinkLabel:  ph.LinkLabel,
				Effort:     ph.Effort,
			})
		}
		resp.Phases = phases
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
