package plan

import (
	"os"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// phaseFileMeta is the metadata extracted from a phase detail document.
type phaseFileMeta struct {
	Status       PhaseStatus
	ReviewStatus string
	Effort       string
	Priority     string
	Description  string
	DependsOn    string
	Date         string
}

// EnrichPhases overrides phase statuses with data from linked phase
// detail files. Phases whose source file references a phase document are
// read concurrently; a missing or unparseable detail file leaves the
// phase untouched, which is the normal case for files not yet written.
// Output order always matches input order.
func EnrichPhases(phases []PhaseRecord) []PhaseRecord {
	if len(phases) == 0 {
		return phases
	}

	enriched := make([]PhaseRecord, len(phases))
	var wg sync.WaitGroup

	for i, phase := range phases {
		wg.Add(1)
		go func(i int, phase PhaseRecord) {
			defer wg.Done()
			enriched[i] = enrichPhase(phase)
		}(i, phase)
	}
	wg.Wait()

	return enriched
}

func enrichPhase(phase PhaseRecord) PhaseRecord {
	if !strings.Contains(phase.SourceFile, "phase-") {
		return phase
	}

	data, err := os.ReadFile(phase.SourceFile)
	if err != nil {
		return phase
	}

	meta, ok := extractPhaseFileMeta(string(data))
	if !ok {
		return phase
	}

	phase.Status = meta.Status
	if meta.Effort != "" {
		phase.Effort = meta.Effort
	}
	return phase
}

// extractPhaseFileMeta tries the three supported phase-file metadata
// formats in order: overview table, inline bold metadata, frontmatter.
// Each format requires a status field to count as a hit.
func extractPhaseFileMeta(content string) (phaseFileMeta, bool) {
	if meta, ok := extractOverviewTable(content); ok {
		return meta, ok
	}
	if meta, ok := extractInlineMeta(content); ok {
		return meta, ok
	}
	return extractPhaseFrontmatter(content)
}

// extractOverviewTable reads two-column key/value pipe rows. A row whose
// key is "implementation status" or "status" is authoritative and makes
// the extraction succeed; other recognized keys fill optional fields.
func extractOverviewTable(content string) (phaseFileMeta, bool) {
	var meta phaseFileMeta
	found := false

	for _, line := range strings.Split(content, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "|") || isSeparatorRow(line) {
			continue
		}
		cells := tableCells(line)
		if len(cells) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(cells[0], "**", "")))
		value := strings.TrimSpace(cells[1])

		switch key {
		case "implementation status", "status":
			meta.Status = NormalizeStatus(value)
			found = true
		case "review status":
			meta.ReviewStatus = value
		case "effort":
			meta.Effort = value
		case "priority":
			meta.Priority = value
		case "description":
			meta.Description = value
		case "depends on", "dependencies":
			meta.DependsOn = value
		case "date":
			meta.Date = value
		}
	}

	return meta, found
}

// inlineMetaPattern matches `**Key**: value` (colon inside or outside
// the bold markers); the value runs until the next pipe, asterisk, or
// end of line.
var inlineMetaPattern = regexp.MustCompile(`\*\*([^*:]+)(?::\*\*|\*\*:)\s*([^|*\n]+)`)

// extractInlineMeta reads bold key/value pairs from the first 20 lines.
// A status key is required for success.
func extractInlineMeta(content string) (phaseFileMeta, bool) {
	lines := strings.Split(content, "\n")
	if len(lines) > 20 {
		lines = lines[:20]
	}
	head := strings.Join(lines, "\n")

	var meta phaseFileMeta
	found := false

	for _, m := range inlineMetaPattern.FindAllStringSubmatch(head, -1) {
		key := strings.ToLower(strings.TrimSpace(m[1]))
		value := strings.TrimSpace(m[2])

		switch key {
		case "status":
			meta.Status = NormalizeStatus(value)
			found = true
		case "effort":
			meta.Effort = value
		case "priority":
			meta.Priority = value
		case "depends on":
			meta.DependsOn = value
		}
	}

	return meta, found
}

// extractPhaseFrontmatter reads a YAML frontmatter block. A status field
// is required; malformed YAML counts as no metadata.
func extractPhaseFrontmatter(content string) (phaseFileMeta, bool) {
	block, _, ok := splitFrontmatter(content)
	if !ok {
		return phaseFileMeta{}, false
	}

	var fm struct {
		Status       string `yaml:"status"`
		Effort       string `yaml:"effort"`
		Priority     string `yaml:"priority"`
		Description  string `yaml:"description"`
		DependsOn    string `yaml:"depends_on"`
		DependsOnAlt string `yaml:"dependsOn"`
		Date         string `yaml:"date"`
		Created      string `yaml:"created"`
	}
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return phaseFileMeta{}, false
	}
	if fm.Status == "" {
		return phaseFileMeta{}, false
	}

	dependsOn := fm.DependsOn
	if dependsOn == "" {
		dependsOn = fm.DependsOnAlt
	}
	date := fm.Date
	if date == "" {
		date = fm.Created
	}

	return phaseFileMeta{
		Status:      NormalizeStatus(fm.Status),
		Effort:      fm.Effort,
		Priority:    fm.Priority,
		Description: fm.Description,
		DependsOn:   dependsOn,
		Date:        date,
	}, true
}
