package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// planFrontmatter mirrors the YAML block at the top of a plan file.
type planFrontmatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Status      string   `yaml:"status"`
	Priority    string   `yaml:"priority"`
	Effort      string   `yaml:"effort"`
	Tags        []string `yaml:"tags"`
	Branch      string   `yaml:"branch"`
	Issue       any      `yaml:"issue"`
	Created     string   `yaml:"created"`
	Completed   string   `yaml:"completed"`
}

// ExtractPlan reads a plan file and produces its canonical record:
// phases via the table parser and enricher, counts and percentage, and
// metadata merged with the precedence frontmatter > header patterns >
// derived defaults. Only the primary read can fail; every metadata
// source degrades silently to absent.
func ExtractPlan(path string) (PlanRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PlanRecord{}, fmt.Errorf("read plan file: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return PlanRecord{}, fmt.Errorf("stat plan file: %w", err)
	}

	text := string(data)
	baseDir := filepath.Dir(path)
	id := filepath.Base(baseDir)

	phases := EnrichPhases(ParsePhases(text, baseDir, path))

	completed := 0
	for _, p := range phases {
		if p.Status == PhaseCompleted {
			completed++
		}
	}

	record := PlanRecord{
		ID:             id,
		Path:           path,
		Phases:         phases,
		CompletedCount: completed,
		TotalCount:     len(phases),
		Percentage:     percent(completed, len(phases)),
		LastModified:   info.ModTime(),
		Status:         CalculatePlanStatus(phases),
		Tags:           []string{},
	}

	fm, fmOK := parsePlanFrontmatter(text)
	header := parseHeaderMeta(text)

	if fmOK && fm.Title != "" {
		record.DisplayName = fm.Title
	} else {
		record.DisplayName = displayNameFromID(id)
	}

	if fmOK && fm.Description != "" {
		record.Description = fm.Description
	} else {
		record.Description = extractOverviewDescription(text)
	}

	switch {
	case fmOK && fm.Status != "":
		record.Status = NormalizePlanStatus(fm.Status)
	case header.status != "":
		record.Status = NormalizePlanStatus(header.status)
	}

	switch {
	case fmOK && fm.Priority != "":
		record.Priority = NormalizePriority(fm.Priority)
	case header.priority != "":
		record.Priority = NormalizePriority(header.priority)
	}

	if fmOK {
		record.Effort = fm.Effort
		if len(fm.Tags) > 0 {
			record.Tags = fm.Tags
		}
	}

	switch {
	case fmOK && fm.Branch != "":
		record.Branch = fm.Branch
	case header.branch != "":
		record.Branch = header.branch
	}

	switch {
	case fmOK && fm.Issue != nil:
		record.IssueRef = fmt.Sprint(fm.Issue)
	case header.issue != "":
		record.IssueRef = header.issue
	}

	switch {
	case fmOK && fm.Created != "":
		record.CreatedDate, _ = parseDate(fm.Created)
	case header.created != "":
		record.CreatedDate, _ = parseDate(header.created)
	default:
		record.CreatedDate, _ = ParseDateFromDirectoryName(id)
	}

	if fmOK && fm.Completed != "" {
		record.CompletedDate, _ = parseDate(fm.Completed)
	}

	return record, nil
}

// parsePlanFrontmatter returns the plan's frontmatter when the file
// starts with a fence and the block parses to something non-empty.
// Malformed YAML is treated as no frontmatter at all.
func parsePlanFrontmatter(text string) (planFrontmatter, bool) {
	block, _, ok := splitFrontmatter(text)
	if !ok {
		return planFrontmatter{}, false
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(block), &raw); err != nil || len(raw) == 0 {
		return planFrontmatter{}, false
	}

	var fm planFrontmatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return planFrontmatter{}, false
	}
	return fm, true
}

// headerMeta holds the bold-label values found in a plan's opening lines.
type headerMeta struct {
	priority string
	status   string
	branch   string
	issue    string
	created  string
}

var (
	headerPriority = regexp.MustCompile(`(?i)\*\*Priority(?::\*\*|\*\*:)\s*([^\n|*]+)`)
	headerStatus   = regexp.MustCompile(`(?i)\*\*Status(?::\*\*|\*\*:)\s*([^\n|*]+)`)
	headerBranch   = regexp.MustCompile("(?i)\\*\\*Branch(?::\\*\\*|\\*\\*:)\\s*`?([^`\\n|*]+)`?")
	headerIssue    = regexp.MustCompile(`(?i)\*\*Issue(?::\*\*|\*\*:)\s*(#\d+|\S+/issues/\d+)`)
	headerCreated  = regexp.MustCompile(`(?i)\*\*(?:Created|Date)(?::\*\*|\*\*:)\s*(\d{4}-\d{2}-\d{2})`)
)

// parseHeaderMeta scans the first 50 lines for bold-label metadata.
func parseHeaderMeta(text string) headerMeta {
	lines := strings.Split(text, "\n")
	if len(lines) > 50 {
		lines = lines[:50]
	}
	head := strings.Join(lines, "\n")

	var meta headerMeta
	if m := headerPriority.FindStringSubmatch(head); m != nil {
		meta.priority = strings.TrimSpace(m[1])
	}
	if m := headerStatus.FindStringSubmatch(head); m != nil {
		meta.status = strings.TrimSpace(m[1])
	}
	if m := headerBranch.FindStringSubmatch(head); m != nil {
		meta.branch = strings.TrimSpace(m[1])
	}
	if m := headerIssue.FindStringSubmatch(head); m != nil {
		meta.issue = strings.TrimSpace(m[1])
	}
	if m := headerCreated.FindStringSubmatch(head); m != nil {
		meta.created = strings.TrimSpace(m[1])
	}
	return meta
}

var displayDatePrefix = regexp.MustCompile(`^\d{6}(-\d{4})?-`)

// displayNameFromID turns a directory name like "260102-0609-claude-kit"
// into "Claude Kit": the date prefix is dropped and the remaining
// kebab-case words are title-cased.
func displayNameFromID(id string) string {
	name := displayDatePrefix.ReplaceAllString(id, "")

	words := strings.Split(name, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

var firstSentence = regexp.MustCompile(`^(.*?[.!?])(\s|$)`)

// extractOverviewDescription takes the paragraph under "## Overview" and
// returns its first sentence, or the first 150 characters when no
// sentence boundary is found.
func extractOverviewDescription(text string) string {
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "## Overview") {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}

	var paragraph []string
	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			break
		}
		if trimmed != "" {
			paragraph = append(paragraph, trimmed)
		}
	}

	joined := strings.TrimSpace(strings.Join(paragraph, " "))
	if joined == "" {
		return ""
	}
	if m := firstSentence.FindStringSubmatch(joined); m != nil {
		return m[1]
	}
	if len(joined) > 150 {
		return joined[:150]
	}
	return joined
}

// parseDate accepts the date shapes plan authors actually use.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
