package plan

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ParsePhases extracts the ordered phase list from a plan document.
// Five extraction strategies are tried in fixed priority order and the
// first one producing any phases wins. Malformed markdown is never an
// error; if every strategy misses, the plan simply has no phases.
func ParsePhases(text, baseDir, ownPath string) []PhaseRecord {
	strategies := []func(text, baseDir, ownPath string) []PhaseRecord{
		parseMultiColumnTable,
		parseLinkTable,
		parseNumberedList,
		parseHeadingSections,
		parseCheckboxList,
	}

	for _, strategy := range strategies {
		if phases := strategy(text, baseDir, ownPath); len(phases) > 0 {
			return phases
		}
	}
	return nil
}

var (
	markdownLink = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	firstInteger = regexp.MustCompile(`\d+`)
)

// tableCells splits a pipe-delimited row into trimmed cells.
func tableCells(line string) []string {
	trimmed := strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// isSeparatorRow detects markdown table separator rows. Substring checks
// are intentional; this mirrors how plan authors actually write them.
func isSeparatorRow(line string) bool {
	return strings.Contains(line, "---") || strings.Contains(line, "===")
}

// cleanName strips bold markers and reduces markdown links to their text.
func cleanName(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = markdownLink.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

func isDigitsOnly(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func resolvePath(baseDir, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(baseDir, target)
}

// tableBlock is one run of consecutive pipe-delimited lines.
type tableBlock struct {
	lines []string
}

// findTables collects runs of consecutive pipe lines in document order.
func findTables(text string) []tableBlock {
	var tables []tableBlock
	var current []string

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "|") {
			current = append(current, line)
			continue
		}
		if len(current) > 0 {
			tables = append(tables, tableBlock{lines: current})
			current = nil
		}
	}
	if len(current) > 0 {
		tables = append(tables, tableBlock{lines: current})
	}
	return tables
}

// columnIndex returns the index of the first header cell whose lowered
// text equals one of the names, or -1.
func columnIndex(header []string, names ...string) int {
	for i, cell := range header {
		lower := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(cell, "**", "")))
		for _, n := range names {
			if lower == n {
				return i
			}
		}
	}
	return -1
}

// parseMultiColumnTable scans the document for a markdown table with a
// status column plus at least one of a phase-number, name, or description
// column. Tables missing those (a dependency matrix with an incidental
// status-named column, say) are skipped and the scan continues.
func parseMultiColumnTable(text, baseDir, ownPath string) []PhaseRecord {
	for _, table := range findTables(text) {
		header := tableCells(table.lines[0])

		statusCol := -1
		for i, cell := range header {
			if strings.Contains(strings.ToLower(cell), "status") {
				statusCol = i
				break
			}
		}
		if statusCol < 0 {
			continue
		}

		numberCol := columnIndex(header, "#", "order")
		phaseCol := columnIndex(header, "phase", "phase name")
		if phaseCol < 0 {
			phaseCol = columnIndex(header, "name", "title")
		}
		descCol := columnIndex(header, "description", "desc")
		linkCol := columnIndex(header, "link", "file")

		if numberCol < 0 && phaseCol < 0 && descCol < 0 {
			continue
		}

		phases := parseTableRows(table.lines[1:], statusCol, numberCol, phaseCol, descCol, linkCol, baseDir, ownPath)
		if len(phases) > 0 {
			return phases
		}
	}
	return nil
}

func parseTableRows(rows []string, statusCol, numberCol, phaseCol, descCol, linkCol int, baseDir, ownPath string) []PhaseRecord {
	var phases []PhaseRecord

	cellAt := func(cells []string, idx int) string {
		if idx < 0 || idx >= len(cells) {
			return ""
		}
		return cells[idx]
	}

	for _, row := range rows {
		if isSeparatorRow(row) {
			continue
		}
		cells := tableCells(row)

		statusCell := cellAt(cells, statusCol)
		if !hasStatusKeyword(statusCell) {
			continue
		}

		// Phase number: first integer in the number (or phase) column,
		// else sequential over accepted rows.
		number := len(phases) + 1
		numberSource := cellAt(cells, numberCol)
		if numberCol < 0 {
			numberSource = cellAt(cells, phaseCol)
		}
		if m := firstInteger.FindString(numberSource); m != "" {
			number, _ = strconv.Atoi(m)
		}

		// Name: description column, else phase/name column, else the
		// number column (link text preferred, bare digits rejected).
		name := cleanName(cellAt(cells, descCol))
		if name == "" {
			raw := cellAt(cells, phaseCol)
			if raw == "" {
				raw = cellAt(cells, numberCol)
			}
			if link := markdownLink.FindStringSubmatch(raw); link != nil {
				raw = link[1]
			}
			raw = cleanName(raw)
			if !isDigitsOnly(raw) {
				name = raw
			}
		}
		if name == "" {
			name = fmt.Sprintf("Phase %d", number)
		}

		phase := PhaseRecord{
			Number:     number,
			Name:       name,
			Status:     NormalizeStatus(statusCell),
			SourceFile: ownPath,
			LinkLabel:  name,
		}

		// A link to a phase detail file wins over the link column, no
		// matter which cell it appears in.
		if label, target, ok := findPhaseFileLink(cells); ok {
			phase.SourceFile = resolvePath(baseDir, target)
			phase.LinkLabel = label
		} else if link := markdownLink.FindStringSubmatch(cellAt(cells, linkCol)); link != nil {
			phase.SourceFile = resolvePath(baseDir, link[2])
			phase.LinkLabel = strings.TrimSpace(link[1])
		}

		phases = append(phases, phase)
	}
	return phases
}

// findPhaseFileLink scans every cell of a row for a markdown link whose
// target references a phase detail file. First match wins.
func findPhaseFileLink(cells []string) (label, target string, ok bool) {
	for _, cell := range cells {
		for _, m := range markdownLink.FindAllStringSubmatch(cell, -1) {
			if strings.Contains(m[2], "phase-") {
				return strings.TrimSpace(m[1]), m[2], true
			}
		}
	}
	return "", "", false
}

// linkTableRow matches rows shaped `| [Phase 1](path) | description | status |`.
var linkTableRow = regexp.MustCompile(`(?m)^\|\s*\[(?:Phase\s+)?(\d+)[^\]]*\]\(([^)]+)\)\s*\|([^|]*)\|([^|]*)\|`)

func parseLinkTable(text, baseDir, ownPath string) []PhaseRecord {
	var phases []PhaseRecord

	for _, m := range linkTableRow.FindAllStringSubmatch(text, -1) {
		status := strings.TrimSpace(m[4])
		if !hasStatusKeyword(status) {
			continue
		}

		number, _ := strconv.Atoi(m[1])
		name := cleanName(m[3])
		if name == "" {
			name = fmt.Sprintf("Phase %d", number)
		}

		phases = append(phases, PhaseRecord{
			Number:     number,
			Name:       name,
			Status:     NormalizeStatus(status),
			SourceFile: resolvePath(baseDir, m[2]),
			LinkLabel:  fmt.Sprintf("Phase %d", number),
		})
	}
	return phases
}

// numberedListItem matches lines like
// `1. **Database Schema** (12h) - ✅ COMPLETE - 12 tables created`.
// The status segment needs a recognized keyword, optionally preceded by a
// status emoji.
var numberedListItem = regexp.MustCompile(`(?mi)^\s*(\d+)\.\s+\*\*(.+?)\*\*([^-\n]*)-\s*((?:[✅🔄✓⏳]\s*)?(?:COMPLETED?|DONE|IN[- ]PROGRESS|PENDING|WIP|TODO|CANCELLED|NOT[- ]STARTED|PLANNED)\b.*)$`)

func parseNumberedList(text, _, ownPath string) []PhaseRecord {
	var phases []PhaseRecord

	for _, m := range numberedListItem.FindAllStringSubmatch(text, -1) {
		number, _ := strconv.Atoi(m[1])
		name := cleanName(m[2])
		if name == "" {
			name = fmt.Sprintf("Phase %d", number)
		}

		phases = append(phases, PhaseRecord{
			Number:     number,
			Name:       name,
			Status:     NormalizeStatus(m[4]),
			SourceFile: ownPath,
			LinkLabel:  name,
		})
	}
	return phases
}

var (
	phaseHeading = regexp.MustCompile(`(?i)^###\s+Phase\s+(\d+)[:\s]*(.*)$`)
	statusLine   = regexp.MustCompile(`(?i)^\s*-\s*Status:\s*(.+)$`)
)

// parseHeadingSections handles `### Phase N: Name` headings, each
// followed by an optional `- Status: <value>` line before the next
// heading. Phases without an explicit status line stay pending.
func parseHeadingSections(text, _, ownPath string) []PhaseRecord {
	var phases []PhaseRecord

	for _, line := range strings.Split(text, "\n") {
		if m := phaseHeading.FindStringSubmatch(line); m != nil {
			number, _ := strconv.Atoi(m[1])
			name := cleanName(m[2])
			if name == "" {
				name = fmt.Sprintf("Phase %d", number)
			}
			phases = append(phases, PhaseRecord{
				Number:     number,
				Name:       name,
				Status:     PhasePending,
				SourceFile: ownPath,
				LinkLabel:  name,
			})
			continue
		}

		if len(phases) == 0 {
			continue
		}
		if m := statusLine.FindStringSubmatch(line); m != nil {
			phases[len(phases)-1].Status = NormalizeStatus(m[1])
		}
	}
	return phases
}

// checkboxItem matches `- [x] **[Phase 1: Setup](./phase-01.md)**`.
var checkboxItem = regexp.MustCompile(`(?m)^\s*-\s*\[([ xX])\]\s*\*\*\[(?:Phase\s+)?(\d+)[:\s]*([^\]]*)\]\(([^)]+)\)\*\*`)

// parseCheckboxList handles checked/unchecked phase link lists. The
// checkbox alone decides the status: checked is completed, unchecked is
// pending. This format never yields in-progress.
func parseCheckboxList(text, baseDir, _ string) []PhaseRecord {
	var phases []PhaseRecord

	for _, m := range checkboxItem.FindAllStringSubmatch(text, -1) {
		number, _ := strconv.Atoi(m[2])
		name := strings.TrimSpace(m[3])
		if name == "" {
			name = fmt.Sprintf("Phase %d", number)
		}

		status := PhasePending
		if m[1] == "x" || m[1] == "X" {
			status = PhaseCompleted
		}

		phases = append(phases, PhaseRecord{
			Number:     number,
			Name:       name,
			Status:     status,
			SourceFile: resolvePath(baseDir, m[4]),
			LinkLabel:  name,
		})
	}
	return phases
}
