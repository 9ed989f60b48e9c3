package plan

import "strings"

// splitFrontmatter extracts the raw YAML block from a document that
// starts with a `---` fence. It returns the block body (without fences),
// the remaining document, and whether a complete block was found.
func splitFrontmatter(content string) (block, body string, ok bool) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") && normalized != "---" {
		return "", "", false
	}

	rest := strings.TrimPrefix(normalized, "---\n")
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", "", false
	}

	block = rest[:idx]
	body = rest[idx+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	return block, body, true
}
