package releaseflow

import (
	"strings"
)

// ChangelogHeading opens every rendered changelog.
const ChangelogHeading = "## Changes"

// RenderChangelog builds release notes from commit messages: the heading,
// then one bullet per commit holding its trimmed summary line. Commits with
// an empty summary are skipped; order is preserved. Non-conventional commits
// are rendered too, since the changelog shows history rather than bump input.
func RenderChangelog(messages []string) string {
	var b strings.Builder
	b.WriteString(ChangelogHeading)
	b.WriteString("\n\n")
	for _, msg := range messages {
		title := summaryLine(msg)
		if title == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(title)
		b.WriteString("\n")
	}
	return b.String()
}

func summaryLine(msg string) string {
	first, _, _ := strings.Cut(msg, "\n")
	return strings.TrimSpace(first)
}
