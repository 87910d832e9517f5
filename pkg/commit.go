package releaseflow

import (
	"strings"

	conventionalcommits "github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"
)

// ClassifiedCommit is the structural form of a conventional commit message.
type ClassifiedCommit struct {
	Type        string
	Scope       string
	Description string
	Breaking    bool
}

// breakingFooters are the footer tokens that mark a breaking change.
var breakingFooters = []string{"BREAKING CHANGE:", "BREAKING-CHANGE:"}

// Classify parses a commit message as a Conventional Commit. The second
// return value is false when the summary line does not follow the
// "type(scope): description" grammar; that is not an error, such commits
// simply carry no version significance.
//
// Only the summary line goes through the grammar. Bodies and footers are
// free text here, and breaking-change footers are found by a line scan.
func Classify(message string) (ClassifiedCommit, bool) {
	trimmed := strings.TrimSpace(message)
	summary, _, _ := strings.Cut(trimmed, "\n")
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return ClassifiedCommit{}, false
	}

	m := parser.NewMachine(conventionalcommits.WithTypes(conventionalcommits.TypesFreeForm))
	res, err := m.Parse([]byte(summary))
	if err != nil || res == nil {
		return ClassifiedCommit{}, false
	}
	cc, ok := res.(*conventionalcommits.ConventionalCommit)
	if !ok || cc.Type == "" || cc.Description == "" {
		return ClassifiedCommit{}, false
	}

	// The parser folds the type to lower case; types match case-sensitively.
	if len(cc.Type) > len(summary) {
		return ClassifiedCommit{}, false
	}
	typ := summary[:len(cc.Type)]
	if !strings.EqualFold(typ, cc.Type) {
		return ClassifiedCommit{}, false
	}

	c := ClassifiedCommit{
		Type:        typ,
		Description: cc.Description,
		Breaking:    cc.Exclamation || hasBreakingFooter(trimmed),
	}
	if cc.Scope != nil {
		c.Scope = *cc.Scope
	}
	return c, true
}

// hasBreakingFooter looks for a breaking-change footer below the summary line.
func hasBreakingFooter(message string) bool {
	_, rest, found := strings.Cut(message, "\n")
	if !found {
		return false
	}
	for _, line := range strings.Split(rest, "\n") {
		line = strings.TrimSpace(line)
		for _, token := range breakingFooters {
			if strings.HasPrefix(line, token) {
				return true
			}
		}
	}
	return false
}
