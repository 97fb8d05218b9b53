package pipeline

import (
	"strings"

	"github.com/docsage/docsage/pkg/index"
)

// ContextSeparator delimits passages inside the assembled context block.
const ContextSeparator = "\n\n---\n\n"

// AssembleContext joins retrieved passage texts, in the order given, into
// the single context block injected into the grounded-answer instruction.
// Pure function; an empty match list yields an empty string, and the
// instruction's refusal rule handles the no-context case downstream.
func AssembleContext(matches []index.Match) string {
	if len(matches) == 0 {
		return ""
	}
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Text)
	}
	return strings.Join(texts, ContextSeparator)
}
