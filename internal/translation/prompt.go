package translation

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// MaxPromptGraphemes caps how much source text is forwarded to a backend.
const MaxPromptGraphemes = 20000

// BuildPrompt generates the instruction prompt for the given reading level.
// The reply contract is a single JSON object.
func BuildPrompt(sourceText string, level ReadingLevel) string {
	level = ParseReadingLevel(string(level))
	text, truncated := truncateGraphemes(sourceText, MaxPromptGraphemes)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You translate legal and contractual text into plain language that %s can understand.\n", level.Audience())
	sb.WriteString("Rewrite the document below in plain language, classify it, and rate how unfavorable it is to the person agreeing to it.\n\n")
	sb.WriteString("Output rules:\n")
	sb.WriteString("- Respond ONLY with a JSON object. No code fences, no commentary.\n")
	sb.WriteString("- The object MUST have these fields:\n")
	fmt.Fprintf(&sb, "  - \"translation\": the plain-language version, written for %s.\n", level.Audience())
	sb.WriteString("  - \"documentType\": a short classification such as \"Privacy Policy\", \"Terms of Service\", \"Lease Agreement\" or \"Liability Waiver\".\n")
	fmt.Fprintf(&sb, "  - \"riskScore\": an integer from %d (harmless) to %d (very unfavorable to the reader).\n", MinRiskScore, MaxRiskScore)
	sb.WriteString("  - \"concerns\": an array of short strings naming the clauses the reader should worry about. Use [] if there are none.\n")
	if truncated {
		sb.WriteString("\nThe document was truncated; translate only the part shown.\n")
	}
	sb.WriteString("\nDocument:\n")
	sb.WriteString(text)
	return sb.String()
}

// truncateGraphemes keeps at most limit user-perceived characters of s.
func truncateGraphemes(s string, limit int) (string, bool) {
	if limit <= 0 || uniseg.GraphemeClusterCount(s) <= limit {
		return s, false
	}
	var sb strings.Builder
	g := uniseg.NewGraphemes(s)
	for n := 0; n < limit && g.Next(); n++ {
		sb.WriteString(g.Str())
	}
	return sb.String(), true
}
