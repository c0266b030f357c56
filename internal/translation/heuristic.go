package translation

import "strings"

type heuristicRule struct {
	keywords     []string
	documentType string
	riskScore    int
	concerns     []string
	simple       string
	standard     string
}

// Rules are checked in order; the first keyword hit wins.
var heuristicRules = []heuristicRule{
	{
		keywords:     []string{"privacy", "data"},
		documentType: "Privacy Policy",
		riskScore:    7,
		concerns:     []string{"Broad data collection", "Third-party sharing", "Limited control over data"},
		simple:       "This company collects information about you and can share it with other companies.",
		standard:     "This policy lets the company collect, use and share your personal data with third parties, and gives you limited control over how that data is handled.",
	},
	{
		keywords:     []string{"waiver", "liability"},
		documentType: "Liability Waiver",
		riskScore:    8,
		concerns:     []string{"Waives legal rights", "Limits liability", "Broad indemnification"},
		simple:       "If you get hurt or something goes wrong, you agree not to blame them or take them to court.",
		standard:     "By agreeing, you give up your right to hold the company responsible for injuries or losses, and you may have to cover its legal costs if someone else makes a claim.",
	},
}

var defaultRule = heuristicRule{
	documentType: "Legal Document",
	riskScore:    5,
	concerns:     []string{"Review all terms carefully", "Consider consulting a professional"},
	simple:       "These are rules you agree to follow when you use this service.",
	standard:     "This document sets out legal terms that define your rights and obligations. Read it carefully before you agree to it.",
}

// Heuristic produces a keyword-based translation without any network call.
// The output depends only on the arguments.
func Heuristic(sourceText string, level ReadingLevel) Result {
	lower := strings.ToLower(sourceText)
	rule := defaultRule
	for _, r := range heuristicRules {
		if containsAny(lower, r.keywords) {
			rule = r
			break
		}
	}

	text := rule.standard
	if ParseReadingLevel(string(level)) == LevelSimple {
		text = rule.simple
	}

	res := Result{
		Translation:  text,
		DocumentType: rule.documentType,
		RiskScore:    rule.riskScore,
		Concerns:     append([]string(nil), rule.concerns...),
	}
	res.finalize()
	return res
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
