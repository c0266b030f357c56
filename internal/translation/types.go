package translation

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ReadingLevel selects the audience a translation is written for.
type ReadingLevel string

const (
	LevelSimple       ReadingLevel = "simple"
	LevelGeneral      ReadingLevel = "general"
	LevelProfessional ReadingLevel = "professional"
)

// ParseReadingLevel maps user input to a ReadingLevel. Empty or unknown
// values resolve to LevelGeneral.
func ParseReadingLevel(s string) ReadingLevel {
	switch ReadingLevel(strings.ToLower(strings.TrimSpace(s))) {
	case LevelSimple:
		return LevelSimple
	case LevelProfessional:
		return LevelProfessional
	default:
		return LevelGeneral
	}
}

// Audience returns the phrase used to describe the reader in backend prompts.
func (l ReadingLevel) Audience() string {
	switch l {
	case LevelSimple:
		return "a 5th grader"
	case LevelProfessional:
		return "business professionals"
	default:
		return "the general public"
	}
}

// RiskLevel is the banding of a risk score used by front ends for styling.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

const (
	MinRiskScore     = 1
	MaxRiskScore     = 10
	DefaultRiskScore = 5
)

// RiskLevelFor derives the risk band from a score.
func RiskLevelFor(score int) RiskLevel {
	switch {
	case score >= 7:
		return RiskHigh
	case score >= 4:
		return RiskModerate
	default:
		return RiskLow
	}
}

// ClampRiskScore bounds score to [MinRiskScore, MaxRiskScore].
func ClampRiskScore(score int) int {
	if score < MinRiskScore {
		return MinRiskScore
	}
	if score > MaxRiskScore {
		return MaxRiskScore
	}
	return score
}

// Request is a single translate action. It is never persisted.
type Request struct {
	SourceText   string
	ReadingLevel ReadingLevel
	// Credential is the backend API key. Empty selects demo mode.
	Credential string
}

// Normalize trims and NFC-normalizes the text and resolves the reading level.
func (r Request) Normalize() Request {
	r.SourceText = norm.NFC.String(strings.TrimSpace(r.SourceText))
	r.ReadingLevel = ParseReadingLevel(string(r.ReadingLevel))
	r.Credential = strings.TrimSpace(r.Credential)
	return r
}

// Result is the normalized outcome handed to a presentation layer.
type Result struct {
	Translation  string    `json:"translation"`
	DocumentType string    `json:"documentType"`
	RiskScore    int       `json:"riskScore"`
	RiskLevel    RiskLevel `json:"riskLevel"`
	Concerns     []string  `json:"concerns"`
	Demo         bool      `json:"demo,omitempty"`
	Model        string    `json:"model,omitempty"`
}

// finalize enforces the score range, the derived level and a non-nil concerns slice.
func (r *Result) finalize() {
	r.RiskScore = ClampRiskScore(r.RiskScore)
	r.RiskLevel = RiskLevelFor(r.RiskScore)
	if r.Concerns == nil {
		r.Concerns = []string{}
	}
}

// Usage holds token accounting reported by a backend.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Reply is the raw backend output. Text is consumed once by Parse.
type Reply struct {
	Text  string
	Model string
	Usage Usage
}

// Backend sends a prompt to an external text-generation service.
type Backend interface {
	Complete(ctx context.Context, credential, prompt string) (*Reply, error)
}
