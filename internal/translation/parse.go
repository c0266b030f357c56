package translation

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// UnknownDocumentType is used when a reply does not classify the document.
const UnknownDocumentType = "Unknown"

var (
	// Go's RE2 has no backreferences, so each tag pair is listed.
	reasoningBlockRe = regexp.MustCompile(`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`)

	surroundingFenceRe = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*[ \t]*\n?(.*?)\n?[ \t]*```$")
	embeddedFenceRe    = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \t]*\n?(.*?)```")

	riskLabelRe        = regexp.MustCompile(`(?i)\brisk(?:[ _]?score)?\s*[:=]\s*\**\s*(-?\d+)`)
	translationLabelRe = regexp.MustCompile(`(?i)\btranslation\s*:\s*\**`)
)

// structuredReply mirrors the JSON object requested by BuildPrompt.
type structuredReply struct {
	Translation  *string         `json:"translation"`
	DocumentType string          `json:"documentType"`
	RiskScore    json.RawMessage `json:"riskScore"`
	Concerns     json.RawMessage `json:"concerns"`
}

// Parse turns a backend reply into a Result. It never fails: replies that are
// not structured degrade to label extraction and finally to plain text.
func Parse(reply string) Result {
	text := cleanReply(reply)

	res, ok := parseStructured(text)
	if !ok {
		res, ok = parseLabeled(text)
	}
	if !ok {
		res = Result{
			Translation:  text,
			DocumentType: UnknownDocumentType,
			RiskScore:    DefaultRiskScore,
		}
	}

	if strings.TrimSpace(res.DocumentType) == "" {
		res.DocumentType = UnknownDocumentType
	}
	res.finalize()
	return res
}

// cleanReply removes reasoning blocks and a code fence wrapping the whole reply.
func cleanReply(reply string) string {
	text := reasoningBlockRe.ReplaceAllString(reply, "")
	text = strings.TrimSpace(text)
	if m := surroundingFenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	return text
}

func parseStructured(text string) (Result, bool) {
	for _, candidate := range structuredCandidates(text) {
		if res, ok := decodeStructured(candidate); ok {
			return res, true
		}
	}
	return Result{}, false
}

// structuredCandidates lists the substrings worth decoding, most specific first.
func structuredCandidates(text string) []string {
	candidates := []string{text}
	if m := embeddedFenceRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if i := strings.Index(text, "{"); i >= 0 {
		if j := strings.LastIndex(text, "}"); j > i {
			candidates = append(candidates, text[i:j+1])
		}
	}
	return candidates
}

func decodeStructured(s string) (Result, bool) {
	if !strings.HasPrefix(strings.TrimSpace(s), "{") {
		return Result{}, false
	}
	var raw structuredReply
	if err := json.Unmarshal([]byte(s), &raw); err != nil || raw.Translation == nil {
		return Result{}, false
	}

	score, ok := decodeScore(raw.RiskScore)
	if !ok {
		score = DefaultRiskScore
	}
	return Result{
		Translation:  *raw.Translation,
		DocumentType: raw.DocumentType,
		RiskScore:    score,
		Concerns:     decodeConcerns(raw.Concerns),
	}, true
}

// decodeScore accepts a JSON number or a numeric string.
func decodeScore(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return roundScore(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return roundScore(f)
		}
	}
	return 0, false
}

// roundScore clamps before converting; int() of a float beyond the int range is undefined.
func roundScore(f float64) (int, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	f = math.Max(MinRiskScore, math.Min(MaxRiskScore, f))
	return int(math.Round(f)), true
}

// decodeConcerns accepts an array of strings or a single string; blanks are dropped.
func decodeConcerns(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var single string
		if err := json.Unmarshal(raw, &single); err != nil {
			return []string{}
		}
		list = []string{single}
	}
	out := make([]string, 0, len(list))
	for _, c := range list {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}

// parseLabeled handles "TRANSLATION: ... RISK: n" style replies.
func parseLabeled(text string) (Result, bool) {
	loc := riskLabelRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return Result{}, false
	}
	f, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
	if err != nil {
		return Result{}, false
	}
	score, _ := roundScore(f)

	segment := text[:loc[0]]
	if labels := translationLabelRe.FindAllStringIndex(segment, -1); len(labels) > 0 {
		segment = segment[labels[len(labels)-1][1]:]
	}
	translation := strings.TrimSpace(strings.Trim(strings.TrimSpace(segment), "*"))
	if translation == "" {
		return Result{}, false
	}
	return Result{
		Translation:  translation,
		DocumentType: UnknownDocumentType,
		RiskScore:    score,
	}, true
}
