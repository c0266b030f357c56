package licenses

import _ "embed"

//go:embed embedded/DISCLAIMER.md
var disclaimerText string

// DisclaimerText returns the full disclaimer shipped with the binary.
func DisclaimerText() string {
	return disclaimerText
}

// ShortNotice is the one-line reminder printed under translations.
func ShortNotice() string {
	return "This is an aid to reading, not legal advice. Run `legalese disclaimer` for details."
}
