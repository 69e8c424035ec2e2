package align

import (
	"regexp"
	"strings"
)

var (
	// word characters are letters, digits and underscore in any
	// script, not just ascii
	nonWordRE    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

//
// reduce raw text to the word sequence used for comparison:
// strip punctuation, collapse whitespace, lowercase, split.
// empty or whitespace-only input yields an empty sequence.
//
func Tokenize(text string) []string {

	cleaned := nonWordRE.ReplaceAllString(text, "")
	cleaned = whitespaceRE.ReplaceAllString(cleaned, " ")
	cleaned = strings.ToLower(strings.TrimSpace(cleaned))

	if cleaned == "" {
		return nil
	}

	return strings.Split(cleaned, " ")
}
