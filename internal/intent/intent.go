// Package intent provides stateless keyword classifiers for thank-you and
// exit utterances. Both match whole words only, so "goodbyeee" triggers
// neither. "bye" and "goodbye" deliberately appear in both vocabularies:
// the caller's ordering decides which wins (exit is checked first at the top
// level, thank-you only mid-cascade).
package intent

import (
	"regexp"
	"strings"
)

// ThankResponse is the canned reply to a detected thank-you. It does not end
// the session.
const ThankResponse = "You're very welcome! 😊"

var thankPhrases = []string{
	"thank you",
	"thanks",
	"thx",
	"appreciate",
	"much appreciated",
	"bye",
	"goodbye",
}

var exitWords = []string{
	"bye",
	"goodbye",
	"see you",
	"exit",
	"quit",
}

var (
	thankPatterns = compile(thankPhrases)
	exitPatterns  = compile(exitWords)
)

func compile(phrases []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(phrases))
	for i, p := range phrases {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`)
	}
	return patterns
}

// DetectThankYou reports whether text contains a thank-you phrase and
// returns the canned polite response.
func DetectThankYou(text string) (string, bool) {
	text = strings.TrimSpace(strings.ToLower(text))
	for _, p := range thankPatterns {
		if p.MatchString(text) {
			return ThankResponse, true
		}
	}
	return "", false
}

// DetectExit reports whether the user wants to end the session.
func DetectExit(text string) bool {
	text = strings.TrimSpace(strings.ToLower(text))
	for _, p := range exitPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
